package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/orangetec/calzapos/internal/domain"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo lectura del catálogo de productos sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de lectura de productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, code, COALESCE(description, ''), COALESCE(brand, ''), price1_cs, price2_cs, price3_cs, price1_usd, price2_usd, price3_usd, cost_cs, COALESCE(last_rate, 0), is_service, active, created_at, updated_at`

// GetByID obtiene un producto por ID, o nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanProduct(r.q.QueryRow(context.Background(), query, id))
}

// GetByCode obtiene un producto por código único, o nil si no existe.
func (r *ProductRepo) GetByCode(code string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE code = $1`
	return r.scanProduct(r.q.QueryRow(context.Background(), query, code))
}

func (r *ProductRepo) scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Description, &p.Brand,
		&p.Price1CS, &p.Price2CS, &p.Price3CS,
		&p.Price1USD, &p.Price2USD, &p.Price3USD,
		&p.CostCS, &p.LastRate, &p.IsService, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// UpdateLastRate sella la última tasa de cambio aplicada a los precios del producto.
func (r *ProductRepo) UpdateLastRate(id string, rate decimal.Decimal) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE products SET last_rate = $2, updated_at = NOW() WHERE id = $1`, id, rate)
	if err != nil {
		return fmt.Errorf("update product last rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
