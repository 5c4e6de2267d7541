package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación del puerto StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de persistencia del saldo materializado.
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el saldo del par (producto, bodega), o nil si no existe fila.
func (r *StockRepo) Get(productID, warehouseID string) (*entity.Stock, error) {
	return r.get(productID, warehouseID, false)
}

// GetForUpdate bloquea la fila del saldo con SELECT FOR UPDATE. Debe llamarse
// dentro de una transacción; es el punto de serialización de las escrituras del par.
func (r *StockRepo) GetForUpdate(productID, warehouseID string) (*entity.Stock, error) {
	return r.get(productID, warehouseID, true)
}

func (r *StockRepo) get(productID, warehouseID string, forUpdate bool) (*entity.Stock, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stocks WHERE product_id = $1 AND warehouse_id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert escribe el saldo del par, creando la fila si no existe.
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stocks (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		stock.ProductID, stock.WarehouseID, stock.Quantity, stock.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}
