package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de persistencia del libro de movimientos.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta un movimiento. El libro es append-only: no hay Update ni Delete.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, transaction_id, product_id, warehouse_id, type, quantity, unit_cost_cs, unit_cost_usd, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.TransactionID, m.ProductID, m.WarehouseID, m.Type,
		m.Quantity, m.UnitCostCS, m.UnitCostUSD, m.Date, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// Balance suma las cantidades con signo del par (producto, bodega), excluyendo
// movimientos cuya factura padre está ANULADA. Par desconocido suma cero.
func (r *MovementRepo) Balance(productID, warehouseID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(m.quantity), 0)
		FROM movements m
		LEFT JOIN invoices i ON i.id = m.transaction_id
		WHERE m.product_id = $1 AND m.warehouse_id = $2
		  AND (i.id IS NULL OR i.status <> $3)`
	var balance decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID, entity.InvoiceStatusVoid).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return balance, nil
}

// ListByTransaction devuelve los movimientos de un documento padre, en orden de creación.
func (r *MovementRepo) ListByTransaction(transactionID string) ([]*entity.Movement, error) {
	query := `
		SELECT id, transaction_id, product_id, warehouse_id, type, quantity, unit_cost_cs, unit_cost_usd, date, created_at, created_by
		FROM movements WHERE transaction_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list movements by transaction: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByWarehouse devuelve movimientos de una bodega en un rango de fechas opcional.
func (r *MovementRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT id, transaction_id, product_id, warehouse_id, type, quantity, unit_cost_cs, unit_cost_usd, date, created_at, created_by
		FROM movements
		WHERE warehouse_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date < $3)
		ORDER BY date DESC, created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, warehouseID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by warehouse: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(
			&m.ID, &m.TransactionID, &m.ProductID, &m.WarehouseID, &m.Type,
			&m.Quantity, &m.UnitCostCS, &m.UnitCostUSD, &m.Date, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}
	return out, nil
}
