package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/orangetec/calzapos/internal/domain"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

var _ repository.CashReceiptRepository = (*CashReceiptRepo)(nil)

// CashReceiptRepo implementación del puerto CashReceiptRepository sobre PostgreSQL.
type CashReceiptRepo struct {
	q Querier
}

// NewCashReceiptRepository construye el adaptador de persistencia de recibos de caja.
func NewCashReceiptRepository(q Querier) *CashReceiptRepo {
	return &CashReceiptRepo{q: q}
}

// Create persiste un recibo de caja.
func (r *CashReceiptRepo) Create(rc *entity.CashReceipt) error {
	query := `
		INSERT INTO cash_receipts (id, sequence, number, branch_id, warehouse_id, type, description, date, currency, exchange_rate, amount_usd, amount_cs, affects_cash, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		rc.ID, rc.Sequence, rc.Number, rc.BranchID, rc.WarehouseID, rc.Type,
		rc.Description, rc.Date, rc.Currency, rc.ExchangeRate,
		rc.AmountUSD, rc.AmountCS, rc.AffectsCash, rc.CreatedBy, rc.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cash receipt: %w", err)
	}
	return nil
}

// GetByID obtiene un recibo por ID, o nil si no existe.
func (r *CashReceiptRepo) GetByID(id string) (*entity.CashReceipt, error) {
	query := `
		SELECT id, sequence, number, branch_id, warehouse_id, type, COALESCE(description, ''), date, currency, exchange_rate, amount_usd, amount_cs, affects_cash, created_by, created_at
		FROM cash_receipts WHERE id = $1`
	var rc entity.CashReceipt
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&rc.ID, &rc.Sequence, &rc.Number, &rc.BranchID, &rc.WarehouseID, &rc.Type,
		&rc.Description, &rc.Date, &rc.Currency, &rc.ExchangeRate,
		&rc.AmountUSD, &rc.AmountCS, &rc.AffectsCash, &rc.CreatedBy, &rc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash receipt: %w", err)
	}
	return &rc, nil
}

// SumUSDForDay suma en USD los recibos del tipo que afectan caja en la fecha.
// Cada recibo aporta su monto USD registrado; los córdobas sin USD registrado se
// convierten con la tasa de respaldo.
func (r *CashReceiptRepo) SumUSDForDay(branchID, warehouseID, receiptType string, date time.Time, fallbackRate decimal.Decimal) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN amount_usd <> 0 THEN amount_usd
			     ELSE ROUND(amount_cs / $5, 2) END), 0)
		FROM cash_receipts
		WHERE branch_id = $1 AND warehouse_id = $2 AND type = $3
		  AND date::date = $4::date AND affects_cash`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, branchID, warehouseID, receiptType, date, fallbackRate).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum cash receipts for day: %w", err)
	}
	return sum, nil
}
