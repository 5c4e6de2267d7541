package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

var _ repository.DepositRepository = (*DepositRepo)(nil)

// DepositRepo implementación del puerto DepositRepository sobre PostgreSQL.
type DepositRepo struct {
	q Querier
}

// NewDepositRepository construye el adaptador de persistencia de depósitos.
func NewDepositRepository(q Querier) *DepositRepo {
	return &DepositRepo{q: q}
}

// Create persiste un depósito bancario.
func (r *DepositRepo) Create(d *entity.Deposit) error {
	query := `
		INSERT INTO deposits (id, branch_id, warehouse_id, salesperson_id, bank_id, bank_account_id, date, currency, exchange_rate, amount_usd, amount_cs, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.BranchID, d.WarehouseID, nullIfEmpty(d.SalespersonID),
		d.BankID, nullIfEmpty(d.BankAccountID), d.Date, d.Currency, d.ExchangeRate,
		d.AmountUSD, d.AmountCS, nullIfEmpty(d.Note), d.CreatedBy, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deposit: %w", err)
	}
	return nil
}

// GetByID obtiene un depósito por ID, o nil si no existe.
func (r *DepositRepo) GetByID(id string) (*entity.Deposit, error) {
	query := `
		SELECT id, branch_id, warehouse_id, COALESCE(salesperson_id, ''), bank_id, COALESCE(bank_account_id, ''), date, currency, exchange_rate, amount_usd, amount_cs, COALESCE(note, ''), created_by, created_at
		FROM deposits WHERE id = $1`
	var d entity.Deposit
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.BranchID, &d.WarehouseID, &d.SalespersonID,
		&d.BankID, &d.BankAccountID, &d.Date, &d.Currency, &d.ExchangeRate,
		&d.AmountUSD, &d.AmountCS, &d.Note, &d.CreatedBy, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deposit: %w", err)
	}
	return &d, nil
}

// SumUSDForDay suma en USD los depósitos de la sucursal/bodega en la fecha, con
// tasa de respaldo para los depósitos en córdobas sin USD registrado.
func (r *DepositRepo) SumUSDForDay(branchID, warehouseID string, date time.Time, fallbackRate decimal.Decimal) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN amount_usd <> 0 THEN amount_usd
			     ELSE ROUND(amount_cs / $4, 2) END), 0)
		FROM deposits
		WHERE branch_id = $1 AND warehouse_id = $2 AND date::date = $3::date`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, branchID, warehouseID, date, fallbackRate).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum deposits for day: %w", err)
	}
	return sum, nil
}
