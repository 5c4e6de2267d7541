package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/orangetec/calzapos/internal/domain"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

var _ repository.CashClosingRepository = (*CashClosingRepo)(nil)

// CashClosingRepo implementación del puerto CashClosingRepository sobre PostgreSQL.
// El detalle por denominación se persiste como JSONB para auditoría.
type CashClosingRepo struct {
	q Querier
}

// NewCashClosingRepository construye el adaptador de persistencia de arqueos.
func NewCashClosingRepository(q Querier) *CashClosingRepo {
	return &CashClosingRepo{q: q}
}

// Create persiste el arqueo. La restricción única sobre
// (branch_id, warehouse_id, date) rechaza un segundo cierre del mismo día.
func (r *CashClosingRepo) Create(c *entity.CashClosing) error {
	detailCS, err := json.Marshal(c.DetailCS)
	if err != nil {
		return fmt.Errorf("encode closing detail cs: %w", err)
	}
	detailUSD, err := json.Marshal(c.DetailUSD)
	if err != nil {
		return fmt.Errorf("encode closing detail usd: %w", err)
	}
	query := `
		INSERT INTO cash_closings (id, branch_id, warehouse_id, date, detail_cs, detail_usd, counted_cs, counted_usd, counted_total_usd, sales_usd, receipts_usd, issues_usd, deposits_usd, credits_usd, expected_usd, variance_usd, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err = r.q.Exec(context.Background(), query,
		c.ID, c.BranchID, c.WarehouseID, c.Date, detailCS, detailUSD,
		c.CountedCS, c.CountedUSD, c.CountedTotalUSD,
		c.SalesUSD, c.ReceiptsUSD, c.IssuesUSD, c.DepositsUSD, c.CreditsUSD,
		c.ExpectedUSD, c.VarianceUSD, c.CreatedBy, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateClosing
		}
		return fmt.Errorf("insert cash closing: %w", err)
	}
	return nil
}

const closingColumns = `id, branch_id, warehouse_id, date, detail_cs, detail_usd, counted_cs, counted_usd, counted_total_usd, sales_usd, receipts_usd, issues_usd, deposits_usd, credits_usd, expected_usd, variance_usd, created_by, created_at`

// GetByID obtiene un arqueo por ID, o nil si no existe.
func (r *CashClosingRepo) GetByID(id string) (*entity.CashClosing, error) {
	query := `SELECT ` + closingColumns + ` FROM cash_closings WHERE id = $1`
	return r.scanClosing(r.q.QueryRow(context.Background(), query, id))
}

// GetByKey obtiene el arqueo de (sucursal, bodega, fecha), o nil si no existe.
func (r *CashClosingRepo) GetByKey(branchID, warehouseID string, date time.Time) (*entity.CashClosing, error) {
	query := `SELECT ` + closingColumns + ` FROM cash_closings WHERE branch_id = $1 AND warehouse_id = $2 AND date = $3::date`
	return r.scanClosing(r.q.QueryRow(context.Background(), query, branchID, warehouseID, date))
}

func (r *CashClosingRepo) scanClosing(row pgx.Row) (*entity.CashClosing, error) {
	var c entity.CashClosing
	var detailCS, detailUSD []byte
	err := row.Scan(
		&c.ID, &c.BranchID, &c.WarehouseID, &c.Date, &detailCS, &detailUSD,
		&c.CountedCS, &c.CountedUSD, &c.CountedTotalUSD,
		&c.SalesUSD, &c.ReceiptsUSD, &c.IssuesUSD, &c.DepositsUSD, &c.CreditsUSD,
		&c.ExpectedUSD, &c.VarianceUSD, &c.CreatedBy, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash closing: %w", err)
	}
	if err := json.Unmarshal(detailCS, &c.DetailCS); err != nil {
		return nil, fmt.Errorf("decode closing detail cs: %w", err)
	}
	if err := json.Unmarshal(detailUSD, &c.DetailUSD); err != nil {
		return nil, fmt.Errorf("decode closing detail usd: %w", err)
	}
	return &c, nil
}
