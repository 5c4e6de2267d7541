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

var _ repository.AbonoRepository = (*AbonoRepo)(nil)

// AbonoRepo implementación del puerto AbonoRepository sobre PostgreSQL (usable con pool o tx).
type AbonoRepo struct {
	q Querier
}

// NewAbonoRepository construye el adaptador de persistencia de abonos.
func NewAbonoRepository(q Querier) *AbonoRepo {
	return &AbonoRepo{q: q}
}

// Create persiste un abono nuevo.
func (r *AbonoRepo) Create(a *entity.Abono) error {
	query := `
		INSERT INTO abonos (id, invoice_id, branch_id, warehouse_id, sequence, number, date, currency, exchange_rate, amount_usd, amount_cs, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.InvoiceID, a.BranchID, a.WarehouseID, a.Sequence, a.Number,
		a.Date, a.Currency, a.ExchangeRate, a.AmountUSD, a.AmountCS,
		nullIfEmpty(a.Note), a.CreatedBy, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert abono: %w", err)
	}
	return nil
}

// Update reescribe los campos editables del abono (montos, fecha, nota).
func (r *AbonoRepo) Update(a *entity.Abono) error {
	query := `
		UPDATE abonos
		SET date = $2, currency = $3, exchange_rate = $4, amount_usd = $5, amount_cs = $6, note = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		a.ID, a.Date, a.Currency, a.ExchangeRate, a.AmountUSD, a.AmountCS, nullIfEmpty(a.Note),
	)
	if err != nil {
		return fmt.Errorf("update abono: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el abono.
func (r *AbonoRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM abonos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete abono: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const abonoColumns = `id, invoice_id, branch_id, warehouse_id, sequence, number, date, currency, exchange_rate, amount_usd, amount_cs, COALESCE(note, ''), created_by, created_at`

// GetByID obtiene un abono por ID, o nil si no existe.
func (r *AbonoRepo) GetByID(id string) (*entity.Abono, error) {
	query := `SELECT ` + abonoColumns + ` FROM abonos WHERE id = $1`
	var a entity.Abono
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.InvoiceID, &a.BranchID, &a.WarehouseID, &a.Sequence, &a.Number,
		&a.Date, &a.Currency, &a.ExchangeRate, &a.AmountUSD, &a.AmountCS,
		&a.Note, &a.CreatedBy, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get abono: %w", err)
	}
	return &a, nil
}

// ListByInvoice devuelve los abonos de la factura en orden cronológico.
func (r *AbonoRepo) ListByInvoice(invoiceID string) ([]*entity.Abono, error) {
	query := `SELECT ` + abonoColumns + ` FROM abonos WHERE invoice_id = $1 ORDER BY date, created_at`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list abonos: %w", err)
	}
	defer rows.Close()

	var out []*entity.Abono
	for rows.Next() {
		var a entity.Abono
		if err := rows.Scan(
			&a.ID, &a.InvoiceID, &a.BranchID, &a.WarehouseID, &a.Sequence, &a.Number,
			&a.Date, &a.Currency, &a.ExchangeRate, &a.AmountUSD, &a.AmountCS,
			&a.Note, &a.CreatedBy, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan abono: %w", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate abonos: %w", err)
	}
	return out, nil
}

// SumByInvoice devuelve la suma de abonos de la factura en ambas monedas.
func (r *AbonoRepo) SumByInvoice(invoiceID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount_usd), 0), COALESCE(SUM(amount_cs), 0)
		FROM abonos WHERE invoice_id = $1`
	var usd, cs decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, invoiceID).Scan(&usd, &cs)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum abonos: %w", err)
	}
	return usd, cs, nil
}

// CountByInvoice cuenta los abonos de la factura.
func (r *AbonoRepo) CountByInvoice(invoiceID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM abonos WHERE invoice_id = $1`, invoiceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count abonos: %w", err)
	}
	return n, nil
}
