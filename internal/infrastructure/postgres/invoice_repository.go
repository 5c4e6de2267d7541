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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación del puerto InvoiceRepository sobre PostgreSQL (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador de persistencia de facturas.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, sequence, number, branch_id, warehouse_id, customer_id, salesperson_id, date, currency, exchange_rate, total_usd, total_cs, total_items, status, collection_status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.Sequence, inv.Number, inv.BranchID, inv.WarehouseID,
		inv.CustomerID, nullIfEmpty(inv.SalespersonID), inv.Date, inv.Currency, inv.ExchangeRate,
		inv.TotalUSD, inv.TotalCS, inv.TotalItems, inv.Status, inv.CollectionStatus,
		inv.CreatedBy, inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la factura.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, quantity, unit_price_usd, unit_price_cs, subtotal_usd, subtotal_cs, combo_role, combo_group)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ProductID, item.Quantity,
		item.UnitPriceUSD, item.UnitPriceCS, item.SubtotalUSD, item.SubtotalCS,
		nullIfEmpty(item.ComboRole), nullIfEmpty(item.ComboGroup),
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// CreatePayment persiste un pago aplicado al momento de la venta.
func (r *InvoiceRepo) CreatePayment(p *entity.Payment) error {
	query := `
		INSERT INTO invoice_payments (id, invoice_id, payment_method_id, bank_id, bank_account_id, amount_usd, amount_cs)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.InvoiceID, p.PaymentMethodID, nullIfEmpty(p.BankID), nullIfEmpty(p.BankAccountID),
		p.AmountUSD, p.AmountCS,
	)
	if err != nil {
		return fmt.Errorf("insert invoice payment: %w", err)
	}
	return nil
}

const invoiceColumns = `id, sequence, number, branch_id, warehouse_id, customer_id, COALESCE(salesperson_id, ''), date, currency, exchange_rate, total_usd, total_cs, total_items, status, collection_status, COALESCE(reversal_reason, ''), COALESCE(reversed_by, ''), reversed_at, created_by, created_at`

// GetByID obtiene una factura por ID, o nil si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.scanInvoice(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate bloquea la fila de la factura. Debe llamarse dentro de una transacción.
func (r *InvoiceRepo) GetForUpdate(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	return r.scanInvoice(r.q.QueryRow(context.Background(), query, id))
}

func (r *InvoiceRepo) scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.Sequence, &inv.Number, &inv.BranchID, &inv.WarehouseID,
		&inv.CustomerID, &inv.SalespersonID, &inv.Date, &inv.Currency, &inv.ExchangeRate,
		&inv.TotalUSD, &inv.TotalCS, &inv.TotalItems, &inv.Status, &inv.CollectionStatus,
		&inv.ReversalReason, &inv.ReversedBy, &inv.ReversedAt, &inv.CreatedBy, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// GetItems devuelve las líneas de la factura.
func (r *InvoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_id, quantity, unit_price_usd, unit_price_cs, subtotal_usd, subtotal_cs, COALESCE(combo_role, ''), COALESCE(combo_group, '')
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var out []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.ProductID, &it.Quantity,
			&it.UnitPriceUSD, &it.UnitPriceCS, &it.SubtotalUSD, &it.SubtotalCS,
			&it.ComboRole, &it.ComboGroup,
		); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out = append(out, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice items: %w", err)
	}
	return out, nil
}

// GetPayments devuelve los pagos de la factura.
func (r *InvoiceRepo) GetPayments(invoiceID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, invoice_id, payment_method_id, COALESCE(bank_id, ''), COALESCE(bank_account_id, ''), amount_usd, amount_cs
		FROM invoice_payments WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice payments: %w", err)
	}
	defer rows.Close()

	var out []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(
			&p.ID, &p.InvoiceID, &p.PaymentMethodID, &p.BankID, &p.BankAccountID,
			&p.AmountUSD, &p.AmountCS,
		); err != nil {
			return nil, fmt.Errorf("scan invoice payment: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice payments: %w", err)
	}
	return out, nil
}

// MarkVoided cambia el estado a ANULADA y sella los metadatos de reversión.
func (r *InvoiceRepo) MarkVoided(id, reason, actor string, at time.Time) error {
	query := `
		UPDATE invoices
		SET status = $2, reversal_reason = $3, reversed_by = $4, reversed_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, entity.InvoiceStatusVoid, reason, actor, at)
	if err != nil {
		return fmt.Errorf("mark invoice voided: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetCollectionStatus actualiza solo el estado de cobranza.
func (r *InvoiceRepo) SetCollectionStatus(id, status string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE invoices SET collection_status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set collection status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SalesUSDForDay suma los totales USD de las facturas ACTIVAS de la
// sucursal/bodega en la fecha. Cada factura aporta el total USD registrado con
// su propia tasa.
func (r *InvoiceRepo) SalesUSDForDay(branchID, warehouseID string, date time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_usd), 0)
		FROM invoices
		WHERE branch_id = $1 AND warehouse_id = $2 AND date::date = $3::date AND status = $4`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, branchID, warehouseID, date, entity.InvoiceStatusActive).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum sales for day: %w", err)
	}
	return sum, nil
}

// PendingCreditForDay devuelve las facturas ACTIVAS con cobranza PENDIENTE de la
// fecha, con sus totales y la suma de abonos aplicados hasta el momento.
func (r *InvoiceRepo) PendingCreditForDay(branchID, warehouseID string, date time.Time) ([]*repository.PendingCredit, error) {
	query := `
		SELECT i.id, i.currency, i.total_usd, i.total_cs,
		       COALESCE(SUM(a.amount_usd), 0), COALESCE(SUM(a.amount_cs), 0)
		FROM invoices i
		LEFT JOIN abonos a ON a.invoice_id = i.id
		WHERE i.branch_id = $1 AND i.warehouse_id = $2 AND i.date::date = $3::date
		  AND i.status = $4 AND i.collection_status = $5
		GROUP BY i.id, i.currency, i.total_usd, i.total_cs`
	rows, err := r.q.Query(context.Background(), query,
		branchID, warehouseID, date, entity.InvoiceStatusActive, entity.CollectionStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending credit for day: %w", err)
	}
	defer rows.Close()

	var out []*repository.PendingCredit
	for rows.Next() {
		var pc repository.PendingCredit
		if err := rows.Scan(&pc.InvoiceID, &pc.Currency, &pc.TotalUSD, &pc.TotalCS, &pc.AbonosUSD, &pc.AbonosCS); err != nil {
			return nil, fmt.Errorf("scan pending credit: %w", err)
		}
		out = append(out, &pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending credit: %w", err)
	}
	return out, nil
}
