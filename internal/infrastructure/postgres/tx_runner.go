package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orangetec/calzapos/internal/application/cashclose"
	"github.com/orangetec/calzapos/internal/application/collections"
	"github.com/orangetec/calzapos/internal/application/inventory"
	"github.com/orangetec/calzapos/internal/application/sales"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos transaccionales de cada caso de uso.
var _ sales.TxRunner = (*TxRunner)(nil)
var _ collections.TxRunner = (*TxRunner)(nil)
var _ cashclose.TxRunner = (*TxRunner)(nil)
var _ cashclose.CashbookTxRunner = (*TxRunner)(nil)
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, pasando
// repositorios atados a la tx. Commit si el callback retorna nil, Rollback si no.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) run(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSale transacción para comprometer una venta.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	invoiceRepo repository.InvoiceRepository,
	seqRepo repository.SequenceRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(
			NewMovementRepository(q),
			NewStockRepository(q),
			NewInvoiceRepository(q),
			NewSequenceRepository(q),
			NewProductRepository(q),
		)
	})
}

// RunReversal transacción para confirmar una reversión.
func (r *TxRunner) RunReversal(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	invoiceRepo repository.InvoiceRepository,
	abonoRepo repository.AbonoRepository,
	tokenRepo repository.ReversalTokenRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(
			NewMovementRepository(q),
			NewStockRepository(q),
			NewInvoiceRepository(q),
			NewAbonoRepository(q),
			NewReversalTokenRepository(q),
		)
	})
}

// RunCollections transacción para mutaciones de cobranza.
func (r *TxRunner) RunCollections(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	abonoRepo repository.AbonoRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(
			NewInvoiceRepository(q),
			NewAbonoRepository(q),
			NewSequenceRepository(q),
		)
	})
}

// RunClosing transacción para el arqueo de caja: lecturas y escritura en un
// mismo snapshot.
func (r *TxRunner) RunClosing(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	receiptRepo repository.CashReceiptRepository,
	depositRepo repository.DepositRepository,
	closingRepo repository.CashClosingRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(
			NewInvoiceRepository(q),
			NewCashReceiptRepository(q),
			NewDepositRepository(q),
			NewCashClosingRepository(q),
		)
	})
}

// RunCashbook transacción para recibos de caja y depósitos.
func (r *TxRunner) RunCashbook(ctx context.Context, fn func(
	receiptRepo repository.CashReceiptRepository,
	depositRepo repository.DepositRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(
			NewCashReceiptRepository(q),
			NewDepositRepository(q),
			NewSequenceRepository(q),
		)
	})
}

// RunInventory transacción para ingresos/egresos de inventario.
func (r *TxRunner) RunInventory(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	docRepo repository.InventoryDocRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(
			NewMovementRepository(q),
			NewStockRepository(q),
			NewInventoryDocRepository(q),
		)
	})
}
