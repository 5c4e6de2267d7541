package sales_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orangetec/calzapos/internal/application/sales"
	"github.com/orangetec/calzapos/internal/domain"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

// store es la "base de datos" en memoria compartida por todos los fakes de un
// test. No simula transacciones: los tests verifican semántica, no rollback.
type store struct {
	mu        sync.Mutex
	movements []*entity.Movement
	stocks    map[string]*entity.Stock // product|warehouse
	invoices  map[string]*entity.Invoice
	items     map[string][]*entity.InvoiceItem
	payments  map[string][]*entity.Payment
	abonos    map[string]*entity.Abono
	tokens    []*entity.ReversalToken
	products  map[string]*entity.Product
	branches  map[string]*entity.Branch
	whs       map[string]*entity.Warehouse
	customers map[string]*entity.Customer
	seqs      map[string]int64
	rate      decimal.Decimal // cero = sin tasa configurada
}

func newStore() *store {
	return &store{
		stocks:    make(map[string]*entity.Stock),
		invoices:  make(map[string]*entity.Invoice),
		items:     make(map[string][]*entity.InvoiceItem),
		payments:  make(map[string][]*entity.Payment),
		abonos:    make(map[string]*entity.Abono),
		products:  make(map[string]*entity.Product),
		branches:  make(map[string]*entity.Branch),
		whs:       make(map[string]*entity.Warehouse),
		customers: make(map[string]*entity.Customer),
		seqs:      make(map[string]int64),
	}
}

func stockKey(productID, warehouseID string) string { return productID + "|" + warehouseID }

// seedCatalog carga sucursal MAN, bodega, producto y cliente de prueba.
func (s *store) seedCatalog() {
	s.branches["b1"] = &entity.Branch{ID: "b1", Code: "MG", Name: "Managua Centro", Prefix: "MAN", Active: true}
	s.whs["w1"] = &entity.Warehouse{ID: "w1", Code: "BOD1", Name: "Bodega principal", BranchID: "b1", Active: true}
	s.products["p1"] = &entity.Product{
		ID: "p1", Code: "ZAP-001", Description: "Zapato casual", Brand: "Rockland",
		Price1USD: decimal.RequireFromString("5.00"),
		Price1CS:  decimal.RequireFromString("182.50"),
		CostCS:    decimal.RequireFromString("120.00"),
		Active:    true,
	}
	s.customers["c1"] = &entity.Customer{ID: "c1", Name: "Cliente Prueba", Active: true}
}

// seedStock escribe un ingreso inicial en el libro y materializa el saldo.
func (s *store) seedStock(productID, warehouseID string, qty decimal.Decimal) {
	s.movements = append(s.movements, &entity.Movement{
		ID: "seed-" + productID, TransactionID: "doc-seed", ProductID: productID,
		WarehouseID: warehouseID, Type: entity.MovementTypeRECEIPT, Quantity: qty,
		Date: time.Now(), CreatedAt: time.Now(),
	})
	s.stocks[stockKey(productID, warehouseID)] = &entity.Stock{
		ProductID: productID, WarehouseID: warehouseID, Quantity: qty, UpdatedAt: time.Now(),
	}
}

// ── Fakes de repositorios ─────────────────────────────────────────────────────

type fakeMovementRepo struct{ s *store }

func (f *fakeMovementRepo) Create(m *entity.Movement) error {
	f.s.movements = append(f.s.movements, m)
	return nil
}

func (f *fakeMovementRepo) Balance(productID, warehouseID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range f.s.movements {
		if m.ProductID != productID || m.WarehouseID != warehouseID {
			continue
		}
		if inv, ok := f.s.invoices[m.TransactionID]; ok && inv.Status == entity.InvoiceStatusVoid {
			continue
		}
		sum = sum.Add(m.Quantity)
	}
	return sum, nil
}

func (f *fakeMovementRepo) ListByTransaction(transactionID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range f.s.movements {
		if m.TransactionID == transactionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMovementRepo) ListByWarehouse(warehouseID string, _, _ *time.Time, _, _ int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range f.s.movements {
		if m.WarehouseID == warehouseID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeStockRepo struct{ s *store }

func (f *fakeStockRepo) Get(productID, warehouseID string) (*entity.Stock, error) {
	return f.s.stocks[stockKey(productID, warehouseID)], nil
}

func (f *fakeStockRepo) GetForUpdate(productID, warehouseID string) (*entity.Stock, error) {
	return f.s.stocks[stockKey(productID, warehouseID)], nil
}

func (f *fakeStockRepo) Upsert(stock *entity.Stock) error {
	f.s.stocks[stockKey(stock.ProductID, stock.WarehouseID)] = stock
	return nil
}

type fakeInvoiceRepo struct{ s *store }

func (f *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	if _, ok := f.s.invoices[inv.ID]; ok {
		return domain.ErrDuplicate
	}
	f.s.invoices[inv.ID] = inv
	return nil
}

func (f *fakeInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	f.s.items[item.InvoiceID] = append(f.s.items[item.InvoiceID], item)
	return nil
}

func (f *fakeInvoiceRepo) CreatePayment(p *entity.Payment) error {
	f.s.payments[p.InvoiceID] = append(f.s.payments[p.InvoiceID], p)
	return nil
}

func (f *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error)      { return f.s.invoices[id], nil }
func (f *fakeInvoiceRepo) GetForUpdate(id string) (*entity.Invoice, error) { return f.s.invoices[id], nil }

func (f *fakeInvoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	return f.s.items[invoiceID], nil
}

func (f *fakeInvoiceRepo) GetPayments(invoiceID string) ([]*entity.Payment, error) {
	return f.s.payments[invoiceID], nil
}

func (f *fakeInvoiceRepo) MarkVoided(id, reason, actor string, at time.Time) error {
	inv, ok := f.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = entity.InvoiceStatusVoid
	inv.ReversalReason = reason
	inv.ReversedBy = actor
	inv.ReversedAt = &at
	return nil
}

func (f *fakeInvoiceRepo) SetCollectionStatus(id, status string) error {
	inv, ok := f.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.CollectionStatus = status
	return nil
}

func (f *fakeInvoiceRepo) SalesUSDForDay(branchID, warehouseID string, date time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, inv := range f.s.invoices {
		if inv.BranchID == branchID && inv.WarehouseID == warehouseID &&
			sameDay(inv.Date, date) && inv.Status == entity.InvoiceStatusActive {
			sum = sum.Add(inv.TotalUSD)
		}
	}
	return sum, nil
}

func (f *fakeInvoiceRepo) PendingCreditForDay(branchID, warehouseID string, date time.Time) ([]*repository.PendingCredit, error) {
	var out []*repository.PendingCredit
	for _, inv := range f.s.invoices {
		if inv.BranchID != branchID || inv.WarehouseID != warehouseID ||
			!sameDay(inv.Date, date) || inv.Status != entity.InvoiceStatusActive ||
			inv.CollectionStatus != entity.CollectionStatusPending {
			continue
		}
		pc := &repository.PendingCredit{
			InvoiceID: inv.ID, Currency: inv.Currency,
			TotalUSD: inv.TotalUSD, TotalCS: inv.TotalCS,
			AbonosUSD: decimal.Zero, AbonosCS: decimal.Zero,
		}
		for _, a := range f.s.abonos {
			if a.InvoiceID == inv.ID {
				pc.AbonosUSD = pc.AbonosUSD.Add(a.AmountUSD)
				pc.AbonosCS = pc.AbonosCS.Add(a.AmountCS)
			}
		}
		out = append(out, pc)
	}
	return out, nil
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

type fakeAbonoRepo struct{ s *store }

func (f *fakeAbonoRepo) Create(a *entity.Abono) error { f.s.abonos[a.ID] = a; return nil }
func (f *fakeAbonoRepo) Update(a *entity.Abono) error {
	if _, ok := f.s.abonos[a.ID]; !ok {
		return domain.ErrNotFound
	}
	f.s.abonos[a.ID] = a
	return nil
}

func (f *fakeAbonoRepo) Delete(id string) error {
	if _, ok := f.s.abonos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.s.abonos, id)
	return nil
}

func (f *fakeAbonoRepo) GetByID(id string) (*entity.Abono, error) { return f.s.abonos[id], nil }

func (f *fakeAbonoRepo) ListByInvoice(invoiceID string) ([]*entity.Abono, error) {
	var out []*entity.Abono
	for _, a := range f.s.abonos {
		if a.InvoiceID == invoiceID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAbonoRepo) SumByInvoice(invoiceID string) (decimal.Decimal, decimal.Decimal, error) {
	usd, cs := decimal.Zero, decimal.Zero
	for _, a := range f.s.abonos {
		if a.InvoiceID == invoiceID {
			usd = usd.Add(a.AmountUSD)
			cs = cs.Add(a.AmountCS)
		}
	}
	return usd, cs, nil
}

func (f *fakeAbonoRepo) CountByInvoice(invoiceID string) (int, error) {
	n := 0
	for _, a := range f.s.abonos {
		if a.InvoiceID == invoiceID {
			n++
		}
	}
	return n, nil
}

type fakeTokenRepo struct{ s *store }

func (f *fakeTokenRepo) Create(t *entity.ReversalToken) error {
	f.s.tokens = append(f.s.tokens, t)
	return nil
}

func (f *fakeTokenRepo) LatestUnused(invoiceID string) (*entity.ReversalToken, error) {
	var latest *entity.ReversalToken
	for _, t := range f.s.tokens {
		if t.InvoiceID != invoiceID || t.UsedAt != nil {
			continue
		}
		if latest == nil || t.CreatedAt.After(latest.CreatedAt) {
			latest = t
		}
	}
	return latest, nil
}

func (f *fakeTokenRepo) MarkUsed(id string, at time.Time) (bool, error) {
	for _, t := range f.s.tokens {
		if t.ID == id {
			if t.UsedAt != nil {
				return false, nil
			}
			used := at
			t.UsedAt = &used
			return true, nil
		}
	}
	return false, nil
}

type fakeSequenceRepo struct{ s *store }

func (f *fakeSequenceRepo) Next(warehouseID, docType string) (int64, error) {
	key := warehouseID + "|" + docType
	f.s.seqs[key]++
	return f.s.seqs[key], nil
}

type fakeProductRepo struct{ s *store }

func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) { return f.s.products[id], nil }

func (f *fakeProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range f.s.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) UpdateLastRate(id string, rate decimal.Decimal) error {
	p, ok := f.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.LastRate = rate
	return nil
}

type fakeWarehouseRepo struct{ s *store }

func (f *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) { return f.s.whs[id], nil }
func (f *fakeWarehouseRepo) GetBranch(branchID string) (*entity.Branch, error) {
	return f.s.branches[branchID], nil
}

type fakeCustomerRepo struct{ s *store }

func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return f.s.customers[id], nil
}

type fakePaymentMethodRepo struct{}

func (f *fakePaymentMethodRepo) GetByID(id string) (*entity.PaymentMethod, error) {
	if id != "pm-cash" {
		return nil, nil
	}
	return &entity.PaymentMethod{ID: "pm-cash", Name: "Efectivo"}, nil
}

type fakeRateRepo struct{ s *store }

func (f *fakeRateRepo) LatestFor(_ time.Time) (*entity.ExchangeRate, error) {
	if f.s.rate.IsZero() {
		return nil, nil
	}
	return &entity.ExchangeRate{Rate: f.s.rate, EffectiveDate: time.Now()}, nil
}

// fakeNotifier captura la notificación en lugar de enviar correo.
type fakeNotifier struct {
	notices []sales.ReversalNotice
	err     error
}

func (f *fakeNotifier) SendReversalRequest(_ context.Context, n sales.ReversalNotice) error {
	if f.err != nil {
		return f.err
	}
	f.notices = append(f.notices, n)
	return nil
}

// fakeTxRunner invoca el callback con los fakes; los tests verifican semántica,
// la atomicidad real la cubre el runner de PostgreSQL.
type fakeTxRunner struct{ s *store }

var _ sales.TxRunner = (*fakeTxRunner)(nil)

func (r *fakeTxRunner) RunSale(_ context.Context, fn func(
	repository.MovementRepository,
	repository.StockRepository,
	repository.InvoiceRepository,
	repository.SequenceRepository,
	repository.ProductRepository,
) error) error {
	return fn(&fakeMovementRepo{r.s}, &fakeStockRepo{r.s}, &fakeInvoiceRepo{r.s}, &fakeSequenceRepo{r.s}, &fakeProductRepo{r.s})
}

func (r *fakeTxRunner) RunReversal(_ context.Context, fn func(
	repository.MovementRepository,
	repository.StockRepository,
	repository.InvoiceRepository,
	repository.AbonoRepository,
	repository.ReversalTokenRepository,
) error) error {
	return fn(&fakeMovementRepo{r.s}, &fakeStockRepo{r.s}, &fakeInvoiceRepo{r.s}, &fakeAbonoRepo{r.s}, &fakeTokenRepo{r.s})
}
