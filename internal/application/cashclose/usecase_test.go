package cashclose_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangetec/calzapos/internal/application/cashclose"
	"github.com/orangetec/calzapos/internal/application/dto"
	"github.com/orangetec/calzapos/internal/application/rates"
	"github.com/orangetec/calzapos/internal/domain"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/money"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

// store mantiene en memoria los libros del día y los arqueos escritos.
type store struct {
	salesUSD decimal.Decimal
	pending  []*repository.PendingCredit

	receipts []*entity.CashReceipt
	deposits []*entity.Deposit
	closings map[string]*entity.CashClosing

	sequences map[string]int64
}

func newStore() *store {
	return &store{
		closings:  make(map[string]*entity.CashClosing),
		sequences: make(map[string]int64),
	}
}

func (s *store) closingKey(branchID, warehouseID string, date time.Time) string {
	return branchID + "/" + warehouseID + "/" + date.Format("2006-01-02")
}

type fakeInvoiceRepo struct{ s *store }

func (f *fakeInvoiceRepo) Create(*entity.Invoice) error                       { return nil }
func (f *fakeInvoiceRepo) CreateItem(*entity.InvoiceItem) error               { return nil }
func (f *fakeInvoiceRepo) CreatePayment(*entity.Payment) error                { return nil }
func (f *fakeInvoiceRepo) GetByID(string) (*entity.Invoice, error)            { return nil, nil }
func (f *fakeInvoiceRepo) GetItems(string) ([]*entity.InvoiceItem, error)     { return nil, nil }
func (f *fakeInvoiceRepo) GetPayments(string) ([]*entity.Payment, error)      { return nil, nil }
func (f *fakeInvoiceRepo) GetForUpdate(string) (*entity.Invoice, error)       { return nil, nil }
func (f *fakeInvoiceRepo) MarkVoided(string, string, string, time.Time) error { return nil }
func (f *fakeInvoiceRepo) SetCollectionStatus(string, string) error           { return nil }

func (f *fakeInvoiceRepo) SalesUSDForDay(string, string, time.Time) (decimal.Decimal, error) {
	return f.s.salesUSD, nil
}

func (f *fakeInvoiceRepo) PendingCreditForDay(string, string, time.Time) ([]*repository.PendingCredit, error) {
	return f.s.pending, nil
}

type fakeReceiptRepo struct{ s *store }

func (f *fakeReceiptRepo) Create(r *entity.CashReceipt) error {
	cp := *r
	f.s.receipts = append(f.s.receipts, &cp)
	return nil
}

func (f *fakeReceiptRepo) GetByID(id string) (*entity.CashReceipt, error) {
	for _, r := range f.s.receipts {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeReceiptRepo) SumUSDForDay(branchID, warehouseID, receiptType string, date time.Time, fallbackRate decimal.Decimal) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, r := range f.s.receipts {
		if r.BranchID != branchID || r.WarehouseID != warehouseID || r.Type != receiptType || !r.AffectsCash || !sameDay(r.Date, date) {
			continue
		}
		if !r.AmountUSD.IsZero() {
			sum = sum.Add(r.AmountUSD)
		} else {
			sum = sum.Add(money.ToUSD(r.AmountCS, fallbackRate))
		}
	}
	return sum, nil
}

type fakeDepositRepo struct{ s *store }

func (f *fakeDepositRepo) Create(dep *entity.Deposit) error {
	cp := *dep
	f.s.deposits = append(f.s.deposits, &cp)
	return nil
}

func (f *fakeDepositRepo) GetByID(id string) (*entity.Deposit, error) {
	for _, dep := range f.s.deposits {
		if dep.ID == id {
			return dep, nil
		}
	}
	return nil, nil
}

func (f *fakeDepositRepo) SumUSDForDay(branchID, warehouseID string, date time.Time, fallbackRate decimal.Decimal) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, dep := range f.s.deposits {
		if dep.BranchID != branchID || dep.WarehouseID != warehouseID || !sameDay(dep.Date, date) {
			continue
		}
		if !dep.AmountUSD.IsZero() {
			sum = sum.Add(dep.AmountUSD)
		} else {
			sum = sum.Add(money.ToUSD(dep.AmountCS, fallbackRate))
		}
	}
	return sum, nil
}

type fakeClosingRepo struct{ s *store }

func (f *fakeClosingRepo) Create(c *entity.CashClosing) error {
	key := f.s.closingKey(c.BranchID, c.WarehouseID, c.Date)
	if _, ok := f.s.closings[key]; ok {
		return domain.ErrDuplicateClosing
	}
	cp := *c
	f.s.closings[key] = &cp
	return nil
}

func (f *fakeClosingRepo) GetByID(id string) (*entity.CashClosing, error) {
	for _, c := range f.s.closings {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeClosingRepo) GetByKey(branchID, warehouseID string, date time.Time) (*entity.CashClosing, error) {
	return f.s.closings[f.s.closingKey(branchID, warehouseID, date)], nil
}

type fakeSequenceRepo struct{ s *store }

func (f *fakeSequenceRepo) Next(warehouseID, docType string) (int64, error) {
	key := warehouseID + "/" + docType
	f.s.sequences[key]++
	return f.s.sequences[key], nil
}

type fakeWarehouseRepo struct{}

func (f *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	if id != "w1" {
		return nil, nil
	}
	return &entity.Warehouse{ID: "w1", BranchID: "b1", Active: true}, nil
}

func (f *fakeWarehouseRepo) GetBranch(branchID string) (*entity.Branch, error) {
	if branchID != "b1" {
		return nil, nil
	}
	return &entity.Branch{ID: "b1", Name: "Managua", Prefix: "MAN", Active: true}, nil
}

type fakeRateRepo struct{ rate *entity.ExchangeRate }

func (f *fakeRateRepo) LatestFor(time.Time) (*entity.ExchangeRate, error) { return f.rate, nil }

type fakeTxRunner struct{ s *store }

func (f *fakeTxRunner) RunClosing(_ context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	receiptRepo repository.CashReceiptRepository,
	depositRepo repository.DepositRepository,
	closingRepo repository.CashClosingRepository,
) error) error {
	return fn(&fakeInvoiceRepo{s: f.s}, &fakeReceiptRepo{s: f.s}, &fakeDepositRepo{s: f.s}, &fakeClosingRepo{s: f.s})
}

func (f *fakeTxRunner) RunCashbook(_ context.Context, fn func(
	receiptRepo repository.CashReceiptRepository,
	depositRepo repository.DepositRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	return fn(&fakeReceiptRepo{s: f.s}, &fakeDepositRepo{s: f.s}, &fakeSequenceRepo{s: f.s})
}

var (
	_ cashclose.TxRunner         = (*fakeTxRunner)(nil)
	_ cashclose.CashbookTxRunner = (*fakeTxRunner)(nil)
)

func rateSvc() *rates.Service {
	return rates.NewService(&fakeRateRepo{rate: &entity.ExchangeRate{Rate: d("36.50")}})
}

func newCloseUseCase(s *store) *cashclose.UseCase {
	return cashclose.NewUseCase(&fakeTxRunner{s: s}, rateSvc(), &fakeClosingRepo{s: s})
}

func newCashbookUseCase(s *store) *cashclose.CashbookUseCase {
	return cashclose.NewCashbookUseCase(&fakeTxRunner{s: s}, rateSvc(), &fakeWarehouseRepo{})
}

const closeDate = "2024-03-15"

// seedDay deja los libros con ventas 500, ingresos 50, egresos 20, depósitos
// 100 y crédito pendiente 30, todo en USD. Esperado: 500−20+50−100−30 = 400.
func seedDay(s *store) {
	day, _ := time.Parse("2006-01-02", closeDate)
	s.salesUSD = d("500.00")
	s.receipts = append(s.receipts,
		&entity.CashReceipt{ID: "r1", BranchID: "b1", WarehouseID: "w1", Type: entity.CashReceiptIngreso, Date: day, AmountUSD: d("50.00"), AffectsCash: true},
		&entity.CashReceipt{ID: "r2", BranchID: "b1", WarehouseID: "w1", Type: entity.CashReceiptEgreso, Date: day, AmountUSD: d("20.00"), AffectsCash: true},
		// No afecta caja: debe quedar fuera del cierre.
		&entity.CashReceipt{ID: "r3", BranchID: "b1", WarehouseID: "w1", Type: entity.CashReceiptIngreso, Date: day, AmountUSD: d("999.00"), AffectsCash: false},
	)
	s.deposits = append(s.deposits,
		&entity.Deposit{ID: "d1", BranchID: "b1", WarehouseID: "w1", Date: day, AmountUSD: d("100.00")},
	)
	s.pending = []*repository.PendingCredit{
		{InvoiceID: "f9", Currency: "USD", TotalUSD: d("50.00"), AbonosUSD: d("20.00")},
		// Abonada de más: aporta cero, nunca negativo.
		{InvoiceID: "f10", Currency: "USD", TotalUSD: d("10.00"), AbonosUSD: d("15.00")},
	}
}

func TestClose_PosicionEsperadaYVariacion(t *testing.T) {
	s := newStore()
	seedDay(s)
	uc := newCloseUseCase(s)

	// Contado: 300 USD + 3832.50 C$ (105 USD a 36.50) = 405 USD.
	resp, err := uc.Close(context.Background(), "admin1", dto.CloseCashRequest{
		BranchID:    "b1",
		WarehouseID: "w1",
		Date:        closeDate,
		Denominations: []dto.DenominationRequest{
			{Currency: "USD", FaceValue: d("100.00"), Count: 3},
			{Currency: "CS", FaceValue: d("500.00"), Count: 7},
			{Currency: "CS", FaceValue: d("332.50"), Count: 1},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.CountedUSD.Equal(d("300.00")))
	assert.True(t, resp.CountedCS.Equal(d("3832.50")))
	assert.True(t, resp.CountedTotalUSD.Equal(d("405.00")))
	assert.True(t, resp.SalesUSD.Equal(d("500.00")))
	assert.True(t, resp.ReceiptsUSD.Equal(d("50.00")))
	assert.True(t, resp.IssuesUSD.Equal(d("20.00")))
	assert.True(t, resp.DepositsUSD.Equal(d("100.00")))
	assert.True(t, resp.CreditsUSD.Equal(d("30.00")))
	assert.True(t, resp.ExpectedUSD.Equal(d("400.00")))
	assert.True(t, resp.VarianceUSD.Equal(d("5.00")))
}

func TestClose_DuplicadoRechazado(t *testing.T) {
	s := newStore()
	seedDay(s)
	uc := newCloseUseCase(s)

	req := dto.CloseCashRequest{BranchID: "b1", WarehouseID: "w1", Date: closeDate}
	_, err := uc.Close(context.Background(), "admin1", req)
	require.NoError(t, err)

	_, err = uc.Close(context.Background(), "admin1", req)
	assert.True(t, errors.Is(err, domain.ErrDuplicateClosing))
	assert.Len(t, s.closings, 1)
}

func TestClose_SinTasaDelDia(t *testing.T) {
	s := newStore()
	uc := cashclose.NewUseCase(&fakeTxRunner{s: s},
		rates.NewService(&fakeRateRepo{rate: nil}), &fakeClosingRepo{s: s})

	_, err := uc.Close(context.Background(), "admin1", dto.CloseCashRequest{
		BranchID: "b1", WarehouseID: "w1", Date: closeDate,
	})
	assert.True(t, errors.Is(err, domain.ErrRateUnavailable))
	assert.Empty(t, s.closings)
}

func TestClose_EntradaInvalida(t *testing.T) {
	s := newStore()
	uc := newCloseUseCase(s)

	cases := []dto.CloseCashRequest{
		{WarehouseID: "w1", Date: closeDate},
		{BranchID: "b1", Date: closeDate},
		{BranchID: "b1", WarehouseID: "w1"},
		{BranchID: "b1", WarehouseID: "w1", Date: "15/03/2024"},
		{BranchID: "b1", WarehouseID: "w1", Date: closeDate,
			Denominations: []dto.DenominationRequest{{Currency: "CS", FaceValue: d("100"), Count: -1}}},
	}
	for _, in := range cases {
		_, err := uc.Close(context.Background(), "admin1", in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
}

func TestRecordCashReceipt_ConsecutivoYMonedas(t *testing.T) {
	s := newStore()
	uc := newCashbookUseCase(s)

	resp, err := uc.RecordCashReceipt(context.Background(), "cajera1", dto.RecordCashReceiptRequest{
		BranchID:    "b1",
		WarehouseID: "w1",
		Type:        entity.CashReceiptIngreso,
		Description: "venta de cajas vacías",
		Date:        closeDate,
		Currency:    "CS",
		Amount:      d("730.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "MAN-ROC-000001", resp.Number)
	assert.True(t, resp.AmountCS.Equal(d("730.00")))
	assert.True(t, resp.AmountUSD.Equal(d("20.00")))

	require.Len(t, s.receipts, 1)
	assert.True(t, s.receipts[0].AffectsCash) // por omisión afecta caja
	assert.Equal(t, "cajera1", s.receipts[0].CreatedBy)
}

func TestRecordCashReceipt_TipoInvalido(t *testing.T) {
	s := newStore()
	uc := newCashbookUseCase(s)

	_, err := uc.RecordCashReceipt(context.Background(), "cajera1", dto.RecordCashReceiptRequest{
		BranchID: "b1", WarehouseID: "w1", Type: "TRASPASO", Currency: "CS", Amount: d("10.00"),
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRecordDeposit_EntraAlCierre(t *testing.T) {
	s := newStore()
	cashbook := newCashbookUseCase(s)

	affects := false
	_, err := cashbook.RecordCashReceipt(context.Background(), "cajera1", dto.RecordCashReceiptRequest{
		BranchID: "b1", WarehouseID: "w1", Type: entity.CashReceiptIngreso,
		Date: closeDate, Currency: "USD", Amount: d("40.00"), AffectsCash: &affects,
	})
	require.NoError(t, err)

	resp, err := cashbook.RecordDeposit(context.Background(), "cajera1", dto.RecordDepositRequest{
		BranchID:    "b1",
		WarehouseID: "w1",
		BankID:      "bank1",
		Date:        closeDate,
		Currency:    "USD",
		Amount:      d("25.00"),
	})
	require.NoError(t, err)
	assert.True(t, resp.AmountCS.Equal(d("912.50")))

	// El depósito resta de la posición esperada; el recibo que no afecta caja no suma.
	closing, err := newCloseUseCase(s).Close(context.Background(), "admin1", dto.CloseCashRequest{
		BranchID: "b1", WarehouseID: "w1", Date: closeDate,
	})
	require.NoError(t, err)
	assert.True(t, closing.ReceiptsUSD.Equal(decimal.Zero))
	assert.True(t, closing.DepositsUSD.Equal(d("25.00")))
	assert.True(t, closing.ExpectedUSD.Equal(d("-25.00")))
}
