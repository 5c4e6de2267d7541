package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangetec/calzapos/internal/application/dto"
	"github.com/orangetec/calzapos/internal/application/inventory"
	"github.com/orangetec/calzapos/internal/application/rates"
	"github.com/orangetec/calzapos/internal/domain"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// store mantiene en memoria el libro de movimientos y el saldo materializado.
type store struct {
	movements []*entity.Movement
	stocks    map[string]*entity.Stock
	docs      map[string]*entity.InventoryDoc
	docItems  []*entity.InventoryDocItem
}

func newStore() *store {
	return &store{
		stocks: make(map[string]*entity.Stock),
		docs:   make(map[string]*entity.InventoryDoc),
	}
}

func stockKey(productID, warehouseID string) string { return productID + "/" + warehouseID }

type fakeMovementRepo struct{ s *store }

func (f *fakeMovementRepo) Create(m *entity.Movement) error {
	cp := *m
	f.s.movements = append(f.s.movements, &cp)
	return nil
}

func (f *fakeMovementRepo) Balance(productID, warehouseID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range f.s.movements {
		if m.ProductID == productID && m.WarehouseID == warehouseID {
			sum = sum.Add(m.Quantity)
		}
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
	cp := *stock
	f.s.stocks[stockKey(stock.ProductID, stock.WarehouseID)] = &cp
	return nil
}

type fakeDocRepo struct{ s *store }

func (f *fakeDocRepo) Create(doc *entity.InventoryDoc) error {
	cp := *doc
	f.s.docs[doc.ID] = &cp
	return nil
}

func (f *fakeDocRepo) CreateItem(item *entity.InventoryDocItem) error {
	cp := *item
	f.s.docItems = append(f.s.docItems, &cp)
	return nil
}

func (f *fakeDocRepo) GetByID(id string) (*entity.InventoryDoc, error) {
	return f.s.docs[id], nil
}

func (f *fakeDocRepo) GetItems(docID string) ([]*entity.InventoryDocItem, error) {
	var out []*entity.InventoryDocItem
	for _, item := range f.s.docItems {
		if item.DocID == docID {
			out = append(out, item)
		}
	}
	return out, nil
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
	return &entity.Branch{ID: "b1", Prefix: "MAN", Active: true}, nil
}

type fakeProductRepo struct{}

func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	if id != "p1" {
		return nil, nil
	}
	return &entity.Product{ID: "p1", Code: "ZAP-001", Description: "Sandalia dama"}, nil
}

func (f *fakeProductRepo) GetByCode(string) (*entity.Product, error)    { return nil, nil }
func (f *fakeProductRepo) UpdateLastRate(string, decimal.Decimal) error { return nil }

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

type fakeRateRepo struct{ rate *entity.ExchangeRate }

func (f *fakeRateRepo) LatestFor(time.Time) (*entity.ExchangeRate, error) { return f.rate, nil }

type fakeTxRunner struct{ s *store }

func (f *fakeTxRunner) RunInventory(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	docRepo repository.InventoryDocRepository,
) error) error {
	return fn(&fakeMovementRepo{s: f.s}, &fakeStockRepo{s: f.s}, &fakeDocRepo{s: f.s})
}

var _ inventory.TxRunner = (*fakeTxRunner)(nil)

func newUseCase(s *store) *inventory.UseCase {
	rateSvc := rates.NewService(&fakeRateRepo{rate: &entity.ExchangeRate{Rate: d("36.50")}})
	return inventory.NewUseCase(&fakeTxRunner{s: s}, rateSvc, &fakeMovementRepo{s: s}, &fakeWarehouseRepo{}, &fakeProductRepo{})
}

func receiptRequest(qty, cost string) dto.RecordInventoryDocRequest {
	return dto.RecordInventoryDocRequest{
		WarehouseID: "w1",
		Currency:    "CS",
		Lines: []dto.InventoryDocLineRequest{
			{ProductID: "p1", Quantity: d(qty), UnitCost: d(cost)},
		},
	}
}

func TestRecordReceipt_SumaAlSaldo(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)

	resp, err := uc.RecordReceipt(context.Background(), "bodeguero1", receiptRequest("10", "120.00"))
	require.NoError(t, err)

	assert.Equal(t, entity.InventoryDocRECEIPT, resp.Type)
	assert.True(t, resp.TotalCS.Equal(d("1200.00")))
	assert.True(t, resp.TotalUSD.Equal(d("32.88"))) // 1200 / 36.50 redondeado

	balance, err := uc.Balance(context.Background(), "p1", "w1")
	require.NoError(t, err)
	assert.True(t, balance.Quantity.Equal(d("10")))

	// El saldo materializado queda alineado con el libro.
	stock := s.stocks["p1/w1"]
	require.NotNil(t, stock)
	assert.True(t, stock.Quantity.Equal(d("10")))

	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.MovementTypeRECEIPT, s.movements[0].Type)
	assert.True(t, s.movements[0].Quantity.Equal(d("10")))
}

func TestRecordIssue_RestaDelSaldo(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)

	_, err := uc.RecordReceipt(context.Background(), "bodeguero1", receiptRequest("10", "120.00"))
	require.NoError(t, err)

	_, err = uc.RecordIssue(context.Background(), "bodeguero1", receiptRequest("4", "120.00"))
	require.NoError(t, err)

	balance, err := uc.Balance(context.Background(), "p1", "w1")
	require.NoError(t, err)
	assert.True(t, balance.Quantity.Equal(d("6")))

	require.Len(t, s.movements, 2)
	assert.Equal(t, entity.MovementTypeISSUE, s.movements[1].Type)
	assert.True(t, s.movements[1].Quantity.Equal(d("-4")))
}

// El egreso nunca deja el saldo negativo: sin existencia suficiente falla
// completo y el libro queda intacto.
func TestRecordIssue_ExistenciaInsuficiente(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)

	_, err := uc.RecordReceipt(context.Background(), "bodeguero1", receiptRequest("3", "120.00"))
	require.NoError(t, err)

	_, err = uc.RecordIssue(context.Background(), "bodeguero1", receiptRequest("5", "120.00"))
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "p1", stockErr.ProductID)
	assert.Equal(t, "3", stockErr.Available)
	assert.Equal(t, "5", stockErr.Requested)
}

func TestRecordReceipt_EntradaInvalida(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)

	cases := []dto.RecordInventoryDocRequest{
		{Currency: "CS", Lines: []dto.InventoryDocLineRequest{{ProductID: "p1", Quantity: d("1")}}},
		{WarehouseID: "w1", Currency: "CS"},
		{WarehouseID: "w1", Currency: "EUR", Lines: []dto.InventoryDocLineRequest{{ProductID: "p1", Quantity: d("1")}}},
		{WarehouseID: "w1", Currency: "CS", Lines: []dto.InventoryDocLineRequest{{ProductID: "p1", Quantity: decimal.Zero}}},
		{WarehouseID: "w1", Currency: "CS", Lines: []dto.InventoryDocLineRequest{{ProductID: "p1", Quantity: d("1"), UnitCost: d("-1")}}},
	}
	for _, in := range cases {
		_, err := uc.RecordReceipt(context.Background(), "bodeguero1", in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
}

func TestRecordReceipt_ProductoDesconocido(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)

	in := receiptRequest("1", "10.00")
	in.Lines[0].ProductID = "p999"
	_, err := uc.RecordReceipt(context.Background(), "bodeguero1", in)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListMovements_LibroDeBodega(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)

	_, err := uc.RecordReceipt(context.Background(), "bodeguero1", receiptRequest("10", "120.00"))
	require.NoError(t, err)
	_, err = uc.RecordIssue(context.Background(), "bodeguero1", receiptRequest("4", "120.00"))
	require.NoError(t, err)

	movs, err := uc.ListMovements(context.Background(), "w1", "", "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeRECEIPT, movs[0].Type)
	assert.Equal(t, entity.MovementTypeISSUE, movs[1].Type)

	_, err = uc.ListMovements(context.Background(), "", "", "", dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.ListMovements(context.Background(), "w1", "15/03/2024", "", dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestBalance_ParDesconocidoEsCero(t *testing.T) {
	uc := newUseCase(newStore())

	resp, err := uc.Balance(context.Background(), "p1", "w1")
	require.NoError(t, err)
	assert.True(t, resp.Quantity.IsZero())
}
