package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/orangetec/calzapos/internal/application/dto"
	"github.com/orangetec/calzapos/internal/application/rates"
	"github.com/orangetec/calzapos/internal/domain"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/money"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

// TxRunner ejecuta ingresos y egresos de inventario dentro de una transacción.
type TxRunner interface {
	RunInventory(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		docRepo repository.InventoryDocRepository,
	) error) error
}

// UseCase es el motor de existencias: expone el saldo derivado del libro y
// registra ingresos/egresos de inventario con sus movimientos.
type UseCase struct {
	txRunner      TxRunner
	rateSvc       *rates.Service
	movRepo       repository.MovementRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
}

// NewUseCase construye el caso de uso de inventario.
func NewUseCase(
	txRunner TxRunner,
	rateSvc *rates.Service,
	movRepo repository.MovementRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		rateSvc:       rateSvc,
		movRepo:       movRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
	}
}

// Balance devuelve el saldo actual de un producto en una bodega: la suma de
// cantidades con signo del libro, excluyendo movimientos de facturas anuladas.
// Un par desconocido devuelve cero.
func (uc *UseCase) Balance(ctx context.Context, productID, warehouseID string) (*dto.BalanceResponse, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	qty, err := uc.movRepo.Balance(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{ProductID: productID, WarehouseID: warehouseID, Quantity: qty}, nil
}

// ListMovements devuelve el libro de movimientos de una bodega en un rango de
// fechas, paginado. Es la vista de auditoría: los asientos nunca se editan.
func (uc *UseCase) ListMovements(ctx context.Context, warehouseID, fromStr, toStr string, page dto.PageRequest) ([]*dto.MovementResponse, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	var from, to *time.Time
	if fromStr != "" {
		t, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		from = &t
	}
	if toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		to = &t
	}
	movs, err := uc.movRepo.ListByWarehouse(warehouseID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, &dto.MovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			ProductID:     m.ProductID,
			WarehouseID:   m.WarehouseID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			Date:          m.Date.Format("2006-01-02"),
			CreatedBy:     m.CreatedBy,
		})
	}
	return out, nil
}

// RecordReceipt registra un ingreso de inventario: cabecera, líneas y un
// movimiento positivo por línea, todo en una transacción.
func (uc *UseCase) RecordReceipt(ctx context.Context, actor string, in dto.RecordInventoryDocRequest) (*dto.InventoryDocResponse, error) {
	return uc.recordDoc(ctx, actor, entity.InventoryDocRECEIPT, in)
}

// RecordIssue registra un egreso de inventario; cada línea verifica existencia
// bajo bloqueo antes de emitir el movimiento negativo.
func (uc *UseCase) RecordIssue(ctx context.Context, actor string, in dto.RecordInventoryDocRequest) (*dto.InventoryDocResponse, error) {
	return uc.recordDoc(ctx, actor, entity.InventoryDocISSUE, in)
}

func (uc *UseCase) recordDoc(ctx context.Context, actor, docType string, in dto.RecordInventoryDocRequest) (*dto.InventoryDocResponse, error) {
	if in.WarehouseID == "" || len(in.Lines) == 0 || !money.Valid(in.Currency) {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Lines {
		if line.ProductID == "" || !line.Quantity.GreaterThan(decimal.Zero) || line.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	date, err := parseDateOrToday(in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	for _, line := range in.Lines {
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
	}
	rate, err := uc.rateSvc.RateFor(date)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	docID := uuid.New().String()
	var doc *entity.InventoryDoc

	err = uc.txRunner.RunInventory(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		docRepo repository.InventoryDocRepository,
	) error {
		var totalUSD, totalCS decimal.Decimal
		items := make([]*entity.InventoryDocItem, 0, len(in.Lines))
		for _, line := range in.Lines {
			costUSD, costCS := uc.rateSvc.BothCurrencies(line.UnitCost, in.Currency, rate)
			subUSD, subCS := uc.rateSvc.BothCurrencies(line.Quantity.Mul(line.UnitCost), in.Currency, rate)
			totalUSD = totalUSD.Add(subUSD)
			totalCS = totalCS.Add(subCS)
			items = append(items, &entity.InventoryDocItem{
				ID:          uuid.New().String(),
				DocID:       docID,
				ProductID:   line.ProductID,
				Quantity:    line.Quantity,
				UnitCostUSD: costUSD,
				UnitCostCS:  costCS,
				SubtotalUSD: subUSD,
				SubtotalCS:  subCS,
			})
		}

		doc = &entity.InventoryDoc{
			ID:           docID,
			Type:         docType,
			WarehouseID:  in.WarehouseID,
			SupplierID:   in.SupplierID,
			Date:         date,
			Currency:     in.Currency,
			ExchangeRate: rate,
			TotalUSD:     totalUSD,
			TotalCS:      totalCS,
			Note:         in.Note,
			CreatedBy:    actor,
			CreatedAt:    now,
		}
		if err := docRepo.Create(doc); err != nil {
			return err
		}

		for _, item := range items {
			if _, err := stockRepo.GetForUpdate(item.ProductID, in.WarehouseID); err != nil {
				return err
			}
			qty := item.Quantity
			if docType == entity.InventoryDocISSUE {
				balance, err := movRepo.Balance(item.ProductID, in.WarehouseID)
				if err != nil {
					return err
				}
				if balance.LessThan(item.Quantity) {
					return &domain.InsufficientStockError{
						ProductID: item.ProductID,
						Available: balance.String(),
						Requested: item.Quantity.String(),
					}
				}
				qty = item.Quantity.Neg()
			}
			if err := docRepo.CreateItem(item); err != nil {
				return err
			}
			mov := &entity.Movement{
				ID:            uuid.New().String(),
				TransactionID: docID,
				ProductID:     item.ProductID,
				WarehouseID:   in.WarehouseID,
				Type:          movementTypeFor(docType),
				Quantity:      qty,
				UnitCostCS:    item.UnitCostCS,
				UnitCostUSD:   item.UnitCostUSD,
				Date:          date,
				CreatedAt:     now,
				CreatedBy:     actor,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			balance, err := movRepo.Balance(item.ProductID, in.WarehouseID)
			if err != nil {
				return err
			}
			if err := stockRepo.Upsert(&entity.Stock{
				ProductID:   item.ProductID,
				WarehouseID: in.WarehouseID,
				Quantity:    balance,
				UpdatedAt:   now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.InventoryDocResponse{
		ID:       doc.ID,
		Type:     doc.Type,
		Date:     doc.Date.Format("2006-01-02"),
		Currency: doc.Currency,
		TotalUSD: doc.TotalUSD,
		TotalCS:  doc.TotalCS,
	}, nil
}

func movementTypeFor(docType string) string {
	if docType == entity.InventoryDocISSUE {
		return entity.MovementTypeISSUE
	}
	return entity.MovementTypeRECEIPT
}

func parseDateOrToday(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	return time.Parse("2006-01-02", s)
}
