package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/orangetec/calzapos/internal/domain/entity"
)

// CashReceiptRepository persiste recibos de caja (INGRESO/EGRESO).
type CashReceiptRepository interface {
	Create(r *entity.CashReceipt) error
	GetByID(id string) (*entity.CashReceipt, error)

	// SumUSDForDay suma en USD los recibos del tipo dado que afectan caja, de la
	// sucursal/bodega en la fecha. Cada recibo aporta su monto USD registrado
	// con su propia tasa; fallbackRate se aplica solo a recibos sin monto USD.
	SumUSDForDay(branchID, warehouseID, receiptType string, date time.Time, fallbackRate decimal.Decimal) (decimal.Decimal, error)
}

// DepositRepository persiste depósitos bancarios.
type DepositRepository interface {
	Create(d *entity.Deposit) error
	GetByID(id string) (*entity.Deposit, error)
	SumUSDForDay(branchID, warehouseID string, date time.Time, fallbackRate decimal.Decimal) (decimal.Decimal, error)
}

// CashClosingRepository persiste arqueos de caja; la clave
// (sucursal, bodega, fecha) es única.
type CashClosingRepository interface {
	Create(c *entity.CashClosing) error
	GetByID(id string) (*entity.CashClosing, error)
	GetByKey(branchID, warehouseID string, date time.Time) (*entity.CashClosing, error)
}

// InventoryDocRepository persiste ingresos y egresos de inventario.
type InventoryDocRepository interface {
	Create(doc *entity.InventoryDoc) error
	CreateItem(item *entity.InventoryDocItem) error
	GetByID(id string) (*entity.InventoryDoc, error)
	GetItems(docID string) ([]*entity.InventoryDocItem, error)
}
