package dto

import "github.com/shopspring/decimal"

// InventoryDocLineRequest línea de ingreso/egreso (costo unitario en la moneda
// del documento).
type InventoryDocLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// RecordInventoryDocRequest body para POST /api/inventory/receipts y
// POST /api/inventory/issues.
type RecordInventoryDocRequest struct {
	WarehouseID string                    `json:"warehouse_id"`
	SupplierID  string                    `json:"supplier_id,omitempty"`
	Date        string                    `json:"date,omitempty"`
	Currency    string                    `json:"currency"`
	Note        string                    `json:"note,omitempty"`
	Lines       []InventoryDocLineRequest `json:"lines"`
}

// InventoryDocResponse documento persistido con totales en ambas monedas.
type InventoryDocResponse struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Date     string          `json:"date"`
	Currency string          `json:"currency"`
	TotalUSD decimal.Decimal `json:"total_usd"`
	TotalCS  decimal.Decimal `json:"total_cs"`
}

// BalanceResponse saldo derivado del libro para GET /api/inventory/balance.
type BalanceResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// MovementResponse asiento del libro para GET /api/inventory/movements.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Date          string          `json:"date"`
	CreatedBy     string          `json:"created_by"`
}
