package dto

import (
	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta (producto, cantidad, precio unitario en la
// moneda de la factura). ComboRole/ComboGroup son etiquetas de presentación
// que viajan sin tocar la matemática de existencias ni totales.
type SaleLineRequest struct {
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	ComboRole  string          `json:"combo_role,omitempty"`  // "", "PARENT" o "GIFT"
	ComboGroup string          `json:"combo_group,omitempty"` // id del grupo del combo
}

// SalePaymentRequest pago aplicado en el momento de la venta, en la moneda de
// la factura.
type SalePaymentRequest struct {
	PaymentMethodID string          `json:"payment_method_id"`
	BankID          string          `json:"bank_id,omitempty"`
	BankAccountID   string          `json:"bank_account_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
}

// CommitSaleRequest body para POST /api/sales. Sin pagos = venta de crédito
// (cobranza PENDIENTE); con pagos, deben cubrir el total.
type CommitSaleRequest struct {
	WarehouseID   string               `json:"warehouse_id"`
	CustomerID    string               `json:"customer_id,omitempty"`
	SalespersonID string               `json:"salesperson_id,omitempty"`
	Currency      string               `json:"currency"` // CS o USD
	Lines         []SaleLineRequest    `json:"lines"`
	Payments      []SalePaymentRequest `json:"payments"`
}

// SaleLineResponse línea en la respuesta, con subtotales en ambas monedas.
type SaleLineResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPriceUSD decimal.Decimal `json:"unit_price_usd"`
	UnitPriceCS  decimal.Decimal `json:"unit_price_cs"`
	SubtotalUSD  decimal.Decimal `json:"subtotal_usd"`
	SubtotalCS   decimal.Decimal `json:"subtotal_cs"`
	ComboRole    string          `json:"combo_role,omitempty"`
	ComboGroup   string          `json:"combo_group,omitempty"`
}

// SaleResponse factura comprometida para POST /api/sales y GET /api/sales/:id.
type SaleResponse struct {
	ID               string             `json:"id"`
	Number           string             `json:"number"`
	BranchID         string             `json:"branch_id"`
	WarehouseID      string             `json:"warehouse_id"`
	CustomerID       string             `json:"customer_id,omitempty"`
	SalespersonID    string             `json:"salesperson_id,omitempty"`
	Date             string             `json:"date"`
	Currency         string             `json:"currency"`
	ExchangeRate     decimal.Decimal    `json:"exchange_rate"`
	TotalUSD         decimal.Decimal    `json:"total_usd"`
	TotalCS          decimal.Decimal    `json:"total_cs"`
	Status           string             `json:"status"`
	CollectionStatus string             `json:"collection_status"`
	Lines            []SaleLineResponse `json:"lines"`
}

// RequestReversalRequest body para POST /api/sales/:id/reversal/request.
type RequestReversalRequest struct {
	Reason string `json:"reason"`
}

// RequestReversalResponse confirma la solicitud; el token viaja por el canal de
// notificación, nunca en esta respuesta.
type RequestReversalResponse struct {
	InvoiceID string `json:"invoice_id"`
	ExpiresAt string `json:"expires_at"`
}

// ConfirmReversalRequest body para POST /api/sales/:id/reversal/confirm.
type ConfirmReversalRequest struct {
	Token string `json:"token"`
}

// ConfirmReversalResponse resultado de la anulación.
type ConfirmReversalResponse struct {
	InvoiceID  string `json:"invoice_id"`
	Status     string `json:"status"`
	ReversedAt string `json:"reversed_at"`
}
