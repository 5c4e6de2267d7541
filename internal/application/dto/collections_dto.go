package dto

import "github.com/shopspring/decimal"

// RecordAbonoRequest body para POST /api/abonos.
type RecordAbonoRequest struct {
	InvoiceID string          `json:"invoice_id"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date,omitempty"` // YYYY-MM-DD; hoy si va vacío
	Note      string          `json:"note,omitempty"`
}

// UpdateAbonoRequest body para PUT /api/abonos/:id.
type UpdateAbonoRequest struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date,omitempty"`
	Note     string          `json:"note,omitempty"`
}

// AbonoResponse abono con el estado de cobranza resultante de la factura.
type AbonoResponse struct {
	ID               string          `json:"id"`
	InvoiceID        string          `json:"invoice_id"`
	Number           string          `json:"number"`
	Date             string          `json:"date"`
	Currency         string          `json:"currency"`
	AmountUSD        decimal.Decimal `json:"amount_usd"`
	AmountCS         decimal.Decimal `json:"amount_cs"`
	Note             string          `json:"note,omitempty"`
	CollectionStatus string          `json:"collection_status"` // estado de la factura tras la mutación
}
