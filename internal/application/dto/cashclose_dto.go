package dto

import "github.com/shopspring/decimal"

// DenominationRequest conteo físico de una denominación.
type DenominationRequest struct {
	Currency  string          `json:"currency"`
	FaceValue decimal.Decimal `json:"face_value"`
	Count     int64           `json:"count"`
}

// CloseCashRequest body para POST /api/cash/closings.
type CloseCashRequest struct {
	BranchID      string                `json:"branch_id"`
	WarehouseID   string                `json:"warehouse_id"`
	Date          string                `json:"date"` // YYYY-MM-DD
	Denominations []DenominationRequest `json:"denominations"`
}

// CashClosingResponse desglose completo del arqueo (auditable sin recomputar).
type CashClosingResponse struct {
	ID              string          `json:"id"`
	BranchID        string          `json:"branch_id"`
	WarehouseID     string          `json:"warehouse_id"`
	Date            string          `json:"date"`
	CountedCS       decimal.Decimal `json:"counted_cs"`
	CountedUSD      decimal.Decimal `json:"counted_usd"`
	CountedTotalUSD decimal.Decimal `json:"counted_total_usd"`
	SalesUSD        decimal.Decimal `json:"sales_usd"`
	ReceiptsUSD     decimal.Decimal `json:"receipts_usd"`
	IssuesUSD       decimal.Decimal `json:"issues_usd"`
	DepositsUSD     decimal.Decimal `json:"deposits_usd"`
	CreditsUSD      decimal.Decimal `json:"credits_usd"`
	ExpectedUSD     decimal.Decimal `json:"expected_usd"`
	VarianceUSD     decimal.Decimal `json:"variance_usd"`
}

// RecordCashReceiptRequest body para POST /api/cash/receipts.
type RecordCashReceiptRequest struct {
	BranchID    string          `json:"branch_id"`
	WarehouseID string          `json:"warehouse_id"`
	Type        string          `json:"type"` // INGRESO o EGRESO
	Description string          `json:"description,omitempty"`
	Date        string          `json:"date,omitempty"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	AffectsCash *bool           `json:"affects_cash,omitempty"` // true si se omite
}

// CashReceiptResponse recibo persistido.
type CashReceiptResponse struct {
	ID        string          `json:"id"`
	Number    string          `json:"number"`
	Type      string          `json:"type"`
	Date      string          `json:"date"`
	Currency  string          `json:"currency"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
	AmountCS  decimal.Decimal `json:"amount_cs"`
}

// RecordDepositRequest body para POST /api/cash/deposits.
type RecordDepositRequest struct {
	BranchID      string          `json:"branch_id"`
	WarehouseID   string          `json:"warehouse_id"`
	SalespersonID string          `json:"salesperson_id,omitempty"`
	BankID        string          `json:"bank_id"`
	BankAccountID string          `json:"bank_account_id,omitempty"`
	Date          string          `json:"date,omitempty"`
	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note,omitempty"`
}

// DepositResponse depósito persistido.
type DepositResponse struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Currency  string          `json:"currency"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
	AmountCS  decimal.Decimal `json:"amount_cs"`
}
