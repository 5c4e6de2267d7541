package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Denomination es el conteo físico de una denominación de billete o moneda.
type Denomination struct {
	Currency  string          `json:"currency"`
	FaceValue decimal.Decimal `json:"face_value"`
	Count     int64           `json:"count"`
}

// Total devuelve face value × count.
func (d Denomination) Total() decimal.Decimal {
	return d.FaceValue.Mul(decimal.NewFromInt(d.Count))
}

// CashClosing es el arqueo de caja de una sucursal/bodega/fecha: el conteo
// físico por denominaciones contra la posición esperada calculada desde los
// libros del día. Única por (sucursal, bodega, fecha); una vez escrita nunca se
// recalcula en sitio.
type CashClosing struct {
	ID          string
	BranchID    string
	WarehouseID string
	Date        time.Time

	// Conteo físico por denominación, persistido como JSON para auditoría.
	DetailCS  []Denomination
	DetailUSD []Denomination

	CountedCS       decimal.Decimal // suma de denominaciones en córdobas
	CountedUSD      decimal.Decimal // suma de denominaciones en dólares
	CountedTotalUSD decimal.Decimal // CountedUSD + CountedCS convertido a la tasa del día

	// Componentes de la posición esperada, todos en USD.
	SalesUSD    decimal.Decimal
	ReceiptsUSD decimal.Decimal // recibos de caja INGRESO
	IssuesUSD   decimal.Decimal // recibos de caja EGRESO
	DepositsUSD decimal.Decimal
	CreditsUSD  decimal.Decimal // crédito pendiente de facturas del día

	ExpectedUSD decimal.Decimal
	VarianceUSD decimal.Decimal // contado − esperado

	CreatedBy string
	CreatedAt time.Time
}
