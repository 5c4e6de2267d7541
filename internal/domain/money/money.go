package money

import "github.com/shopspring/decimal"

// Monedas soportadas por el sistema. CS = córdobas (moneda local), USD = dólares.
const (
	CurrencyCS  = "CS"
	CurrencyUSD = "USD"
)

// Valid informa si el código de moneda es uno de los soportados.
func Valid(currency string) bool {
	return currency == CurrencyCS || currency == CurrencyUSD
}

// ToUSD convierte un monto en córdobas a dólares con la tasa indicada,
// redondeado a 2 decimales (half-up).
func ToUSD(amountCS, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	return amountCS.DivRound(rate, 2)
}

// ToCS convierte un monto en dólares a córdobas con la tasa indicada,
// redondeado a 2 decimales (half-up).
func ToCS(amountUSD, rate decimal.Decimal) decimal.Decimal {
	return amountUSD.Mul(rate).Round(2)
}

// Round2 redondea a 2 decimales (half-up), el redondeo contable de todo el sistema.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
