package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/orangetec/calzapos/internal/domain/money"
)

func TestValid(t *testing.T) {
	assert.True(t, money.Valid(money.CurrencyCS))
	assert.True(t, money.Valid(money.CurrencyUSD))
	assert.False(t, money.Valid("EUR"))
	assert.False(t, money.Valid(""))
	assert.False(t, money.Valid("cs"))
}

// La conversión C$ -> US$ divide por la tasa y redondea half-up a 2 decimales.
func TestToUSD_RedondeoHalfUp(t *testing.T) {
	rate := decimal.RequireFromString("36.50")

	// 1825.00 / 36.50 = 50 exacto
	got := money.ToUSD(decimal.RequireFromString("1825.00"), rate)
	assert.True(t, got.Equal(decimal.RequireFromString("50.00")), "got %s", got)

	// 100 / 36.50 = 2.73972... -> 2.74
	got = money.ToUSD(decimal.NewFromInt(100), rate)
	assert.True(t, got.Equal(decimal.RequireFromString("2.74")), "got %s", got)

	// tasa cero no divide: devuelve cero en lugar de entrar en pánico
	got = money.ToUSD(decimal.NewFromInt(100), decimal.Zero)
	assert.True(t, got.IsZero())
}

func TestToCS_RedondeoHalfUp(t *testing.T) {
	rate := decimal.RequireFromString("36.50")

	// 50 * 36.50 = 1825 exacto
	got := money.ToCS(decimal.NewFromInt(50), rate)
	assert.True(t, got.Equal(decimal.RequireFromString("1825.00")), "got %s", got)

	// 2.74 * 36.50 = 100.01 exacto a 2 decimales
	got = money.ToCS(decimal.RequireFromString("2.74"), rate)
	assert.True(t, got.Equal(decimal.RequireFromString("100.01")), "got %s", got)

	// medio centavo redondea hacia arriba: 0.1234... * 36.50
	got = money.ToCS(decimal.RequireFromString("0.005"), decimal.NewFromInt(1))
	assert.True(t, got.Equal(decimal.RequireFromString("0.01")), "got %s", got)
}

func TestRound2(t *testing.T) {
	assert.True(t, money.Round2(decimal.RequireFromString("1.005")).Equal(decimal.RequireFromString("1.01")))
	assert.True(t, money.Round2(decimal.RequireFromString("1.004")).Equal(decimal.RequireFromString("1.00")))
}
