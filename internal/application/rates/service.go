package rates

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/orangetec/calzapos/internal/domain"
	"github.com/orangetec/calzapos/internal/domain/money"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

// Service resuelve la tasa de cambio vigente para una fecha y convierte montos
// entre córdobas y dólares. Las tasas no se interpolan: rige la más reciente
// con fecha efectiva <= la fecha pedida.
type Service struct {
	rateRepo repository.ExchangeRateRepository
}

// NewService construye el servicio de tasas.
func NewService(rateRepo repository.ExchangeRateRepository) *Service {
	return &Service{rateRepo: rateRepo}
}

// RateFor devuelve la tasa vigente en la fecha. Sin tasa configurada hasta esa
// fecha la operación que la necesite debe fallar completa (ErrRateUnavailable),
// nunca continuar con cero ni con un valor viejo arbitrario.
func (s *Service) RateFor(date time.Time) (decimal.Decimal, error) {
	rate, err := s.rateRepo.LatestFor(date)
	if err != nil {
		return decimal.Zero, err
	}
	if rate == nil || !rate.Rate.GreaterThan(decimal.Zero) {
		return decimal.Zero, &domain.RateUnavailableError{Date: date}
	}
	return rate.Rate, nil
}

// BothCurrencies recibe un monto en la moneda dada y devuelve el par
// (USD, C$) redondeado a 2 decimales.
func (s *Service) BothCurrencies(amount decimal.Decimal, currency string, rate decimal.Decimal) (usd, cs decimal.Decimal) {
	if currency == money.CurrencyUSD {
		return money.Round2(amount), money.ToCS(amount, rate)
	}
	return money.ToUSD(amount, rate), money.Round2(amount)
}
