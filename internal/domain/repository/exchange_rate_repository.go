package repository

import (
	"time"

	"github.com/orangetec/calzapos/internal/domain/entity"
)

// ExchangeRateRepository lee la tabla de tasas de cambio (solo lectura para el núcleo).
type ExchangeRateRepository interface {
	// LatestFor devuelve la tasa más reciente con fecha efectiva <= date, o nil
	// si no hay ninguna configurada hasta esa fecha.
	LatestFor(date time.Time) (*entity.ExchangeRate, error)
}
