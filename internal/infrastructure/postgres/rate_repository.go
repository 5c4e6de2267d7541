package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

var _ repository.ExchangeRateRepository = (*ExchangeRateRepo)(nil)

// ExchangeRateRepo lectura de la tabla de tasas de cambio sobre PostgreSQL.
type ExchangeRateRepo struct {
	q Querier
}

// NewExchangeRateRepository construye el adaptador de lectura de tasas.
func NewExchangeRateRepository(q Querier) *ExchangeRateRepo {
	return &ExchangeRateRepo{q: q}
}

// LatestFor devuelve la tasa más reciente con fecha efectiva <= date, o nil si
// no hay ninguna configurada hasta esa fecha.
func (r *ExchangeRateRepo) LatestFor(date time.Time) (*entity.ExchangeRate, error) {
	query := `
		SELECT id, effective_date, COALESCE(period, ''), rate, created_at
		FROM exchange_rates
		WHERE effective_date <= $1::date
		ORDER BY effective_date DESC LIMIT 1`
	var er entity.ExchangeRate
	err := r.q.QueryRow(context.Background(), query, date).Scan(
		&er.ID, &er.EffectiveDate, &er.Period, &er.Rate, &er.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get exchange rate: %w", err)
	}
	return &er, nil
}
