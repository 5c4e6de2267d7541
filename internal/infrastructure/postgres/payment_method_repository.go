package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

var _ repository.PaymentMethodRepository = (*PaymentMethodRepo)(nil)

// PaymentMethodRepo lectura del catálogo de formas de pago sobre PostgreSQL.
type PaymentMethodRepo struct {
	q Querier
}

// NewPaymentMethodRepository construye el adaptador de lectura de formas de pago.
func NewPaymentMethodRepository(q Querier) *PaymentMethodRepo {
	return &PaymentMethodRepo{q: q}
}

// GetByID obtiene una forma de pago por ID, o nil si no existe.
func (r *PaymentMethodRepo) GetByID(id string) (*entity.PaymentMethod, error) {
	query := `SELECT id, name, created_at FROM payment_methods WHERE id = $1`
	var pm entity.PaymentMethod
	err := r.q.QueryRow(context.Background(), query, id).Scan(&pm.ID, &pm.Name, &pm.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment method: %w", err)
	}
	return &pm, nil
}
