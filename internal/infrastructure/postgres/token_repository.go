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

var _ repository.ReversalTokenRepository = (*ReversalTokenRepo)(nil)

// ReversalTokenRepo implementación del puerto ReversalTokenRepository sobre PostgreSQL.
type ReversalTokenRepo struct {
	q Querier
}

// NewReversalTokenRepository construye el adaptador de persistencia de tokens de anulación.
func NewReversalTokenRepository(q Querier) *ReversalTokenRepo {
	return &ReversalTokenRepo{q: q}
}

// Create persiste un token nuevo.
func (r *ReversalTokenRepo) Create(t *entity.ReversalToken) error {
	query := `
		INSERT INTO reversal_tokens (id, invoice_id, token, reason, requested_by, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.InvoiceID, t.Token, t.Reason, t.RequestedBy, t.CreatedAt, t.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert reversal token: %w", err)
	}
	return nil
}

// LatestUnused devuelve el token sin usar más reciente de la factura, o nil.
func (r *ReversalTokenRepo) LatestUnused(invoiceID string) (*entity.ReversalToken, error) {
	query := `
		SELECT id, invoice_id, token, reason, requested_by, created_at, expires_at, used_at
		FROM reversal_tokens
		WHERE invoice_id = $1 AND used_at IS NULL
		ORDER BY created_at DESC LIMIT 1`
	var t entity.ReversalToken
	err := r.q.QueryRow(context.Background(), query, invoiceID).Scan(
		&t.ID, &t.InvoiceID, &t.Token, &t.Reason, &t.RequestedBy,
		&t.CreatedAt, &t.ExpiresAt, &t.UsedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest unused token: %w", err)
	}
	return &t, nil
}

// MarkUsed sella el token solo si sigue sin usar. El UPDATE condicional hace
// idempotente la confirmación bajo concurrencia: solo un confirmador gana.
func (r *ReversalTokenRepo) MarkUsed(id string, at time.Time) (bool, error) {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE reversal_tokens SET used_at = $2 WHERE id = $1 AND used_at IS NULL`, id, at)
	if err != nil {
		return false, fmt.Errorf("mark token used: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
