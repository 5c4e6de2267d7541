package postgres

import (
	"context"
	"fmt"

	"github.com/orangetec/calzapos/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo asigna consecutivos por (bodega, tipo de documento) sobre PostgreSQL.
// Debe usarse dentro de la transacción de la operación que consume el número.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador de consecutivos.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next asigna el siguiente consecutivo con un UPSERT atómico sobre la fila del
// contador. El bloqueo de fila del UPDATE serializa a los asignadores
// concurrentes; un rollback deja hueco pero nunca duplica.
func (r *SequenceRepo) Next(warehouseID, docType string) (int64, error) {
	query := `
		INSERT INTO document_sequences (warehouse_id, doc_type, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (warehouse_id, doc_type)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`
	var next int64
	err := r.q.QueryRow(context.Background(), query, warehouseID, docType).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s/%s: %w", warehouseID, docType, err)
	}
	return next, nil
}
