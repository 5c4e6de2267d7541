package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/orangetec/calzapos/internal/domain/entity"
	"github.com/orangetec/calzapos/internal/domain/repository"
)

var _ repository.InventoryDocRepository = (*InventoryDocRepo)(nil)

// InventoryDocRepo implementación del puerto InventoryDocRepository sobre PostgreSQL.
type InventoryDocRepo struct {
	q Querier
}

// NewInventoryDocRepository construye el adaptador de persistencia de documentos de inventario.
func NewInventoryDocRepository(q Querier) *InventoryDocRepo {
	return &InventoryDocRepo{q: q}
}

// Create persiste la cabecera de un ingreso o egreso.
func (r *InventoryDocRepo) Create(doc *entity.InventoryDoc) error {
	query := `
		INSERT INTO inventory_docs (id, type, warehouse_id, supplier_id, date, currency, exchange_rate, total_usd, total_cs, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Type, doc.WarehouseID, nullIfEmpty(doc.SupplierID),
		doc.Date, doc.Currency, doc.ExchangeRate, doc.TotalUSD, doc.TotalCS,
		nullIfEmpty(doc.Note), doc.CreatedBy, doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory doc: %w", err)
	}
	return nil
}

// CreateItem persiste una línea del documento.
func (r *InventoryDocRepo) CreateItem(item *entity.InventoryDocItem) error {
	query := `
		INSERT INTO inventory_doc_items (id, doc_id, product_id, quantity, unit_cost_usd, unit_cost_cs, subtotal_usd, subtotal_cs)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.DocID, item.ProductID, item.Quantity,
		item.UnitCostUSD, item.UnitCostCS, item.SubtotalUSD, item.SubtotalCS,
	)
	if err != nil {
		return fmt.Errorf("insert inventory doc item: %w", err)
	}
	return nil
}

// GetByID obtiene un documento por ID, o nil si no existe.
func (r *InventoryDocRepo) GetByID(id string) (*entity.InventoryDoc, error) {
	query := `
		SELECT id, type, warehouse_id, COALESCE(supplier_id, ''), date, currency, exchange_rate, total_usd, total_cs, COALESCE(note, ''), created_by, created_at
		FROM inventory_docs WHERE id = $1`
	var d entity.InventoryDoc
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.Type, &d.WarehouseID, &d.SupplierID, &d.Date, &d.Currency,
		&d.ExchangeRate, &d.TotalUSD, &d.TotalCS, &d.Note, &d.CreatedBy, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory doc: %w", err)
	}
	return &d, nil
}

// GetItems devuelve las líneas del documento.
func (r *InventoryDocRepo) GetItems(docID string) ([]*entity.InventoryDocItem, error) {
	query := `
		SELECT id, doc_id, product_id, quantity, unit_cost_usd, unit_cost_cs, subtotal_usd, subtotal_cs
		FROM inventory_doc_items WHERE doc_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, docID)
	if err != nil {
		return nil, fmt.Errorf("list inventory doc items: %w", err)
	}
	defer rows.Close()

	var out []*entity.InventoryDocItem
	for rows.Next() {
		var it entity.InventoryDocItem
		if err := rows.Scan(
			&it.ID, &it.DocID, &it.ProductID, &it.Quantity,
			&it.UnitCostUSD, &it.UnitCostCS, &it.SubtotalUSD, &it.SubtotalCS,
		); err != nil {
			return nil, fmt.Errorf("scan inventory doc item: %w", err)
		}
		out = append(out, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory doc items: %w", err)
	}
	return out, nil
}
