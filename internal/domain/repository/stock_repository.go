package repository

import "github.com/orangetec/calzapos/internal/domain/entity"

// StockRepository mantiene el saldo materializado por (producto, bodega).
type StockRepository interface {
	Get(productID, warehouseID string) (*entity.Stock, error)

	// GetForUpdate bloquea la fila del saldo (SELECT FOR UPDATE). Es el punto
	// de serialización de todas las escrituras de movimientos del par.
	GetForUpdate(productID, warehouseID string) (*entity.Stock, error)

	Upsert(stock *entity.Stock) error
}
