package entity

import "time"

// Branch es una sucursal de la cadena. Su prefijo forma parte del número
// visible de facturas, abonos y recibos emitidos por sus bodegas.
type Branch struct {
	ID        string
	Code      string
	Name      string
	Prefix    string // prefijo de numeración de documentos
	Active    bool
	CreatedAt time.Time
}

// Warehouse es una bodega; pertenece exactamente a una sucursal.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	BranchID  string
	Active    bool
	CreatedAt time.Time
}
