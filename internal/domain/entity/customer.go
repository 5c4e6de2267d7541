package entity

import "time"

// Customer es un cliente del catálogo (colaborador externo, solo lectura).
type Customer struct {
	ID             string
	Name           string
	Identification string
	Phone          string
	Email          string
	Address        string
	Active         bool
	CreatedAt      time.Time
}

// Salesperson es un vendedor asignado a una o más bodegas.
type Salesperson struct {
	ID        string
	Name      string
	Phone     string
	Active    bool
	CreatedAt time.Time
}
