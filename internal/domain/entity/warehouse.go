package entity

import "time"

// Warehouse representa una bodega física de la organización.
type Warehouse struct {
	ID             string
	OrganizationID string
	Name           string
	Code           string
	Address        string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Tipos de ubicación dentro de una bodega.
const (
	LocationTypeStorage   = "storage"
	LocationTypeReceiving = "receiving"
	LocationTypeShipping  = "shipping"
)

// ValidLocationType valida un tipo de ubicación.
func ValidLocationType(t string) bool {
	switch t {
	case LocationTypeStorage, LocationTypeReceiving, LocationTypeShipping:
		return true
	}
	return false
}

// Location ubicación concreta dentro de una bodega. Los movimientos referencian
// ubicaciones, no bodegas; el libro de stock lleva saldo por ubicación.
type Location struct {
	ID             string
	OrganizationID string
	WarehouseID    string
	Name           string
	Type           string
	CreatedAt      time.Time
}
