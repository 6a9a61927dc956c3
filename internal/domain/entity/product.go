package entity

import "time"

// Product representa un producto o SKU del inventario.
// CurrentStock es un cache del total derivable del libro de stock; solo lo
// mutan el motor de ejecución y la reconciliación, nunca un request directo.
type Product struct {
	ID             string
	OrganizationID string
	SKU            string // único por organización
	Name           string
	Category       string
	Description    string
	UnitOfMeasure  string
	CurrentStock   int64 // puede quedar negativo: la sobre-entrega no se bloquea
	ReorderLevel   int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CreatedBy      string
}

// IsLowStock indica si el producto está en o por debajo de su punto de reorden.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.ReorderLevel
}
