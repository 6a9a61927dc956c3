package entity

import "time"

// Organization es la frontera de aislamiento multi-tenant: todo producto,
// ubicación, movimiento y entrada del libro pertenece a exactamente una.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
}
