package entity

import "time"

// Roles dentro de una organización.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User cuenta de acceso. OrganizationID queda vacío hasta que el usuario crea
// una organización o es agregado como miembro de una.
type User struct {
	ID             string
	OrganizationID string
	Email          string
	FullName       string
	PasswordHash   string
	Role           string
	Status         string // active | disabled
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
