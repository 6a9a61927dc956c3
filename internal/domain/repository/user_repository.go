package repository

import (
	"context"

	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// UserRepository persistencia de usuarios y membresía de organización.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByOrganization(ctx context.Context, orgID string) ([]*entity.User, error)
	// SetOrganization asigna (o cambia) la organización y el rol del usuario.
	SetOrganization(ctx context.Context, userID, orgID, role string) error
	// RemoveFromOrganization desvincula al usuario de la organización.
	RemoveFromOrganization(ctx context.Context, userID, orgID string) error
	UpdateRole(ctx context.Context, userID, orgID, role string) error
}
