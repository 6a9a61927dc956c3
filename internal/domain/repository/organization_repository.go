package repository

import (
	"context"

	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// OrganizationRepository persistencia de organizaciones.
type OrganizationRepository interface {
	Create(ctx context.Context, o *entity.Organization) error
	GetByID(ctx context.Context, id string) (*entity.Organization, error)
}
