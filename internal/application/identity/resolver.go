package identity

import (
	"context"

	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// Resolver traduce el usuario autenticado del token a la organización sobre la
// que operan todos los casos de uso. El token no lleva la organización: se
// resuelve por petición, de modo que invitar o expulsar a un miembro surte
// efecto sin esperar a que expire el JWT.
type Resolver struct {
	userRepo repository.UserRepository
}

// NewResolver construye el resolver de tenant.
func NewResolver(userRepo repository.UserRepository) *Resolver {
	return &Resolver{userRepo: userRepo}
}

// OrganizationID devuelve la organización del usuario. Un usuario sin
// organización asignada todavía puede autenticarse pero no operar inventario:
// ErrTenantNotFound.
func (r *Resolver) OrganizationID(ctx context.Context, userID string) (string, error) {
	user, err := r.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrUserNotFound
	}
	if user.OrganizationID == "" {
		return "", domain.ErrTenantNotFound
	}
	return user.OrganizationID, nil
}
