package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos.
type MovementFilter struct {
	Type   string
	Status string
	Limit  int
	Offset int
}

// MovementRepository persistencia de movimientos de stock. Todas las lecturas y
// escrituras están acotadas por organización: ningún método cruza tenants.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, orgID, id string) (*entity.Movement, error)
	// GetForUpdate bloquea la fila del movimiento (SELECT FOR UPDATE) para
	// serializar ejecuciones concurrentes del mismo movimiento.
	GetForUpdate(ctx context.Context, orgID, id string) (*entity.Movement, error)
	List(ctx context.Context, orgID string, f MovementFilter) ([]*entity.Movement, error)
	Update(ctx context.Context, m *entity.Movement) error
	// MarkExecuted transiciona a done con compare-and-swap: solo afecta la fila
	// si el estado aún no es terminal. Devuelve false si no había nada que
	// transicionar (ya done o canceled).
	MarkExecuted(ctx context.Context, orgID, id string, at time.Time) (bool, error)
	// CountPending cuenta movimientos del tipo dado en estado no terminal.
	CountPending(ctx context.Context, orgID, movType string) (int64, error)
}
