package movements

import (
	"context"

	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la garantía de atomicidad del motor: las N
// entradas del libro, la actualización del stock cacheado y el cambio de estado
// del movimiento se vuelven visibles todas juntas o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
		locationRepo repository.LocationRepository,
	) error) error
}
