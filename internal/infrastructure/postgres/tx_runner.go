package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/stockmaster-api/internal/application/movements"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

var _ movements.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Los repos
// que recibe el callback están atados a la tx, así que los locks de fila
// (SELECT FOR UPDATE) viven hasta el Commit/Rollback.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	ledgerRepo := NewLedgerRepository(tx)
	productRepo := NewProductRepository(tx)
	locationRepo := NewLocationRepository(tx)

	if err := fn(movRepo, ledgerRepo, productRepo, locationRepo); err != nil {
		if isConcurrencyFailure(err) {
			return domain.ErrConcurrency
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isConcurrencyFailure(err) {
			return domain.ErrConcurrency
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
