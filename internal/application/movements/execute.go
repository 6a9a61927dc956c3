package movements

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/ledger"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
	"github.com/tu-usuario/stockmaster-api/pkg/metrics"
)

// ExecuteMovementUseCase transiciona exactamente un movimiento a done dentro de
// una transacción: escribe las entradas del libro de cada línea, actualiza el
// stock cacheado del producto y fija executed_at, todo o nada.
//
// Serialización: la fila del movimiento se toma con SELECT FOR UPDATE (dos
// ejecuciones concurrentes del mismo movimiento se ordenan y la segunda ve
// status=done), y la fila de cada producto también, de modo que toda escritura
// sobre una misma (organización, producto) queda en una sección crítica.
type ExecuteMovementUseCase struct {
	txRunner TxRunner
}

// NewExecuteMovementUseCase construye el motor de ejecución.
func NewExecuteMovementUseCase(txRunner TxRunner) *ExecuteMovementUseCase {
	return &ExecuteMovementUseCase{txRunner: txRunner}
}

// Execute ejecuta el movimiento identificado por movementID dentro de la
// organización orgID. userID queda registrado como actor de las entradas.
//
// Precondiciones, en orden: el movimiento existe en la organización
// (ErrNotFound); no está done (ErrAlreadyExecuted: reintentar jamás duplica el
// posteo); no está canceled (ErrConflict); no es un ajuste (los ajustes entran
// solo por la reconciliación); las ubicaciones referenciadas existen.
func (uc *ExecuteMovementUseCase) Execute(ctx context.Context, orgID, userID, movementID string) (*entity.Movement, error) {
	if orgID == "" || movementID == "" {
		return nil, domain.ErrInvalidInput
	}

	var executed *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
		locationRepo repository.LocationRepository,
	) error {
		mov, err := movRepo.GetForUpdate(ctx, orgID, movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		if mov.Status == entity.MovementStatusDone {
			return domain.ErrAlreadyExecuted
		}
		if mov.Status == entity.MovementStatusCanceled {
			return domain.ErrConflict
		}
		if mov.Type == entity.MovementTypeAdjustment {
			return domain.ErrInvalidInput
		}
		if len(mov.Lines) == 0 {
			return domain.ErrInvalidInput
		}
		if err := validateLocations(ctx, locationRepo, orgID, mov); err != nil {
			return err
		}

		// Los productos se bloquean en orden de id, no en el orden de las
		// líneas: dos movimientos que listan los mismos productos en órdenes
		// opuestos tomarían los locks cruzados y Postgres abortaría uno por
		// deadlock.
		for _, id := range sortedProductIDs(mov.Lines) {
			product, err := productRepo.GetForUpdate(ctx, orgID, id)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
		}

		now := time.Now().UTC()
		for _, line := range mov.Lines {
			// la fila ya quedó bloqueada arriba; esta lectura ve el stock que
			// dejaron las líneas anteriores de la misma transacción
			product, err := productRepo.GetForUpdate(ctx, orgID, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}

			postings, err := ledger.PostingsForLine(mov.Type, line.Quantity, mov.SourceLocationID, mov.DestinationLocationID)
			if err != nil {
				return err
			}

			// balance_after de cada entrada es el total del producto tras
			// aplicar el delta de la línea; en un internal el neto es cero y
			// ambas entradas registran el mismo total sin cambios.
			newStock := product.CurrentStock + ledger.NetChange(postings)
			if err := productRepo.UpdateStock(ctx, orgID, product.ID, newStock); err != nil {
				return err
			}

			entries := make([]*entity.LedgerEntry, 0, len(postings))
			for _, p := range postings {
				entries = append(entries, &entity.LedgerEntry{
					ID:             uuid.New().String(),
					OrganizationID: orgID,
					ProductID:      product.ID,
					ProductName:    product.Name,
					ProductSKU:     product.SKU,
					MovementType:   mov.Type,
					Reference:      mov.Reference,
					LocationID:     p.LocationID,
					LocationFromID: mov.SourceLocationID,
					LocationToID:   mov.DestinationLocationID,
					Quantity:       line.Quantity,
					QuantityChange: p.QuantityChange,
					BalanceAfter:   newStock,
					Timestamp:      now,
					CreatedBy:      userID,
				})
			}
			if err := ledgerRepo.CreateBatch(ctx, entries); err != nil {
				return err
			}
		}

		// Compare-and-swap sobre el estado: las entradas ya están escritas en
		// la tx, pero nada es visible hasta el commit, y solo se comitea si la
		// fila seguía en estado no terminal.
		ok, err := movRepo.MarkExecuted(ctx, orgID, movementID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyExecuted
		}

		mov.Status = entity.MovementStatusDone
		mov.ExecutedAt = &now
		mov.UpdatedAt = now
		executed = mov
		return nil
	})
	if err != nil {
		metrics.ExecutionFailures.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	metrics.MovementsExecuted.WithLabelValues(executed.Type).Inc()
	entriesPerLine := 1
	if executed.Type == entity.MovementTypeInternal {
		entriesPerLine = 2
	}
	metrics.LedgerEntriesPosted.Add(float64(entriesPerLine * len(executed.Lines)))
	return executed, nil
}

// validateLocations verifica que las ubicaciones que el tipo exige estén
// informadas y existan en la organización.
func validateLocations(ctx context.Context, locationRepo repository.LocationRepository, orgID string, mov *entity.Movement) error {
	var required []string
	switch mov.Type {
	case entity.MovementTypeReceipt:
		if mov.DestinationLocationID == "" {
			return domain.ErrInvalidInput
		}
		required = []string{mov.DestinationLocationID}
	case entity.MovementTypeDelivery:
		if mov.SourceLocationID == "" {
			return domain.ErrInvalidInput
		}
		required = []string{mov.SourceLocationID}
	case entity.MovementTypeInternal:
		if mov.SourceLocationID == "" || mov.DestinationLocationID == "" || mov.SourceLocationID == mov.DestinationLocationID {
			return domain.ErrInvalidInput
		}
		required = []string{mov.SourceLocationID, mov.DestinationLocationID}
	default:
		return domain.ErrInvalidInput
	}
	for _, id := range required {
		loc, err := locationRepo.GetByID(ctx, orgID, id)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// sortedProductIDs ids únicos de producto de las líneas, en orden ascendente.
func sortedProductIDs(lines []entity.MovementLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	sort.Strings(ids)
	return ids
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyExecuted):
		return "already_executed"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrConcurrency):
		return "concurrency"
	}
	return "internal"
}
