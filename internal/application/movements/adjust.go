package movements

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
	"github.com/tu-usuario/stockmaster-api/pkg/metrics"
)

// AdjustInput conteo físico a reconciliar contra el libro de stock.
type AdjustInput struct {
	ProductID       string
	LocationID      string
	CountedQuantity int64
	Notes           string
}

// AdjustResult resultado de la reconciliación.
type AdjustResult struct {
	Reference             string
	LocationPreviousStock int64
	LocationNewStock      int64
	Difference            int64
	TotalStock            int64
}

// AdjustInventoryUseCase convierte un conteo físico en una ubicación en la
// corrección con signo que corresponde, registrada por el mismo camino de
// posteo que los demás movimientos.
//
// El saldo base es el de la UBICACIÓN contada —SUM(quantity_change) del libro
// para (org, producto, ubicación)—, nunca el total del producto: un producto
// con existencias en varias ubicaciones tiene saldos independientes y un
// cálculo ciego a la ubicación produce deltas incorrectos.
type AdjustInventoryUseCase struct {
	txRunner TxRunner
}

// NewAdjustInventoryUseCase construye la reconciliación.
func NewAdjustInventoryUseCase(txRunner TxRunner) *AdjustInventoryUseCase {
	return &AdjustInventoryUseCase{txRunner: txRunner}
}

// Adjust ejecuta la reconciliación en una sola transacción. La fila del
// producto se bloquea ANTES de leer el saldo del libro: dos reconciliaciones
// concurrentes sobre la misma (producto, ubicación) se serializan y la segunda
// calcula su diferencia contra el saldo que dejó la primera, no contra el
// saldo viejo (evita el lost update).
//
// Una diferencia de cero también se registra: es la constancia auditable de
// "conteo confirmado, sin cambios".
func (uc *AdjustInventoryUseCase) Adjust(ctx context.Context, orgID, userID string, in AdjustInput) (*AdjustResult, error) {
	if orgID == "" || in.ProductID == "" || in.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CountedQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}

	var result *AdjustResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
		locationRepo repository.LocationRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, orgID, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		location, err := locationRepo.GetByID(ctx, orgID, in.LocationID)
		if err != nil {
			return err
		}
		if location == nil {
			return domain.ErrNotFound
		}

		locationStock, err := ledgerRepo.LocationBalance(ctx, orgID, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		difference := in.CountedQuantity - locationStock

		now := time.Now().UTC()
		// reference es único por organización; el timestamp solo tiene
		// resolución de segundos, el sufijo aleatorio evita que dos conteos en
		// el mismo segundo choquen.
		reference := fmt.Sprintf("ADJ-%s-%s", now.Format("20060102-150405"), uuid.New().String()[:8])
		magnitude := difference
		if magnitude < 0 {
			magnitude = -magnitude
		}

		// El ajuste nace ya ejecutado: es un movimiento de un solo paso cuyo
		// delta quedó determinado por el conteo.
		mov := &entity.Movement{
			ID:                    uuid.New().String(),
			OrganizationID:        orgID,
			Type:                  entity.MovementTypeAdjustment,
			Status:                entity.MovementStatusDone,
			Reference:             reference,
			SourceLocationID:      in.LocationID,
			DestinationLocationID: in.LocationID,
			Notes:                 in.Notes,
			Lines: []entity.MovementLine{{
				ProductID:     product.ID,
				ProductName:   product.Name,
				ProductSKU:    product.SKU,
				Quantity:      magnitude,
				UnitOfMeasure: product.UnitOfMeasure,
			}},
			CreatedAt:  now,
			UpdatedAt:  now,
			CreatedBy:  userID,
			ExecutedAt: &now,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}

		newTotal := product.CurrentStock + difference
		if err := productRepo.UpdateStock(ctx, orgID, product.ID, newTotal); err != nil {
			return err
		}

		entry := &entity.LedgerEntry{
			ID:             uuid.New().String(),
			OrganizationID: orgID,
			ProductID:      product.ID,
			ProductName:    product.Name,
			ProductSKU:     product.SKU,
			MovementType:   entity.MovementTypeAdjustment,
			Reference:      reference,
			LocationID:     in.LocationID,
			LocationFromID: in.LocationID,
			LocationToID:   in.LocationID,
			Quantity:       magnitude,
			QuantityChange: difference,
			BalanceAfter:   newTotal,
			Timestamp:      now,
			CreatedBy:      userID,
		}
		if err := ledgerRepo.CreateBatch(ctx, []*entity.LedgerEntry{entry}); err != nil {
			return err
		}

		result = &AdjustResult{
			Reference:             reference,
			LocationPreviousStock: locationStock,
			LocationNewStock:      in.CountedQuantity,
			Difference:            difference,
			TotalStock:            newTotal,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Reconciliations.Inc()
	metrics.LedgerEntriesPosted.Inc()
	return result, nil
}
