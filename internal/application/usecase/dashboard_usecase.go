package usecase

import (
	"context"

	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// DashboardUseCase arma los KPIs del tablero a partir de los agregados de
// productos y movimientos pendientes.
type DashboardUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(productRepo repository.ProductRepository, movRepo repository.MovementRepository) *DashboardUseCase {
	return &DashboardUseCase{productRepo: productRepo, movRepo: movRepo}
}

// KPIs agregados de la organización: totales de catálogo, alertas de stock y
// movimientos pendientes por tipo.
func (uc *DashboardUseCase) KPIs(ctx context.Context, orgID string) (*dto.DashboardKPIs, error) {
	stats, err := uc.productRepo.Stats(ctx, orgID)
	if err != nil {
		return nil, err
	}
	receipts, err := uc.movRepo.CountPending(ctx, orgID, entity.MovementTypeReceipt)
	if err != nil {
		return nil, err
	}
	deliveries, err := uc.movRepo.CountPending(ctx, orgID, entity.MovementTypeDelivery)
	if err != nil {
		return nil, err
	}
	transfers, err := uc.movRepo.CountPending(ctx, orgID, entity.MovementTypeInternal)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardKPIs{
		TotalProducts:     stats.TotalProducts,
		LowStockItems:     stats.LowStockItems,
		OutOfStockItems:   stats.OutOfStockItems,
		TotalUnits:        stats.TotalUnits,
		PendingReceipts:   receipts,
		PendingDeliveries: deliveries,
		InternalTransfers: transfers,
	}, nil
}
