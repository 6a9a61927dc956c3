package repository

import (
	"context"

	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// WarehouseRepository persistencia de bodegas, acotada por organización.
type WarehouseRepository interface {
	Create(ctx context.Context, w *entity.Warehouse) error
	GetByID(ctx context.Context, orgID, id string) (*entity.Warehouse, error)
	List(ctx context.Context, orgID string) ([]*entity.Warehouse, error)
}

// LocationRepository persistencia de ubicaciones, acotada por organización.
type LocationRepository interface {
	Create(ctx context.Context, l *entity.Location) error
	GetByID(ctx context.Context, orgID, id string) (*entity.Location, error)
	List(ctx context.Context, orgID string) ([]*entity.Location, error)
	ListByWarehouse(ctx context.Context, orgID, warehouseID string) ([]*entity.Location, error)
}
