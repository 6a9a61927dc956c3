package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso de bodegas y sus ubicaciones.
type WarehouseUseCase struct {
	warehouseRepo repository.WarehouseRepository
	locationRepo  repository.LocationRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(warehouseRepo repository.WarehouseRepository, locationRepo repository.LocationRepository) *WarehouseUseCase {
	return &WarehouseUseCase{warehouseRepo: warehouseRepo, locationRepo: locationRepo}
}

// Create crea una bodega y su ubicación de almacenamiento por defecto, para
// que una bodega recién creada pueda recibir stock sin pasos adicionales.
func (uc *WarehouseUseCase) Create(ctx context.Context, orgID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if in.Name == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	warehouse := &entity.Warehouse{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Name:           in.Name,
		Code:           in.Code,
		Address:        in.Address,
		IsActive:       true,
		CreatedAt:      now,
	}
	if err := uc.warehouseRepo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	defaultLoc := &entity.Location{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		WarehouseID:    warehouse.ID,
		Name:           in.Name + " / Stock",
		Type:           entity.LocationTypeStorage,
		CreatedAt:      now,
	}
	if err := uc.locationRepo.Create(ctx, defaultLoc); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega de la organización.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.warehouseRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista las bodegas de la organización.
func (uc *WarehouseUseCase) List(ctx context.Context, orgID string) ([]*dto.WarehouseResponse, error) {
	warehouses, err := uc.warehouseRepo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.WarehouseResponse, 0, len(warehouses))
	for _, w := range warehouses {
		out = append(out, toWarehouseResponse(w))
	}
	return out, nil
}

// CreateLocation crea una ubicación dentro de una bodega existente.
func (uc *WarehouseUseCase) CreateLocation(ctx context.Context, orgID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Name == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	locType := in.Type
	if locType == "" {
		locType = entity.LocationTypeStorage
	}
	if !entity.ValidLocationType(locType) {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.warehouseRepo.GetByID(ctx, orgID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	location := &entity.Location{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		WarehouseID:    in.WarehouseID,
		Name:           in.Name,
		Type:           locType,
		CreatedAt:      time.Now().UTC(),
	}
	if err := uc.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// ListLocations lista las ubicaciones de una bodega.
func (uc *WarehouseUseCase) ListLocations(ctx context.Context, orgID, warehouseID string) ([]*dto.LocationResponse, error) {
	warehouse, err := uc.warehouseRepo.GetByID(ctx, orgID, warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	locations, err := uc.locationRepo.ListByWarehouse(ctx, orgID, warehouseID)
	if err != nil {
		return nil, err
	}
	return toLocationResponses(locations), nil
}

// ListAllLocations todas las ubicaciones de la organización.
func (uc *WarehouseUseCase) ListAllLocations(ctx context.Context, orgID string) ([]*dto.LocationResponse, error) {
	locations, err := uc.locationRepo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return toLocationResponses(locations), nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Code:      w.Code,
		Address:   w.Address,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
	}
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:          l.ID,
		Name:        l.Name,
		WarehouseID: l.WarehouseID,
		Type:        l.Type,
		CreatedAt:   l.CreatedAt,
	}
}

func toLocationResponses(locations []*entity.Location) []*dto.LocationResponse {
	out := make([]*dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, toLocationResponse(l))
	}
	return out
}
