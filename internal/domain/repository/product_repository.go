package repository

import (
	"context"

	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// ProductStats agregados para el dashboard.
type ProductStats struct {
	TotalProducts   int64
	LowStockItems   int64
	OutOfStockItems int64
	TotalUnits      int64
}

// ProductRepository persistencia de productos, acotada por organización.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, orgID, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE). Es la
	// sección crítica por (organización, producto): toda escritura de libro +
	// actualización de stock ocurre con este lock tomado.
	GetForUpdate(ctx context.Context, orgID, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, orgID, sku string) (*entity.Product, error)
	List(ctx context.Context, orgID, category string, limit, offset int) ([]*entity.Product, error)
	Search(ctx context.Context, orgID, query string, limit int) ([]*entity.Product, error)
	ListLowStock(ctx context.Context, orgID string) ([]*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	// UpdateStock fija el nuevo total cacheado. Solo el motor de ejecución y la
	// reconciliación llaman aquí, siempre bajo GetForUpdate.
	UpdateStock(ctx context.Context, orgID, id string, newStock int64) error
	Delete(ctx context.Context, orgID, id string) error
	Stats(ctx context.Context, orgID string) (ProductStats, error)
}
