package stock

import (
	"context"

	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// UseCase vistas de existencias derivadas del libro de stock: el libro es la
// fuente de verdad y estas consultas lo agregan por ubicación o por producto.
type UseCase struct {
	ledgerRepo    repository.LedgerRepository
	productRepo   repository.ProductRepository
	locationRepo  repository.LocationRepository
	warehouseRepo repository.WarehouseRepository
}

// NewUseCase construye las vistas de stock.
func NewUseCase(ledgerRepo repository.LedgerRepository, productRepo repository.ProductRepository, locationRepo repository.LocationRepository, warehouseRepo repository.WarehouseRepository) *UseCase {
	return &UseCase{ledgerRepo: ledgerRepo, productRepo: productRepo, locationRepo: locationRepo, warehouseRepo: warehouseRepo}
}

// ProductLocationStock responde "dónde está el producto": saldos netos
// positivos por ubicación. El total reportado es la suma de esos saldos.
func (uc *UseCase) ProductLocationStock(ctx context.Context, orgID, productID string) (*dto.ProductLocationStockResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	balances, err := uc.ledgerRepo.BalancesByLocation(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProductLocationStockResponse{
		ProductID:   product.ID,
		ProductName: product.Name,
		ProductSKU:  product.SKU,
		Locations:   make([]dto.LocationStockDTO, 0, len(balances)),
	}
	for _, b := range balances {
		name := ""
		if loc, err := uc.locationRepo.GetByID(ctx, orgID, b.LocationID); err != nil {
			return nil, err
		} else if loc != nil {
			name = loc.Name
		}
		resp.Locations = append(resp.Locations, dto.LocationStockDTO{
			LocationID:   b.LocationID,
			LocationName: name,
			Quantity:     b.Quantity,
		})
		resp.TotalStock += b.Quantity
	}
	return resp, nil
}

// AllProductsLocationStock la vista anterior para todos los productos de la
// organización.
func (uc *UseCase) AllProductsLocationStock(ctx context.Context, orgID string) ([]*dto.ProductLocationStockResponse, error) {
	products, err := uc.productRepo.List(ctx, orgID, "", 0, 0)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductLocationStockResponse, 0, len(products))
	for _, p := range products {
		view, err := uc.ProductLocationStock(ctx, orgID, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// LocationStockSummary responde "qué hay en la ubicación": productos con
// saldo neto positivo.
func (uc *UseCase) LocationStockSummary(ctx context.Context, orgID, locationID string) (*dto.LocationStockSummaryResponse, error) {
	location, err := uc.locationRepo.GetByID(ctx, orgID, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}

	warehouseName := ""
	if wh, err := uc.warehouseRepo.GetByID(ctx, orgID, location.WarehouseID); err != nil {
		return nil, err
	} else if wh != nil {
		warehouseName = wh.Name
	}

	balances, err := uc.ledgerRepo.BalancesByProduct(ctx, orgID, locationID)
	if err != nil {
		return nil, err
	}

	resp := &dto.LocationStockSummaryResponse{
		LocationID:    location.ID,
		LocationName:  location.Name,
		WarehouseID:   location.WarehouseID,
		WarehouseName: warehouseName,
		Products:      make([]dto.LocationProductDTO, 0, len(balances)),
	}
	for _, b := range balances {
		item := dto.LocationProductDTO{ProductID: b.ProductID, Quantity: b.Quantity}
		if p, err := uc.productRepo.GetByID(ctx, orgID, b.ProductID); err != nil {
			return nil, err
		} else if p != nil {
			item.ProductName = p.Name
			item.ProductSKU = p.SKU
		}
		resp.Products = append(resp.Products, item)
	}
	resp.TotalProducts = len(resp.Products)
	return resp, nil
}

// AllLocationsSummary la vista anterior para todas las ubicaciones.
func (uc *UseCase) AllLocationsSummary(ctx context.Context, orgID string) ([]*dto.LocationStockSummaryResponse, error) {
	locations, err := uc.locationRepo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.LocationStockSummaryResponse, 0, len(locations))
	for _, l := range locations {
		view, err := uc.LocationStockSummary(ctx, orgID, l.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// LedgerHistory historial del libro, más reciente primero, con filtros
// opcionales por producto y tipo de movimiento.
func (uc *UseCase) LedgerHistory(ctx context.Context, orgID string, f repository.LedgerFilter) ([]*dto.LedgerEntryResponse, error) {
	entries, err := uc.ledgerRepo.List(ctx, orgID, f)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.NewLedgerEntryResponse(e))
	}
	return out, nil
}
