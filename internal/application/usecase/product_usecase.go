package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/application/movements"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock actual no se edita
// por aquí: solo lo mutan el motor de ejecución y la reconciliación.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner movements.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner movements.TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner}
}

// Create crea un producto con SKU único por organización. Si viene stock
// inicial con ubicación, se siembra la entrada de apertura en el libro en la
// misma transacción: el invariante stock == Σ deltas se cumple desde el
// nacimiento del producto.
func (uc *ProductUseCase) Create(ctx context.Context, orgID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.SKU == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialStock < 0 || in.ReorderLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialStock > 0 && in.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(ctx, orgID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		SKU:            in.SKU,
		Name:           in.Name,
		Category:       in.Category,
		Description:    in.Description,
		UnitOfMeasure:  in.UnitOfMeasure,
		CurrentStock:   in.InitialStock,
		ReorderLevel:   in.ReorderLevel,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      userID,
	}

	err = uc.txRunner.Run(ctx, func(_ repository.MovementRepository, ledgerRepo repository.LedgerRepository, productRepo repository.ProductRepository, locationRepo repository.LocationRepository) error {
		if in.InitialStock > 0 {
			loc, err := locationRepo.GetByID(ctx, orgID, in.LocationID)
			if err != nil {
				return err
			}
			if loc == nil {
				return domain.ErrNotFound
			}
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		entry := &entity.LedgerEntry{
			ID:             uuid.New().String(),
			OrganizationID: orgID,
			ProductID:      product.ID,
			ProductName:    product.Name,
			ProductSKU:     product.SKU,
			MovementType:   entity.MovementTypeReceipt,
			Reference:      fmt.Sprintf("Initial Stock - %s", product.SKU),
			LocationID:     in.LocationID,
			LocationToID:   in.LocationID,
			Quantity:       in.InitialStock,
			QuantityChange: in.InitialStock,
			BalanceAfter:   in.InitialStock,
			Timestamp:      now,
			CreatedBy:      userID,
		}
		return ledgerRepo.CreateBatch(ctx, []*entity.LedgerEntry{entry})
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la organización.
func (uc *ProductUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista productos con filtro opcional por categoría.
func (uc *ProductUseCase) List(ctx context.Context, orgID, category string, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	products, err := uc.repo.List(ctx, orgID, category, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// Search busca por nombre o SKU (subcadena, sin distinción de mayúsculas).
func (uc *ProductUseCase) Search(ctx context.Context, orgID, query string, limit int) ([]*dto.ProductResponse, error) {
	if query == "" {
		return nil, domain.ErrInvalidInput
	}
	products, err := uc.repo.Search(ctx, orgID, query, limit)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// ListLowStock productos en o por debajo de su punto de reorden.
func (uc *ProductUseCase) ListLowStock(ctx context.Context, orgID string) ([]*dto.ProductResponse, error) {
	products, err := uc.repo.ListLowStock(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// Update aplica cambios parciales; el stock actual nunca.
func (uc *ProductUseCase) Update(ctx context.Context, orgID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.SKU != nil && *in.SKU != product.SKU {
		other, err := uc.repo.GetBySKU(ctx, orgID, *in.SKU)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
		product.SKU = *in.SKU
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.UnitOfMeasure != nil {
		product.UnitOfMeasure = *in.UnitOfMeasure
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.ReorderLevel = *in.ReorderLevel
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto de la organización.
func (uc *ProductUseCase) Delete(ctx context.Context, orgID, id string) error {
	product, err := uc.repo.GetByID(ctx, orgID, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, orgID, id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Category:      p.Category,
		UnitOfMeasure: p.UnitOfMeasure,
		Description:   p.Description,
		CurrentStock:  p.CurrentStock,
		ReorderLevel:  p.ReorderLevel,
		IsLowStock:    p.IsLowStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toProductResponses(products []*entity.Product) []*dto.ProductResponse {
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}
