package movements

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// UseCase operaciones de ciclo de vida de movimientos que no postean stock:
// crear (siempre en draft), consultar, listar y actualizar. Las transiciones
// que sí tienen efectos (done) viven en ExecuteMovementUseCase.
type UseCase struct {
	movRepo      repository.MovementRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewUseCase construye el caso de uso de movimientos.
func NewUseCase(movRepo repository.MovementRepository, productRepo repository.ProductRepository, locationRepo repository.LocationRepository) *UseCase {
	return &UseCase{movRepo: movRepo, productRepo: productRepo, locationRepo: locationRepo}
}

// Create valida y persiste un movimiento en draft. El tipo queda fijado para
// siempre; adjustment se rechaza aquí porque los ajustes solo los sintetiza la
// reconciliación. Las líneas se enriquecen con nombre, SKU y unidad de medida
// del registro de productos.
func (uc *UseCase) Create(ctx context.Context, orgID, userID string, in dto.CreateMovementRequest) (*entity.Movement, error) {
	if !entity.ValidMovementType(in.Type) || in.Type == entity.MovementTypeAdjustment {
		return nil, domain.ErrInvalidInput
	}
	if in.Reference == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.validateEndpoints(ctx, orgID, in.Type, in.SourceLocationID, in.DestinationLocationID); err != nil {
		return nil, err
	}

	lines := make([]entity.MovementLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(ctx, orgID, l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		lines = append(lines, entity.MovementLine{
			ProductID:     product.ID,
			ProductName:   product.Name,
			ProductSKU:    product.SKU,
			Quantity:      l.Quantity,
			UnitOfMeasure: product.UnitOfMeasure,
		})
	}

	now := time.Now().UTC()
	mov := &entity.Movement{
		ID:                    uuid.New().String(),
		OrganizationID:        orgID,
		Type:                  in.Type,
		Status:                entity.MovementStatusDraft,
		Reference:             in.Reference,
		PartnerName:           in.PartnerName,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		Lines:                 lines,
		ScheduledDate:         in.ScheduledDate,
		Notes:                 in.Notes,
		CreatedAt:             now,
		UpdatedAt:             now,
		CreatedBy:             userID,
	}
	if err := uc.movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// GetByID devuelve un movimiento de la organización o nil.
func (uc *UseCase) GetByID(ctx context.Context, orgID, id string) (*entity.Movement, error) {
	return uc.movRepo.GetByID(ctx, orgID, id)
}

// List lista movimientos con filtros opcionales de tipo y estado.
func (uc *UseCase) List(ctx context.Context, orgID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	if f.Type != "" && !entity.ValidMovementType(f.Type) {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.List(ctx, orgID, f)
}

// Update aplica cambios parciales a un movimiento no terminal. Un movimiento
// done está lógicamente congelado y un canceled también: ErrConflict.
// Un cambio de estado solo se acepta si es una transición válida del ciclo de
// vida; done nunca entra por aquí.
func (uc *UseCase) Update(ctx context.Context, orgID, id string, in dto.UpdateMovementRequest) (*entity.Movement, error) {
	mov, err := uc.movRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	if mov.IsTerminal() {
		return nil, domain.ErrConflict
	}

	if in.Status != nil {
		if !entity.CanTransition(mov.Status, *in.Status) {
			return nil, domain.ErrInvalidInput
		}
		mov.Status = *in.Status
	}
	if in.Notes != nil {
		mov.Notes = *in.Notes
	}
	if in.ScheduledDate != nil {
		mov.ScheduledDate = in.ScheduledDate
	}
	if in.PartnerName != nil {
		mov.PartnerName = *in.PartnerName
	}
	mov.UpdatedAt = time.Now().UTC()

	if err := uc.movRepo.Update(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// validateEndpoints exige las ubicaciones que el tipo requiere y verifica que
// existan en la organización.
func (uc *UseCase) validateEndpoints(ctx context.Context, orgID, movType, sourceID, destinationID string) error {
	var required []string
	switch movType {
	case entity.MovementTypeReceipt:
		if destinationID == "" {
			return domain.ErrInvalidInput
		}
		required = []string{destinationID}
	case entity.MovementTypeDelivery:
		if sourceID == "" {
			return domain.ErrInvalidInput
		}
		required = []string{sourceID}
	case entity.MovementTypeInternal:
		if sourceID == "" || destinationID == "" || sourceID == destinationID {
			return domain.ErrInvalidInput
		}
		required = []string{sourceID, destinationID}
	}
	for _, locID := range required {
		loc, err := uc.locationRepo.GetByID(ctx, orgID, locID)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}
