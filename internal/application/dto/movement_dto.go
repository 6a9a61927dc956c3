package dto

import (
	"time"

	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// MovementLineRequest línea de un movimiento a crear. La cantidad es magnitud
// positiva; el signo lo aporta el tipo del movimiento.
type MovementLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CreateMovementRequest body para POST /api/v1/stock-movements.
// El movimiento siempre nace en draft; el estado no es un campo del cliente.
type CreateMovementRequest struct {
	Type                  string                `json:"type"`
	Reference             string                `json:"reference"`
	PartnerName           string                `json:"partner_name,omitempty"`
	SourceLocationID      string                `json:"source_location_id,omitempty"`
	DestinationLocationID string                `json:"destination_location_id,omitempty"`
	ScheduledDate         *time.Time            `json:"scheduled_date,omitempty"`
	Notes                 string                `json:"notes,omitempty"`
	Lines                 []MovementLineRequest `json:"lines"`
}

// UpdateMovementRequest body para PUT /api/v1/stock-movements/:id. Campos nil
// no se tocan. Status solo admite transiciones válidas del ciclo de vida
// (done jamás: a done se llega vía execute).
type UpdateMovementRequest struct {
	Status        *string    `json:"status,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	PartnerName   *string    `json:"partner_name,omitempty"`
}

// MovementLineResponse línea enriquecida con los datos del producto.
type MovementLineResponse struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	ProductSKU    string `json:"product_sku"`
	Quantity      int64  `json:"quantity"`
	UnitOfMeasure string `json:"unit_of_measure"`
}

// MovementResponse representación HTTP de un movimiento.
type MovementResponse struct {
	ID                    string                 `json:"id"`
	Type                  string                 `json:"type"`
	Status                string                 `json:"status"`
	Reference             string                 `json:"reference"`
	PartnerName           string                 `json:"partner_name,omitempty"`
	SourceLocationID      string                 `json:"source_location_id,omitempty"`
	DestinationLocationID string                 `json:"destination_location_id,omitempty"`
	Lines                 []MovementLineResponse `json:"lines"`
	ScheduledDate         *time.Time             `json:"scheduled_date,omitempty"`
	Notes                 string                 `json:"notes,omitempty"`
	CreatedAt             time.Time              `json:"created_at"`
	ExecutedAt            *time.Time             `json:"executed_at,omitempty"`
	CreatedBy             string                 `json:"created_by"`
}

// AdjustInventoryRequest body para POST /api/v1/stock-movements/adjust.
type AdjustInventoryRequest struct {
	ProductID       string `json:"product_id"`
	LocationID      string `json:"location_id"`
	CountedQuantity int64  `json:"counted_quantity"`
	Notes           string `json:"notes,omitempty"`
}

// AdjustInventoryResponse resultado de una reconciliación de conteo.
type AdjustInventoryResponse struct {
	Message               string `json:"message"`
	Reference             string `json:"reference"`
	LocationPreviousStock int64  `json:"location_previous_stock"`
	LocationNewStock      int64  `json:"location_new_stock"`
	Difference            int64  `json:"difference"`
	TotalStock            int64  `json:"total_stock"`
}

// LedgerEntryResponse entrada del libro de stock para el historial.
type LedgerEntryResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	ProductName    string    `json:"product_name"`
	ProductSKU     string    `json:"product_sku"`
	MovementType   string    `json:"movement_type"`
	Reference      string    `json:"reference"`
	LocationID     string    `json:"location_id,omitempty"`
	LocationFromID string    `json:"location_from,omitempty"`
	LocationToID   string    `json:"location_to,omitempty"`
	Quantity       int64     `json:"quantity"`
	QuantityChange int64     `json:"quantity_change"`
	BalanceAfter   int64     `json:"balance_after"`
	Timestamp      time.Time `json:"timestamp"`
	CreatedBy      string    `json:"created_by"`
}

// NewMovementResponse mapea la entidad a su representación HTTP.
func NewMovementResponse(m *entity.Movement) *MovementResponse {
	lines := make([]MovementLineResponse, 0, len(m.Lines))
	for _, l := range m.Lines {
		lines = append(lines, MovementLineResponse{
			ProductID:     l.ProductID,
			ProductName:   l.ProductName,
			ProductSKU:    l.ProductSKU,
			Quantity:      l.Quantity,
			UnitOfMeasure: l.UnitOfMeasure,
		})
	}
	return &MovementResponse{
		ID:                    m.ID,
		Type:                  m.Type,
		Status:                m.Status,
		Reference:             m.Reference,
		PartnerName:           m.PartnerName,
		SourceLocationID:      m.SourceLocationID,
		DestinationLocationID: m.DestinationLocationID,
		Lines:                 lines,
		ScheduledDate:         m.ScheduledDate,
		Notes:                 m.Notes,
		CreatedAt:             m.CreatedAt,
		ExecutedAt:            m.ExecutedAt,
		CreatedBy:             m.CreatedBy,
	}
}

// NewLedgerEntryResponse mapea una entrada del libro.
func NewLedgerEntryResponse(e *entity.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:             e.ID,
		ProductID:      e.ProductID,
		ProductName:    e.ProductName,
		ProductSKU:     e.ProductSKU,
		MovementType:   e.MovementType,
		Reference:      e.Reference,
		LocationID:     e.LocationID,
		LocationFromID: e.LocationFromID,
		LocationToID:   e.LocationToID,
		Quantity:       e.Quantity,
		QuantityChange: e.QuantityChange,
		BalanceAfter:   e.BalanceAfter,
		Timestamp:      e.Timestamp,
		CreatedBy:      e.CreatedBy,
	}
}
