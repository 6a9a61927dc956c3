package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeReceipt    = "receipt"    // entrada de mercancía
	MovementTypeDelivery   = "delivery"   // salida hacia cliente
	MovementTypeInternal   = "internal"   // traslado entre ubicaciones (no altera el total)
	MovementTypeAdjustment = "adjustment" // ajuste por conteo físico; solo lo crea la reconciliación
)

// Estados del ciclo de vida de un movimiento.
// draft → waiting → ready → done; canceled es alcanzable desde cualquier estado no-done.
// done y canceled son terminales.
const (
	MovementStatusDraft    = "draft"
	MovementStatusWaiting  = "waiting"
	MovementStatusReady    = "ready"
	MovementStatusDone     = "done"
	MovementStatusCanceled = "canceled"
)

// MovementLine línea de un movimiento. Quantity es siempre magnitud positiva;
// el signo lo determina el tipo del movimiento al momento de ejecutar.
type MovementLine struct {
	ProductID     string
	ProductName   string
	ProductSKU    string
	Quantity      int64
	UnitOfMeasure string
}

// Movement operación de stock declarada (intención). No toca cantidades hasta
// que el motor de ejecución la transiciona a done.
type Movement struct {
	ID                    string
	OrganizationID        string
	Type                  string
	Status                string
	Reference             string
	PartnerName           string
	SourceLocationID      string
	DestinationLocationID string
	Lines                 []MovementLine
	ScheduledDate         *time.Time
	Notes                 string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	CreatedBy             string
	ExecutedAt            *time.Time // se asigna una sola vez, al pasar a done
}

// IsTerminal indica si el movimiento ya no admite transiciones.
func (m *Movement) IsTerminal() bool {
	return m.Status == MovementStatusDone || m.Status == MovementStatusCanceled
}

// ValidMovementType valida el tipo declarado.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeReceipt, MovementTypeDelivery, MovementTypeInternal, MovementTypeAdjustment:
		return true
	}
	return false
}

// CanTransition valida una transición de estado solicitada por el cliente.
// done nunca es destino válido aquí: a done solo se llega vía ejecución.
func CanTransition(from, to string) bool {
	if from == MovementStatusDone || from == MovementStatusCanceled {
		return false
	}
	if to == MovementStatusCanceled {
		return true
	}
	switch from {
	case MovementStatusDraft:
		return to == MovementStatusWaiting
	case MovementStatusWaiting:
		return to == MovementStatusReady
	}
	return false
}
