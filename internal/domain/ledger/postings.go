package ledger

import (
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// Posting delta con signo que una línea de movimiento produce en una ubicación.
type Posting struct {
	LocationID     string
	QuantityChange int64
}

// PostingsForLine calcula las entradas del libro que genera una línea según el
// tipo del movimiento:
//
//	receipt  → +qty en destino
//	delivery → -qty en origen
//	internal → -qty en origen y +qty en destino (neto cero sobre el total)
//
// Los ajustes no pasan por aquí: su delta lo calcula la reconciliación a partir
// del saldo del libro en la ubicación contada.
func PostingsForLine(movType string, qty int64, sourceLocationID, destinationLocationID string) ([]Posting, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	switch movType {
	case entity.MovementTypeReceipt:
		if destinationLocationID == "" {
			return nil, domain.ErrInvalidInput
		}
		return []Posting{{LocationID: destinationLocationID, QuantityChange: qty}}, nil
	case entity.MovementTypeDelivery:
		if sourceLocationID == "" {
			return nil, domain.ErrInvalidInput
		}
		return []Posting{{LocationID: sourceLocationID, QuantityChange: -qty}}, nil
	case entity.MovementTypeInternal:
		if sourceLocationID == "" || destinationLocationID == "" || sourceLocationID == destinationLocationID {
			return nil, domain.ErrInvalidInput
		}
		return []Posting{
			{LocationID: sourceLocationID, QuantityChange: -qty},
			{LocationID: destinationLocationID, QuantityChange: qty},
		}, nil
	}
	return nil, domain.ErrInvalidInput
}

// NetChange suma los deltas de un conjunto de postings (el efecto sobre el
// stock total del producto).
func NetChange(postings []Posting) int64 {
	var net int64
	for _, p := range postings {
		net += p.QuantityChange
	}
	return net
}
