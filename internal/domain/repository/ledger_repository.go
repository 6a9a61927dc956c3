package repository

import (
	"context"

	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// LedgerFilter filtros para el historial del libro de stock.
type LedgerFilter struct {
	ProductID    string
	MovementType string
	Limit        int
	Offset       int
}

// LocationBalance saldo neto de un producto en una ubicación.
type LocationBalance struct {
	LocationID string
	Quantity   int64
}

// ProductBalance saldo neto de un producto dentro de una ubicación.
type ProductBalance struct {
	ProductID string
	Quantity  int64
}

// LedgerRepository almacenamiento append-only del libro de stock. Las entradas
// jamás se actualizan ni se borran.
type LedgerRepository interface {
	// CreateBatch inserta todas las entradas de un movimiento; dentro de una
	// transacción el lote es atómico (todo o nada).
	CreateBatch(ctx context.Context, entries []*entity.LedgerEntry) error
	// LocationBalance devuelve SUM(quantity_change) para (org, producto,
	// ubicación); sin filas el saldo es 0. Puede ser negativo o cero: el
	// llamador decide si lo presenta.
	LocationBalance(ctx context.Context, orgID, productID, locationID string) (int64, error)
	List(ctx context.Context, orgID string, f LedgerFilter) ([]*entity.LedgerEntry, error)
	// BalancesByLocation agrupa el saldo de un producto por ubicación,
	// filtrado a netos positivos (vista de "dónde hay existencias").
	BalancesByLocation(ctx context.Context, orgID, productID string) ([]LocationBalance, error)
	// BalancesByProduct agrupa el saldo de una ubicación por producto,
	// filtrado a netos positivos.
	BalancesByProduct(ctx context.Context, orgID, locationID string) ([]ProductBalance, error)
}
