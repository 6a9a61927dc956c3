package entity

import "time"

// LedgerEntry hecho inmutable del libro de stock: "en el instante T, la cantidad
// del producto P en la ubicación L cambió en Δ por causa del movimiento M,
// dejando el total del producto en B". Las entradas nunca se actualizan ni se
// borran; el libro es la fuente de verdad y el stock cacheado se deriva de él.
type LedgerEntry struct {
	ID             string
	OrganizationID string
	ProductID      string
	ProductName    string
	ProductSKU     string
	MovementType   string
	Reference      string
	LocationID     string // ubicación afectada por esta entrada
	LocationFromID string
	LocationToID   string
	Quantity       int64 // magnitud, para presentación
	QuantityChange int64 // delta con signo; la suma por producto reproduce el stock total
	BalanceAfter   int64 // stock total del producto (en toda la organización) tras esta entrada
	Timestamp      time.Time
	CreatedBy      string
}
