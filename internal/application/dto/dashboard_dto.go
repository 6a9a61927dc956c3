package dto

// DashboardKPIs indicadores del tablero, siempre de la organización del usuario.
type DashboardKPIs struct {
	TotalProducts     int64 `json:"total_products"`
	LowStockItems     int64 `json:"low_stock_items"`
	OutOfStockItems   int64 `json:"out_of_stock_items"`
	TotalUnits        int64 `json:"total_units"`
	PendingReceipts   int64 `json:"pending_receipts"`
	PendingDeliveries int64 `json:"pending_deliveries"`
	InternalTransfers int64 `json:"internal_transfers"`
}
