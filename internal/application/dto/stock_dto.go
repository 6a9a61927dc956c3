package dto

// LocationStockDTO saldo de un producto en una ubicación concreta.
type LocationStockDTO struct {
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
	Quantity     int64  `json:"quantity"`
}

// ProductLocationStockResponse "dónde está el producto P": saldos por
// ubicación derivados del libro de stock (solo netos positivos).
type ProductLocationStockResponse struct {
	ProductID   string             `json:"product_id"`
	ProductName string             `json:"product_name"`
	ProductSKU  string             `json:"product_sku"`
	TotalStock  int64              `json:"total_stock"`
	Locations   []LocationStockDTO `json:"locations"`
}

// LocationProductDTO producto con saldo dentro de una ubicación.
type LocationProductDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	ProductSKU  string `json:"product_sku"`
	Quantity    int64  `json:"quantity"`
}

// LocationStockSummaryResponse "qué hay en la ubicación L".
type LocationStockSummaryResponse struct {
	LocationID    string               `json:"location_id"`
	LocationName  string               `json:"location_name"`
	WarehouseID   string               `json:"warehouse_id"`
	WarehouseName string               `json:"warehouse_name"`
	Products      []LocationProductDTO `json:"products"`
	TotalProducts int                  `json:"total_products"`
}
