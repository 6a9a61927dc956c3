package dto

import "time"

// CreateWarehouseRequest body para POST /api/v1/warehouses.
type CreateWarehouseRequest struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Address string `json:"address,omitempty"`
}

// WarehouseResponse representación HTTP de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateLocationRequest body para POST /api/v1/warehouses/locations.
type CreateLocationRequest struct {
	Name        string `json:"name"`
	WarehouseID string `json:"warehouse_id"`
	Type        string `json:"type,omitempty"` // storage | receiving | shipping
}

// LocationResponse representación HTTP de una ubicación.
type LocationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	WarehouseID string    `json:"warehouse_id"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}
