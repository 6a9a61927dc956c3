package dto

import "time"

// CreateProductRequest body para POST /api/v1/products.
// Si InitialStock > 0 y LocationID viene informado, se siembra una entrada
// inicial en el libro de stock para que el invariante stock == Σ deltas se
// cumpla desde el nacimiento del producto.
type CreateProductRequest struct {
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	Category      string `json:"category"`
	UnitOfMeasure string `json:"unit_of_measure"`
	Description   string `json:"description,omitempty"`
	ReorderLevel  int64  `json:"reorder_level"`
	InitialStock  int64  `json:"initial_stock,omitempty"`
	LocationID    string `json:"location_id,omitempty"`
}

// UpdateProductRequest body para PUT /api/v1/products/:id. Campos nil no se
// tocan. El stock actual no es editable por aquí: solo lo muta el motor.
type UpdateProductRequest struct {
	Name          *string `json:"name,omitempty"`
	SKU           *string `json:"sku,omitempty"`
	Category      *string `json:"category,omitempty"`
	UnitOfMeasure *string `json:"unit_of_measure,omitempty"`
	Description   *string `json:"description,omitempty"`
	ReorderLevel  *int64  `json:"reorder_level,omitempty"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku"`
	Category      string    `json:"category"`
	UnitOfMeasure string    `json:"unit_of_measure"`
	Description   string    `json:"description,omitempty"`
	CurrentStock  int64     `json:"current_stock"`
	ReorderLevel  int64     `json:"reorder_level"`
	IsLowStock    bool      `json:"is_low_stock"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
