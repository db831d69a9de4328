package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body for POST /api/products.
type CreateProductRequest struct {
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	EAN          *string          `json:"ean,omitempty"`
	Category     string           `json:"category"`
	Unit         string           `json:"unit"`
	MinimumStock decimal.Decimal  `json:"minimum_stock"`
	Price        *decimal.Decimal `json:"price,omitempty"`
}

// UpdateProductRequest body for PUT /api/products/:id. Nil fields stay as-is.
type UpdateProductRequest struct {
	Name         *string          `json:"name,omitempty"`
	EAN          *string          `json:"ean,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	MinimumStock *decimal.Decimal `json:"minimum_stock,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
}

// ProductResponse representation of a product.
type ProductResponse struct {
	ID           string           `json:"id"`
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	EAN          *string          `json:"ean,omitempty"`
	Category     string           `json:"category"`
	Unit         string           `json:"unit"`
	MinimumStock decimal.Decimal  `json:"minimum_stock"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Active       bool             `json:"active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductListResponse paginated product list.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateLocationRequest body for POST /api/locations.
type CreateLocationRequest struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	LicensePlate *string `json:"license_plate,omitempty"`
	Description  string  `json:"description,omitempty"`
}

// UpdateLocationRequest body for PUT /api/locations/:id.
type UpdateLocationRequest struct {
	Name         *string `json:"name,omitempty"`
	Type         *string `json:"type,omitempty"`
	LicensePlate *string `json:"license_plate,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// LocationResponse representation of a location.
type LocationResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	LicensePlate *string   `json:"license_plate,omitempty"`
	Description  string    `json:"description,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProjectResponse read-only project reference.
type ProjectResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
