package dto

import "github.com/shopspring/decimal"

// ErrorResponse is the uniform error payload of the API.
type ErrorResponse struct {
	Code       string              `json:"code"`
	Message    string              `json:"message"`
	Shortfalls []ShortfallResponse `json:"shortfalls,omitempty"`
}

// ShortfallResponse is one failing booking line in an INSUFFICIENT_STOCK error.
type ShortfallResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	Available    decimal.Decimal `json:"available"`
	Requested    decimal.Decimal `json:"requested"`
}

// PageResponse echoes the pagination of a list request.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
