package models

import "github.com/shopspring/decimal"

// APIResponse is the JSON envelope shared by the catalog and inventory services.
type APIResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// MovementBody is the JSON body of a deposit or withdrawal request.
type MovementBody struct {
	Quantity  *int64           `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

// ProductBody is the JSON body used to create or update a catalog product.
type ProductBody struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Active      *bool            `json:"active"`
}

// ProductListQuery holds the paging and sorting options of a catalog listing.
type ProductListQuery struct {
	Page          int
	Size          int
	SortBy        string
	SortDirection string
}
