package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry owned by the catalog service.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductSummary is the subset of a product the inventory service needs.
// Price is invalid when the catalog did not report one.
type ProductSummary struct {
	ID    int64
	Name  string
	Price decimal.NullDecimal
}

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	Items []Product `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}
