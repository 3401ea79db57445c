package catalog

import (
	domain "grocery-delivery-service/internal/domain/catalog"
	"grocery-delivery-service/internal/domain/common"
)

// CreateCategoryRequest represents the request payload for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
	Active      *bool  `json:"active"`
}

// UpdateCategoryRequest represents the request payload for editing a category.
type UpdateCategoryRequest struct {
	ID          int64   `json:"-" validate:"required"`
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Active      *bool   `json:"active"`
}

// CreateProductRequest represents the request payload for creating a product.
type CreateProductRequest struct {
	CategoryID      int64   `json:"category_id" validate:"required,gt=0"`
	Name            string  `json:"name" validate:"required,min=2,max=200"`
	Description     string  `json:"description" validate:"max=2000"`
	Brand           string  `json:"brand" validate:"max=100"`
	Unit            string  `json:"unit" validate:"max=32"`
	Price           float64 `json:"price" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
	Stock           int64   `json:"stock" validate:"gte=0"`
	IsAlcohol       bool    `json:"is_alcohol"`
	Active          *bool   `json:"active"`
}

// UpdateProductRequest represents the request payload for editing a product.
// Price and stock are changed through AdjustPrice and AdjustStock.
type UpdateProductRequest struct {
	ID              int64    `json:"-" validate:"required"`
	CategoryID      *int64   `json:"category_id" validate:"omitempty,gt=0"`
	Name            *string  `json:"name" validate:"omitempty,min=2,max=200"`
	Description     *string  `json:"description" validate:"omitempty,max=2000"`
	Brand           *string  `json:"brand" validate:"omitempty,max=100"`
	Unit            *string  `json:"unit" validate:"omitempty,max=32"`
	DiscountPercent *float64 `json:"discount_percent"`
	IsAlcohol       *bool    `json:"is_alcohol"`
	Active          *bool    `json:"active"`
}

// AdjustPriceRequest changes a product price.
type AdjustPriceRequest struct {
	ID        int64                 `json:"-" validate:"required"`
	Operation domain.PriceOperation `json:"operation" validate:"required,oneof=increase decrease set"`
	Amount    float64               `json:"amount"`
}

// AdjustStockRequest changes a product stock level.
type AdjustStockRequest struct {
	ID        int64                 `json:"-" validate:"required"`
	Operation domain.StockOperation `json:"operation" validate:"required,oneof=add remove set"`
	Quantity  int64                 `json:"quantity"`
}

// ListProductsRequest represents the request payload for listing products.
// Public listings only see active products.
type ListProductsRequest struct {
	Query      string
	CategoryID int64
	IsAlcohol  *bool
	Active     *bool
	InStock    bool
	Page       int64
	Limit      int64
	Public     bool
}

// ListProductsResponse represents the response payload for product listing.
type ListProductsResponse struct {
	Products   []domain.Product
	Pagination *common.Pagination
}
