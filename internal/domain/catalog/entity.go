package catalog

import (
	"time"

	"grocery-delivery-service/internal/domain/common"
)

// Category groups products in the storefront.
type Category struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Product is a sellable catalog item.
type Product struct {
	ID              int64
	CategoryID      int64
	Category        *Category
	Name            string
	Description     string
	Brand           string
	Unit            string
	ImageURL        string
	Price           float64
	DiscountPercent float64
	Stock           int64
	IsAlcohol       bool
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SalePrice is the unit price after discount.
func (p *Product) SalePrice() float64 {
	return SalePrice(p.Price, p.DiscountPercent)
}

// SalePrice applies a percentage discount to price.
func SalePrice(price, discountPercent float64) float64 {
	return common.Round2(price * (1 - discountPercent/100))
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Query      string
	CategoryID int64
	IsAlcohol  *bool
	Active     *bool
	InStock    bool
	Page       int64
	Limit      int64
}
