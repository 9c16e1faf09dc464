// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Category is the fixed set of shop sections a cut can belong to
type Category string

const (
	CategoryBeef    Category = "beef"
	CategoryPork    Category = "pork"
	CategoryLamb    Category = "lamb"
	CategoryPoultry Category = "poultry"
	CategorySausage Category = "sausage"
	CategoryDeli    Category = "deli"

	// CategoryUncategorised is the reporting fallback for items whose
	// product can no longer be resolved.
	CategoryUncategorised Category = "Uncategorised"
)

// Categories lists the assignable categories in display order
var Categories = []Category{
	CategoryBeef,
	CategoryPork,
	CategoryLamb,
	CategoryPoultry,
	CategorySausage,
	CategoryDeli,
}

// IsValid reports whether c is an assignable catalog category
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a catalog entry. CatalogID is the stable storefront
// identifier; it survives re-imports and is what carts, orders and the AI
// matcher reference. Order line items snapshot name/price/image at purchase
// time, so products are only ever soft-deleted.
type Product struct {
	ID            uint           `gorm:"primaryKey" json:"-"`
	CatalogID     uint           `gorm:"uniqueIndex;not null" json:"id"`
	Name          string         `gorm:"not null;size:255" json:"name"`
	Category      Category       `gorm:"not null;size:50;index" json:"category"`
	Price         int64          `gorm:"not null" json:"price"` // In cents
	OriginalPrice int64          `json:"original_price,omitempty"`
	OnSale        bool           `gorm:"default:false" json:"on_sale"`
	CostPrice     *int64         `json:"cost_price,omitempty"` // Nil means no cost data
	Description   string         `gorm:"type:text" json:"description"`
	ImageURL      string         `gorm:"size:500" json:"image_url"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// HasCostData reports whether margin figures can be computed from this product
func (p *Product) HasCostData() bool {
	return p.CostPrice != nil
}

// DiscountPercentage returns the storefront discount badge value
func (p *Product) DiscountPercentage() int {
	if p.OnSale && p.OriginalPrice > 0 && p.Price < p.OriginalPrice {
		return int(((p.OriginalPrice - p.Price) * 100) / p.OriginalPrice)
	}
	return 0
}
