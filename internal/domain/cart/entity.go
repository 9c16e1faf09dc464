// internal/domain/cart/entity.go
package cart

import (
	"time"

	"gorm.io/gorm"
)

// Cart is the single cart document an identity owns. OwnerID is either the
// identity provider's user id or a client-generated guest id; the two are
// interchangeable for ownership. TotalAmount is recomputed and persisted
// after every mutation rather than derived on read.
type Cart struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OwnerID     string         `gorm:"uniqueIndex;not null;size:255" json:"owner_id"`
	Items       []CartItem     `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	TotalAmount int64          `gorm:"not null;default:0" json:"total_amount"` // In cents
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CartItem is an embedded line item. Name, price and image are snapshots of
// the product at add time, kept deliberately decoupled from the live catalog
// row so the cart stays stable if the product changes.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CartID    uint      `gorm:"not null;index" json:"-"`
	ProductID uint      `gorm:"not null;index" json:"product_id"` // Catalog id
	Name      string    `gorm:"not null;size:255" json:"name"`
	Price     int64     `gorm:"not null" json:"price"` // Unit price at add time, in cents
	ImageURL  string    `gorm:"size:500" json:"image_url"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"-"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// ComputeTotal returns the sum of unit price times quantity over the items
func ComputeTotal(items []CartItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}
