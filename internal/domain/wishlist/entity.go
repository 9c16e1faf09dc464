// internal/domain/wishlist/entity.go
package wishlist

import (
	"time"

	"gorm.io/gorm"
)

// WishlistItem marks a product as saved by an identity (user or guest).
// The (owner_id, product_id) pair is unique; toggling flips membership.
type WishlistItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OwnerID   string         `gorm:"not null;size:255;uniqueIndex:idx_wishlist_owner_product" json:"owner_id"`
	ProductID uint           `gorm:"not null;uniqueIndex:idx_wishlist_owner_product" json:"product_id"` // Catalog id
	AddedAt   time.Time      `json:"added_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (WishlistItem) TableName() string {
	return "wishlist_items"
}
