// internal/domain/wishlist/service.go
package wishlist

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/butcher-shop-backend/internal/config"
	"github.com/your-org/butcher-shop-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service handles wishlist business logic
type Service struct {
	db             *gorm.DB
	config         *config.Config
	productService *product.Service
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB, cfg *config.Config, productService *product.Service) *Service {
	return &Service{
		db:             db,
		config:         cfg,
		productService: productService,
	}
}

// WishlistItemResponse represents a wishlist item with product details
type WishlistItemResponse struct {
	ID          uint             `json:"id"`
	ProductID   uint             `json:"product_id"`
	Product     *product.Product `json:"product,omitempty"`
	AddedAt     time.Time        `json:"added_at"`
	IsAvailable bool             `json:"is_available"`
}

// WishlistResponse represents a wishlist with its items
type WishlistResponse struct {
	Items []WishlistItemResponse `json:"items"`
	Count int                    `json:"count"`
}

// ToggleResult reports the outcome of a toggle
type ToggleResult struct {
	ProductID uint `json:"product_id"`
	Added     bool `json:"added"`
	Count     int  `json:"count"`
}

// GetWishlist retrieves the owner's wishlist with product details
func (s *Service) GetWishlist(ownerID string) (*WishlistResponse, error) {
	var items []WishlistItem
	if err := s.db.Where("owner_id = ?", ownerID).Order("added_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist: %w", err)
	}

	responses := make([]WishlistItemResponse, len(items))
	for i, item := range items {
		responses[i] = WishlistItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			AddedAt:   item.AddedAt,
		}

		prod, err := s.productService.GetProduct(item.ProductID)
		if err != nil {
			continue // Product gone; membership stays but shows unavailable
		}
		responses[i].Product = prod
		responses[i].IsAvailable = prod.IsActive
	}

	return &WishlistResponse{
		Items: responses,
		Count: len(responses),
	}, nil
}

// Toggle adds the product to the wishlist if absent and removes it if
// present. A duplicate-key conflict from a concurrent toggle on the same
// pair is absorbed by re-reading: the local mutation is discarded and the
// stored state wins.
func (s *Service) Toggle(ownerID string, productID uint) (*ToggleResult, error) {
	if _, err := s.productService.GetProduct(productID); err != nil {
		return nil, err
	}

	var existing WishlistItem
	err := s.db.Where("owner_id = ? AND product_id = ?", ownerID, productID).First(&existing).Error

	switch {
	case err == nil:
		if err := s.db.Unscoped().Delete(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to remove wishlist item: %w", err)
		}
		return s.toggleResult(ownerID, productID, false)

	case errors.Is(err, gorm.ErrRecordNotFound):
		item := WishlistItem{
			OwnerID:   ownerID,
			ProductID: productID,
			AddedAt:   time.Now().UTC(),
		}
		if createErr := s.db.Create(&item).Error; createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				// Another request won the insert; report the stored state
				return s.toggleResult(ownerID, productID, true)
			}
			return nil, fmt.Errorf("failed to add wishlist item: %w", createErr)
		}
		return s.toggleResult(ownerID, productID, true)

	default:
		return nil, fmt.Errorf("failed to read wishlist: %w", err)
	}
}

// Contains reports whether the product is in the owner's wishlist
func (s *Service) Contains(ownerID string, productID uint) (bool, error) {
	var count int64
	err := s.db.Model(&WishlistItem{}).
		Where("owner_id = ? AND product_id = ?", ownerID, productID).
		Count(&count).Error
	return count > 0, err
}

func (s *Service) toggleResult(ownerID string, productID uint, added bool) (*ToggleResult, error) {
	var count int64
	if err := s.db.Model(&WishlistItem{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count wishlist items: %w", err)
	}
	return &ToggleResult{
		ProductID: productID,
		Added:     added,
		Count:     int(count),
	}, nil
}
