// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"

	"github.com/your-org/butcher-shop-backend/internal/config"
	"github.com/your-org/butcher-shop-backend/internal/domain/product"
	"gorm.io/gorm"
)

// ErrItemNotFound is returned when a mutation targets a line item the cart
// does not hold
var ErrItemNotFound = errors.New("item not found in cart")

// Service handles cart business logic
type Service struct {
	db             *gorm.DB
	config         *config.Config
	productService *product.Service
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config, productService *product.Service) *Service {
	return &Service{
		db:             db,
		config:         cfg,
		productService: productService,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// GetCart retrieves the owner's cart. A missing cart reads as empty; the
// row itself is only created on first add.
func (s *Service) GetCart(ownerID string) (*Cart, error) {
	var c Cart
	err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	}).Where("owner_id = ?", ownerID).First(&c).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Cart{OwnerID: ownerID, Items: []CartItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []CartItem{}
	}

	return &c, nil
}

// AddToCart adds an item to the owner's cart, snapshotting the product's
// current name, price and image. Adding a product already in the cart
// increments its quantity.
func (s *Service) AddToCart(ownerID string, req *AddToCartRequest) (*Cart, error) {
	prod, err := s.productService.GetProduct(req.ProductID)
	if err != nil {
		return nil, err
	}
	if !prod.IsActive {
		return nil, fmt.Errorf("product %q is no longer available", prod.Name)
	}

	c, err := s.locateOrCreate(ownerID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range c.Items {
		if c.Items[i].ProductID == req.ProductID {
			c.Items[i].Quantity += req.Quantity
			c.Items[i].Price = prod.Price // Refresh snapshot in case the price changed
			if err := s.db.Save(&c.Items[i]).Error; err != nil {
				return nil, fmt.Errorf("failed to update cart item: %w", err)
			}
			found = true
			break
		}
	}

	if !found {
		item := CartItem{
			CartID:    c.ID,
			ProductID: prod.CatalogID,
			Name:      prod.Name,
			Price:     prod.Price,
			ImageURL:  prod.ImageURL,
			Quantity:  req.Quantity,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	}

	if err := s.recomputeTotal(c.ID); err != nil {
		return nil, err
	}

	return s.GetCart(ownerID)
}

// UpdateCartItem sets the quantity of a line item; zero removes it
func (s *Service) UpdateCartItem(ownerID string, productID uint, req *UpdateCartItemRequest) (*Cart, error) {
	c, err := s.GetCart(ownerID)
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, ErrItemNotFound
	}

	found := false
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		found = true
		if req.Quantity == 0 {
			if err := s.db.Delete(&c.Items[i]).Error; err != nil {
				return nil, fmt.Errorf("failed to remove cart item: %w", err)
			}
		} else {
			c.Items[i].Quantity = req.Quantity
			if err := s.db.Save(&c.Items[i]).Error; err != nil {
				return nil, fmt.Errorf("failed to update cart item: %w", err)
			}
		}
		break
	}

	if !found {
		return nil, ErrItemNotFound
	}

	if err := s.recomputeTotal(c.ID); err != nil {
		return nil, err
	}

	return s.GetCart(ownerID)
}

// RemoveFromCart removes a line item from the cart
func (s *Service) RemoveFromCart(ownerID string, productID uint) (*Cart, error) {
	return s.UpdateCartItem(ownerID, productID, &UpdateCartItemRequest{Quantity: 0})
}

// EmptyCart removes every item but keeps the cart row, the state a cart is
// left in after checkout
func (s *Service) EmptyCart(ownerID string) error {
	c, err := s.GetCart(ownerID)
	if err != nil {
		return err
	}
	if c.ID == 0 {
		return nil // Nothing to empty
	}

	if err := s.db.Where("cart_id = ?", c.ID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to empty cart: %w", err)
	}

	return s.recomputeTotal(c.ID)
}

// MergeCarts merges a guest cart into a user's cart on sign-in, summing
// quantities for line items that reference the same product
func (s *Service) MergeCarts(userID, guestID string) (*Cart, error) {
	guestCart, err := s.GetCart(guestID)
	if err != nil {
		return nil, err
	}
	if len(guestCart.Items) == 0 {
		return s.GetCart(userID)
	}

	userCart, err := s.locateOrCreate(userID)
	if err != nil {
		return nil, err
	}

	for _, guestItem := range guestCart.Items {
		merged := false
		for i := range userCart.Items {
			if userCart.Items[i].ProductID == guestItem.ProductID {
				userCart.Items[i].Quantity += guestItem.Quantity
				if err := s.db.Save(&userCart.Items[i]).Error; err != nil {
					return nil, fmt.Errorf("failed to merge cart item: %w", err)
				}
				merged = true
				break
			}
		}
		if !merged {
			item := CartItem{
				CartID:    userCart.ID,
				ProductID: guestItem.ProductID,
				Name:      guestItem.Name,
				Price:     guestItem.Price,
				ImageURL:  guestItem.ImageURL,
				Quantity:  guestItem.Quantity,
			}
			if err := s.db.Create(&item).Error; err != nil {
				return nil, fmt.Errorf("failed to merge cart item: %w", err)
			}
		}
	}

	if err := s.db.Where("cart_id = ?", guestCart.ID).Delete(&CartItem{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear guest cart: %w", err)
	}
	if err := s.recomputeTotal(guestCart.ID); err != nil {
		return nil, err
	}
	if err := s.recomputeTotal(userCart.ID); err != nil {
		return nil, err
	}

	return s.GetCart(userID)
}

// Private helper methods

func (s *Service) locateOrCreate(ownerID string) (*Cart, error) {
	var c Cart
	err := s.db.Preload("Items").Where("owner_id = ?", ownerID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = Cart{OwnerID: ownerID}
		if err := s.db.Create(&c).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return &c, nil
}

// recomputeTotal re-derives the persisted total from the current items.
// Last write wins under concurrent mutations; there is no cross-request
// locking here.
func (s *Service) recomputeTotal(cartID uint) error {
	var items []CartItem
	if err := s.db.Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return fmt.Errorf("failed to load cart items: %w", err)
	}

	total := ComputeTotal(items)
	if err := s.db.Model(&Cart{}).Where("id = ?", cartID).Update("total_amount", total).Error; err != nil {
		return fmt.Errorf("failed to update cart total: %w", err)
	}
	return nil
}
