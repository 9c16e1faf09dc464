// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/butcher-shop-backend/internal/config"
	"github.com/your-org/butcher-shop-backend/internal/domain/cart"
	"github.com/your-org/butcher-shop-backend/internal/domain/product"
	"github.com/your-org/butcher-shop-backend/internal/interfaces/http/middleware"
	"github.com/your-org/butcher-shop-backend/internal/pkg/metrics"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, cfg *config.Config) *CartHandler {
	productService := product.NewService(db, cfg)
	return &CartHandler{
		cartService: cart.NewService(db, cfg, productService),
		config:      cfg,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	ownerID := middleware.OwnerFromContext(c)

	cartDoc, err := h.cartService.GetCart(ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartDoc,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	ownerID := middleware.OwnerFromContext(c)

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartDoc, err := h.cartService.AddToCart(ownerID, &req)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	metrics.CartMutationsTotal.WithLabelValues("add").Inc()

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartDoc,
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	ownerID := middleware.OwnerFromContext(c)

	productID, ok := h.parseProductID(c)
	if !ok {
		return
	}

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartDoc, err := h.cartService.UpdateCartItem(ownerID, productID, &req)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Cart item not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	metrics.CartMutationsTotal.WithLabelValues("update").Inc()

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    cartDoc,
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	ownerID := middleware.OwnerFromContext(c)

	productID, ok := h.parseProductID(c)
	if !ok {
		return
	}

	cartDoc, err := h.cartService.RemoveFromCart(ownerID, productID)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Cart item not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove cart item",
		})
		return
	}

	metrics.CartMutationsTotal.WithLabelValues("remove").Inc()

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    cartDoc,
	})
}

// EmptyCart handles DELETE /cart
func (h *CartHandler) EmptyCart(c *gin.Context) {
	ownerID := middleware.OwnerFromContext(c)

	if err := h.cartService.EmptyCart(ownerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to empty cart",
		})
		return
	}

	metrics.CartMutationsTotal.WithLabelValues("empty").Inc()

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart emptied successfully",
	})
}

// MergeCart handles POST /cart/merge. A signed-in customer absorbs the
// cart they built as a guest before logging in.
func (h *CartHandler) MergeCart(c *gin.Context) {
	userID, _ := middleware.IdentityFromContext(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var req struct {
		GuestID string `json:"guest_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartDoc, err := h.cartService.MergeCarts(*userID, req.GuestID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to merge carts",
		})
		return
	}

	metrics.CartMutationsTotal.WithLabelValues("merge").Inc()

	c.JSON(http.StatusOK, gin.H{
		"message": "Carts merged successfully",
		"data":    cartDoc,
	})
}

func (h *CartHandler) parseProductID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return 0, false
	}
	return uint(id), true
}
