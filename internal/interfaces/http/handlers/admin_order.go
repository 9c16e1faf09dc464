// internal/interfaces/http/handlers/admin_order.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/butcher-shop-backend/internal/config"
	"github.com/your-org/butcher-shop-backend/internal/domain/cart"
	"github.com/your-org/butcher-shop-backend/internal/domain/order"
	"github.com/your-org/butcher-shop-backend/internal/domain/product"
	"github.com/your-org/butcher-shop-backend/internal/pkg/metrics"
	"gorm.io/gorm"
)

// AdminOrderHandler handles back-office order endpoints
type AdminOrderHandler struct {
	orderService *order.Service
	config       *config.Config
}

// NewAdminOrderHandler creates a new admin order handler
func NewAdminOrderHandler(db *gorm.DB, cfg *config.Config) *AdminOrderHandler {
	productService := product.NewService(db, cfg)
	cartService := cart.NewService(db, cfg, productService)
	return &AdminOrderHandler{
		orderService: order.NewService(db, cfg, cartService),
		config:       cfg,
	}
}

// GetOrders handles GET /admin/orders
func (h *AdminOrderHandler) GetOrders(c *gin.Context) {
	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	if req.Status != "" && !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order status",
		})
		return
	}

	response, err := h.orderService.GetOrders(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    response,
	})
}

// GetOrder handles GET /admin/orders/:id
func (h *AdminOrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	o, err := h.orderService.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// UpdateOrderStatusRequest represents a status transition request
type UpdateOrderStatusRequest struct {
	Status order.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *AdminOrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.orderService.UpdateOrderStatus(orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, order.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update order status",
			})
		}
		return
	}

	metrics.OrderStatusTransitionsTotal.WithLabelValues(string(req.Status)).Inc()

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    updated,
	})
}

// ExpireStalePending handles POST /admin/orders/expire-pending
func (h *AdminOrderHandler) ExpireStalePending(c *gin.Context) {
	expired, err := h.orderService.ExpireStalePending(h.config.Orders.PendingExpiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to expire pending orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stale pending orders completed",
		"data": gin.H{
			"expired": expired,
		},
	})
}
