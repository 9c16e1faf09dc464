// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/butcher-shop-backend/internal/config"
	"github.com/your-org/butcher-shop-backend/internal/domain/cart"
	"gorm.io/gorm"
)

// Sentinel errors translated at the HTTP boundary
var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Service handles order business logic
type Service struct {
	db          *gorm.DB
	config      *config.Config
	cartService *cart.Service
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service) *Service {
	return &Service{
		db:          db,
		config:      cfg,
		cartService: cartService,
	}
}

// CreateOrderRequest represents order creation data
type CreateOrderRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	Notes         string `json:"notes,omitempty"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page      int         `form:"page,default=1"`
	Limit     int         `form:"limit,default=20"`
	Status    OrderStatus `form:"status"`
	Email     string      `form:"email"`
	SortBy    string      `form:"sort_by,default=created_at"`
	SortOrder string      `form:"sort_order,default=desc"`
	DateFrom  string      `form:"date_from"`
	DateTo    string      `form:"date_to"`
}

// OrderResponse represents order response with pagination
type OrderResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// CreateOrder places a new order from the identity's cart. Exactly one of
// userID/guestID is set. The identity's earlier pending orders are
// completed first, so at most one pending order exists per identity, then
// the cart is emptied (the cart row survives).
func (s *Service) CreateOrder(userID, guestID *string, req *CreateOrderRequest) (*Order, error) {
	ownerID := identityOf(userID, guestID)
	if ownerID == "" {
		return nil, fmt.Errorf("order requires a user or guest identity")
	}

	cartDoc, err := s.cartService.GetCart(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if len(cartDoc.Items) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now().UTC()
	newOrder := Order{
		UserID:        userID,
		GuestID:       guestID,
		Status:        OrderStatusPending,
		CustomerName:  req.CustomerName,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		TotalAmount:   cart.ComputeTotal(cartDoc.Items),
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Supersede earlier pending orders for this identity. Completion is
	// also available as an explicit admin transition; this is the
	// creation-time half of the single-pending invariant.
	if err := s.completePendingTx(tx, userID, guestID); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Provisional unique number; order_number carries a unique index and
	// the final value needs the generated ID
	newOrder.OrderNumber = fmt.Sprintf("TMP-%d", now.UnixNano())
	if err := tx.Create(&newOrder).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	newOrder.OrderNumber = GenerateOrderNumber(newOrder.ID, now)
	if err := tx.Model(&newOrder).Update("order_number", newOrder.OrderNumber).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update order number: %w", err)
	}

	for _, item := range cartDoc.Items {
		orderItem := OrderItem{
			OrderID:   newOrder.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	// Empty the cart outside the transaction; a failure here leaves a
	// stale cart, not a broken order
	if err := s.cartService.EmptyCart(ownerID); err != nil {
		fmt.Printf("Warning: failed to empty cart after order creation: %v\n", err)
	}

	return s.GetOrder(newOrder.ID)
}

// GetOrders retrieves orders with filtering and pagination
func (s *Service) GetOrders(req *OrderListRequest) (*OrderResponse, error) {
	var orders []Order
	var total int64

	query := s.db.Model(&Order{}).Preload("Items")

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	if req.Email != "" {
		query = query.Where("email = ?", req.Email)
	}

	if req.DateFrom != "" {
		query = query.Where("created_at >= ?", req.DateFrom)
	}

	if req.DateTo != "" {
		query = query.Where("created_at <= ?", req.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &OrderResponse{
		Orders:     orders,
		Pagination: pagination,
	}, nil
}

// GetOrder retrieves a single order by ID
func (s *Service) GetOrder(id uint) (*Order, error) {
	var o Order
	result := s.db.Preload("Items").Where("id = ?", id).First(&o)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// GetOrdersForIdentity retrieves the orders owned by an identity, newest first
func (s *Service) GetOrdersForIdentity(userID, guestID *string) ([]Order, error) {
	column, value, ok := identityFilter(userID, guestID)
	if !ok {
		return []Order{}, nil
	}

	var orders []Order
	query := s.db.Preload("Items").Order("created_at DESC").Where(column+" = ?", value)
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus applies an admin status transition
func (s *Service) UpdateOrderStatus(orderID uint, status OrderStatus) (*Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}

	o, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if !isValidStatusTransition(o.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, status)
	}

	if err := s.db.Model(&Order{}).Where("id = ?", orderID).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return s.GetOrder(orderID)
}

// CancelOrder cancels an order on behalf of its owner. Only pending and
// processing orders can be cancelled.
func (s *Service) CancelOrder(orderID uint, userID, guestID *string) (*Order, error) {
	o, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if o.Identity() != identityOf(userID, guestID) {
		return nil, ErrNotFound
	}

	if !o.CanBeCancelled() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, OrderStatusCancelled)
	}

	if err := s.db.Model(&Order{}).Where("id = ?", orderID).Update("status", OrderStatusCancelled).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	return s.GetOrder(orderID)
}

// ExpireStalePending force-completes pending orders older than the cutoff.
// This is the cleanup half of the single-pending invariant, run on demand
// from the back office rather than creation-time supersession alone.
func (s *Service) ExpireStalePending(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	result := s.db.Model(&Order{}).
		Where("status = ? AND created_at < ?", OrderStatusPending, cutoff).
		Update("status", OrderStatusCompleted)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire pending orders: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Private helper methods

func identityOf(userID, guestID *string) string {
	if userID != nil && *userID != "" {
		return *userID
	}
	if guestID != nil {
		return *guestID
	}
	return ""
}

// identityFilter resolves the owning column and value for an identity.
// A signed-in user is scoped by user_id even when a guest id is also
// present; with neither, ok is false and callers treat the scope as
// empty rather than matching every row.
func identityFilter(userID, guestID *string) (column, value string, ok bool) {
	switch {
	case userID != nil && *userID != "":
		return "user_id", *userID, true
	case guestID != nil && *guestID != "":
		return "guest_id", *guestID, true
	}
	return "", "", false
}

func (s *Service) completePendingTx(tx *gorm.DB, userID, guestID *string) error {
	column, value, ok := identityFilter(userID, guestID)
	if !ok {
		return nil
	}

	err := tx.Model(&Order{}).
		Where("status = ?", OrderStatusPending).
		Where(column+" = ?", value).
		Update("status", OrderStatusCompleted).Error
	if err != nil {
		return fmt.Errorf("failed to complete prior pending orders: %w", err)
	}
	return nil
}

// isValidStatusTransition encodes the lifecycle: pending feeds the active
// states, nothing transitions back to pending, completed and cancelled are
// terminal.
func isValidStatusTransition(from, to OrderStatus) bool {
	validTransitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending: {
			OrderStatusProcessing,
			OrderStatusShipped,
			OrderStatusCompleted,
			OrderStatusCancelled,
		},
		OrderStatusProcessing: {
			OrderStatusShipped,
			OrderStatusCompleted,
			OrderStatusCancelled,
		},
		OrderStatusShipped: {
			OrderStatusCompleted,
		},
	}

	allowed, exists := validTransitions[from]
	if !exists {
		return false
	}

	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at":   true,
		"updated_at":   true,
		"total_amount": true,
		"status":       true,
		"order_number": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
