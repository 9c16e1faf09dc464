// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Statuses lists every order status, for validation and breakdowns
var Statuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order represents a placed order. An order belongs to exactly one
// identity: UserID for signed-in customers, GuestID otherwise. Customer
// contact details and line items are denormalized snapshots so historical
// orders stay stable when the user record or catalog changes.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      *string     `gorm:"index;size:255" json:"user_id,omitempty"`
	GuestID     *string     `gorm:"index;size:255" json:"guest_id,omitempty"`
	Status      OrderStatus `gorm:"not null;default:'pending';index" json:"status"`

	// Customer snapshot
	CustomerName string `gorm:"size:255" json:"customer_name"`
	Email        string `gorm:"size:255;index" json:"email"`
	Phone        string `gorm:"size:20" json:"phone"`
	Address      string `gorm:"size:500" json:"address"`

	PaymentMethod string `gorm:"not null;size:50" json:"payment_method"`
	TotalAmount   int64  `gorm:"not null" json:"total_amount"` // In cents
	Notes         string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem is a line item snapshot. ProductID is the catalog id of the
// product at purchase time; name, price and image are copied so the row
// remains meaningful even if the product is later edited or removed.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	OrderID   uint      `gorm:"not null;index" json:"-"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Price     int64     `gorm:"not null" json:"price"` // Unit price in cents
	Quantity  int       `gorm:"not null" json:"quantity"`
	ImageURL  string    `gorm:"size:500" json:"image_url"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// Identity returns the owning identity, user id preferred
func (o *Order) Identity() string {
	if o.UserID != nil && *o.UserID != "" {
		return *o.UserID
	}
	if o.GuestID != nil {
		return *o.GuestID
	}
	return ""
}

// IsTerminal reports whether the order can no longer change status
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// CanBeCancelled checks if the order can still be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

// GenerateOrderNumber formats the public order number: ORD-YYYYMMDD-XXXXX
func GenerateOrderNumber(id uint, at time.Time) string {
	return fmt.Sprintf("ORD-%s-%05d", at.Format("20060102"), id)
}
