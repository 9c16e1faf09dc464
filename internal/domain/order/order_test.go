package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber(t *testing.T) {
	at := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	assert.Equal(t, "ORD-20260830-00042", GenerateOrderNumber(42, at))
	assert.Equal(t, "ORD-20260830-12345", GenerateOrderNumber(12345, at))
	assert.Equal(t, "ORD-20260830-123456", GenerateOrderNumber(123456, at), "ids past five digits widen, never truncate")
}

func TestStatusValidation(t *testing.T) {
	assert.True(t, OrderStatusPending.IsValid())
	assert.True(t, OrderStatusCancelled.IsValid())
	assert.False(t, OrderStatus("refunded").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusPending, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCompleted, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusCompleted, true},

		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusCompleted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, isValidStatusTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusCompleted}).IsTerminal())
	assert.True(t, (&Order{Status: OrderStatusCancelled}).IsTerminal())
	assert.False(t, (&Order{Status: OrderStatusShipped}).IsTerminal())
}

func TestCanBeCancelled(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusPending}).CanBeCancelled())
	assert.True(t, (&Order{Status: OrderStatusProcessing}).CanBeCancelled())
	assert.False(t, (&Order{Status: OrderStatusShipped}).CanBeCancelled())
	assert.False(t, (&Order{Status: OrderStatusCompleted}).CanBeCancelled())
}

// Placing an order completes the identity's earlier pending orders, and
// that sweep must touch only the placing identity's rows. identityFilter
// picks the column the update is scoped by.
func TestIdentityFilterScoping(t *testing.T) {
	userID := "user_29w83"
	guestID := "c2a7e9d4"
	empty := ""

	cases := []struct {
		name    string
		userID  *string
		guestID *string
		column  string
		value   string
		ok      bool
	}{
		{"signed-in user", &userID, nil, "user_id", "user_29w83", true},
		{"guest", nil, &guestID, "guest_id", "c2a7e9d4", true},
		{"user wins over guest", &userID, &guestID, "user_id", "user_29w83", true},
		{"empty user falls back to guest", &empty, &guestID, "guest_id", "c2a7e9d4", true},
		{"no identity", nil, nil, "", "", false},
		{"empty identity", &empty, &empty, "", "", false},
	}

	for _, tc := range cases {
		column, value, ok := identityFilter(tc.userID, tc.guestID)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.Equal(t, tc.column, column, tc.name)
		assert.Equal(t, tc.value, value, tc.name)
	}
}

func TestIdentityFilterMatchesOwner(t *testing.T) {
	// The column the pending sweep updates must select exactly the orders
	// whose Identity() equals the placing identity
	userID := "user_29w83"
	guestID := "c2a7e9d4"

	_, value, ok := identityFilter(&userID, nil)
	assert.True(t, ok)
	assert.Equal(t, (&Order{UserID: &userID}).Identity(), value)

	_, value, ok = identityFilter(nil, &guestID)
	assert.True(t, ok)
	assert.Equal(t, (&Order{GuestID: &guestID}).Identity(), value)
}

func TestOrderIdentity(t *testing.T) {
	userID := "user_29w83"
	guestID := "c2a7e9d4"

	assert.Equal(t, "user_29w83", (&Order{UserID: &userID}).Identity())
	assert.Equal(t, "c2a7e9d4", (&Order{GuestID: &guestID}).Identity())
	assert.Equal(t, "", (&Order{}).Identity())
}
