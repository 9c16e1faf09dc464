package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	items := []CartItem{
		{Price: 2499, Quantity: 2},
		{Price: 749, Quantity: 1},
	}

	assert.Equal(t, int64(2*2499+749), ComputeTotal(items))
}

func TestComputeTotalEmpty(t *testing.T) {
	assert.Equal(t, int64(0), ComputeTotal(nil))
	assert.Equal(t, int64(0), ComputeTotal([]CartItem{}))
}

func TestComputeTotalUsesSnapshotPrices(t *testing.T) {
	// Totals come from the prices captured on the items, so a later
	// catalog change can't move an existing cart's total
	items := []CartItem{
		{ProductID: 1, Price: 1000, Quantity: 3},
	}

	assert.Equal(t, int64(3000), ComputeTotal(items))
}
