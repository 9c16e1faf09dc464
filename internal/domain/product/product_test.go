package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/butcher-shop-backend/internal/config"
)

func TestCategoryValidation(t *testing.T) {
	assert.True(t, CategoryBeef.IsValid())
	assert.True(t, CategoryDeli.IsValid())
	assert.False(t, CategoryUncategorised.IsValid(), "the reporting fallback is not assignable")
	assert.False(t, Category("fish").IsValid())
}

func TestHasCostData(t *testing.T) {
	price := int64(500)

	assert.True(t, (&Product{CostPrice: &price}).HasCostData())
	assert.False(t, (&Product{}).HasCostData())
}

func TestDiscountPercentage(t *testing.T) {
	assert.Equal(t, 25, (&Product{OnSale: true, Price: 750, OriginalPrice: 1000}).DiscountPercentage())
	assert.Equal(t, 0, (&Product{OnSale: false, Price: 750, OriginalPrice: 1000}).DiscountPercentage())
	assert.Equal(t, 0, (&Product{OnSale: true, Price: 1000, OriginalPrice: 1000}).DiscountPercentage())
	assert.Equal(t, 0, (&Product{OnSale: true, Price: 750}).DiscountPercentage())
}

func TestNormalizeClampsAndFillsPlaceholder(t *testing.T) {
	svc := &Service{config: &config.Config{
		External: config.ExternalConfig{
			CDN: config.CDNConfig{
				BaseURL:          "https://cdn.example.com/",
				PlaceholderImage: "/images/placeholder-cut.png",
			},
		},
	}}

	products := []Product{
		{Name: "Ribeye Steak", Price: -5, OriginalPrice: -10},
		{Name: "Pork Belly", Price: 1299, ImageURL: "https://cdn.example.com/pork.jpg"},
	}

	svc.Normalize(products)

	assert.Equal(t, int64(0), products[0].Price)
	assert.Equal(t, int64(0), products[0].OriginalPrice)
	assert.Equal(t, "https://cdn.example.com/images/placeholder-cut.png", products[0].ImageURL)
	assert.Equal(t, "https://cdn.example.com/pork.jpg", products[1].ImageURL, "existing images are left alone")
}

func TestBuildOrderClause(t *testing.T) {
	svc := &Service{}

	assert.Equal(t, "price asc", svc.buildOrderClause("price", "asc"))
	assert.Equal(t, "created_at desc", svc.buildOrderClause("created_at", "desc"))

	// Unknown columns and directions fall back to safe defaults
	assert.Equal(t, "created_at desc", svc.buildOrderClause("password", "asc; DROP TABLE products"))
	assert.Equal(t, "name desc", svc.buildOrderClause("name", "sideways"))
}
