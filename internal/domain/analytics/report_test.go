package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/butcher-shop-backend/internal/domain/order"
	"github.com/your-org/butcher-shop-backend/internal/domain/product"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func cost(v int64) *int64 { return &v }

func TestBuildReportKPIs(t *testing.T) {
	orders := []order.Order{
		{Status: order.OrderStatusCompleted, TotalAmount: 100, Email: "a@example.com", CreatedAt: day("2026-08-01"),
			Items: []order.OrderItem{{ProductID: 1, Name: "Ribeye Steak", Price: 50, Quantity: 2}}},
		{Status: order.OrderStatusPending, TotalAmount: 200, Email: "b@example.com", CreatedAt: day("2026-08-02"),
			Items: []order.OrderItem{{ProductID: 2, Name: "Pork Belly", Price: 200, Quantity: 1}}},
	}

	report := BuildReport(orders, nil, Range30d, TabOverview)

	assert.Equal(t, int64(300), report.KPIs.Revenue)
	assert.Equal(t, 2, report.KPIs.Orders)
	assert.Equal(t, int64(150), report.KPIs.AverageOrderValue)
	assert.Equal(t, 3, report.KPIs.ItemsSold)
	assert.Equal(t, 2, report.KPIs.UniqueCustomers)
}

func TestBuildReportEmptyWindow(t *testing.T) {
	report := BuildReport(nil, nil, Range7d, TabOverview)

	assert.Equal(t, int64(0), report.KPIs.Revenue)
	assert.Equal(t, 0, report.KPIs.Orders)
	assert.Equal(t, int64(0), report.KPIs.AverageOrderValue, "average of zero orders reads as zero, not NaN")
	assert.Empty(t, report.Trend)
}

func TestCancelledExcludedExceptStatusBreakdown(t *testing.T) {
	orders := []order.Order{
		{Status: order.OrderStatusCompleted, TotalAmount: 100, Email: "a@example.com", CreatedAt: day("2026-08-01")},
		{Status: order.OrderStatusCancelled, TotalAmount: 999, Email: "c@example.com", CreatedAt: day("2026-08-01")},
	}

	report := BuildReport(orders, nil, Range30d, TabOverview)

	assert.Equal(t, int64(100), report.KPIs.Revenue, "cancelled revenue never counts")
	assert.Equal(t, 1, report.KPIs.Orders)
	assert.Equal(t, 1, report.KPIs.UniqueCustomers)

	statuses := make(map[string]int)
	for _, b := range report.StatusBreakdown {
		statuses[b.Key] = b.Count
	}
	assert.Equal(t, 1, statuses["completed"])
	assert.Equal(t, 1, statuses["cancelled"], "status breakdown still shows cancelled orders")
}

func TestCustomerSkippedWithoutEmail(t *testing.T) {
	orders := []order.Order{
		{Status: order.OrderStatusCompleted, TotalAmount: 100, Email: "", CreatedAt: day("2026-08-01")},
		{Status: order.OrderStatusCompleted, TotalAmount: 200, Email: "a@example.com", CreatedAt: day("2026-08-02")},
	}

	report := BuildReport(orders, nil, Range30d, TabCustomers)

	assert.Equal(t, 1, report.KPIs.UniqueCustomers)
	assert.Len(t, report.TopCustomers, 1)
	assert.Equal(t, "a@example.com", report.TopCustomers[0].Email)
}

func TestTopCustomersAggregation(t *testing.T) {
	orders := []order.Order{
		{Status: order.OrderStatusCompleted, TotalAmount: 100, Email: "a@example.com", CustomerName: "Alice", CreatedAt: day("2026-08-01")},
		{Status: order.OrderStatusCompleted, TotalAmount: 300, Email: "b@example.com", CustomerName: "Bob", CreatedAt: day("2026-08-02")},
		{Status: order.OrderStatusCompleted, TotalAmount: 250, Email: "a@example.com", CustomerName: "Alice", CreatedAt: day("2026-08-03")},
	}

	report := BuildReport(orders, nil, Range30d, TabCustomers)

	assert.Len(t, report.TopCustomers, 2)
	assert.Equal(t, "a@example.com", report.TopCustomers[0].Email)
	assert.Equal(t, int64(350), report.TopCustomers[0].TotalSpent)
	assert.Equal(t, 2, report.TopCustomers[0].Orders)
	assert.Equal(t, day("2026-08-03"), report.TopCustomers[0].LastOrderAt)
}

func TestTopProductsGroupedByName(t *testing.T) {
	// Two catalog entries for the same cut aggregate under one name
	orders := []order.Order{
		{Status: order.OrderStatusCompleted, TotalAmount: 0, CreatedAt: day("2026-08-01"), Items: []order.OrderItem{
			{ProductID: 1, Name: "Ribeye Steak", Price: 100, Quantity: 1},
			{ProductID: 2, Name: "Ribeye Steak", Price: 120, Quantity: 2},
			{ProductID: 3, Name: "Pork Belly", Price: 80, Quantity: 1},
		}},
	}

	report := BuildReport(orders, nil, Range30d, TabProducts)

	assert.Len(t, report.TopProducts, 2)
	assert.Equal(t, "Ribeye Steak", report.TopProducts[0].Name)
	assert.Equal(t, 3, report.TopProducts[0].Quantity)
	assert.Equal(t, int64(340), report.TopProducts[0].Revenue)
}

func TestProductProfitGatedOnCostData(t *testing.T) {
	catalog := map[uint]product.Product{
		1: {CatalogID: 1, Name: "Ribeye Steak", CostPrice: cost(60)},
		2: {CatalogID: 2, Name: "Pork Belly"}, // no cost recorded
	}
	orders := []order.Order{
		{Status: order.OrderStatusCompleted, CreatedAt: day("2026-08-01"), Items: []order.OrderItem{
			{ProductID: 1, Name: "Ribeye Steak", Price: 100, Quantity: 2},
			{ProductID: 2, Name: "Pork Belly", Price: 80, Quantity: 1},
		}},
	}

	report := BuildReport(orders, catalog, Range30d, TabProducts)

	byName := make(map[string]ProductStat)
	for _, p := range report.TopProducts {
		byName[p.Name] = p
	}

	ribeye := byName["Ribeye Steak"]
	if assert.NotNil(t, ribeye.Profit) {
		assert.Equal(t, int64(200-120), *ribeye.Profit)
	}
	assert.Nil(t, byName["Pork Belly"].Profit, "no cost data means no profit figure")
}

func TestTopProductsResolveCategory(t *testing.T) {
	catalog := map[uint]product.Product{
		1: {CatalogID: 1, Name: "Ribeye Steak", Category: product.CategoryBeef},
	}
	orders := []order.Order{
		{Status: order.OrderStatusCompleted, CreatedAt: day("2026-08-01"), Items: []order.OrderItem{
			{ProductID: 1, Name: "Ribeye Steak", Price: 100, Quantity: 1},
			{ProductID: 42, Name: "Mystery Cut", Price: 200, Quantity: 1},
		}},
	}

	report := BuildReport(orders, catalog, Range30d, TabProducts)

	byName := make(map[string]ProductStat)
	for _, p := range report.TopProducts {
		byName[p.Name] = p
	}
	assert.Equal(t, product.CategoryBeef, byName["Ribeye Steak"].Category)
	assert.Equal(t, product.CategoryUncategorised, byName["Mystery Cut"].Category,
		"items whose product is gone fall back to Uncategorised")
}

func TestCategoryBreakdown(t *testing.T) {
	catalog := map[uint]product.Product{
		1: {CatalogID: 1, Name: "Ribeye Steak", Category: product.CategoryBeef},
		2: {CatalogID: 2, Name: "Sirloin", Category: product.CategoryBeef},
		3: {CatalogID: 3, Name: "Pork Belly", Category: product.CategoryPork},
	}
	orders := []order.Order{
		{Status: order.OrderStatusCompleted, CreatedAt: day("2026-08-01"), Items: []order.OrderItem{
			{ProductID: 1, Name: "Ribeye Steak", Price: 100, Quantity: 2},
			{ProductID: 2, Name: "Sirloin", Price: 150, Quantity: 1},
			{ProductID: 3, Name: "Pork Belly", Price: 80, Quantity: 1},
			{ProductID: 42, Name: "Mystery Cut", Price: 10, Quantity: 3},
		}},
	}

	report := BuildReport(orders, catalog, Range30d, TabProducts)

	if assert.Len(t, report.Categories, 3) {
		assert.Equal(t, "beef", report.Categories[0].Key)
		assert.Equal(t, 3, report.Categories[0].Count)
		assert.Equal(t, int64(350), report.Categories[0].Revenue)
		assert.Equal(t, "pork", report.Categories[1].Key)
		assert.Equal(t, "Uncategorised", report.Categories[2].Key)
		assert.Equal(t, int64(30), report.Categories[2].Revenue)
	}
}

func TestFinancialSummaryGatedOnCompleteCostData(t *testing.T) {
	catalog := map[uint]product.Product{
		1: {CatalogID: 1, Name: "Ribeye Steak", CostPrice: cost(60)},
	}
	orders := []order.Order{
		{Status: order.OrderStatusCompleted, TotalAmount: 200, CreatedAt: day("2026-08-01"), Items: []order.OrderItem{
			{ProductID: 1, Name: "Ribeye Steak", Price: 100, Quantity: 2},
		}},
	}

	report := BuildReport(orders, catalog, Range30d, TabFinancial)

	if assert.NotNil(t, report.Financial) {
		assert.Equal(t, int64(200), report.Financial.Revenue)
		if assert.NotNil(t, report.Financial.Cost) {
			assert.Equal(t, int64(120), *report.Financial.Cost)
		}
		if assert.NotNil(t, report.Financial.Profit) {
			assert.Equal(t, int64(80), *report.Financial.Profit)
		}
		if assert.NotNil(t, report.Financial.MarginPercent) {
			assert.InDelta(t, 40.0, *report.Financial.MarginPercent, 0.001)
		}
	}

	// One unknown product poisons the whole summary
	orders[0].Items = append(orders[0].Items, order.OrderItem{ProductID: 99, Name: "Mystery", Price: 10, Quantity: 1})
	report = BuildReport(orders, catalog, Range30d, TabFinancial)

	assert.Equal(t, int64(200), report.Financial.Revenue)
	assert.Nil(t, report.Financial.Cost)
	assert.Nil(t, report.Financial.Profit)
	assert.Nil(t, report.Financial.MarginPercent)
}

func TestMarginRoundedToOneDecimal(t *testing.T) {
	catalog := map[uint]product.Product{
		1: {CatalogID: 1, Name: "Ribeye Steak", CostPrice: cost(100)},
	}
	orders := []order.Order{
		{Status: order.OrderStatusCompleted, TotalAmount: 300, CreatedAt: day("2026-08-01"), Items: []order.OrderItem{
			{ProductID: 1, Name: "Ribeye Steak", Price: 300, Quantity: 1},
		}},
	}

	report := BuildReport(orders, catalog, Range30d, TabFinancial)

	// 200/300 would be 66.666...; the displayed figure carries one decimal
	if assert.NotNil(t, report.Financial.MarginPercent) {
		assert.Equal(t, 66.7, *report.Financial.MarginPercent)
	}
}

func TestRevenueTrendDayBuckets(t *testing.T) {
	orders := []order.Order{
		{Status: order.OrderStatusCompleted, TotalAmount: 100, CreatedAt: day("2026-08-01")},
		{Status: order.OrderStatusCompleted, TotalAmount: 50, CreatedAt: day("2026-08-01")},
		{Status: order.OrderStatusCompleted, TotalAmount: 200, CreatedAt: day("2026-08-03")},
	}

	report := BuildReport(orders, nil, Range7d, TabOverview)

	if assert.Len(t, report.Trend, 2) {
		assert.Equal(t, "2026-08-01", report.Trend[0].Bucket)
		assert.Equal(t, int64(150), report.Trend[0].Revenue)
		assert.Equal(t, 2, report.Trend[0].Orders)
		assert.Equal(t, "2026-08-03", report.Trend[1].Bucket)
	}
}

func TestRevenueTrendMonthBuckets(t *testing.T) {
	orders := []order.Order{
		{Status: order.OrderStatusCompleted, TotalAmount: 100, CreatedAt: day("2026-06-15")},
		{Status: order.OrderStatusCompleted, TotalAmount: 200, CreatedAt: day("2026-07-01")},
		{Status: order.OrderStatusCompleted, TotalAmount: 300, CreatedAt: day("2026-07-20")},
	}

	report := BuildReport(orders, nil, RangeAll, TabOverview)

	if assert.Len(t, report.Trend, 2) {
		assert.Equal(t, "2026-06", report.Trend[0].Bucket)
		assert.Equal(t, "2026-07", report.Trend[1].Bucket)
		assert.Equal(t, int64(500), report.Trend[1].Revenue)
	}
}

func TestRevenueTrendCostGatedPerBucket(t *testing.T) {
	catalog := map[uint]product.Product{
		1: {CatalogID: 1, Name: "Ribeye Steak", CostPrice: cost(60)},
	}
	orders := []order.Order{
		{Status: order.OrderStatusCompleted, TotalAmount: 200, CreatedAt: day("2026-08-01"), Items: []order.OrderItem{
			{ProductID: 1, Name: "Ribeye Steak", Price: 100, Quantity: 2},
		}},
		{Status: order.OrderStatusCompleted, TotalAmount: 50, CreatedAt: day("2026-08-02"), Items: []order.OrderItem{
			{ProductID: 99, Name: "Mystery Cut", Price: 50, Quantity: 1},
		}},
	}

	report := BuildReport(orders, catalog, Range7d, TabOverview)

	if assert.Len(t, report.Trend, 2) {
		first := report.Trend[0]
		if assert.NotNil(t, first.COGS) {
			assert.Equal(t, int64(120), *first.COGS)
		}
		if assert.NotNil(t, first.Profit) {
			assert.Equal(t, int64(80), *first.Profit)
		}
		assert.Nil(t, report.Trend[1].COGS, "a bucket with unresolved cost shows no figure")
		assert.Nil(t, report.Trend[1].Profit)
	}
}

func TestTopProductsStableOrderOnTies(t *testing.T) {
	items := []order.OrderItem{}
	for i := uint(1); i <= 15; i++ {
		items = append(items, order.OrderItem{
			ProductID: i,
			Name:      string(rune('A'+i-1)) + " Cut",
			Price:     100,
			Quantity:  1,
		})
	}
	orders := []order.Order{{Status: order.OrderStatusCompleted, CreatedAt: day("2026-08-01"), Items: items}}

	report := BuildReport(orders, nil, Range30d, TabProducts)

	// All revenues tie, so the first ten by appearance survive the cut
	if assert.Len(t, report.TopProducts, 10) {
		assert.Equal(t, "A Cut", report.TopProducts[0].Name)
		assert.Equal(t, "J Cut", report.TopProducts[9].Name)
	}
}

func TestPaymentBreakdown(t *testing.T) {
	orders := []order.Order{
		{Status: order.OrderStatusCompleted, TotalAmount: 100, PaymentMethod: "cash", CreatedAt: day("2026-08-01")},
		{Status: order.OrderStatusCompleted, TotalAmount: 300, PaymentMethod: "card", CreatedAt: day("2026-08-01")},
		{Status: order.OrderStatusCompleted, TotalAmount: 50, PaymentMethod: "cash", CreatedAt: day("2026-08-02")},
	}

	report := BuildReport(orders, nil, Range30d, TabFinancial)

	if assert.Len(t, report.PaymentMethods, 2) {
		assert.Equal(t, "card", report.PaymentMethods[0].Key)
		assert.Equal(t, int64(300), report.PaymentMethods[0].Revenue)
		assert.Equal(t, "cash", report.PaymentMethods[1].Key)
		assert.Equal(t, 2, report.PaymentMethods[1].Count)
	}
}

func TestRangeCutoff(t *testing.T) {
	now := day("2026-08-30")

	cutoff, bounded := Range7d.Cutoff(now)
	assert.True(t, bounded)
	assert.Equal(t, day("2026-08-23"), cutoff)

	cutoff, bounded = Range90d.Cutoff(now)
	assert.True(t, bounded)
	assert.Equal(t, day("2026-06-01"), cutoff)

	_, bounded = RangeAll.Cutoff(now)
	assert.False(t, bounded)
}

func TestRangeAndTabValidation(t *testing.T) {
	assert.True(t, Range30d.IsValid())
	assert.False(t, Range("14d").IsValid())
	assert.True(t, TabFinancial.IsValid())
	assert.False(t, Tab("misc").IsValid())
}
