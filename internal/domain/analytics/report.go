// internal/domain/analytics/report.go
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/your-org/butcher-shop-backend/internal/domain/order"
	"github.com/your-org/butcher-shop-backend/internal/domain/product"
)

// Range selects the reporting window, anchored at "now"
type Range string

const (
	Range7d  Range = "7d"
	Range30d Range = "30d"
	Range90d Range = "90d"
	RangeAll Range = "all"
)

// IsValid reports whether r is a known range
func (r Range) IsValid() bool {
	switch r {
	case Range7d, Range30d, Range90d, RangeAll:
		return true
	}
	return false
}

// Cutoff returns the window start for r. The second return is false for
// RangeAll, meaning no lower bound.
func (r Range) Cutoff(now time.Time) (time.Time, bool) {
	switch r {
	case Range7d:
		return now.AddDate(0, 0, -7), true
	case Range30d:
		return now.AddDate(0, 0, -30), true
	case Range90d:
		return now.AddDate(0, 0, -90), true
	}
	return time.Time{}, false
}

// Tab selects which report sections are populated
type Tab string

const (
	TabOverview  Tab = "overview"
	TabFinancial Tab = "financial"
	TabProducts  Tab = "products"
	TabCustomers Tab = "customers"
)

// IsValid reports whether t is a known tab
func (t Tab) IsValid() bool {
	switch t {
	case TabOverview, TabFinancial, TabProducts, TabCustomers:
		return true
	}
	return false
}

const topN = 10

// KPIs are the headline numbers shown across every tab
type KPIs struct {
	Revenue           int64 `json:"revenue"`            // In cents
	Orders            int   `json:"orders"`
	AverageOrderValue int64 `json:"average_order_value"` // In cents, 0 when no orders
	ItemsSold         int   `json:"items_sold"`
	UniqueCustomers   int   `json:"unique_customers"`
}

// TrendPoint is one bucket of the revenue trend. Bucket is a day
// ("2006-01-02") for the 7d/30d ranges and a month ("2006-01") otherwise.
// COGS and Profit are nil unless every item sold in the bucket resolves
// cost data, the same gating FinancialSummary applies window-wide.
type TrendPoint struct {
	Bucket  string `json:"bucket"`
	Revenue int64  `json:"revenue"`
	Orders  int    `json:"orders"`
	COGS    *int64 `json:"cogs,omitempty"`
	Profit  *int64 `json:"profit,omitempty"`
}

// ProductStat aggregates line items by product name. Category comes from
// the catalog lookup, falling back to Uncategorised when the product is
// gone. Profit is nil unless every contributing catalog product carries
// cost data.
type ProductStat struct {
	Name     string           `json:"name"`
	Category product.Category `json:"category"`
	Quantity int              `json:"quantity"`
	Revenue  int64            `json:"revenue"`
	Profit   *int64           `json:"profit,omitempty"`
}

// CustomerStat aggregates orders by customer email
type CustomerStat struct {
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Orders      int       `json:"orders"`
	TotalSpent  int64     `json:"total_spent"`
	LastOrderAt time.Time `json:"last_order_at"`
}

// Breakdown is a generic key/count/revenue slice entry
type Breakdown struct {
	Key     string `json:"key"`
	Count   int    `json:"count"`
	Revenue int64  `json:"revenue"`
}

// FinancialSummary covers revenue against catalog cost. Cost, Profit and
// MarginPercent are nil when any sold item lacks cost data, so partial
// numbers are never mistaken for real margins.
type FinancialSummary struct {
	Revenue       int64    `json:"revenue"`
	Cost          *int64   `json:"cost,omitempty"`
	Profit        *int64   `json:"profit,omitempty"`
	MarginPercent *float64 `json:"margin_percent,omitempty"`
}

// Report is the aggregated back-office view for one range and tab
type Report struct {
	Range           Range             `json:"range"`
	Tab             Tab               `json:"tab"`
	KPIs            KPIs              `json:"kpis"`
	Trend           []TrendPoint      `json:"trend,omitempty"`
	StatusBreakdown []Breakdown       `json:"status_breakdown,omitempty"`
	PaymentMethods  []Breakdown       `json:"payment_methods,omitempty"`
	Categories      []Breakdown       `json:"categories,omitempty"`
	Financial       *FinancialSummary `json:"financial,omitempty"`
	TopProducts     []ProductStat     `json:"top_products,omitempty"`
	TopCustomers    []CustomerStat    `json:"top_customers,omitempty"`
}

// BuildReport aggregates orders into a Report. It is a pure function of
// its inputs: orders should already be limited to the range's window,
// products is the catalog keyed by catalog id (for cost lookups).
//
// Cancelled orders are excluded from every aggregate except the status
// breakdown, which counts all orders. Customers without an email are
// skipped in customer aggregates and the unique-customer count.
func BuildReport(orders []order.Order, products map[uint]product.Product, rng Range, tab Tab) *Report {
	report := &Report{Range: rng, Tab: tab}

	// Status breakdown sees everything, including cancelled
	report.StatusBreakdown = statusBreakdown(orders)

	active := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status != order.OrderStatusCancelled {
			active = append(active, o)
		}
	}

	report.KPIs = computeKPIs(active)

	switch tab {
	case TabFinancial:
		report.Financial = financialSummary(active, products)
		report.PaymentMethods = paymentBreakdown(active)
	case TabProducts:
		report.TopProducts = topProducts(active, products)
		report.Categories = categoryBreakdown(active, products)
	case TabCustomers:
		report.TopCustomers = topCustomers(active)
	default:
		report.Trend = revenueTrend(active, products, rng)
		report.TopProducts = topProducts(active, products)
	}

	return report
}

func computeKPIs(orders []order.Order) KPIs {
	var k KPIs
	seen := make(map[string]bool)

	for _, o := range orders {
		k.Revenue += o.TotalAmount
		k.Orders++
		for _, item := range o.Items {
			k.ItemsSold += item.Quantity
		}
		if o.Email != "" && !seen[o.Email] {
			seen[o.Email] = true
			k.UniqueCustomers++
		}
	}

	if k.Orders > 0 {
		k.AverageOrderValue = k.Revenue / int64(k.Orders)
	}
	return k
}

// revenueTrend buckets orders by day for the short ranges and by month
// for 90d/all. Buckets appear in order of first appearance, which matches
// chronological order when the input is sorted by creation time. COGS and
// profit are reported per bucket, gated on the bucket's cost data being
// complete.
func revenueTrend(orders []order.Order, products map[uint]product.Product, rng Range) []TrendPoint {
	layout := "2006-01-02"
	if rng == Range90d || rng == RangeAll {
		layout = "2006-01"
	}

	type acc struct {
		point        TrendPoint
		cost         int64
		costComplete bool
	}

	index := make(map[string]int)
	var buckets []acc

	for _, o := range orders {
		bucket := o.CreatedAt.Format(layout)
		i, ok := index[bucket]
		if !ok {
			i = len(buckets)
			index[bucket] = i
			buckets = append(buckets, acc{point: TrendPoint{Bucket: bucket}, costComplete: true})
		}
		a := &buckets[i]
		a.point.Revenue += o.TotalAmount
		a.point.Orders++
		for _, item := range o.Items {
			p, known := products[item.ProductID]
			if !known || !p.HasCostData() {
				a.costComplete = false
				continue
			}
			a.cost += *p.CostPrice * int64(item.Quantity)
		}
	}

	trend := make([]TrendPoint, 0, len(buckets))
	for _, a := range buckets {
		if a.costComplete {
			cogs := a.cost
			profit := a.point.Revenue - cogs
			a.point.COGS = &cogs
			a.point.Profit = &profit
		}
		trend = append(trend, a.point)
	}
	return trend
}

func statusBreakdown(orders []order.Order) []Breakdown {
	counts := make(map[order.OrderStatus]*Breakdown)
	for _, o := range orders {
		b, ok := counts[o.Status]
		if !ok {
			b = &Breakdown{Key: string(o.Status)}
			counts[o.Status] = b
		}
		b.Count++
		b.Revenue += o.TotalAmount
	}

	// Fixed status order keeps the breakdown stable across requests
	var out []Breakdown
	for _, status := range order.Statuses {
		if b, ok := counts[status]; ok {
			out = append(out, *b)
		}
	}
	return out
}

func paymentBreakdown(orders []order.Order) []Breakdown {
	index := make(map[string]int)
	var out []Breakdown
	for _, o := range orders {
		i, ok := index[o.PaymentMethod]
		if !ok {
			i = len(out)
			index[o.PaymentMethod] = i
			out = append(out, Breakdown{Key: o.PaymentMethod})
		}
		out[i].Count++
		out[i].Revenue += o.TotalAmount
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Revenue > out[b].Revenue })
	return out
}

func financialSummary(orders []order.Order, products map[uint]product.Product) *FinancialSummary {
	summary := &FinancialSummary{}
	var cost int64
	complete := true

	for _, o := range orders {
		summary.Revenue += o.TotalAmount
		for _, item := range o.Items {
			p, ok := products[item.ProductID]
			if !ok || !p.HasCostData() {
				complete = false
				continue
			}
			cost += *p.CostPrice * int64(item.Quantity)
		}
	}

	if complete {
		summary.Cost = &cost
		profit := summary.Revenue - cost
		summary.Profit = &profit
		if summary.Revenue > 0 {
			// Rounded to one decimal for display
			margin := math.Round(float64(profit)/float64(summary.Revenue)*1000) / 10
			summary.MarginPercent = &margin
		}
	}
	return summary
}

// topProducts groups line items by product name. Two catalog entries with
// the same name aggregate into one row. Ties keep insertion order. The
// category comes from the catalog lookup; items whose product is gone stay
// Uncategorised.
func topProducts(orders []order.Order, products map[uint]product.Product) []ProductStat {
	type acc struct {
		stat         ProductStat
		cost         int64
		costComplete bool
	}

	index := make(map[string]int)
	var groups []acc

	for _, o := range orders {
		for _, item := range o.Items {
			i, ok := index[item.Name]
			if !ok {
				i = len(groups)
				index[item.Name] = i
				groups = append(groups, acc{
					stat:         ProductStat{Name: item.Name, Category: product.CategoryUncategorised},
					costComplete: true,
				})
			}
			g := &groups[i]
			g.stat.Quantity += item.Quantity
			g.stat.Revenue += item.Price * int64(item.Quantity)

			p, known := products[item.ProductID]
			if known && p.Category != "" && g.stat.Category == product.CategoryUncategorised {
				g.stat.Category = p.Category
			}
			if !known || !p.HasCostData() {
				g.costComplete = false
			} else {
				g.cost += *p.CostPrice * int64(item.Quantity)
			}
		}
	}

	stats := make([]ProductStat, 0, len(groups))
	for _, g := range groups {
		if g.costComplete {
			profit := g.stat.Revenue - g.cost
			g.stat.Profit = &profit
		}
		stats = append(stats, g.stat)
	}

	sort.SliceStable(stats, func(a, b int) bool { return stats[a].Revenue > stats[b].Revenue })
	if len(stats) > topN {
		stats = stats[:topN]
	}
	return stats
}

// categoryBreakdown groups sold line items by catalog category. Count is
// units sold. Items whose product can no longer be resolved fall into the
// Uncategorised bucket.
func categoryBreakdown(orders []order.Order, products map[uint]product.Product) []Breakdown {
	index := make(map[string]int)
	var out []Breakdown

	for _, o := range orders {
		for _, item := range o.Items {
			key := string(product.CategoryUncategorised)
			if p, ok := products[item.ProductID]; ok && p.Category != "" {
				key = string(p.Category)
			}
			i, ok := index[key]
			if !ok {
				i = len(out)
				index[key] = i
				out = append(out, Breakdown{Key: key})
			}
			out[i].Count += item.Quantity
			out[i].Revenue += item.Price * int64(item.Quantity)
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Revenue > out[b].Revenue })
	return out
}

// topCustomers groups orders by email; orders without one are skipped
func topCustomers(orders []order.Order) []CustomerStat {
	index := make(map[string]int)
	var stats []CustomerStat

	for _, o := range orders {
		if o.Email == "" {
			continue
		}
		i, ok := index[o.Email]
		if !ok {
			i = len(stats)
			index[o.Email] = i
			stats = append(stats, CustomerStat{Email: o.Email})
		}
		c := &stats[i]
		c.Orders++
		c.TotalSpent += o.TotalAmount
		if o.CustomerName != "" {
			c.Name = o.CustomerName
		}
		if o.CreatedAt.After(c.LastOrderAt) {
			c.LastOrderAt = o.CreatedAt
		}
	}

	sort.SliceStable(stats, func(a, b int) bool { return stats[a].TotalSpent > stats[b].TotalSpent })
	if len(stats) > topN {
		stats = stats[:topN]
	}
	return stats
}
