// internal/domain/analytics/service.go
package analytics

import (
	"fmt"
	"time"

	"github.com/your-org/butcher-shop-backend/internal/config"
	"github.com/your-org/butcher-shop-backend/internal/domain/order"
	"github.com/your-org/butcher-shop-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service loads the raw data for reports and delegates to BuildReport
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ReportRequest represents analytics query parameters
type ReportRequest struct {
	Range Range `form:"range,default=30d"`
	Tab   Tab   `form:"tab,default=overview"`
}

// GetReport builds the report for the requested range and tab
func (s *Service) GetReport(req *ReportRequest) (*Report, error) {
	if !req.Range.IsValid() {
		return nil, fmt.Errorf("invalid range %q", req.Range)
	}
	if !req.Tab.IsValid() {
		return nil, fmt.Errorf("invalid tab %q", req.Tab)
	}

	orders, err := s.loadOrders(req.Range)
	if err != nil {
		return nil, err
	}

	catalog, err := s.loadCatalog()
	if err != nil {
		return nil, err
	}

	return BuildReport(orders, catalog, req.Range, req.Tab), nil
}

func (s *Service) loadOrders(rng Range) ([]order.Order, error) {
	var orders []order.Order

	query := s.db.Preload("Items").Order("created_at ASC")
	if cutoff, bounded := rng.Cutoff(time.Now().UTC()); bounded {
		query = query.Where("created_at >= ?", cutoff)
	}

	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders for report: %w", err)
	}
	return orders, nil
}

// loadCatalog indexes the whole catalog by catalog id, retired and
// soft-deleted products included, so cost lookups on historical line
// items still resolve.
func (s *Service) loadCatalog() (map[uint]product.Product, error) {
	var products []product.Product
	if err := s.db.Unscoped().Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load catalog for report: %w", err)
	}

	catalog := make(map[uint]product.Product, len(products))
	for _, p := range products {
		catalog[p.CatalogID] = p
	}
	return catalog, nil
}
