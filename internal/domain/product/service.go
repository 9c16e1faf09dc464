// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/butcher-shop-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a product does not exist
var ErrNotFound = errors.New("product not found")

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page      int      `form:"page,default=1"`
	Limit     int      `form:"limit,default=20"`
	Category  Category `form:"category"`
	Search    string   `form:"search"`
	OnSale    *bool    `form:"on_sale"`
	SortBy    string   `form:"sort_by,default=created_at"`
	SortOrder string   `form:"sort_order,default=desc"`
	IsActive  *bool    `form:"is_active"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name          string   `json:"name" binding:"required"`
	Category      Category `json:"category" binding:"required"`
	Price         int64    `json:"price" binding:"required,min=1"`
	OriginalPrice int64    `json:"original_price"`
	OnSale        bool     `json:"on_sale"`
	CostPrice     *int64   `json:"cost_price"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url"`
	IsActive      *bool    `json:"is_active"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name          *string   `json:"name"`
	Category      *Category `json:"category"`
	Price         *int64    `json:"price"`
	OriginalPrice *int64    `json:"original_price"`
	OnSale        *bool     `json:"on_sale"`
	CostPrice     *int64    `json:"cost_price"`
	Description   *string   `json:"description"`
	ImageURL      *string   `json:"image_url"`
	IsActive      *bool     `json:"is_active"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
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

// GetProducts retrieves catalog entries with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{})

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}

	if req.OnSale != nil {
		query = query.Where("on_sale = ?", *req.OnSale)
	}

	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}

	// Count total records
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	// Apply sorting
	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	// Apply pagination
	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	s.Normalize(products)

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &ProductResponse{
		Products:   products,
		Pagination: pagination,
	}, nil
}

// GetProduct retrieves a single product by catalog id
func (s *Service) GetProduct(catalogID uint) (*Product, error) {
	var prod Product
	result := s.db.Where("catalog_id = ?", catalogID).First(&prod)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	s.normalizeOne(&prod)
	return &prod, nil
}

// GetActiveCatalog retrieves the active catalog keyed by catalog id,
// the lookup shape the analytics aggregator and AI matcher work from.
func (s *Service) GetActiveCatalog() (map[uint]Product, []Product, error) {
	var products []Product
	if err := s.db.Where("is_active = ?", true).Order("catalog_id ASC").Find(&products).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	s.Normalize(products)

	lookup := make(map[uint]Product, len(products))
	for _, p := range products {
		lookup[p.CatalogID] = p
	}
	return lookup, products, nil
}

// CreateProduct creates a new catalog entry, assigning the next catalog id
func (s *Service) CreateProduct(req *ProductCreateRequest) (*Product, error) {
	if !req.Category.IsValid() {
		return nil, fmt.Errorf("unknown category %q", req.Category)
	}

	var maxID int64
	if err := s.db.Model(&Product{}).Unscoped().
		Select("COALESCE(MAX(catalog_id), 0)").Scan(&maxID).Error; err != nil {
		return nil, fmt.Errorf("failed to allocate catalog id: %w", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	prod := Product{
		CatalogID:     uint(maxID) + 1,
		Name:          req.Name,
		Category:      req.Category,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		OnSale:        req.OnSale,
		CostPrice:     req.CostPrice,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		IsActive:      isActive,
	}

	if err := s.db.Create(&prod).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.normalizeOne(&prod)
	return &prod, nil
}

// UpdateProduct updates an existing catalog entry
func (s *Service) UpdateProduct(catalogID uint, req *ProductUpdateRequest) (*Product, error) {
	var prod Product
	result := s.db.Where("catalog_id = ?", catalogID).First(&prod)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", result.Error)
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		if !req.Category.IsValid() {
			return nil, fmt.Errorf("unknown category %q", *req.Category)
		}
		updates["category"] = *req.Category
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.OriginalPrice != nil {
		updates["original_price"] = *req.OriginalPrice
	}
	if req.OnSale != nil {
		updates["on_sale"] = *req.OnSale
	}
	if req.CostPrice != nil {
		updates["cost_price"] = *req.CostPrice
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := s.db.Model(&prod).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.normalizeOne(&prod)
	return &prod, nil
}

// DeleteProduct soft deletes a catalog entry. Order line items carry their
// own snapshots, so history stays intact.
func (s *Service) DeleteProduct(catalogID uint) error {
	result := s.db.Where("catalog_id = ?", catalogID).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Normalize clamps numeric fields and applies the placeholder image to
// rows that carry no image URL
func (s *Service) Normalize(products []Product) {
	for i := range products {
		s.normalizeOne(&products[i])
	}
}

func (s *Service) normalizeOne(p *Product) {
	if p.Price < 0 {
		p.Price = 0
	}
	if p.OriginalPrice < 0 {
		p.OriginalPrice = 0
	}
	if p.ImageURL == "" {
		p.ImageURL = s.placeholderImageURL()
	}
}

func (s *Service) placeholderImageURL() string {
	placeholder := s.config.External.CDN.PlaceholderImage
	if base := s.config.External.CDN.BaseURL; base != "" && strings.HasPrefix(placeholder, "/") {
		return strings.TrimSuffix(base, "/") + placeholder
	}
	return placeholder
}

// buildOrderClause builds ORDER BY clause for sorting
func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"name":       true,
		"price":      true,
		"category":   true,
		"created_at": true,
		"updated_at": true,
		"catalog_id": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
