// internal/interfaces/http/handlers/search.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-shop-backend/internal/config"
	"github.com/your-org/butcher-shop-backend/internal/domain/product"
	"github.com/your-org/butcher-shop-backend/internal/domain/search"
	"github.com/your-org/butcher-shop-backend/internal/pkg/metrics"
	"gorm.io/gorm"
)

// SearchHandler handles AI product search endpoints
type SearchHandler struct {
	searchService *search.Service
	config        *config.Config
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(db *gorm.DB, cfg *config.Config, cache search.ResultCache, logger *logrus.Logger) *SearchHandler {
	productService := product.NewService(db, cfg)
	return &SearchHandler{
		searchService: search.NewService(cfg, productService, cache, logger),
		config:        cfg,
	}
}

// SearchByText handles POST /search
func (h *SearchHandler) SearchByText(c *gin.Context) {
	var req search.TextSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.searchService.SearchByText(c.Request.Context(), req.Query)
	if err != nil {
		h.writeSearchError(c, "text", err)
		return
	}

	if result.Cached {
		metrics.SearchCacheHitsTotal.Inc()
	}
	metrics.SearchRequestsTotal.WithLabelValues("text", "ok").Inc()

	c.JSON(http.StatusOK, gin.H{
		"message": "Search completed successfully",
		"data":    result,
	})
}

// SearchByImage handles POST /search/image
func (h *SearchHandler) SearchByImage(c *gin.Context) {
	var req search.ImageSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.searchService.SearchByImage(c.Request.Context(), req.Image)
	if err != nil {
		h.writeSearchError(c, "image", err)
		return
	}

	metrics.SearchRequestsTotal.WithLabelValues("image", "ok").Inc()

	c.JSON(http.StatusOK, gin.H{
		"message": "Search completed successfully",
		"data":    result,
	})
}

func (h *SearchHandler) writeSearchError(c *gin.Context, kind string, err error) {
	switch {
	case errors.Is(err, search.ErrRateLimited):
		metrics.SearchRequestsTotal.WithLabelValues(kind, "rate_limited").Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "Search is busy, try again shortly",
		})
	case errors.Is(err, search.ErrUnavailable):
		metrics.SearchRequestsTotal.WithLabelValues(kind, "unavailable").Inc()
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Search is temporarily unavailable",
		})
	default:
		metrics.SearchRequestsTotal.WithLabelValues(kind, "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Search failed",
		})
	}
}
