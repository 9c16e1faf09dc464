// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/butcher-shop-backend/internal/config"
	"github.com/your-org/butcher-shop-backend/internal/domain/analytics"
	"gorm.io/gorm"
)

// AnalyticsHandler handles back-office reporting endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	config           *config.Config
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(db *gorm.DB, cfg *config.Config) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analytics.NewService(db, cfg),
		config:           cfg,
	}
}

// GetReport handles GET /admin/analytics
func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	var req analytics.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	if !req.Range.IsValid() || !req.Tab.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid range or tab",
		})
		return
	}

	report, err := h.analyticsService.GetReport(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build report",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Report generated successfully",
		"data":    report,
	})
}
