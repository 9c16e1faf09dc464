// internal/interfaces/http/handlers/webhook.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-shop-backend/internal/config"
	"github.com/your-org/butcher-shop-backend/internal/domain/user"
	"github.com/your-org/butcher-shop-backend/internal/pkg/auth"
	"github.com/your-org/butcher-shop-backend/internal/pkg/metrics"
	"github.com/your-org/butcher-shop-backend/internal/pkg/webhook"
	"gorm.io/gorm"
)

// WebhookHandler receives identity provider lifecycle events
type WebhookHandler struct {
	userService *user.Service
	verifier    *webhook.Verifier
	logger      *logrus.Logger
	config      *config.Config
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *WebhookHandler {
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.App.Name)
	return &WebhookHandler{
		userService: user.NewService(db, cfg, jwtManager),
		verifier:    webhook.NewVerifier(cfg.External.Identity.WebhookSecret, cfg.External.Identity.WebhookTolerance),
		logger:      logger,
		config:      cfg,
	}
}

// HandleIdentityEvent handles POST /webhooks/identity. Verification runs
// against the raw body before any parsing.
func (h *WebhookHandler) HandleIdentityEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read request body",
		})
		return
	}

	err = h.verifier.Verify(
		c.GetHeader("webhook-id"),
		c.GetHeader("webhook-timestamp"),
		c.GetHeader("webhook-signature"),
		body,
	)
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "rejected").Inc()
		if errors.Is(err, webhook.ErrMissingHeaders) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Missing webhook headers",
			})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Webhook verification failed",
		})
		return
	}

	var event user.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid webhook payload",
		})
		return
	}

	if err := h.userService.ApplyWebhookEvent(&event); err != nil {
		if errors.Is(err, user.ErrUnknownEvent) {
			// Acknowledge event types we don't mirror so the provider
			// stops retrying them
			metrics.WebhookEventsTotal.WithLabelValues(event.Type, "ignored").Inc()
			c.JSON(http.StatusOK, gin.H{
				"message": "Event ignored",
			})
			return
		}

		h.logger.WithError(err).WithField("event_type", event.Type).Error("Webhook event failed")
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "failed").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process event",
		})
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(event.Type, "ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"message": "Event processed",
	})
}
