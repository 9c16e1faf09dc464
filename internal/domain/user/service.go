// internal/domain/user/service.go
package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/butcher-shop-backend/internal/config"
	"github.com/your-org/butcher-shop-backend/internal/pkg/auth"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors translated at the HTTP boundary
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownEvent       = errors.New("unknown webhook event type")
)

// Service handles the user mirror and back-office authentication
type Service struct {
	db         *gorm.DB
	config     *config.Config
	jwtManager *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, jwtManager *auth.JWTManager) *Service {
	return &Service{
		db:         db,
		config:     cfg,
		jwtManager: jwtManager,
	}
}

// WebhookEvent is the identity provider's delivery envelope
type WebhookEvent struct {
	Type string      `json:"type"`
	Data WebhookUser `json:"data"`
}

// WebhookUser is the user payload inside a webhook delivery. Email comes
// as a list; the first entry is the primary address.
type WebhookUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (w *WebhookUser) primaryEmail() string {
	if len(w.EmailAddresses) > 0 {
		return w.EmailAddresses[0].EmailAddress
	}
	return ""
}

// ApplyWebhookEvent mirrors a provider event into the local user table.
// Created and updated both upsert, so out-of-order deliveries converge.
func (s *Service) ApplyWebhookEvent(event *WebhookEvent) error {
	if event.Data.ID == "" {
		return fmt.Errorf("webhook event without user id")
	}

	switch event.Type {
	case "user.created", "user.updated":
		mirrored := User{
			ProviderID: event.Data.ID,
			Email:      event.Data.primaryEmail(),
			FirstName:  event.Data.FirstName,
			LastName:   event.Data.LastName,
			AvatarURL:  event.Data.ImageURL,
		}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "avatar_url", "updated_at"}),
		}).Create(&mirrored).Error
		if err != nil {
			return fmt.Errorf("failed to upsert mirrored user: %w", err)
		}
		return nil

	case "user.deleted":
		// Orders keep their snapshots; only the mirror row goes
		if err := s.db.Where("provider_id = ?", event.Data.ID).Delete(&User{}).Error; err != nil {
			return fmt.Errorf("failed to delete mirrored user: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event.Type)
	}
}

// GetByProviderID looks up a mirrored user
func (s *Service) GetByProviderID(providerID string) (*User, error) {
	var u User
	result := s.db.Where("provider_id = ?", providerID).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", result.Error)
	}
	return &u, nil
}

// LoginRequest represents admin login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries a session token plus the account it belongs to
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresIn int64         `json:"expires_in"`
	Admin     *AdminAccount `json:"admin"`
}

// Login authenticates a back-office account and issues a session token.
// Bad email and bad password report the same error.
func (s *Service) Login(req *LoginRequest) (*LoginResponse, error) {
	var admin AdminAccount
	result := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&admin)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to retrieve admin account: %w", result.Error)
	}

	if !auth.CheckPassword(req.Password, admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	if err := s.db.Model(&admin).Update("last_login_at", now).Error; err == nil {
		admin.LastLoginAt = &now
	}

	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.JWT.AccessTokenExpiry.Seconds()),
		Admin:     &admin,
	}, nil
}
