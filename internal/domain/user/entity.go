// internal/domain/user/entity.go
package user

import (
	"time"

	"gorm.io/gorm"
)

// User is a local mirror of an identity-provider account. The provider
// owns the record; this row only exists so orders and the back office can
// display customer details without calling out.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	ProviderID string    `gorm:"uniqueIndex;not null;size:255" json:"id"`
	Email      string    `gorm:"index;size:255" json:"email"`
	FirstName  string    `gorm:"size:100" json:"first_name"`
	LastName   string    `gorm:"size:100" json:"last_name"`
	AvatarURL  string    `gorm:"size:500" json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (User) TableName() string { return "users" }

// FullName returns the display name
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}

// AdminAccount is a back-office login. Admins are provisioned directly,
// not mirrored from the identity provider.
type AdminAccount struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string         `gorm:"not null;size:255" json:"-"`
	Name         string         `gorm:"size:255" json:"name"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (AdminAccount) TableName() string { return "admin_accounts" }
