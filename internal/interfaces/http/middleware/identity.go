// internal/interfaces/http/middleware/identity.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/your-org/butcher-shop-backend/internal/config"
)

const guestCookieName = "guest_id"

// Identity resolves the storefront identity for every request. Signed-in
// customers present a provider-issued session token whose subject is the
// provider user id; everyone else gets a stable guest id from the
// X-Guest-ID header or a first-party cookie, minted on first contact.
// Exactly one of user_id/guest_id ends up in the context.
func Identity(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWT.Secret)

	return func(c *gin.Context) {
		if tokenString := extractBearerToken(c.GetHeader("Authorization")); tokenString != "" {
			if sub := sessionSubject(tokenString, secret); sub != "" {
				c.Set("user_id", sub)
				c.Next()
				return
			}
		}

		if guestID := c.GetHeader("X-Guest-ID"); guestID != "" {
			c.Set("guest_id", guestID)
			c.Next()
			return
		}

		guestID, err := c.Cookie(guestCookieName)
		if err != nil || guestID == "" {
			guestID = uuid.New().String()
			c.SetCookie(guestCookieName, guestID, 365*24*3600, "/", "", false, true)
		}
		c.Set("guest_id", guestID)

		c.Next()
	}
}

// sessionSubject validates a session token and returns its subject.
// Invalid tokens degrade to guest identity rather than failing the
// request; protected routes enforce auth separately.
func sessionSubject(tokenString string, secret []byte) string {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	return claims.Subject
}

// IdentityFromContext returns the resolved user and guest ids. At most
// one is non-nil.
func IdentityFromContext(c *gin.Context) (userID, guestID *string) {
	if v, exists := c.Get("user_id"); exists {
		id := v.(string)
		return &id, nil
	}
	if v, exists := c.Get("guest_id"); exists {
		id := v.(string)
		return nil, &id
	}
	return nil, nil
}

// OwnerFromContext returns the single owner id string for cart and
// wishlist storage
func OwnerFromContext(c *gin.Context) string {
	userID, guestID := IdentityFromContext(c)
	if userID != nil {
		return *userID
	}
	if guestID != nil {
		return *guestID
	}
	return ""
}
