package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-at-least-32-characters"

func TestTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testSecret, time.Hour, "butcher-shop")

	token, err := manager.GenerateToken(7, "admin@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), claims.AdminID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager(testSecret, time.Hour, "butcher-shop")
	other := NewJWTManager("another-secret-key-32-characters-long", time.Hour, "butcher-shop")

	token, err := manager.GenerateToken(1, "admin@example.com")
	assert.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager(testSecret, -time.Minute, "butcher-shop")

	token, err := manager.GenerateToken(1, "admin@example.com")
	assert.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	manager := NewJWTManager(testSecret, time.Hour, "butcher-shop")

	_, err := manager.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2-but-longer", bcrypt.MinCost)
	assert.NoError(t, err)
	assert.NotEqual(t, "hunter2-but-longer", hash)

	assert.True(t, CheckPassword("hunter2-but-longer", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
}

func TestPasswordHashingHonoursCost(t *testing.T) {
	hash, err := HashPassword("hunter2-but-longer", 6)
	assert.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, 6, cost)
}
