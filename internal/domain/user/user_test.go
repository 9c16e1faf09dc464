package user

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", (&User{FirstName: "Jane", LastName: "Doe"}).FullName())
	assert.Equal(t, "Jane", (&User{FirstName: "Jane"}).FullName())
	assert.Equal(t, "Doe", (&User{LastName: "Doe"}).FullName())
	assert.Equal(t, "", (&User{}).FullName())
}

func TestWebhookEventDecoding(t *testing.T) {
	payload := []byte(`{
		"type": "user.created",
		"data": {
			"id": "user_29w83",
			"first_name": "Jane",
			"last_name": "Doe",
			"image_url": "https://img.example.com/jane.png",
			"email_addresses": [
				{"email_address": "jane@example.com"},
				{"email_address": "jane.alt@example.com"}
			]
		}
	}`)

	var event WebhookEvent
	assert.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "user.created", event.Type)
	assert.Equal(t, "user_29w83", event.Data.ID)
	assert.Equal(t, "jane@example.com", event.Data.primaryEmail(), "first address is the primary one")
}

func TestPrimaryEmailEmpty(t *testing.T) {
	assert.Equal(t, "", (&WebhookUser{}).primaryEmail())
}
