package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sign(secret []byte, id, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%s.%s.", id, timestamp)
	mac.Write(body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyValidSignature(t *testing.T) {
	secret := "test-webhook-secret"
	v := NewVerifier(secret, 5*time.Minute)

	body := []byte(`{"type":"user.created"}`)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sig := sign([]byte(secret), "msg_1", ts, body)

	assert.NoError(t, v.Verify("msg_1", ts, sig, body))
}

func TestVerifyBase64Secret(t *testing.T) {
	raw := []byte("raw-secret-bytes")
	secret := "whsec_" + base64.StdEncoding.EncodeToString(raw)
	v := NewVerifier(secret, 5*time.Minute)

	body := []byte(`{}`)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sig := sign(raw, "msg_2", ts, body)

	assert.NoError(t, v.Verify("msg_2", ts, sig, body))
}

func TestVerifyMultipleCandidateSignatures(t *testing.T) {
	secret := "rotated-secret"
	v := NewVerifier(secret, 5*time.Minute)

	body := []byte(`{}`)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	good := sign([]byte(secret), "msg_3", ts, body)
	stale := sign([]byte("old-secret"), "msg_3", ts, body)

	assert.NoError(t, v.Verify("msg_3", ts, stale+" "+good, body))
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	secret := "test-webhook-secret"
	v := NewVerifier(secret, 5*time.Minute)

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sig := sign([]byte(secret), "msg_4", ts, []byte(`{"a":1}`))

	err := v.Verify("msg_4", ts, sig, []byte(`{"a":2}`))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	secret := "test-webhook-secret"
	v := NewVerifier(secret, 5*time.Minute)

	body := []byte(`{}`)
	ts := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
	sig := sign([]byte(secret), "msg_5", ts, body)

	err := v.Verify("msg_5", ts, sig, body)
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestVerifyRejectsMissingHeaders(t *testing.T) {
	v := NewVerifier("secret", 5*time.Minute)

	err := v.Verify("", "", "", []byte(`{}`))
	assert.ErrorIs(t, err, ErrMissingHeaders)
}
