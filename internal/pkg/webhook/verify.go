// internal/pkg/webhook/verify.go

// Package webhook verifies signed webhook deliveries from the identity
// provider. Signatures are HMAC-SHA256 over "<id>.<timestamp>.<body>",
// base64 encoded, with a "v1," prefix per signature; the header may carry
// several space separated candidates during secret rotation.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingHeaders   = errors.New("missing webhook headers")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside tolerance")
	ErrInvalidSignature = errors.New("webhook signature mismatch")
)

// Verifier checks webhook delivery signatures
type Verifier struct {
	secret    []byte
	tolerance time.Duration
}

// NewVerifier creates a verifier. The secret may carry the provider's
// "whsec_" prefix, in which case the remainder is base64 decoded.
func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	key := []byte(secret)
	if trimmed, ok := strings.CutPrefix(secret, "whsec_"); ok {
		if decoded, err := base64.StdEncoding.DecodeString(trimmed); err == nil {
			key = decoded
		}
	}
	return &Verifier{secret: key, tolerance: tolerance}
}

// Verify checks the delivery headers against the raw request body
func (v *Verifier) Verify(id, timestamp, signatures string, body []byte) error {
	if id == "" || timestamp == "" || signatures == "" {
		return ErrMissingHeaders
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("bad webhook timestamp: %w", err)
	}

	age := time.Since(time.Unix(ts, 0))
	if age > v.tolerance || age < -v.tolerance {
		return ErrStaleTimestamp
	}

	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%s.%s.", id, timestamp)
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, candidate := range strings.Fields(signatures) {
		if sig, ok := strings.CutPrefix(candidate, "v1,"); ok {
			if hmac.Equal([]byte(sig), []byte(expected)) {
				return nil
			}
		}
	}
	return ErrInvalidSignature
}
