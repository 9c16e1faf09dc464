package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/butcher-shop-backend/internal/config"
	"github.com/your-org/butcher-shop-backend/internal/domain/product"
)

func TestResolveKeepsRankingAndDropsUnknown(t *testing.T) {
	index := map[uint]product.Product{
		1: {CatalogID: 1, Name: "Ribeye Steak"},
		2: {CatalogID: 2, Name: "Pork Belly"},
	}

	products := resolve([]uint{2, 99, 1, 2}, index)

	if assert.Len(t, products, 2) {
		assert.Equal(t, "Pork Belly", products[0].Name)
		assert.Equal(t, "Ribeye Steak", products[1].Name)
	}
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "ribeye steak", NormalizeQuery("  Ribeye   STEAK "))
	assert.Equal(t, "pork belly", NormalizeQuery("pork\tbelly\n"))
	assert.Equal(t, "", NormalizeQuery("   "))
	assert.Equal(t, "lamb", NormalizeQuery("lamb"))
}

func TestParseMatchedIDs(t *testing.T) {
	ids, err := ParseMatchedIDs("[3, 1, 7]")
	assert.NoError(t, err)
	assert.Equal(t, []uint{3, 1, 7}, ids)

	ids, err = ParseMatchedIDs("```json\n[2]\n```")
	assert.NoError(t, err)
	assert.Equal(t, []uint{2}, ids)

	ids, err = ParseMatchedIDs("[]")
	assert.NoError(t, err)
	assert.Empty(t, ids)

	_, err = ParseMatchedIDs("The matching products are 3 and 7.")
	assert.Error(t, err, "prose replies are rejected, not guessed at")

	_, err = ParseMatchedIDs(`{"ids": [1]}`)
	assert.Error(t, err)
}

func newTestService(baseURL string) *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return &Service{
		config: &config.Config{
			External: config.ExternalConfig{
				AI: config.AIConfig{
					BaseURL:    baseURL,
					APIKey:     "test-key",
					Model:      "test-model",
					MaxCatalog: 200,
				},
			},
		},
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
	}
}

func TestCompleteParsesProviderReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"[5, 2]"}}]}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL)

	ids, err := svc.complete(context.Background(), []chatMessage{{Role: "user", Content: "beef"}})
	assert.NoError(t, err)
	assert.Equal(t, []uint{5, 2}, ids)
}

func TestCompleteRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := newTestService(server.URL)

	_, err := svc.complete(context.Background(), []chatMessage{{Role: "user", Content: "beef"}})
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestCompleteUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newTestService(server.URL)

	_, err := svc.complete(context.Background(), []chatMessage{{Role: "user", Content: "beef"}})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCompleteMalformedReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"sure! I found ribeye"}}]}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL)

	_, err := svc.complete(context.Background(), []chatMessage{{Role: "user", Content: "beef"}})
	assert.ErrorIs(t, err, ErrUnavailable)
}
