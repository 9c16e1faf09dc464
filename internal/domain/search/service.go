// internal/domain/search/service.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-shop-backend/internal/config"
	"github.com/your-org/butcher-shop-backend/internal/domain/product"
	"github.com/your-org/butcher-shop-backend/internal/pkg/metrics"
)

// Sentinel errors translated at the HTTP boundary
var (
	ErrRateLimited = errors.New("search provider rate limited")
	ErrUnavailable = errors.New("search provider unavailable")
)

// Service matches catalog products against free-text and image queries
// using a chat-completion model. Text results are cached per normalized
// query; image queries are never cached.
type Service struct {
	config         *config.Config
	productService *product.Service
	cache          ResultCache
	httpClient     *http.Client
	logger         *logrus.Logger
}

// NewService creates a new search service
func NewService(cfg *config.Config, productService *product.Service, cache ResultCache, logger *logrus.Logger) *Service {
	return &Service{
		config:         cfg,
		productService: productService,
		cache:          cache,
		httpClient: &http.Client{
			Timeout: cfg.External.AI.Timeout,
		},
		logger: logger,
	}
}

// TextSearchRequest represents a text search query
type TextSearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// ImageSearchRequest carries an image as a data URL or base64 payload.
// The payload is forwarded to the provider as-is.
type ImageSearchRequest struct {
	Image string `json:"image" binding:"required"`
}

// SearchResult is the product list returned to the storefront
type SearchResult struct {
	Query    string            `json:"query,omitempty"`
	Products []product.Product `json:"products"`
	Cached   bool              `json:"cached"`
}

// SearchByText matches active products against a free-text query
func (s *Service) SearchByText(ctx context.Context, query string) (*SearchResult, error) {
	normalized := NormalizeQuery(query)
	if normalized == "" {
		return &SearchResult{Query: normalized, Products: []product.Product{}}, nil
	}

	index, listing, err := s.productService.GetActiveCatalog()
	if err != nil {
		return nil, err
	}

	if ids, hit, err := s.cache.Get(ctx, normalized); err == nil && hit {
		return &SearchResult{
			Query:    normalized,
			Products: resolve(ids, index),
			Cached:   true,
		}, nil
	} else if err != nil {
		s.logger.WithError(err).Warn("Search cache read failed")
	}

	messages := []chatMessage{
		{Role: "system", Content: matcherInstructions},
		{Role: "user", Content: fmt.Sprintf("Catalog:\n%s\n\nCustomer query: %s", s.catalogDigest(listing), normalized)},
	}

	ids, err := s.complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, normalized, ids, s.config.External.AI.CacheTTL); err != nil {
		s.logger.WithError(err).Warn("Search cache write failed")
	}

	return &SearchResult{
		Query:    normalized,
		Products: resolve(ids, index),
	}, nil
}

// SearchByImage matches active products against a photo. The image is
// forwarded verbatim so the caller controls encoding.
func (s *Service) SearchByImage(ctx context.Context, image string) (*SearchResult, error) {
	index, listing, err := s.productService.GetActiveCatalog()
	if err != nil {
		return nil, err
	}

	messages := []chatMessage{
		{Role: "system", Content: matcherInstructions},
		{Role: "user", Content: []contentPart{
			{Type: "text", Text: fmt.Sprintf("Catalog:\n%s\n\nMatch the products visible in this photo.", s.catalogDigest(listing))},
			{Type: "image_url", ImageURL: &imageURL{URL: image}},
		}},
	}

	ids, err := s.complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	return &SearchResult{Products: resolve(ids, index)}, nil
}

// NormalizeQuery lowercases and collapses whitespace, so equivalent
// queries share a cache entry
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

const matcherInstructions = "You match customer requests against a butcher shop catalog. " +
	"Reply with a JSON array of matching product ids, best matches first, nothing else. " +
	"Reply with [] when nothing matches."

// Chat-completion wire types

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *Service) complete(ctx context.Context, messages []chatMessage) ([]uint, error) {
	payload := chatRequest{
		Model:    s.config.External.AI.Model,
		Messages: messages,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	url := strings.TrimSuffix(s.config.External.AI.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.External.AI.APIKey)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	metrics.SearchProviderLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.WithError(err).Error("Completion request failed")
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, ErrUnavailable
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		s.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   truncate(string(respBody), 500),
		}).Error("Completion request rejected")
		return nil, ErrUnavailable
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil || len(parsed.Choices) == 0 {
		return nil, ErrUnavailable
	}

	ids, err := ParseMatchedIDs(parsed.Choices[0].Message.Content)
	if err != nil {
		s.logger.WithField("content", truncate(parsed.Choices[0].Message.Content, 200)).
			Warn("Unparseable completion content")
		return nil, ErrUnavailable
	}
	return ids, nil
}

// ParseMatchedIDs parses the model reply as a JSON array of catalog ids.
// Markdown code fences are tolerated; anything else is an error rather
// than a guess.
func ParseMatchedIDs(content string) ([]uint, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var ids []uint
	if err := json.Unmarshal([]byte(trimmed), &ids); err != nil {
		return nil, fmt.Errorf("reply is not an id array: %w", err)
	}
	return ids, nil
}

// catalogDigest renders the active catalog as one line per product,
// capped so oversized catalogs stay within the model's context
func (s *Service) catalogDigest(listing []product.Product) string {
	limit := s.config.External.AI.MaxCatalog
	if limit > 0 && len(listing) > limit {
		listing = listing[:limit]
	}

	var b strings.Builder
	for _, p := range listing {
		fmt.Fprintf(&b, "%d | %s | %s | %s\n", p.CatalogID, p.Name, p.Category, truncate(p.Description, 120))
	}
	return b.String()
}

// resolve maps matched ids back onto catalog products, preserving the
// model's ranking and silently dropping ids that no longer exist
func resolve(ids []uint, index map[uint]product.Product) []product.Product {
	products := make([]product.Product, 0, len(ids))
	seen := make(map[uint]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := index[id]; ok {
			products = append(products, p)
		}
	}
	return products
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
