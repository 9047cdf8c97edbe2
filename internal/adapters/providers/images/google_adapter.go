package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/providers"
	"github.com/hungrymonkey/restaurant-hours-backend/pkg/config"
)

const googleSearchURL = "https://www.googleapis.com/customsearch/v1"

// GoogleAdapter implements ImageProvider using the Custom Search JSON API
type GoogleAdapter struct {
	apiKey         string
	searchEngineID string
	client         *http.Client
	baseURL        string
}

// Ensure GoogleAdapter implements ImageProvider
var _ providers.ImageProvider = (*GoogleAdapter)(nil)

// NewGoogleAdapter creates a new Google image search adapter
func NewGoogleAdapter(apiKey, searchEngineID string) *GoogleAdapter {
	return &GoogleAdapter{
		apiKey:         apiKey,
		searchEngineID: searchEngineID,
		client:         &http.Client{Timeout: 10 * time.Second},
		baseURL:        googleSearchURL,
	}
}

// SearchImages returns up to num image URLs for the query
func (a *GoogleAdapter) SearchImages(ctx context.Context, query string, num int) ([]string, error) {
	if num <= 0 || num > 10 {
		num = 3
	}

	q := url.Values{}
	q.Set("key", a.apiKey)
	q.Set("cx", a.searchEngineID)
	q.Set("q", query)
	q.Set("searchType", "image")
	q.Set("num", strconv.Itoa(num))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image search request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image search api error: status %d", resp.StatusCode)
	}

	var result struct {
		Items []struct {
			Link string `json:"link"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode image search response: %w", err)
	}

	links := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		links = append(links, item.Link)
	}
	return links, nil
}

// MockAdapter returns deterministic placeholder image URLs.
type MockAdapter struct{}

// NewMockAdapter creates a mock image provider.
func NewMockAdapter() providers.ImageProvider {
	return &MockAdapter{}
}

// SearchImages returns placeholder URLs derived from the query.
func (m *MockAdapter) SearchImages(ctx context.Context, query string, num int) ([]string, error) {
	if num <= 0 {
		num = 3
	}
	links := make([]string, 0, num)
	for i := 0; i < num; i++ {
		links = append(links, fmt.Sprintf("https://placehold.co/600x400?text=%s-%d", url.QueryEscape(query), i+1))
	}
	return links, nil
}

// NewImageProvider picks the image provider from configuration.
func NewImageProvider(cfg *config.ImagesConfig) providers.ImageProvider {
	if cfg.APIKey == "" || cfg.SearchEngineID == "" || cfg.Provider == "mock" {
		return NewMockAdapter()
	}
	return NewGoogleAdapter(cfg.APIKey, cfg.SearchEngineID)
}
