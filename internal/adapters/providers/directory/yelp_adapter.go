package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/providers"
	apperrors "github.com/hungrymonkey/restaurant-hours-backend/pkg/errors"
)

// YelpAdapter implements DirectoryProvider against the Yelp Fusion API
type YelpAdapter struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

// Ensure YelpAdapter implements DirectoryProvider
var _ providers.DirectoryProvider = (*YelpAdapter)(nil)

// NewYelpAdapter creates a new Yelp directory adapter
func NewYelpAdapter(apiKey, baseURL string) *YelpAdapter {
	if baseURL == "" {
		baseURL = "https://api.yelp.com/v3"
	}
	return &YelpAdapter{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

// yelpBusiness mirrors the fields of the Fusion business payload we keep.
type yelpBusiness struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Rating     float64  `json:"rating"`
	Price      string   `json:"price"`
	Phone      string   `json:"phone"`
	ImageURL   string   `json:"image_url"`
	Photos     []string `json:"photos"`
	IsClosed   bool     `json:"is_closed"`
	Categories []struct {
		Alias string `json:"alias"`
		Title string `json:"title"`
	} `json:"categories"`
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	Location struct {
		Address1       string   `json:"address1"`
		Address2       string   `json:"address2"`
		Address3       string   `json:"address3"`
		City           string   `json:"city"`
		State          string   `json:"state"`
		ZipCode        string   `json:"zip_code"`
		Country        string   `json:"country"`
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
}

func (b *yelpBusiness) toEntity() *entities.Restaurant {
	r := &entities.Restaurant{
		BusinessID: b.ID,
		Name:       b.Name,
		Rating:     b.Rating,
		Price:      b.Price,
		Phone:      b.Phone,
		Latitude:   b.Coordinates.Latitude,
		Longitude:  b.Coordinates.Longitude,
		Photos:     b.Photos,
		Address: entities.Address{
			Address1:       b.Location.Address1,
			Address2:       b.Location.Address2,
			Address3:       b.Location.Address3,
			City:           b.Location.City,
			State:          b.Location.State,
			ZipCode:        b.Location.ZipCode,
			Country:        b.Location.Country,
			DisplayAddress: b.Location.DisplayAddress,
		},
	}
	if len(r.Photos) == 0 && b.ImageURL != "" {
		r.Photos = []string{b.ImageURL}
	}
	for _, c := range b.Categories {
		r.Categories = append(r.Categories, entities.Category{Alias: c.Alias, Title: c.Title})
	}
	return r
}

// Search queries /businesses/search with the normalized params
func (a *YelpAdapter) Search(ctx context.Context, params entities.SearchParams) ([]*entities.Restaurant, error) {
	params.Normalize()
	if params.Location == "" {
		return nil, apperrors.NewValidationError("location is required")
	}

	q := url.Values{}
	q.Set("term", params.Term)
	q.Set("location", params.Location)
	q.Set("limit", strconv.Itoa(params.Limit))
	q.Set("sort_by", params.SortBy)
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.Price != "" {
		q.Set("price", params.Price)
	}
	if params.Categories != "" {
		q.Set("categories", params.Categories)
	}

	var result struct {
		Businesses []yelpBusiness `json:"businesses"`
		Total      int            `json:"total"`
	}
	if err := a.get(ctx, "/businesses/search?"+q.Encode(), &result); err != nil {
		return nil, err
	}

	return toEntities(result.Businesses), nil
}

// GetBusiness fetches one business's details, returning nil when Yelp does
// not know the id.
func (a *YelpAdapter) GetBusiness(ctx context.Context, businessID string) (*entities.Restaurant, error) {
	var business yelpBusiness
	err := a.get(ctx, "/businesses/"+url.PathEscape(businessID), &business)
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return business.toEntity(), nil
}

// SearchByPhone queries /businesses/search/phone
func (a *YelpAdapter) SearchByPhone(ctx context.Context, phone string) ([]*entities.Restaurant, error) {
	q := url.Values{}
	q.Set("phone", phone)

	var result struct {
		Businesses []yelpBusiness `json:"businesses"`
	}
	if err := a.get(ctx, "/businesses/search/phone?"+q.Encode(), &result); err != nil {
		return nil, err
	}

	return toEntities(result.Businesses), nil
}

func (a *YelpAdapter) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to build directory request", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return apperrors.NewExternalError("directory request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError("business not found")
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.NewExternalError("directory rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		return apperrors.NewExternalError(fmt.Sprintf("directory api error: status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewInternalError("failed to decode directory response", err)
	}
	return nil
}

func toEntities(businesses []yelpBusiness) []*entities.Restaurant {
	restaurants := make([]*entities.Restaurant, 0, len(businesses))
	for i := range businesses {
		restaurants = append(restaurants, businesses[i].toEntity())
	}
	return restaurants
}
