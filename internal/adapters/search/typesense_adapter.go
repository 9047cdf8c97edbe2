package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/repositories"
	tsclient "github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/clients/typesense"
)

const collectionName = "restaurants"

// TypesenseAdapter implements restaurant full-text search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements RestaurantSearchRepository
var _ repositories.RestaurantSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "state", Type: "string", Facet: pointer.True()},
			{Name: "zip_code", Type: "string"},
			{Name: "categories", Type: "string[]", Facet: pointer.True()},
			{Name: "price", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "rating", Type: "float"},
			{Name: "is_closed", Type: "bool"},
			{Name: "location", Type: "geopoint"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("rating"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts a restaurant document into the index
func (a *TypesenseAdapter) Index(ctx context.Context, restaurant *entities.Restaurant) error {
	categories := make([]string, 0, len(restaurant.Categories))
	for _, c := range restaurant.Categories {
		categories = append(categories, c.Title)
	}

	document := map[string]interface{}{
		"id":         restaurant.BusinessID,
		"name":       restaurant.Name,
		"city":       restaurant.Address.City,
		"state":      restaurant.Address.State,
		"zip_code":   restaurant.Address.ZipCode,
		"categories": categories,
		"price":      restaurant.Price,
		"rating":     restaurant.Rating,
		"is_closed":  restaurant.IsClosed,
		"location":   []float64{restaurant.Latitude, restaurant.Longitude},
		"created_at": restaurant.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index restaurant: %w", err)
	}

	return nil
}

// Delete removes a restaurant from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, businessID string) error {
	_, err := a.client.Client().Collection(collectionName).Document(businessID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete restaurant from index: %w", err)
	}
	return nil
}

// Search queries the index by term, location text, price and categories
func (a *TypesenseAdapter) Search(ctx context.Context, filter repositories.RestaurantFilter) ([]*entities.Restaurant, error) {
	query := filter.Term
	if query == "" {
		query = "*"
	}

	filters := []string{"is_closed:=false"}
	if filter.Location != "" {
		filters = append(filters, fmt.Sprintf("(city:=%s || state:=%s || zip_code:=%s)", filter.Location, filter.Location, filter.Location))
	}
	if filter.Price != "" {
		filters = append(filters, fmt.Sprintf("price:=%s", filter.Price))
	}
	if filter.Categories != "" {
		filters = append(filters, fmt.Sprintf("categories:=%s", filter.Categories))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := 1
	if filter.Offset > 0 {
		page = filter.Offset/limit + 1
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("name,categories"),
		FilterBy: pointer.String(strings.Join(filters, " && ")),
		SortBy:   pointer.String("rating:desc"),
		Page:     pointer.Int(page),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search restaurants: %w", err)
	}

	restaurants := []*entities.Restaurant{}
	if result.Hits == nil {
		return restaurants, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document
		restaurants = append(restaurants, documentToRestaurant(doc))
	}

	return restaurants, nil
}

// documentToRestaurant rebuilds a partial entity from an index document.
// Callers that need the full record hydrate it from the database by id.
func documentToRestaurant(doc map[string]interface{}) *entities.Restaurant {
	restaurant := &entities.Restaurant{}

	if val, ok := doc["id"].(string); ok {
		restaurant.BusinessID = val
	}
	if val, ok := doc["name"].(string); ok {
		restaurant.Name = val
	}
	if val, ok := doc["city"].(string); ok {
		restaurant.Address.City = val
	}
	if val, ok := doc["state"].(string); ok {
		restaurant.Address.State = val
	}
	if val, ok := doc["zip_code"].(string); ok {
		restaurant.Address.ZipCode = val
	}
	if val, ok := doc["price"].(string); ok {
		restaurant.Price = val
	}
	if val, ok := doc["rating"].(float64); ok {
		restaurant.Rating = val
	}
	if val, ok := doc["is_closed"].(bool); ok {
		restaurant.IsClosed = val
	}
	if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
		if lat, ok := loc[0].(float64); ok {
			restaurant.Latitude = lat
		}
		if lon, ok := loc[1].(float64); ok {
			restaurant.Longitude = lon
		}
	}
	if cats, ok := doc["categories"].([]interface{}); ok {
		for _, c := range cats {
			if title, ok := c.(string); ok {
				restaurant.Categories = append(restaurant.Categories, entities.Category{Title: title})
			}
		}
	}

	return restaurant
}
