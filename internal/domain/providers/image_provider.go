package providers

import "context"

// ImageProvider finds photo URLs for restaurants missing directory photos.
type ImageProvider interface {
	SearchImages(ctx context.Context, query string, num int) ([]string, error)
}
