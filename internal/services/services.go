package services

import (
	"context"

	"github.com/desertthunder/ecoleta/internal/models"
)

// GeoService lists Brazilian states and their municipalities as selectable options.
type GeoService interface {
	// States returns every state keyed by its two-letter abbreviation, ordered by name.
	States(ctx context.Context) ([]models.Option, error)

	// Cities returns the municipalities of a state, ordered by name.
	Cities(ctx context.Context, uf string) ([]models.Option, error)
}
