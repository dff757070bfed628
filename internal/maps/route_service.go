// README: Routing collaborator adapter backed by the Google Directions API.
package maps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"cargolink/internal/types"
)

// ErrRouteUnavailable covers provider failures, empty results, and timeouts.
var ErrRouteUnavailable = errors.New("route unavailable")

// RouteService handles interactions with the Google Maps API.
type RouteService struct {
	client  *maps.Client
	timeout time.Duration
}

// NewRouteService creates a new RouteService with the given API key.
// Every Route call is bounded by timeout.
func NewRouteService(apiKey string, timeout time.Duration) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client, timeout: timeout}, nil
}

// Route returns the driving distance in kilometres from origin to destination,
// taken from the primary route leg.
func (s *RouteService) Route(ctx context.Context, origin, destination types.Point) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		Destination: fmt.Sprintf("%f,%f", destination.Lat, destination.Lng),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRouteUnavailable, err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, fmt.Errorf("%w: no route found", ErrRouteUnavailable)
	}

	return float64(routes[0].Legs[0].Distance.Meters) / 1000.0, nil
}
