package ports

import (
	"context"
)

// Coordinates is a geographic point resolved from a delivery address.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// RouteEstimate is the routing provider's answer for a set of stops: a
// shareable map link and the estimated driving distance.
type RouteEstimate struct {
	Link        string
	EstimatedKm float64
}

// RoutingService talks to the external routing provider. Both calls are
// synchronous HTTP round trips and honor context cancellation.
type RoutingService interface {
	// Geocode resolves a delivery address to coordinates.
	Geocode(ctx context.Context, address string) (Coordinates, error)

	// OptimizeRoute computes a driving route visiting every stop, starting
	// from the warehouse. The provider chooses the stop ordering.
	OptimizeRoute(ctx context.Context, stops []Coordinates) (RouteEstimate, error)
}
