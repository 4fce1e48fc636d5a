// Package routing implements the routing service port against an external
// geocoding and route optimization API. Calls from here are slow and must
// never run while database row locks are held.
package routing

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 30 * time.Second

type geocodeResponse struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

type optimizeRequest struct {
	Stops []stopPayload `json:"stops"`
}

type stopPayload struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

type optimizeResponse struct {
	Link       string  `json:"link"`
	DistanceKm float64 `json:"distance_km"`
}

// RestRoutingService implements ports.RoutingService over the routing
// provider's REST API.
type RestRoutingService struct {
	client *resty.Client
}

// NewRestRoutingService creates a routing client for the given API base URL.
func NewRestRoutingService(baseURL, apiKey string) *RestRoutingService {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("X-Api-Key", apiKey)

	return &RestRoutingService{client: client}
}

// Geocode resolves a delivery address to coordinates.
func (s *RestRoutingService) Geocode(ctx context.Context, address string) (ports.Coordinates, error) {
	if address == "" {
		return ports.Coordinates{}, errs.NewValueIsRequiredError("address")
	}

	var response geocodeResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&response).
		SetQueryParam("address", address).
		Get("/geocode")
	if err != nil {
		return ports.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	if resp.IsError() {
		return ports.Coordinates{}, fmt.Errorf("geocode %q: provider returned %s", address, resp.Status())
	}

	return ports.Coordinates{Latitude: response.Latitude, Longitude: response.Longitude}, nil
}

// OptimizeRoute computes the best route through the given stops, returning a
// shareable link and the estimated distance.
func (s *RestRoutingService) OptimizeRoute(ctx context.Context, stops []ports.Coordinates) (ports.RouteEstimate, error) {
	if len(stops) == 0 {
		return ports.RouteEstimate{}, errs.NewValueIsRequiredError("stops")
	}

	payload := optimizeRequest{Stops: make([]stopPayload, 0, len(stops))}
	for _, stop := range stops {
		payload.Stops = append(payload.Stops, stopPayload{Latitude: stop.Latitude, Longitude: stop.Longitude})
	}

	var response optimizeResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&response).
		SetBody(payload).
		Post("/routes/optimize")
	if err != nil {
		return ports.RouteEstimate{}, fmt.Errorf("optimize route: %w", err)
	}
	if resp.IsError() {
		return ports.RouteEstimate{}, fmt.Errorf("optimize route: provider returned %s", resp.Status())
	}

	return ports.RouteEstimate{Link: response.Link, EstimatedKm: response.DistanceKm}, nil
}
