// Package geo is an optional, caller-opt-in seam for annotating a found
// schedule with walking time between buildings. It is never consulted by
// the conflict oracle or enumerator; walking-distance feasibility is a
// post-hoc annotation, not a search constraint.
package geo

import (
	"context"
	"fmt"

	"resty.dev/v3"
)

// DistanceMatrix looks up walking time between named buildings on a
// campus.
type DistanceMatrix interface {
	// Minutes returns the walking time in minutes from origin to
	// destination. Implementations may return a cached or estimated value.
	Minutes(ctx context.Context, origin, destination string) (float64, error)
}

// Client is an HTTP-backed DistanceMatrix, calling a configured distance
// endpoint with a single *resty.Client reused across calls.
type Client struct {
	http    *resty.Client
	baseURL string
}

// New builds a Client against baseURL using http (or resty.New() if http is
// nil).
func New(baseURL string, http *resty.Client) *Client {
	if http == nil {
		http = resty.New()
	}
	return &Client{http: http, baseURL: baseURL}
}

type distanceResponse struct {
	Minutes float64 `json:"minutes"`
}

// Minutes requests the walking time between origin and destination from
// the configured distance endpoint.
func (c *Client) Minutes(ctx context.Context, origin, destination string) (float64, error) {
	var result distanceResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("origin", origin).
		SetQueryParam("destination", destination).
		SetResult(&result).
		Get(c.baseURL + "/distance")
	if err != nil {
		return 0, fmt.Errorf("distance matrix request failed: %w", err)
	}
	if res.IsError() {
		return 0, fmt.Errorf("distance matrix request failed: status %d", res.StatusCode())
	}
	return result.Minutes, nil
}
