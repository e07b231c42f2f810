// Package dispatch books physical delivery with the external courier service
// over HTTP.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"forwarder/internal/core/ports"
	"forwarder/internal/pkg/errs"
)

const defaultTimeout = 10 * time.Second

// bookingRequest is the courier service's job creation payload.
type bookingRequest struct {
	Reference    string  `json:"reference"`
	Name         string  `json:"name"`
	Street       string  `json:"street"`
	State        string  `json:"state"`
	City         string  `json:"city"`
	Zipcode      string  `json:"zipcode"`
	Country      string  `json:"country"`
	PackageCount int     `json:"package_count"`
	TotalWeight  float64 `json:"total_weight"`
}

// bookingResponse is the courier service's job creation reply.
type bookingResponse struct {
	JobID string `json:"job_id"`
}

// HTTPGateway implements the dispatch gateway port against the courier
// service's REST API.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPGateway creates a dispatch gateway for the courier service at baseURL.
func NewHTTPGateway(baseURL, apiKey string) (*HTTPGateway, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
	}, nil
}

// BookDelivery posts a booking job and returns the courier's job reference.
// Transport errors and non-2xx replies wrap ErrDispatchFailed so the caller
// can leave shipment state untouched.
func (g *HTTPGateway) BookDelivery(ctx context.Context, booking ports.DispatchBooking) (string, error) {
	payload := bookingRequest{
		Reference:    booking.ShipmentUID,
		Name:         booking.Address.Name(),
		Street:       booking.Address.Street(),
		State:        booking.Address.State(),
		City:         booking.Address.City(),
		Zipcode:      booking.Address.Zipcode(),
		Country:      booking.Address.Country(),
		PackageCount: booking.PackageCount,
		TotalWeight:  booking.TotalWeight,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ports.ErrDispatchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/jobs", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ports.ErrDispatchFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ports.ErrDispatchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: courier service replied %d: %s", ports.ErrDispatchFailed, resp.StatusCode, msg)
	}

	var reply bookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("%w: %w", ports.ErrDispatchFailed, err)
	}
	if reply.JobID == "" {
		return "", fmt.Errorf("%w: courier service returned no job reference", ports.ErrDispatchFailed)
	}

	return reply.JobID, nil
}
