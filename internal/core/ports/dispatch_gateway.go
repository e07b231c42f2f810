package ports

import (
	"context"
	"errors"

	"forwarder/internal/core/domain/model/kernel"
)

// ErrDispatchFailed is returned when the external courier service rejects or
// fails a booking. The ready-to-ship operation surfaces it without touching
// any package state.
var ErrDispatchFailed = errors.New("courier dispatch failed")

// DispatchBooking is the booking request sent to the external courier service
// for a Delivery shipment.
type DispatchBooking struct {
	ShipmentUID  string
	Address      kernel.Address
	PackageCount int
	TotalWeight  float64
}

// DispatchGateway books physical delivery with the external courier service.
type DispatchGateway interface {
	// BookDelivery books the courier job for a shipment and returns the
	// courier's job reference. Failures wrap ErrDispatchFailed.
	BookDelivery(ctx context.Context, booking DispatchBooking) (jobID string, err error)
}
