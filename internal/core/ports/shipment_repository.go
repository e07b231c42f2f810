package ports

import (
	"context"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment aggregates.
type ShipmentRepository interface {
	// Add persists a new shipment aggregate to storage.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update persists changes to an existing shipment aggregate.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	// Get retrieves a shipment aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetAllByTransaction retrieves the shipments created by the checkout that
	// issued the given transaction. The payment webhook fans payment
	// confirmation out across them.
	GetAllByTransaction(ctx context.Context, transactionID kernel.UUID) ([]*shipment.Shipment, error)
}
