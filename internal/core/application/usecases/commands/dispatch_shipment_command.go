package commands

import (
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/guard"
)

var ErrDispatchShipmentCommandIsNotConstructed = errors.New(
	"DispatchShipmentCommand must be created via NewDispatchShipmentCommand constructor",
)

// DispatchShipmentCommand represents staff marking a paid shipment ready to
// leave the warehouse: courier booking for Delivery, counter hand-over for
// Pickup.
type DispatchShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDispatchShipmentCommand creates a command for the ready-to-ship batch
// operation.
func NewDispatchShipmentCommand(shipmentID kernel.UUID) (DispatchShipmentCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return DispatchShipmentCommand{}, err
	}

	return DispatchShipmentCommand{
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DispatchShipmentCommand) Validate() error {
	return c.guard.Validate(ErrDispatchShipmentCommandIsNotConstructed)
}

// ShipmentID returns the shipment being dispatched.
func (c DispatchShipmentCommand) ShipmentID() kernel.UUID { return c.shipmentID }
