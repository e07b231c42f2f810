package commands

import (
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/guard"
)

var ErrConfirmPickupCommandIsNotConstructed = errors.New(
	"ConfirmPickupCommand must be created via NewConfirmPickupCommand constructor",
)

// ConfirmPickupCommand represents staff handing a Pickup shipment's packages
// over to the customer at the counter.
type ConfirmPickupCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewConfirmPickupCommand creates a command for pickup hand-over.
func NewConfirmPickupCommand(shipmentID kernel.UUID) (ConfirmPickupCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return ConfirmPickupCommand{}, err
	}

	return ConfirmPickupCommand{
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmPickupCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPickupCommandIsNotConstructed)
}

// ShipmentID returns the shipment being handed over.
func (c ConfirmPickupCommand) ShipmentID() kernel.UUID { return c.shipmentID }
