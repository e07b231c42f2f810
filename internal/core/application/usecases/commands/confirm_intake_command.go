package commands

import (
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/pkg/guard"
)

var ErrConfirmIntakeCommandIsNotConstructed = errors.New(
	"ConfirmIntakeCommand must be created via NewConfirmIntakeCommand constructor",
)

// ConfirmIntakeCommand represents the customer confirming a Pre-Booked
// package and supplying its destination details.
type ConfirmIntakeCommand struct { //nolint:recvcheck //using for validation
	packageID        kernel.UUID
	userID           kernel.UUID
	mode             parcel.DeliveryMode
	deliveryTypeID   *kernel.UUID
	shippedTo        *kernel.Address
	pickupLocationID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewConfirmIntakeCommand creates a command to confirm a Pre-Booked package.
func NewConfirmIntakeCommand(
	packageID kernel.UUID,
	userID kernel.UUID,
	mode parcel.DeliveryMode,
	deliveryTypeID *kernel.UUID,
	shippedTo *kernel.Address,
	pickupLocationID *kernel.UUID,
) (ConfirmIntakeCommand, error) {
	if err := errors.Join(packageID.Validate(), userID.Validate(), mode.Validate()); err != nil {
		return ConfirmIntakeCommand{}, err
	}

	return ConfirmIntakeCommand{
		packageID:        packageID,
		userID:           userID,
		mode:             mode,
		deliveryTypeID:   deliveryTypeID,
		shippedTo:        shippedTo,
		pickupLocationID: pickupLocationID,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmIntakeCommand) Validate() error {
	return c.guard.Validate(ErrConfirmIntakeCommandIsNotConstructed)
}

// PackageID returns the package being confirmed.
func (c ConfirmIntakeCommand) PackageID() kernel.UUID { return c.packageID }

// UserID returns the acting customer's identifier.
func (c ConfirmIntakeCommand) UserID() kernel.UUID { return c.userID }

// Mode returns the confirmed delivery mode.
func (c ConfirmIntakeCommand) Mode() parcel.DeliveryMode { return c.mode }

// DeliveryTypeID returns the delivery type for Delivery mode, nil otherwise.
func (c ConfirmIntakeCommand) DeliveryTypeID() *kernel.UUID { return c.deliveryTypeID }

// ShippedTo returns the destination address for Delivery mode, nil otherwise.
func (c ConfirmIntakeCommand) ShippedTo() *kernel.Address { return c.shippedTo }

// PickupLocationID returns the pickup point for Pickup mode, nil otherwise.
func (c ConfirmIntakeCommand) PickupLocationID() *kernel.UUID { return c.pickupLocationID }
