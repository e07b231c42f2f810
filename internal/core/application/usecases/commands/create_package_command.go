package commands

import (
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/pkg/errs"
	"forwarder/internal/pkg/guard"
)

var ErrCreatePackageCommandIsNotConstructed = errors.New(
	"CreatePackageCommand must be created via NewCreatePackageCommand constructor",
)

// CreatePackageCommand represents a customer registering an expected package:
// the tracking number of an inbound parcel and where it should go once it
// arrives at the warehouse.
type CreatePackageCommand struct { //nolint:recvcheck //using for validation
	packageID        kernel.UUID
	userID           kernel.UUID
	warehouseID      kernel.UUID
	trackingNumber   string
	mode             parcel.DeliveryMode
	deliveryTypeID   *kernel.UUID
	shippedTo        *kernel.Address
	pickupLocationID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreatePackageCommand creates a command to register an expected package.
// Destination consistency against the delivery mode is enforced by the
// aggregate constructor in the handler.
func NewCreatePackageCommand(
	packageID kernel.UUID,
	userID kernel.UUID,
	warehouseID kernel.UUID,
	trackingNumber string,
	mode parcel.DeliveryMode,
	deliveryTypeID *kernel.UUID,
	shippedTo *kernel.Address,
	pickupLocationID *kernel.UUID,
) (CreatePackageCommand, error) {
	if err := errors.Join(
		packageID.Validate(),
		userID.Validate(),
		warehouseID.Validate(),
		mode.Validate(),
	); err != nil {
		return CreatePackageCommand{}, err
	}
	if trackingNumber == "" {
		return CreatePackageCommand{}, errs.NewValueIsRequiredError("trackingNumber")
	}

	return CreatePackageCommand{
		packageID:        packageID,
		userID:           userID,
		warehouseID:      warehouseID,
		trackingNumber:   trackingNumber,
		mode:             mode,
		deliveryTypeID:   deliveryTypeID,
		shippedTo:        shippedTo,
		pickupLocationID: pickupLocationID,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreatePackageCommand) Validate() error {
	return c.guard.Validate(ErrCreatePackageCommandIsNotConstructed)
}

// PackageID returns the identifier for the new package.
func (c CreatePackageCommand) PackageID() kernel.UUID { return c.packageID }

// UserID returns the owning customer's identifier.
func (c CreatePackageCommand) UserID() kernel.UUID { return c.userID }

// WarehouseID returns the receiving warehouse.
func (c CreatePackageCommand) WarehouseID() kernel.UUID { return c.warehouseID }

// TrackingNumber returns the inbound carrier tracking number.
func (c CreatePackageCommand) TrackingNumber() string { return c.trackingNumber }

// Mode returns the requested delivery mode.
func (c CreatePackageCommand) Mode() parcel.DeliveryMode { return c.mode }

// DeliveryTypeID returns the delivery type for Delivery mode, nil otherwise.
func (c CreatePackageCommand) DeliveryTypeID() *kernel.UUID { return c.deliveryTypeID }

// ShippedTo returns the destination address for Delivery mode, nil otherwise.
func (c CreatePackageCommand) ShippedTo() *kernel.Address { return c.shippedTo }

// PickupLocationID returns the pickup point for Pickup mode, nil otherwise.
func (c CreatePackageCommand) PickupLocationID() *kernel.UUID { return c.pickupLocationID }
