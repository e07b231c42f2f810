package commands

import (
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/errs"
	"forwarder/internal/pkg/guard"
)

var ErrPrebookPackageCommandIsNotConstructed = errors.New(
	"PrebookPackageCommand must be created via NewPrebookPackageCommand constructor",
)

// PrebookPackageCommand represents staff intake of a package that showed up
// at the warehouse before the customer registered it. The package starts
// Pre-Booked with its arrival already stamped; the customer supplies the
// destination later.
type PrebookPackageCommand struct { //nolint:recvcheck //using for validation
	packageID      kernel.UUID
	userID         kernel.UUID
	staffID        kernel.UUID
	warehouseID    kernel.UUID
	trackingNumber string

	guard guard.ConstructorGuard
}

// NewPrebookPackageCommand creates a command for staff package intake.
func NewPrebookPackageCommand(
	packageID kernel.UUID,
	userID kernel.UUID,
	staffID kernel.UUID,
	warehouseID kernel.UUID,
	trackingNumber string,
) (PrebookPackageCommand, error) {
	if err := errors.Join(
		packageID.Validate(),
		userID.Validate(),
		staffID.Validate(),
		warehouseID.Validate(),
	); err != nil {
		return PrebookPackageCommand{}, err
	}
	if trackingNumber == "" {
		return PrebookPackageCommand{}, errs.NewValueIsRequiredError("trackingNumber")
	}

	return PrebookPackageCommand{
		packageID:      packageID,
		userID:         userID,
		staffID:        staffID,
		warehouseID:    warehouseID,
		trackingNumber: trackingNumber,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PrebookPackageCommand) Validate() error {
	return c.guard.Validate(ErrPrebookPackageCommandIsNotConstructed)
}

// PackageID returns the identifier for the new package.
func (c PrebookPackageCommand) PackageID() kernel.UUID { return c.packageID }

// UserID returns the owning customer's identifier.
func (c PrebookPackageCommand) UserID() kernel.UUID { return c.userID }

// StaffID returns the staff member performing the intake.
func (c PrebookPackageCommand) StaffID() kernel.UUID { return c.staffID }

// WarehouseID returns the receiving warehouse.
func (c PrebookPackageCommand) WarehouseID() kernel.UUID { return c.warehouseID }

// TrackingNumber returns the inbound carrier tracking number.
func (c PrebookPackageCommand) TrackingNumber() string { return c.trackingNumber }
