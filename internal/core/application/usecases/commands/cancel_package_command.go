package commands

import (
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/guard"
)

var ErrCancelPackageCommandIsNotConstructed = errors.New(
	"CancelPackageCommand must be created via NewCancelPackageCommand constructor",
)

// CancelPackageCommand represents taking a pre-payment package out of the
// forwarding flow and into Awaiting return. Customers cancel their own
// packages; staff prepare a return without an owner check.
type CancelPackageCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID
	userID    *kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelPackageCommand creates a customer cancellation command. The
// package must belong to the given user.
func NewCancelPackageCommand(packageID kernel.UUID, userID kernel.UUID) (CancelPackageCommand, error) {
	if err := errors.Join(packageID.Validate(), userID.Validate()); err != nil {
		return CancelPackageCommand{}, err
	}

	return CancelPackageCommand{
		packageID: packageID,
		userID:    &userID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// NewPrepareReturnCommand creates a staff return-preparation command.
func NewPrepareReturnCommand(packageID kernel.UUID) (CancelPackageCommand, error) {
	if err := packageID.Validate(); err != nil {
		return CancelPackageCommand{}, err
	}

	return CancelPackageCommand{
		packageID: packageID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through a constructor.
func (c CancelPackageCommand) Validate() error {
	return c.guard.Validate(ErrCancelPackageCommandIsNotConstructed)
}

// PackageID returns the package being cancelled.
func (c CancelPackageCommand) PackageID() kernel.UUID { return c.packageID }

// UserID returns the acting customer, nil for staff return preparation.
func (c CancelPackageCommand) UserID() *kernel.UUID { return c.userID }
