package commands

import (
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/errs"
	"forwarder/internal/pkg/guard"
)

var ErrDeclareValueCommandIsNotConstructed = errors.New(
	"DeclareValueCommand must be created via NewDeclareValueCommand constructor",
)

// DeclareValueCommand represents the customer declaring the value of a quoted
// package, opening it for payment.
type DeclareValueCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID
	userID    kernel.UUID
	value     float64

	guard guard.ConstructorGuard
}

// NewDeclareValueCommand creates a command to declare a package's value.
func NewDeclareValueCommand(packageID kernel.UUID, userID kernel.UUID, value float64) (DeclareValueCommand, error) {
	if err := errors.Join(packageID.Validate(), userID.Validate()); err != nil {
		return DeclareValueCommand{}, err
	}
	if value < 0 {
		return DeclareValueCommand{}, errs.NewValueIsInvalidError("value")
	}

	return DeclareValueCommand{
		packageID: packageID,
		userID:    userID,
		value:     value,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DeclareValueCommand) Validate() error {
	return c.guard.Validate(ErrDeclareValueCommandIsNotConstructed)
}

// PackageID returns the package whose value is declared.
func (c DeclareValueCommand) PackageID() kernel.UUID { return c.packageID }

// UserID returns the acting customer's identifier.
func (c DeclareValueCommand) UserID() kernel.UUID { return c.userID }

// Value returns the declared value.
func (c DeclareValueCommand) Value() float64 { return c.value }
