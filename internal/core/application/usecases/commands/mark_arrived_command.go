package commands

import (
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/guard"
)

var ErrMarkArrivedCommandIsNotConstructed = errors.New(
	"MarkArrivedCommand must be created via NewMarkArrivedCommand constructor",
)

// MarkArrivedCommand represents staff registering the physical arrival of a
// Recorded package at the warehouse.
type MarkArrivedCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkArrivedCommand creates a command to register package arrival.
func NewMarkArrivedCommand(packageID kernel.UUID) (MarkArrivedCommand, error) {
	if err := packageID.Validate(); err != nil {
		return MarkArrivedCommand{}, err
	}

	return MarkArrivedCommand{
		packageID: packageID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkArrivedCommand) Validate() error {
	return c.guard.Validate(ErrMarkArrivedCommandIsNotConstructed)
}

// PackageID returns the arriving package's identifier.
func (c MarkArrivedCommand) PackageID() kernel.UUID { return c.packageID }
