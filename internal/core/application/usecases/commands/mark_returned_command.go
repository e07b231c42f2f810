package commands

import (
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/guard"
)

var ErrMarkReturnedCommandIsNotConstructed = errors.New(
	"MarkReturnedCommand must be created via NewMarkReturnedCommand constructor",
)

// MarkReturnedCommand represents staff confirming a package physically left
// the warehouse back to its sender.
type MarkReturnedCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkReturnedCommand creates a command to complete a package return.
func NewMarkReturnedCommand(packageID kernel.UUID) (MarkReturnedCommand, error) {
	if err := packageID.Validate(); err != nil {
		return MarkReturnedCommand{}, err
	}

	return MarkReturnedCommand{
		packageID: packageID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkReturnedCommand) Validate() error {
	return c.guard.Validate(ErrMarkReturnedCommandIsNotConstructed)
}

// PackageID returns the returned package's identifier.
func (c MarkReturnedCommand) PackageID() kernel.UUID { return c.packageID }
