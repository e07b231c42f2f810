package commands

import (
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/errs"
	"forwarder/internal/pkg/guard"
)

var ErrCheckoutCommandIsNotConstructed = errors.New(
	"CheckoutCommand must be created via NewCheckoutCommand constructor",
)

// CheckoutEntry is one cart position: a package the customer is paying for,
// its declared content type, and the confirmed add-on services.
type CheckoutEntry struct {
	PackageID    kernel.UUID
	DeclaredType string
	ServiceIDs   []kernel.UUID
}

// CheckoutCommand represents the customer paying for a cart of Unpaid
// packages: one invoice, one payment transaction, and one shipment per
// destination bundle.
type CheckoutCommand struct { //nolint:recvcheck //using for validation
	userID        kernel.UUID
	customerName  string
	customerEmail string
	entries       []CheckoutEntry

	guard guard.ConstructorGuard
}

// NewCheckoutCommand creates a checkout command for a non-empty cart.
func NewCheckoutCommand(
	userID kernel.UUID,
	customerName string,
	customerEmail string,
	entries []CheckoutEntry,
) (CheckoutCommand, error) {
	if err := userID.Validate(); err != nil {
		return CheckoutCommand{}, err
	}
	if customerName == "" {
		return CheckoutCommand{}, errs.NewValueIsRequiredError("customerName")
	}
	if customerEmail == "" {
		return CheckoutCommand{}, errs.NewValueIsRequiredError("customerEmail")
	}
	if len(entries) == 0 {
		return CheckoutCommand{}, errs.NewValueIsRequiredError("entries")
	}

	seen := make(map[kernel.UUID]struct{}, len(entries))
	for _, entry := range entries {
		if err := entry.PackageID.Validate(); err != nil {
			return CheckoutCommand{}, err
		}
		if _, ok := seen[entry.PackageID]; ok {
			return CheckoutCommand{}, errs.NewValueIsInvalidError("entries")
		}
		seen[entry.PackageID] = struct{}{}

		for _, serviceID := range entry.ServiceIDs {
			if err := serviceID.Validate(); err != nil {
				return CheckoutCommand{}, err
			}
		}
	}

	return CheckoutCommand{
		userID:        userID,
		customerName:  customerName,
		customerEmail: customerEmail,
		entries:       entries,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutCommandIsNotConstructed)
}

// UserID returns the paying customer's identifier.
func (c CheckoutCommand) UserID() kernel.UUID { return c.userID }

// CustomerName returns the invoice recipient name.
func (c CheckoutCommand) CustomerName() string { return c.customerName }

// CustomerEmail returns the invoice recipient email.
func (c CheckoutCommand) CustomerEmail() string { return c.customerEmail }

// Entries returns the cart positions.
func (c CheckoutCommand) Entries() []CheckoutEntry { return c.entries }
