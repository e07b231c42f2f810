package commands

import (
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand represents the payment provider confirming settlement
// of a checkout transaction.
type ConfirmPaymentCommand struct { //nolint:recvcheck //using for validation
	transactionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewConfirmPaymentCommand creates a command from a payment webhook.
func NewConfirmPaymentCommand(transactionID kernel.UUID) (ConfirmPaymentCommand, error) {
	if err := transactionID.Validate(); err != nil {
		return ConfirmPaymentCommand{}, err
	}

	return ConfirmPaymentCommand{
		transactionID: transactionID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

// TransactionID returns the settled transaction's identifier.
func (c ConfirmPaymentCommand) TransactionID() kernel.UUID { return c.transactionID }
