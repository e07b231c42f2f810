package ports

import (
	"context"

	"forwarder/internal/core/domain/model/billing"
	"forwarder/internal/core/domain/model/kernel"
)

// InvoiceRepository defines the persistence contract for invoices.
type InvoiceRepository interface {
	// Add persists a new invoice to storage.
	Add(ctx context.Context, aggregate *billing.Invoice) error

	// Get retrieves an invoice by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*billing.Invoice, error)

	// NextInvoiceNr atomically increments and returns the invoice counter.
	// Concurrent checkouts each receive a distinct, monotonically increasing
	// number.
	NextInvoiceNr(ctx context.Context) (int64, error)
}

// TransactionRepository defines the persistence contract for payment
// transactions.
type TransactionRepository interface {
	// Add persists a new transaction to storage.
	Add(ctx context.Context, aggregate *billing.Transaction) error

	// Update persists changes to an existing transaction.
	Update(ctx context.Context, aggregate *billing.Transaction) error

	// Get retrieves a transaction by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*billing.Transaction, error)
}
