package queries

import (
	"errors"
	"time"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/guard"
)

var ErrGetInvoiceQueryIsNotConstructed = errors.New(
	"GetInvoiceQuery must be created via NewGetInvoiceQuery constructor",
)

// GetInvoiceQuery retrieves one invoice for the customer who owns it.
// A foreign or unknown invoice reads as not found; customers cannot probe for
// other customers' invoices.
type GetInvoiceQuery struct {
	invoiceID kernel.UUID
	userID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetInvoiceQuery creates a query for a customer's invoice.
func NewGetInvoiceQuery(invoiceID kernel.UUID, userID kernel.UUID) (GetInvoiceQuery, error) {
	if err := errors.Join(invoiceID.Validate(), userID.Validate()); err != nil {
		return GetInvoiceQuery{}, err
	}

	return GetInvoiceQuery{
		invoiceID: invoiceID,
		userID:    userID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetInvoiceQuery) Validate() error {
	return q.guard.Validate(ErrGetInvoiceQueryIsNotConstructed)
}

// InvoiceID returns the requested invoice.
func (q GetInvoiceQuery) InvoiceID() kernel.UUID { return q.invoiceID }

// UserID returns the requesting customer.
func (q GetInvoiceQuery) UserID() kernel.UUID { return q.userID }

// GetInvoiceQueryLineResponse is one itemized charge on the invoice.
type GetInvoiceQueryLineResponse struct {
	Name   string
	Weight *float64
	Cost   float64
}

// GetInvoiceQueryResponse represents the rendered invoice: recipient block,
// itemized lines, and the subtotal/discount/total summary.
type GetInvoiceQueryResponse struct {
	ID            kernel.UUID
	InvoiceNr     int64
	CustomerName  string
	CustomerEmail string
	AddressLines  []string
	Lines         []GetInvoiceQueryLineResponse
	Subtotal      float64
	Discount      float64
	Total         float64
	CreatedAt     time.Time
}
