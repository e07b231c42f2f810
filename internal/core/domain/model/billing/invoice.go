package billing

import (
	"errors"
	"time"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/errs"
)

var (
	// ErrInvoiceIsNotConstructed is returned when an Invoice instance was not
	// created through NewInvoice or RestoreInvoice.
	ErrInvoiceIsNotConstructed = errors.New("Invoice must be created via its constructors")

	// ErrInvoiceHasNoLines is returned when an invoice is created without any
	// line items.
	ErrInvoiceHasNoLines = errors.New("Invoice must contain at least one line")
)

// Customer is the billing recipient block printed on an invoice. It is a
// snapshot taken at checkout, so later profile edits do not rewrite issued
// invoices.
type Customer struct {
	name         string
	email        string
	addressLines []string
}

// NewCustomer creates a validated invoice recipient block.
func NewCustomer(name, email string, addressLines []string) (Customer, error) {
	if name == "" {
		return Customer{}, errs.NewValueIsRequiredError("name")
	}
	if email == "" {
		return Customer{}, errs.NewValueIsRequiredError("email")
	}

	return Customer{name: name, email: email, addressLines: addressLines}, nil
}

// Name returns the recipient's name.
func (c Customer) Name() string { return c.name }

// Email returns the recipient's email address.
func (c Customer) Email() string { return c.email }

// AddressLines returns the recipient's address, one line per element.
func (c Customer) AddressLines() []string { return c.addressLines }

// Line is a single invoice position: a shipping charge, a confirmed add-on
// service, or a storage fee.
type Line struct {
	name   string
	weight *float64
	cost   float64
}

// NewLine creates an invoice line. Weight is optional and only set on
// shipping lines.
func NewLine(name string, weight *float64, cost float64) (Line, error) {
	if name == "" {
		return Line{}, errs.NewValueIsRequiredError("name")
	}
	return Line{name: name, weight: weight, cost: cost}, nil
}

// Name returns the line's label.
func (l Line) Name() string { return l.name }

// Weight returns the billed weight in kg, nil for non-shipping lines.
func (l Line) Weight() *float64 { return l.weight }

// Cost returns the line's amount.
func (l Line) Cost() float64 { return l.cost }

// Invoice is the itemized bill issued at checkout for one cart. The invoice
// number comes from a race-free counter and increases monotonically across
// the system.
//
// Invoice maintains these invariants:
//   - The line list is non-empty and immutable after construction.
//   - Subtotal equals the sum of all line costs; Total equals subtotal minus
//     the shared-shipment discount. Storage-fee lines participate in the
//     subtotal but are never discounted, which the checkout calculation
//     guarantees by sizing the discount from flat-rate amounts only.
type Invoice struct {
	id        kernel.UUID
	invoiceNr int64
	userID    kernel.UUID

	customer Customer
	lines    []Line

	subtotal float64
	discount float64

	issuedAt time.Time

	isConstructed bool
}

// NewInvoice creates an invoice at checkout. The subtotal is derived from the
// lines; discount must not exceed it.
func NewInvoice(
	id kernel.UUID,
	invoiceNr int64,
	userID kernel.UUID,
	customer Customer,
	lines []Line,
	discount float64,
	now time.Time,
) (*Invoice, error) {
	if err := errors.Join(id.Validate(), userID.Validate()); err != nil {
		return nil, err
	}
	if invoiceNr <= 0 {
		return nil, errs.NewValueIsInvalidError("invoiceNr")
	}
	if len(lines) == 0 {
		return nil, ErrInvoiceHasNoLines
	}

	subtotal := 0.0
	for _, line := range lines {
		subtotal += line.Cost()
	}
	if discount < 0 || discount > subtotal {
		return nil, errs.NewValueIsInvalidError("discount")
	}

	return &Invoice{
		id:            id,
		invoiceNr:     invoiceNr,
		userID:        userID,
		customer:      customer,
		lines:         lines,
		subtotal:      subtotal,
		discount:      discount,
		issuedAt:      now,
		isConstructed: true,
	}, nil
}

// RestoreInvoice reconstructs an invoice from persistence, trusting the
// stored subtotal.
func RestoreInvoice(
	id kernel.UUID,
	invoiceNr int64,
	userID kernel.UUID,
	customer Customer,
	lines []Line,
	subtotal float64,
	discount float64,
	issuedAt time.Time,
) (*Invoice, error) {
	if err := errors.Join(id.Validate(), userID.Validate()); err != nil {
		return nil, err
	}

	return &Invoice{
		id:            id,
		invoiceNr:     invoiceNr,
		userID:        userID,
		customer:      customer,
		lines:         lines,
		subtotal:      subtotal,
		discount:      discount,
		issuedAt:      issuedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Invoice instance was properly constructed.
func (i *Invoice) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrInvoiceIsNotConstructed
	}
	return nil
}

// ID returns the invoice's unique identifier.
func (i *Invoice) ID() kernel.UUID { return i.id }

// InvoiceNr returns the monotonically increasing invoice number.
func (i *Invoice) InvoiceNr() int64 { return i.invoiceNr }

// UserID returns the billed customer's identifier.
func (i *Invoice) UserID() kernel.UUID { return i.userID }

// Customer returns the recipient block snapshot.
func (i *Invoice) Customer() Customer { return i.customer }

// Lines returns the itemized positions.
func (i *Invoice) Lines() []Line { return i.lines }

// Subtotal returns the sum of all line costs before discount.
func (i *Invoice) Subtotal() float64 { return i.subtotal }

// Discount returns the shared-shipment discount.
func (i *Invoice) Discount() float64 { return i.discount }

// Total returns the amount owed: subtotal minus discount.
func (i *Invoice) Total() float64 { return i.subtotal - i.discount }

// IssuedAt returns the checkout time.
func (i *Invoice) IssuedAt() time.Time { return i.issuedAt }
