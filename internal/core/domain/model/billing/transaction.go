package billing

import (
	"errors"
	"fmt"
	"time"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/errs"
)

var (
	// ErrTransactionIsNotConstructed is returned when a Transaction instance
	// was not created through NewTransaction or RestoreTransaction.
	ErrTransactionIsNotConstructed = errors.New("Transaction must be created via its constructors")

	// ErrTransactionAlreadyPaid is returned when a payment confirmation is
	// replayed against an already settled transaction.
	ErrTransactionAlreadyPaid = errors.New("Transaction is already paid")
)

// TransactionStatus is the settlement state of a payment transaction.
type TransactionStatus int

const (
	// TransactionUnknown represents an invalid or undefined status.
	TransactionUnknown TransactionStatus = iota

	// TransactionUnpaid is the initial state assigned at checkout.
	TransactionUnpaid

	// TransactionPaid means the payment provider confirmed settlement.
	TransactionPaid
)

func getTransactionStatusStrings() map[TransactionStatus]string {
	return map[TransactionStatus]string{
		TransactionUnknown: "Unknown",
		TransactionUnpaid:  "Unpaid",
		TransactionPaid:    "Paid",
	}
}

// Validate checks if the TransactionStatus value is one of the closed set.
func (s TransactionStatus) Validate() error {
	if s != TransactionUnpaid && s != TransactionPaid {
		return fmt.Errorf("%d is not a valid transaction status", s)
	}
	return nil
}

// String returns the persisted, human-readable name of the status.
func (s TransactionStatus) String() string {
	if str, ok := getTransactionStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// TransactionStatusFromString maps a persisted representation back to a
// TransactionStatus.
func TransactionStatusFromString(v string) (TransactionStatus, error) {
	for status, str := range getTransactionStatusStrings() {
		if str == v && status != TransactionUnknown {
			return status, nil
		}
	}
	return TransactionUnknown, fmt.Errorf("%q is not a valid transaction status", v)
}

// Transaction tracks the payment owed for one checkout. The payment webhook
// references the transaction and settles it; settlement is applied at most
// once.
type Transaction struct {
	id     kernel.UUID
	userID kernel.UUID
	amount float64
	status TransactionStatus

	createdAt time.Time
	paidAt    *time.Time

	isConstructed bool
}

// NewTransaction creates an Unpaid transaction at checkout.
func NewTransaction(id kernel.UUID, userID kernel.UUID, amount float64, now time.Time) (*Transaction, error) {
	if err := errors.Join(id.Validate(), userID.Validate()); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, errs.NewValueIsInvalidError("amount")
	}

	return &Transaction{
		id:            id,
		userID:        userID,
		amount:        amount,
		status:        TransactionUnpaid,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreTransaction reconstructs a transaction from persistence.
func RestoreTransaction(
	id kernel.UUID,
	userID kernel.UUID,
	amount float64,
	status TransactionStatus,
	createdAt time.Time,
	paidAt *time.Time,
) (*Transaction, error) {
	if err := errors.Join(id.Validate(), userID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Transaction{
		id:            id,
		userID:        userID,
		amount:        amount,
		status:        status,
		createdAt:     createdAt,
		paidAt:        paidAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Transaction instance was properly constructed.
func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

// ID returns the transaction's unique identifier.
func (t *Transaction) ID() kernel.UUID { return t.id }

// UserID returns the paying customer's identifier.
func (t *Transaction) UserID() kernel.UUID { return t.userID }

// Amount returns the amount owed.
func (t *Transaction) Amount() float64 { return t.amount }

// Status returns the settlement state.
func (t *Transaction) Status() TransactionStatus { return t.status }

// IsPaid reports whether the transaction has been settled.
func (t *Transaction) IsPaid() bool { return t.status == TransactionPaid }

// CreatedAt returns the checkout time.
func (t *Transaction) CreatedAt() time.Time { return t.createdAt }

// PaidAt returns the settlement time, nil while unpaid.
func (t *Transaction) PaidAt() *time.Time { return t.paidAt }

// MarkPaid settles the transaction. A replayed confirmation fails with
// ErrTransactionAlreadyPaid and does not move paidAt.
func (t *Transaction) MarkPaid(now time.Time) error {
	if t.status == TransactionPaid {
		return ErrTransactionAlreadyPaid
	}

	t.status = TransactionPaid
	t.paidAt = &now
	return nil
}
