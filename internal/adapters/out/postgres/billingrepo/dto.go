// Package billingrepo provides data transfer objects and mapping functions
// for invoice and transaction persistence, plus the race-free invoice number
// counter.
package billingrepo

import (
	"strings"
	"time"

	"forwarder/internal/core/domain/model/billing"
	"forwarder/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// InvoiceDTO represents the database structure for persisting invoice
// aggregates. The recipient address snapshot is stored newline-joined, which
// is how the invoice view renders it anyway.
type InvoiceDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	InvoiceNr int64     `gorm:"uniqueIndex"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`

	CustomerName  string
	CustomerEmail string
	AddressLines  string

	Subtotal float64
	Discount float64

	CreatedAt time.Time

	Lines []InvoiceLineDTO `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for invoice entities.
func (InvoiceDTO) TableName() string {
	return "invoices"
}

// InvoiceLineDTO represents one itemized charge on an invoice.
type InvoiceLineDTO struct {
	InvoiceID uuid.UUID `gorm:"type:uuid;primaryKey"`
	SortOrder int       `gorm:"primaryKey"`
	Name      string
	Weight    *float64
	Cost      float64
}

// TableName specifies the database table name for invoice lines.
func (InvoiceLineDTO) TableName() string {
	return "invoice_lines"
}

// TransactionDTO represents the database structure for persisting payment
// transactions.
type TransactionDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;index"`
	Amount float64
	Status string `gorm:"index"`

	CreatedAt time.Time
	PaidAt    *time.Time
}

// TableName specifies the database table name for transaction entities.
func (TransactionDTO) TableName() string {
	return "transactions"
}

// InvoiceCounterDTO backs the monotonically increasing invoice number. The
// table holds a single row that every checkout increments atomically.
type InvoiceCounterDTO struct {
	ID  int `gorm:"primaryKey"`
	Seq int64
}

// TableName specifies the database table name for the invoice counter.
func (InvoiceCounterDTO) TableName() string {
	return "invoice_counters"
}

// invoiceFromDomain converts an invoice domain aggregate to its database representation.
func invoiceFromDomain(aggregate *billing.Invoice) InvoiceDTO {
	dto := InvoiceDTO{
		ID:            aggregate.ID().Bytes(),
		InvoiceNr:     aggregate.InvoiceNr(),
		UserID:        aggregate.UserID().Bytes(),
		CustomerName:  aggregate.Customer().Name(),
		CustomerEmail: aggregate.Customer().Email(),
		AddressLines:  strings.Join(aggregate.Customer().AddressLines(), "\n"),
		Subtotal:      aggregate.Subtotal(),
		Discount:      aggregate.Discount(),
		CreatedAt:     aggregate.IssuedAt(),
	}

	for i, line := range aggregate.Lines() {
		dto.Lines = append(dto.Lines, InvoiceLineDTO{
			InvoiceID: dto.ID,
			SortOrder: i,
			Name:      line.Name(),
			Weight:    line.Weight(),
			Cost:      line.Cost(),
		})
	}

	return dto
}

// invoiceToDomain converts a database DTO to an invoice domain aggregate using
// RestoreInvoice. Lines must be preloaded ordered by sort_order.
func invoiceToDomain(dto InvoiceDTO) (*billing.Invoice, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	var addressLines []string
	if dto.AddressLines != "" {
		addressLines = strings.Split(dto.AddressLines, "\n")
	}
	customer, err := billing.NewCustomer(dto.CustomerName, dto.CustomerEmail, addressLines)
	if err != nil {
		return nil, err
	}

	lines := make([]billing.Line, 0, len(dto.Lines))
	for _, lineDTO := range dto.Lines {
		line, lineErr := billing.NewLine(lineDTO.Name, lineDTO.Weight, lineDTO.Cost)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return billing.RestoreInvoice(
		id, dto.InvoiceNr, userID, customer, lines,
		dto.Subtotal, dto.Discount, dto.CreatedAt,
	)
}

// transactionFromDomain converts a transaction domain aggregate to its
// database representation.
func transactionFromDomain(aggregate *billing.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:        aggregate.ID().Bytes(),
		UserID:    aggregate.UserID().Bytes(),
		Amount:    aggregate.Amount(),
		Status:    aggregate.Status().String(),
		CreatedAt: aggregate.CreatedAt(),
		PaidAt:    aggregate.PaidAt(),
	}
}

// transactionToDomain converts a database DTO to a transaction domain
// aggregate using RestoreTransaction.
func transactionToDomain(dto TransactionDTO) (*billing.Transaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	status, err := billing.TransactionStatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return billing.RestoreTransaction(id, userID, dto.Amount, status, dto.CreatedAt, dto.PaidAt)
}
