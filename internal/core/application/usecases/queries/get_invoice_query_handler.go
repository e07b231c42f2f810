package queries

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetInvoiceQueryHandler retrieves a customer's invoice from the database.
type GetInvoiceQueryHandler struct {
	db *gorm.DB
}

// NewGetInvoiceQueryHandler creates a handler for invoice queries.
// Requires a GORM database connection for query execution.
func NewGetInvoiceQueryHandler(db *gorm.DB) GetInvoiceQueryHandler {
	return GetInvoiceQueryHandler{db: db}
}

// Handle executes the query to retrieve the invoice with its itemized lines.
// Ownership is part of the lookup, so a foreign invoice reads as not found.
func (h GetInvoiceQueryHandler) Handle(
	ctx context.Context,
	query GetInvoiceQuery,
) (GetInvoiceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetInvoiceQueryResponse{}, err
	}

	resp, err := h.invoiceHeader(ctx, query)
	if err != nil {
		return GetInvoiceQueryResponse{}, err
	}

	resp.Lines, err = h.invoiceLines(ctx, query.InvoiceID())
	if err != nil {
		return GetInvoiceQueryResponse{}, err
	}

	return resp, nil
}

func (h GetInvoiceQueryHandler) invoiceHeader(
	ctx context.Context,
	query GetInvoiceQuery,
) (GetInvoiceQueryResponse, error) {
	var resp GetInvoiceQueryResponse
	var id uuid.UUID
	var addressLines string

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			invoice_nr,
			customer_name,
			customer_email,
			address_lines,
			subtotal,
			discount,
			created_at
		FROM invoices
		WHERE id = ? AND user_id = ?
	`, query.InvoiceID().String(), query.UserID().String()).Row()

	err := row.Scan(
		&id,
		&resp.InvoiceNr,
		&resp.CustomerName,
		&resp.CustomerEmail,
		&addressLines,
		&resp.Subtotal,
		&resp.Discount,
		&resp.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetInvoiceQueryResponse{}, errs.NewObjectNotFoundError("invoiceID", query.InvoiceID())
	}
	if err != nil {
		return GetInvoiceQueryResponse{}, err
	}

	resp.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetInvoiceQueryResponse{}, err
	}
	if addressLines != "" {
		resp.AddressLines = strings.Split(addressLines, "\n")
	}
	resp.Total = resp.Subtotal - resp.Discount

	return resp, nil
}

func (h GetInvoiceQueryHandler) invoiceLines(
	ctx context.Context,
	invoiceID kernel.UUID,
) ([]GetInvoiceQueryLineResponse, error) {
	lines := make([]GetInvoiceQueryLineResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			name,
			weight,
			cost
		FROM invoice_lines
		WHERE invoice_id = ?
		ORDER BY sort_order
	`, invoiceID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line GetInvoiceQueryLineResponse
		var weight sql.NullFloat64

		if err = rows.Scan(&line.Name, &weight, &line.Cost); err != nil {
			return nil, err
		}
		if weight.Valid {
			line.Weight = &weight.Float64
		}

		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
