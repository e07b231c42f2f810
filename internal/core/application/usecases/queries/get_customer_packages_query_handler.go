package queries

import (
	"context"
	"database/sql"

	"forwarder/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCustomerPackagesQueryHandler retrieves a customer's packages from the
// database, newest first.
type GetCustomerPackagesQueryHandler struct {
	db *gorm.DB
}

// NewGetCustomerPackagesQueryHandler creates a handler for customer package
// queries. Requires a GORM database connection for query execution.
func NewGetCustomerPackagesQueryHandler(db *gorm.DB) GetCustomerPackagesQueryHandler {
	return GetCustomerPackagesQueryHandler{db: db}
}

// Handle executes the query to retrieve all packages owned by the customer.
func (h GetCustomerPackagesQueryHandler) Handle(
	ctx context.Context,
	query GetCustomerPackagesQuery,
) ([]GetCustomerPackagesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	packages := make([]GetCustomerPackagesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tracking_number,
			status,
			delivery_mode,
			weight,
			shipping_cost,
			created_at,
			arrived_at
		FROM parcels
		WHERE user_id = ?
		ORDER BY created_at DESC, id
	`, query.UserID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetCustomerPackagesQueryResponse
		var id uuid.UUID
		var arrivedAt sql.NullTime

		err = rows.Scan(
			&id,
			&resp.TrackingNumber,
			&resp.Status,
			&resp.DeliveryMode,
			&resp.Weight,
			&resp.ShippingCost,
			&resp.CreatedAt,
			&arrivedAt,
		)
		if err != nil {
			return nil, err
		}

		resp.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		if arrivedAt.Valid {
			resp.ArrivedAt = &arrivedAt.Time
		}

		packages = append(packages, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return packages, nil
}
