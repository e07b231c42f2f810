package queries

import (
	"context"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/shipment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUnshippedShipmentsQueryHandler retrieves shipments awaiting dispatch from
// the database. Shipments leave this view once the ready-to-ship batch
// operation moves them to Started.
type GetUnshippedShipmentsQueryHandler struct {
	db *gorm.DB
}

// NewGetUnshippedShipmentsQueryHandler creates a handler for unshipped
// shipment queries. Requires a GORM database connection for query execution.
func NewGetUnshippedShipmentsQueryHandler(db *gorm.DB) GetUnshippedShipmentsQueryHandler {
	return GetUnshippedShipmentsQueryHandler{db: db}
}

// Handle executes the query to retrieve all Created shipments, oldest first,
// with their member package counts.
func (h GetUnshippedShipmentsQueryHandler) Handle(
	ctx context.Context,
	query GetUnshippedShipmentsQuery,
) ([]GetUnshippedShipmentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	shipments := make([]GetUnshippedShipmentsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.shipment_uid,
			s.delivery_mode,
			s.warehouse_id,
			s.user_id,
			COUNT(sp.package_id),
			s.created_at
		FROM shipments s
		LEFT JOIN shipment_packages sp ON sp.shipment_id = s.id
		WHERE s.status = ?
		GROUP BY s.id, s.shipment_uid, s.delivery_mode, s.warehouse_id, s.user_id, s.created_at
		ORDER BY s.created_at, s.id
	`, shipment.Created.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetUnshippedShipmentsQueryResponse
		var id, warehouseID, userID uuid.UUID

		err = rows.Scan(
			&id,
			&resp.ShipmentUID,
			&resp.DeliveryMode,
			&warehouseID,
			&userID,
			&resp.PackageCount,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		resp.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		resp.WarehouseID, err = kernel.UUIDFromBytes(warehouseID[:])
		if err != nil {
			return nil, err
		}
		resp.UserID, err = kernel.UUIDFromBytes(userID[:])
		if err != nil {
			return nil, err
		}

		shipments = append(shipments, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return shipments, nil
}
