package queries

import (
	"errors"
	"time"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/guard"
)

var ErrGetUnshippedShipmentsQueryIsNotConstructed = errors.New(
	"GetUnshippedShipmentsQuery must be created via NewGetUnshippedShipmentsQuery constructor",
)

// GetUnshippedShipmentsQuery retrieves all shipments awaiting dispatch.
// Returns shipments in "Created" status so staff can see which paid carts are
// ready for the ready-to-ship batch operation.
//
// Example:
//
//	query := NewGetUnshippedShipmentsQuery()
//	handler := NewGetUnshippedShipmentsQueryHandler(db)
//
//	shipments, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get unshipped shipments: %w", err)
//	}
//
//	fmt.Printf("Found %d shipments awaiting dispatch\n", len(shipments))
type GetUnshippedShipmentsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUnshippedShipmentsQuery creates a query to retrieve shipments
// awaiting dispatch. This is a parameterless query.
func NewGetUnshippedShipmentsQuery() GetUnshippedShipmentsQuery {
	return GetUnshippedShipmentsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetUnshippedShipmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetUnshippedShipmentsQueryIsNotConstructed)
}

// GetUnshippedShipmentsQueryResponse represents one shipment awaiting
// dispatch, with enough context for the staff dispatch screen.
type GetUnshippedShipmentsQueryResponse struct {
	ID           kernel.UUID
	ShipmentUID  string
	DeliveryMode string
	WarehouseID  kernel.UUID
	UserID       kernel.UUID
	PackageCount int
	CreatedAt    time.Time
}
