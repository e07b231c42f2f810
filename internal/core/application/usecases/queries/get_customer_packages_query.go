package queries

import (
	"errors"
	"time"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/guard"
)

var ErrGetCustomerPackagesQueryIsNotConstructed = errors.New(
	"GetCustomerPackagesQuery must be created via NewGetCustomerPackagesQuery constructor",
)

// GetCustomerPackagesQuery retrieves every package owned by one customer, for
// the customer dashboard.
type GetCustomerPackagesQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCustomerPackagesQuery creates a query for a customer's packages.
func NewGetCustomerPackagesQuery(userID kernel.UUID) (GetCustomerPackagesQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetCustomerPackagesQuery{}, err
	}

	return GetCustomerPackagesQuery{
		userID: userID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCustomerPackagesQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerPackagesQueryIsNotConstructed)
}

// UserID returns the requesting customer.
func (q GetCustomerPackagesQuery) UserID() kernel.UUID { return q.userID }

// GetCustomerPackagesQueryResponse represents one package row on the customer
// dashboard.
type GetCustomerPackagesQueryResponse struct {
	ID             kernel.UUID
	TrackingNumber string
	Status         string
	DeliveryMode   string
	Weight         float64
	ShippingCost   float64
	CreatedAt      time.Time
	ArrivedAt      *time.Time
}
