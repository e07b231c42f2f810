// Package ports defines the contracts between the forwarding domain and
// infrastructure: repositories, the unit of work, the notifier, the courier
// dispatch gateway, and the error ledger. These interfaces enable dependency
// inversion and testability.
package ports

import (
	"context"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"
)

// ParcelRepository defines the persistence contract for parcel aggregates.
type ParcelRepository interface {
	// Add persists a new parcel aggregate to storage.
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Update persists changes to an existing parcel aggregate.
	Update(ctx context.Context, aggregate *parcel.Parcel) error

	// UpdateWithStatusGuard persists changes to an existing parcel only if its
	// stored status still equals expected. The guard travels in the WHERE
	// clause of the update, making check-and-write atomic. Returns
	// errs.ErrConcurrentModification when another writer moved the parcel
	// first.
	UpdateWithStatusGuard(ctx context.Context, aggregate *parcel.Parcel, expected parcel.Status) error

	// Get retrieves a parcel aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// GetAllByIDs retrieves the parcels for a checkout cart. Every requested
	// ID must resolve; a missing parcel fails the whole lookup.
	GetAllByIDs(ctx context.Context, ids []kernel.UUID) ([]*parcel.Parcel, error)

	// GetAllByUser retrieves all parcels owned by a customer, newest first.
	GetAllByUser(ctx context.Context, userID kernel.UUID) ([]*parcel.Parcel, error)

	// GetAllInStatus retrieves all parcels currently in the given status.
	// Used by the deposit reminder job to find packages accruing storage.
	GetAllInStatus(ctx context.Context, status parcel.Status) ([]*parcel.Parcel, error)
}
