package ports

import (
	"context"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/pricing"
)

// PriceRuleRepository serves the rate catalog to the pricing engine.
type PriceRuleRepository interface {
	// GetActiveForRoute retrieves the active price rules matching the route
	// (origin country, destination warehouse, delivery type). The pricing
	// engine decides what an empty or ambiguous result means.
	GetActiveForRoute(
		ctx context.Context,
		originCountry string,
		warehouseID kernel.UUID,
		deliveryTypeID kernel.UUID,
	) ([]*pricing.PriceRule, error)
}

// ServiceRuleRepository serves the add-on service catalog.
type ServiceRuleRepository interface {
	// GetByIDs retrieves service rules by identifier, keyed for lookup.
	// Missing IDs are simply absent from the result map.
	GetByIDs(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*pricing.ServiceRule, error)

	// GetActiveForWarehouse retrieves the services a warehouse can offer at
	// quoting time.
	GetActiveForWarehouse(ctx context.Context, warehouseID kernel.UUID) ([]*pricing.ServiceRule, error)
}

// SettingsRepository serves the operational settings driving storage-fee
// accrual. Settings are loaded per call and passed explicitly into the
// checkout calculation rather than held as process-wide state.
type SettingsRepository interface {
	Get(ctx context.Context) (pricing.Settings, error)
}
