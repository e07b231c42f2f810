package pricing

import (
	"errors"
	"fmt"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/errs"
)

// ErrPriceRuleIsNotConstructed is returned when a PriceRule instance was not
// created through NewPriceRule or RestorePriceRule.
var ErrPriceRuleIsNotConstructed = errors.New("PriceRule must be created via its constructors")

// PriceType selects how a price rule contributes to the shipping cost.
type PriceType string

const (
	// PerKg rules contribute value multiplied by the measured weight.
	PerKg PriceType = "Per kg"

	// FlatRate rules contribute their value once per package. The flat-rate
	// amount doubles as the amortization unit for shared-shipment discounts.
	FlatRate PriceType = "Flat rate"
)

// Validate checks if the PriceType is one of the closed set.
func (t PriceType) Validate() error {
	if t != PerKg && t != FlatRate {
		return fmt.Errorf("%q is not a valid price type", string(t))
	}
	return nil
}

// PriceRule prices the route (origin country, destination warehouse, delivery
// type). All active rules matching a route apply together: per-kg rules
// accumulate, and at most one flat-rate rule may be active per route.
type PriceRule struct {
	id             kernel.UUID
	originCountry  string
	warehouseID    kernel.UUID
	deliveryTypeID kernel.UUID
	priceType      PriceType
	value          float64
	active         bool

	isConstructed bool
}

// NewPriceRule creates a validated price rule.
func NewPriceRule(
	id kernel.UUID,
	originCountry string,
	warehouseID kernel.UUID,
	deliveryTypeID kernel.UUID,
	priceType PriceType,
	value float64,
	active bool,
) (*PriceRule, error) {
	if err := errors.Join(
		id.Validate(),
		warehouseID.Validate(),
		deliveryTypeID.Validate(),
		priceType.Validate(),
	); err != nil {
		return nil, err
	}
	if originCountry == "" {
		return nil, errs.NewValueIsRequiredError("originCountry")
	}
	if value < 0 {
		return nil, errs.NewValueIsInvalidError("value")
	}

	return &PriceRule{
		id:             id,
		originCountry:  originCountry,
		warehouseID:    warehouseID,
		deliveryTypeID: deliveryTypeID,
		priceType:      priceType,
		value:          value,
		active:         active,
		isConstructed:  true,
	}, nil
}

// Validate ensures the PriceRule instance was properly constructed.
func (r *PriceRule) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrPriceRuleIsNotConstructed
	}
	return nil
}

// ID returns the rule's unique identifier.
func (r *PriceRule) ID() kernel.UUID { return r.id }

// OriginCountry returns the origin country this rule prices.
func (r *PriceRule) OriginCountry() string { return r.originCountry }

// WarehouseID returns the destination warehouse this rule prices.
func (r *PriceRule) WarehouseID() kernel.UUID { return r.warehouseID }

// DeliveryTypeID returns the delivery type this rule prices.
func (r *PriceRule) DeliveryTypeID() kernel.UUID { return r.deliveryTypeID }

// PriceType returns Per kg or Flat rate.
func (r *PriceRule) PriceType() PriceType { return r.priceType }

// Value returns the rule's rate or flat amount.
func (r *PriceRule) Value() float64 { return r.value }

// IsActive reports whether the rule participates in pricing.
func (r *PriceRule) IsActive() bool { return r.active }

// Cost returns the rule's contribution for the given weight.
func (r *PriceRule) Cost(weight float64) float64 {
	if r.priceType == PerKg {
		return r.value * weight
	}
	return r.value
}
