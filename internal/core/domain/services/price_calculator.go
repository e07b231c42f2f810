package services

import (
	"errors"

	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/domain/model/pricing"
)

var (
	// ErrNoPriceDefined is returned when no active price rule covers the
	// route of a Delivery-mode package. Quoting fails rather than defaulting
	// to a zero price.
	ErrNoPriceDefined = errors.New("no price defined for route")

	// ErrAmbiguousFlatRate is returned when more than one active flat-rate
	// rule covers the same route. The flat-rate amount is the amortization
	// unit for shared-shipment discounts, so it must be unambiguous.
	ErrAmbiguousFlatRate = errors.New("multiple active flat-rate rules for route")
)

// Quote is the result of pricing one package: the full shipping cost and the
// flat-rate component inside it.
type Quote struct {
	ShippingCost float64
	FlatRate     float64
}

// PriceCalculator is the domain service that prices a package at quoting
// time from the active price rules matching its route.
//
// Business rules:
//   - Pickup-mode packages ship free: the quote is (0, 0) and rules are not
//     consulted.
//   - Every active per-kg rule contributes value × weight; contributions
//     accumulate.
//   - At most one active flat-rate rule may match; its value contributes once
//     and is recorded as the package's flat-rate amount.
//   - Inactive rules are ignored entirely.
type PriceCalculator struct{}

// NewPriceCalculator creates a new PriceCalculator instance.
func NewPriceCalculator() PriceCalculator {
	return PriceCalculator{}
}

// Calculate prices a package of the given weight and delivery mode from the
// price rules matching its route.
//
// Returns ErrNoPriceDefined when a Delivery package has no active matching
// rule and ErrAmbiguousFlatRate when more than one active flat-rate rule
// matches.
func (c PriceCalculator) Calculate(
	mode parcel.DeliveryMode,
	weight float64,
	rules []*pricing.PriceRule,
) (Quote, error) {
	if err := mode.Validate(); err != nil {
		return Quote{}, err
	}

	if mode == parcel.ModePickup {
		return Quote{}, nil
	}

	var (
		quote       Quote
		flatMatched bool
		anyMatched  bool
	)

	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return Quote{}, err
		}
		if !rule.IsActive() {
			continue
		}

		anyMatched = true

		if rule.PriceType() == pricing.FlatRate {
			if flatMatched {
				return Quote{}, ErrAmbiguousFlatRate
			}
			flatMatched = true
			quote.FlatRate = rule.Value()
		}

		quote.ShippingCost += rule.Cost(weight)
	}

	if !anyMatched {
		return Quote{}, ErrNoPriceDefined
	}

	return quote, nil
}
