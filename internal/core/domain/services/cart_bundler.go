package services

import (
	"strings"
	"time"

	"forwarder/internal/core/domain/model/billing"
	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/domain/model/pricing"
	"forwarder/internal/pkg/errs"
)

// Bundle is a group of cart packages that travel together as one shipment:
// same delivery type, same formatted destination address, same warehouse.
// Pickup packages are never bundled and always form singleton bundles.
type Bundle struct {
	Parcels     []*parcel.Parcel
	Mode        parcel.DeliveryMode
	WarehouseID kernel.UUID
}

// Discount returns the shared-shipment discount earned by this bundle:
// the members' flat-rate amount amortized across all but the first package.
// Bundle members share a route, so they share one flat-rate amount.
func (b Bundle) Discount() float64 {
	if b.Mode != parcel.ModeDelivery || len(b.Parcels) < 2 {
		return 0
	}
	return b.Parcels[0].FlatRate() * float64(len(b.Parcels)-1)
}

// CartPricing is the result of pricing a checkout cart: the shipment bundles
// and the invoice composition.
type CartPricing struct {
	Bundles  []Bundle
	Lines    []billing.Line
	Subtotal float64
	Discount float64
	Total    float64
}

// CartBundler is the domain service that turns a checkout cart into shipment
// bundles and an itemized invoice.
//
// Business rules:
//   - Delivery packages sharing delivery type, formatted address, and
//     warehouse are bundled into one shipment; the flat-rate component is
//     charged in full for every package and given back as a discount for all
//     but the first.
//   - Pickup packages form singleton bundles and earn no discount.
//   - Each package is billed its shipping cost, its confirmed add-on
//     services, and a storage fee for warehouse days beyond the free
//     allowance. Storage fees are their own invoice line and are never
//     discounted.
type CartBundler struct{}

// NewCartBundler creates a new CartBundler instance.
func NewCartBundler() CartBundler {
	return CartBundler{}
}

// Bundle groups the cart packages into shipment bundles, preserving the cart
// order of packages and of first-seen groups.
func (c CartBundler) Bundle(parcels []*parcel.Parcel) ([]Bundle, error) {
	bundles := make([]Bundle, 0, len(parcels))
	groupIdx := make(map[string]int)

	for _, p := range parcels {
		if err := p.Validate(); err != nil {
			return nil, err
		}

		if p.DeliveryMode() == parcel.ModePickup {
			bundles = append(bundles, Bundle{
				Parcels:     []*parcel.Parcel{p},
				Mode:        parcel.ModePickup,
				WarehouseID: p.WarehouseID(),
			})
			continue
		}

		key := groupKey(p)
		if idx, ok := groupIdx[key]; ok {
			bundles[idx].Parcels = append(bundles[idx].Parcels, p)
			continue
		}

		groupIdx[key] = len(bundles)
		bundles = append(bundles, Bundle{
			Parcels:     []*parcel.Parcel{p},
			Mode:        parcel.ModeDelivery,
			WarehouseID: p.WarehouseID(),
		})
	}

	return bundles, nil
}

// PriceCart bundles the cart and composes the invoice: shipping, confirmed
// services, storage fees, and the shared-shipment discount.
//
// Every confirmed service ID must resolve through serviceRules; a missing
// rule aborts the checkout with a not-found error.
func (c CartBundler) PriceCart(
	parcels []*parcel.Parcel,
	serviceRules map[kernel.UUID]*pricing.ServiceRule,
	settings pricing.Settings,
	now time.Time,
) (CartPricing, error) {
	if err := settings.Validate(); err != nil {
		return CartPricing{}, err
	}

	bundles, err := c.Bundle(parcels)
	if err != nil {
		return CartPricing{}, err
	}

	result := CartPricing{Bundles: bundles}

	for _, p := range parcels {
		lines, err := c.packageLines(p, serviceRules, settings, now)
		if err != nil {
			return CartPricing{}, err
		}
		result.Lines = append(result.Lines, lines...)
	}

	for _, line := range result.Lines {
		result.Subtotal += line.Cost()
	}
	for _, bundle := range bundles {
		result.Discount += bundle.Discount()
	}
	result.Total = result.Subtotal - result.Discount

	return result, nil
}

func (c CartBundler) packageLines(
	p *parcel.Parcel,
	serviceRules map[kernel.UUID]*pricing.ServiceRule,
	settings pricing.Settings,
	now time.Time,
) ([]billing.Line, error) {
	lines := make([]billing.Line, 0, len(p.ConfirmedServiceIDs())+2)

	weight := p.Weight()
	shipping, err := billing.NewLine("Shipping "+p.TrackingNumber(), &weight, p.ShippingCost())
	if err != nil {
		return nil, err
	}
	lines = append(lines, shipping)

	declaredValue := 0.0
	if p.DeclaredValue() != nil {
		declaredValue = *p.DeclaredValue()
	}

	for _, serviceID := range p.ConfirmedServiceIDs() {
		rule, ok := serviceRules[serviceID]
		if !ok {
			return nil, errs.NewObjectNotFoundError("serviceID", serviceID)
		}
		if err = rule.Validate(); err != nil {
			return nil, err
		}

		line, lineErr := billing.NewLine(rule.Name()+" "+p.TrackingNumber(), nil, rule.Cost(weight, declaredValue))
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	if fee := settings.StorageFee(weight, daysStored(p, now)); fee > 0 {
		line, lineErr := billing.NewLine("Storage fee "+p.TrackingNumber(), nil, fee)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// daysStored counts whole days between warehouse arrival and now. A package
// that never arrived accrues nothing.
func daysStored(p *parcel.Parcel, now time.Time) int {
	if p.ArrivedAt() == nil {
		return 0
	}
	days := int(now.Sub(*p.ArrivedAt()).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// groupKey derives the bundling key for a Delivery package. The address is
// joined in its fixed formatted order, so equal destinations always collide.
func groupKey(p *parcel.Parcel) string {
	formatted := ""
	if p.ShippedTo() != nil {
		formatted = p.ShippedTo().Formatted()
	}
	deliveryType := ""
	if p.DeliveryTypeID() != nil {
		deliveryType = p.DeliveryTypeID().String()
	}
	return strings.Join([]string{deliveryType, formatted, p.WarehouseID().String()}, "|")
}
