package services_test

import (
	"testing"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/domain/model/pricing"
	"forwarder/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPriceRule(t *testing.T, priceType pricing.PriceType, value float64, active bool) *pricing.PriceRule {
	t.Helper()
	rule, err := pricing.NewPriceRule(
		kernel.NewUUID(), "India", kernel.NewUUID(), kernel.NewUUID(),
		priceType, value, active,
	)
	require.NoError(t, err)
	return rule
}

func TestPriceCalculator_Calculate(t *testing.T) {
	calc := services.NewPriceCalculator()

	t.Run("accumulates_per_kg_rules", func(t *testing.T) {
		// Two per-kg rules totaling 5/kg at 10 kg.
		rules := []*pricing.PriceRule{
			newPriceRule(t, pricing.PerKg, 3.0, true),
			newPriceRule(t, pricing.PerKg, 2.0, true),
		}

		quote, err := calc.Calculate(parcel.ModeDelivery, 10.0, rules)
		require.NoError(t, err)
		assert.InDelta(t, 50.0, quote.ShippingCost, 1e-9)
		assert.Zero(t, quote.FlatRate)
	})

	t.Run("flat_rate_contributes_once_and_is_recorded", func(t *testing.T) {
		rules := []*pricing.PriceRule{
			newPriceRule(t, pricing.PerKg, 2.0, true),
			newPriceRule(t, pricing.FlatRate, 20.0, true),
		}

		quote, err := calc.Calculate(parcel.ModeDelivery, 10.0, rules)
		require.NoError(t, err)
		assert.InDelta(t, 40.0, quote.ShippingCost, 1e-9)
		assert.InDelta(t, 20.0, quote.FlatRate, 1e-9)
	})

	t.Run("pickup_is_free_without_consulting_rules", func(t *testing.T) {
		quote, err := calc.Calculate(parcel.ModePickup, 10.0, nil)
		require.NoError(t, err)
		assert.Zero(t, quote.ShippingCost)
		assert.Zero(t, quote.FlatRate)
	})

	t.Run("no_active_rules_fails", func(t *testing.T) {
		_, err := calc.Calculate(parcel.ModeDelivery, 10.0, nil)
		require.ErrorIs(t, err, services.ErrNoPriceDefined)

		_, err = calc.Calculate(parcel.ModeDelivery, 10.0, []*pricing.PriceRule{
			newPriceRule(t, pricing.PerKg, 3.0, false),
		})
		require.ErrorIs(t, err, services.ErrNoPriceDefined)
	})

	t.Run("multiple_active_flat_rates_are_rejected", func(t *testing.T) {
		rules := []*pricing.PriceRule{
			newPriceRule(t, pricing.FlatRate, 20.0, true),
			newPriceRule(t, pricing.FlatRate, 25.0, true),
		}

		_, err := calc.Calculate(parcel.ModeDelivery, 10.0, rules)
		require.ErrorIs(t, err, services.ErrAmbiguousFlatRate)
	})

	t.Run("inactive_flat_rate_does_not_conflict", func(t *testing.T) {
		rules := []*pricing.PriceRule{
			newPriceRule(t, pricing.FlatRate, 20.0, true),
			newPriceRule(t, pricing.FlatRate, 25.0, false),
		}

		quote, err := calc.Calculate(parcel.ModeDelivery, 10.0, rules)
		require.NoError(t, err)
		assert.InDelta(t, 20.0, quote.FlatRate, 1e-9)
	})

	t.Run("result_is_independent_of_rule_order", func(t *testing.T) {
		a := newPriceRule(t, pricing.PerKg, 3.0, true)
		b := newPriceRule(t, pricing.PerKg, 2.0, true)
		c := newPriceRule(t, pricing.FlatRate, 20.0, true)

		forward, err := calc.Calculate(parcel.ModeDelivery, 10.0, []*pricing.PriceRule{a, b, c})
		require.NoError(t, err)

		reversed, err := calc.Calculate(parcel.ModeDelivery, 10.0, []*pricing.PriceRule{c, b, a})
		require.NoError(t, err)

		assert.Equal(t, forward, reversed)
	})
}
