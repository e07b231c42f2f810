package services_test

import (
	"testing"
	"time"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/domain/model/pricing"
	"forwarder/internal/core/domain/services"
	"forwarder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartParcelParams struct {
	mode             parcel.DeliveryMode
	deliveryTypeID   *kernel.UUID
	shippedTo        *kernel.Address
	pickupLocationID *kernel.UUID
	warehouseID      kernel.UUID
	weight           float64
	shippingCost     float64
	flatRate         float64
	declaredValue    float64
	services         []kernel.UUID
	arrivedAt        time.Time
}

func newCartParcel(t *testing.T, params cartParcelParams) *parcel.Parcel {
	t.Helper()

	declaredValue := params.declaredValue
	p, err := parcel.RestoreParcel(
		kernel.NewUUID(), "TRK-"+kernel.NewUUID().String()[:8], kernel.NewUUID(), nil,
		params.warehouseID, params.mode, params.deliveryTypeID, params.shippedTo,
		params.pickupLocationID, params.weight, &declaredValue, "",
		params.services, params.services, params.shippingCost, params.flatRate,
		nil, nil, parcel.Unpaid, params.arrivedAt, &params.arrivedAt,
		nil, nil, nil, nil, nil,
	)
	require.NoError(t, err)
	return p
}

func testAddress(t *testing.T, street string) *kernel.Address {
	t.Helper()
	addr, err := kernel.NewAddress("Jane Doe", street, "IL", "Springfield", "62701", "US")
	require.NoError(t, err)
	return &addr
}

func TestCartBundler_Bundle(t *testing.T) {
	bundler := services.NewCartBundler()

	t.Run("groups_matching_delivery_packages", func(t *testing.T) {
		deliveryType := kernel.NewUUID()
		warehouse := kernel.NewUUID()
		addr := testAddress(t, "1 Main St")

		// Three packages on the same route, flat rate 20 each.
		var parcels []*parcel.Parcel
		for i := 0; i < 3; i++ {
			parcels = append(parcels, newCartParcel(t, cartParcelParams{
				mode: parcel.ModeDelivery, deliveryTypeID: &deliveryType,
				shippedTo: addr, warehouseID: warehouse,
				weight: 2, shippingCost: 30, flatRate: 20,
				arrivedAt: time.Now(),
			}))
		}

		bundles, err := bundler.Bundle(parcels)
		require.NoError(t, err)
		require.Len(t, bundles, 1)
		assert.Len(t, bundles[0].Parcels, 3)
		assert.InDelta(t, 40.0, bundles[0].Discount(), 1e-9)
	})

	t.Run("pickup_packages_stay_singletons", func(t *testing.T) {
		warehouse := kernel.NewUUID()
		deliveryType := kernel.NewUUID()
		pickupLocation := kernel.NewUUID()

		pickup := newCartParcel(t, cartParcelParams{
			mode: parcel.ModePickup, pickupLocationID: &pickupLocation,
			warehouseID: warehouse, weight: 1, arrivedAt: time.Now(),
		})
		delivery := newCartParcel(t, cartParcelParams{
			mode: parcel.ModeDelivery, deliveryTypeID: &deliveryType,
			shippedTo: testAddress(t, "1 Main St"), warehouseID: warehouse,
			weight: 2, shippingCost: 30, flatRate: 20, arrivedAt: time.Now(),
		})

		bundles, err := bundler.Bundle([]*parcel.Parcel{pickup, delivery})
		require.NoError(t, err)
		require.Len(t, bundles, 2)
		assert.Equal(t, parcel.ModePickup, bundles[0].Mode)
		assert.Equal(t, parcel.ModeDelivery, bundles[1].Mode)
		assert.Zero(t, bundles[0].Discount())
		assert.Zero(t, bundles[1].Discount())
	})

	t.Run("different_destination_splits_bundles", func(t *testing.T) {
		deliveryType := kernel.NewUUID()
		warehouse := kernel.NewUUID()

		first := newCartParcel(t, cartParcelParams{
			mode: parcel.ModeDelivery, deliveryTypeID: &deliveryType,
			shippedTo: testAddress(t, "1 Main St"), warehouseID: warehouse,
			weight: 2, shippingCost: 30, flatRate: 20, arrivedAt: time.Now(),
		})
		second := newCartParcel(t, cartParcelParams{
			mode: parcel.ModeDelivery, deliveryTypeID: &deliveryType,
			shippedTo: testAddress(t, "2 Oak Ave"), warehouseID: warehouse,
			weight: 2, shippingCost: 30, flatRate: 20, arrivedAt: time.Now(),
		})

		bundles, err := bundler.Bundle([]*parcel.Parcel{first, second})
		require.NoError(t, err)
		assert.Len(t, bundles, 2)
	})

	t.Run("rejects_unconstructed_parcel", func(t *testing.T) {
		_, err := bundler.Bundle([]*parcel.Parcel{{}})
		require.ErrorIs(t, err, parcel.ErrParcelIsNotConstructed)
	})
}

func TestCartBundler_PriceCart(t *testing.T) {
	bundler := services.NewCartBundler()
	noStorage, err := pricing.NewSettings(100, 2.0)
	require.NoError(t, err)

	t.Run("storage_fee_beyond_free_allowance", func(t *testing.T) {
		settings, err := pricing.NewSettings(10, 2.0)
		require.NoError(t, err)

		pickupLocation := kernel.NewUUID()
		p := newCartParcel(t, cartParcelParams{
			mode: parcel.ModePickup, pickupLocationID: &pickupLocation,
			warehouseID: kernel.NewUUID(), weight: 5,
			arrivedAt: time.Now().Add(-40 * 24 * time.Hour),
		})

		result, err := bundler.PriceCart([]*parcel.Parcel{p}, nil, settings, time.Now())
		require.NoError(t, err)

		// 2 per kg per day, 5 kg, 30 chargeable days.
		require.Len(t, result.Lines, 2)
		assert.InDelta(t, 300.0, result.Lines[1].Cost(), 1e-9)
		assert.InDelta(t, 300.0, result.Subtotal, 1e-9)
	})

	t.Run("prices_confirmed_services", func(t *testing.T) {
		insurance, err := pricing.NewServiceRule(
			kernel.NewUUID(), "Insurance", kernel.NewUUID(),
			pricing.ServiceDeclaredValue, 2.0, false, true,
		)
		require.NoError(t, err)

		deliveryType := kernel.NewUUID()
		p := newCartParcel(t, cartParcelParams{
			mode: parcel.ModeDelivery, deliveryTypeID: &deliveryType,
			shippedTo: testAddress(t, "1 Main St"), warehouseID: kernel.NewUUID(),
			weight: 2, shippingCost: 30, flatRate: 20,
			declaredValue: 500, services: []kernel.UUID{insurance.ID()},
			arrivedAt: time.Now(),
		})

		rules := map[kernel.UUID]*pricing.ServiceRule{insurance.ID(): insurance}
		result, err := bundler.PriceCart([]*parcel.Parcel{p}, rules, noStorage, time.Now())
		require.NoError(t, err)

		require.Len(t, result.Lines, 2)
		assert.InDelta(t, 30.0, result.Lines[0].Cost(), 1e-9)
		assert.InDelta(t, 10.0, result.Lines[1].Cost(), 1e-9)
		assert.InDelta(t, 40.0, result.Subtotal, 1e-9)
	})

	t.Run("unresolvable_service_aborts_checkout", func(t *testing.T) {
		deliveryType := kernel.NewUUID()
		p := newCartParcel(t, cartParcelParams{
			mode: parcel.ModeDelivery, deliveryTypeID: &deliveryType,
			shippedTo: testAddress(t, "1 Main St"), warehouseID: kernel.NewUUID(),
			weight: 2, shippingCost: 30, services: []kernel.UUID{kernel.NewUUID()},
			arrivedAt: time.Now(),
		})

		_, err := bundler.PriceCart([]*parcel.Parcel{p}, nil, noStorage, time.Now())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("discount_reduces_total_but_not_subtotal", func(t *testing.T) {
		deliveryType := kernel.NewUUID()
		warehouse := kernel.NewUUID()
		addr := testAddress(t, "1 Main St")

		var parcels []*parcel.Parcel
		for i := 0; i < 3; i++ {
			parcels = append(parcels, newCartParcel(t, cartParcelParams{
				mode: parcel.ModeDelivery, deliveryTypeID: &deliveryType,
				shippedTo: addr, warehouseID: warehouse,
				weight: 2, shippingCost: 30, flatRate: 20, arrivedAt: time.Now(),
			}))
		}

		result, err := bundler.PriceCart(parcels, nil, noStorage, time.Now())
		require.NoError(t, err)

		assert.InDelta(t, 90.0, result.Subtotal, 1e-9)
		assert.InDelta(t, 40.0, result.Discount, 1e-9)
		assert.InDelta(t, 50.0, result.Total, 1e-9)
	})
}
