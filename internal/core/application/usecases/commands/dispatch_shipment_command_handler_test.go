package commands_test

import (
	"testing"
	"time"

	"forwarder/internal/core/application/usecases/commands"
	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/domain/model/shipment"
	"forwarder/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPaidParcel(t *testing.T, mode parcel.DeliveryMode) *parcel.Parcel {
	t.Helper()

	var (
		p   *parcel.Parcel
		err error
	)
	if mode == parcel.ModeDelivery {
		deliveryType := kernel.NewUUID()
		addr, addrErr := kernel.NewAddress("Jane Doe", "1 Main St", "IL", "Springfield", "62701", "US")
		require.NoError(t, addrErr)
		p, err = parcel.NewParcel(
			kernel.NewUUID(), "TRK-1", kernel.NewUUID(), kernel.NewUUID(),
			parcel.ModeDelivery, &deliveryType, &addr, nil, time.Now(),
		)
	} else {
		pickupLocation := kernel.NewUUID()
		p, err = parcel.NewParcel(
			kernel.NewUUID(), "TRK-2", kernel.NewUUID(), kernel.NewUUID(),
			parcel.ModePickup, nil, nil, &pickupLocation, time.Now(),
		)
	}
	require.NoError(t, err)

	require.NoError(t, p.MarkArrived(time.Now()))
	require.NoError(t, p.Quote(5, 50, 20, nil, kernel.NewUUID()))
	require.NoError(t, p.DeclareValue(100))
	require.NoError(t, p.ConfirmPayment(time.Now()))
	return p
}

func newCreatedShipment(t *testing.T, mode parcel.DeliveryMode, parcels ...*parcel.Parcel) *shipment.Shipment {
	t.Helper()

	packageIDs := make([]kernel.UUID, 0, len(parcels))
	for _, p := range parcels {
		packageIDs = append(packageIDs, p.ID())
	}

	s, err := shipment.NewShipment(
		kernel.NewUUID(), shipment.NewShipmentUID(), packageIDs, mode,
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), time.Now(),
	)
	require.NoError(t, err)
	return s
}

func TestDispatchShipmentCommandHandler_Handle_Delivery(t *testing.T) {
	ctx := t.Context()

	p1 := newPaidParcel(t, parcel.ModeDelivery)
	p2 := newPaidParcel(t, parcel.ModeDelivery)
	testShipment := newCreatedShipment(t, parcel.ModeDelivery, p1, p2)

	cmd, err := commands.NewDispatchShipmentCommand(testShipment.ID())
	require.NoError(t, err)

	parcelRepo := new(MockParcelRepository)
	shipmentRepo := new(MockShipmentRepository)
	gateway := new(MockDispatchGateway)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ShipmentRepository").Return(shipmentRepo).Once(),
		uow.On("ParcelRepository").Return(parcelRepo).Once(),
		shipmentRepo.On("Get", ctx, testShipment.ID()).Return(testShipment, nil).Once(),
		parcelRepo.On("GetAllByIDs", ctx, testShipment.PackageIDs()).
			Return([]*parcel.Parcel{p1, p2}, nil).Once(),
		gateway.On("BookDelivery", ctx, mock.AnythingOfType("ports.DispatchBooking")).
			Return("job-42", nil).Once(),
		parcelRepo.On("UpdateWithStatusGuard", ctx, p1, parcel.Paid).Return(nil).Once(),
		parcelRepo.On("UpdateWithStatusGuard", ctx, p2, parcel.Paid).Return(nil).Once(),
		shipmentRepo.On("Update", ctx, testShipment).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.AnythingOfType("ports.Notification")).Return(nil).Twice()

	handler := commands.NewDispatchShipmentCommandHandler(factory, gateway, notifier)
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, shipment.Started, testShipment.Status())
	assert.Equal(t, "job-42", testShipment.CourierJobID())
	assert.Equal(t, parcel.ReadyToShip, p1.Status())
	assert.Equal(t, parcel.ReadyToShip, p2.Status())

	booking := gateway.Calls[0].Arguments[1].(ports.DispatchBooking)
	assert.Equal(t, testShipment.ShipmentUID(), booking.ShipmentUID)
	assert.Equal(t, 2, booking.PackageCount)
	assert.InDelta(t, 10.0, booking.TotalWeight, 1e-9)

	parcelRepo.AssertExpectations(t)
	shipmentRepo.AssertExpectations(t)
	gateway.AssertExpectations(t)
	uow.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestDispatchShipmentCommandHandler_Handle_BookingFailureLeavesStateUntouched(t *testing.T) {
	ctx := t.Context()

	p1 := newPaidParcel(t, parcel.ModeDelivery)
	testShipment := newCreatedShipment(t, parcel.ModeDelivery, p1)

	cmd, err := commands.NewDispatchShipmentCommand(testShipment.ID())
	require.NoError(t, err)

	parcelRepo := new(MockParcelRepository)
	shipmentRepo := new(MockShipmentRepository)
	gateway := new(MockDispatchGateway)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ShipmentRepository").Return(shipmentRepo).Once(),
		uow.On("ParcelRepository").Return(parcelRepo).Once(),
		shipmentRepo.On("Get", ctx, testShipment.ID()).Return(testShipment, nil).Once(),
		parcelRepo.On("GetAllByIDs", ctx, testShipment.PackageIDs()).
			Return([]*parcel.Parcel{p1}, nil).Once(),
		gateway.On("BookDelivery", ctx, mock.AnythingOfType("ports.DispatchBooking")).
			Return("", ports.ErrDispatchFailed).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)

	handler := commands.NewDispatchShipmentCommandHandler(factory, gateway, notifier)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, ports.ErrDispatchFailed)

	// Booking failed before any state was advanced.
	assert.Equal(t, shipment.Created, testShipment.Status())
	assert.Equal(t, parcel.Paid, p1.Status())
	parcelRepo.AssertNotCalled(t, "UpdateWithStatusGuard", mock.Anything, mock.Anything, mock.Anything)
	shipmentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestDispatchShipmentCommandHandler_Handle_PickupSkipsBooking(t *testing.T) {
	ctx := t.Context()

	p1 := newPaidParcel(t, parcel.ModePickup)
	testShipment := newCreatedShipment(t, parcel.ModePickup, p1)

	cmd, err := commands.NewDispatchShipmentCommand(testShipment.ID())
	require.NoError(t, err)

	parcelRepo := new(MockParcelRepository)
	shipmentRepo := new(MockShipmentRepository)
	gateway := new(MockDispatchGateway)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ShipmentRepository").Return(shipmentRepo).Once(),
		uow.On("ParcelRepository").Return(parcelRepo).Once(),
		shipmentRepo.On("Get", ctx, testShipment.ID()).Return(testShipment, nil).Once(),
		parcelRepo.On("GetAllByIDs", ctx, testShipment.PackageIDs()).
			Return([]*parcel.Parcel{p1}, nil).Once(),
		parcelRepo.On("UpdateWithStatusGuard", ctx, p1, parcel.Paid).Return(nil).Once(),
		shipmentRepo.On("Update", ctx, testShipment).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.AnythingOfType("ports.Notification")).Return(nil).Once()

	handler := commands.NewDispatchShipmentCommandHandler(factory, gateway, notifier)
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, parcel.ReadyToPickup, p1.Status())
	assert.Empty(t, testShipment.CourierJobID())
	gateway.AssertNotCalled(t, "BookDelivery", mock.Anything, mock.Anything)

	notification := notifier.Calls[0].Arguments[1].(ports.Notification)
	assert.Equal(t, ports.EventReadyToPickup, notification.Event)
}
