package commands_test

import (
	"testing"
	"time"

	"forwarder/internal/core/application/usecases/commands"
	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/domain/model/shipment"
	"forwarder/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConfirmPickupCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	p1 := newPaidParcel(t, parcel.ModePickup)
	require.NoError(t, p1.MakeReady(time.Now()))

	testShipment := newCreatedShipment(t, parcel.ModePickup, p1)
	require.NoError(t, testShipment.Start("", time.Now()))

	cmd, err := commands.NewConfirmPickupCommand(testShipment.ID())
	require.NoError(t, err)

	parcelRepo := new(MockParcelRepository)
	shipmentRepo := new(MockShipmentRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ShipmentRepository").Return(shipmentRepo).Once(),
		uow.On("ParcelRepository").Return(parcelRepo).Once(),
		shipmentRepo.On("Get", ctx, testShipment.ID()).Return(testShipment, nil).Once(),
		parcelRepo.On("GetAllByIDs", ctx, testShipment.PackageIDs()).
			Return([]*parcel.Parcel{p1}, nil).Once(),
		parcelRepo.On("UpdateWithStatusGuard", ctx, p1, parcel.ReadyToPickup).Return(nil).Once(),
		shipmentRepo.On("Update", ctx, testShipment).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.AnythingOfType("ports.Notification")).Return(nil).Once()

	handler := commands.NewConfirmPickupCommandHandler(factory, notifier)
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, parcel.PickedUp, p1.Status())
	assert.NotNil(t, p1.PickedUpAt())
	assert.Equal(t, shipment.Successful, testShipment.Status())

	notification := notifier.Calls[0].Arguments[1].(ports.Notification)
	assert.Equal(t, ports.EventPackagePickedUp, notification.Event)

	parcelRepo.AssertExpectations(t)
	shipmentRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestConfirmPickupCommandHandler_Handle_RejectsUnreadyPackage(t *testing.T) {
	ctx := t.Context()

	p1 := newPaidParcel(t, parcel.ModePickup)

	testShipment := newCreatedShipment(t, parcel.ModePickup, p1)
	require.NoError(t, testShipment.Start("", time.Now()))

	cmd, err := commands.NewConfirmPickupCommand(testShipment.ID())
	require.NoError(t, err)

	parcelRepo := new(MockParcelRepository)
	shipmentRepo := new(MockShipmentRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ShipmentRepository").Return(shipmentRepo).Once(),
		uow.On("ParcelRepository").Return(parcelRepo).Once(),
		shipmentRepo.On("Get", ctx, testShipment.ID()).Return(testShipment, nil).Once(),
		parcelRepo.On("GetAllByIDs", ctx, testShipment.PackageIDs()).
			Return([]*parcel.Parcel{p1}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockShipmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)

	handler := commands.NewConfirmPickupCommandHandler(factory, notifier)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, parcel.ErrInvalidTransition)
	assert.Equal(t, parcel.Paid, p1.Status())
	assert.Equal(t, shipment.Started, testShipment.Status())
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
