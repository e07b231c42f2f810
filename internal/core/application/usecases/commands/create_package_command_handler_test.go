package commands_test

import (
	"testing"

	"forwarder/internal/core/application/usecases/commands"
	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/ports"
	"forwarder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreatePackageCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	packageID := kernel.NewUUID()
	userID := kernel.NewUUID()
	deliveryType := kernel.NewUUID()
	addr, err := kernel.NewAddress("Jane Doe", "1 Main St", "IL", "Springfield", "62701", "US")
	require.NoError(t, err)

	cmd, err := commands.NewCreatePackageCommand(
		packageID, userID, kernel.NewUUID(), "TRK-9",
		parcel.ModeDelivery, &deliveryType, &addr, nil,
	)
	require.NoError(t, err)

	parcelRepo := new(MockParcelRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ParcelRepository").Return(parcelRepo).Once(),
		parcelRepo.On("Add", ctx, mock.AnythingOfType("*parcel.Parcel")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockParcelUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.AnythingOfType("ports.Notification")).Return(nil).Once()

	handler := commands.NewCreatePackageCommandHandler(factory, notifier)
	require.NoError(t, handler.Handle(ctx, cmd))

	added := parcelRepo.Calls[0].Arguments[1].(*parcel.Parcel)
	assert.Equal(t, packageID, added.ID())
	assert.Equal(t, parcel.Recorded, added.Status())
	assert.Equal(t, "TRK-9", added.TrackingNumber())

	notification := notifier.Calls[0].Arguments[1].(ports.Notification)
	assert.Equal(t, ports.EventPackageCreated, notification.Event)
	assert.Equal(t, userID, notification.UserID)

	parcelRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreatePackageCommandHandler_Handle_NotifierFailureDoesNotFail(t *testing.T) {
	ctx := t.Context()

	pickupLocation := kernel.NewUUID()

	cmd, err := commands.NewCreatePackageCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), "TRK-10",
		parcel.ModePickup, nil, nil, &pickupLocation,
	)
	require.NoError(t, err)

	parcelRepo := new(MockParcelRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ParcelRepository").Return(parcelRepo).Once(),
		parcelRepo.On("Add", ctx, mock.AnythingOfType("*parcel.Parcel")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockParcelUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.AnythingOfType("ports.Notification")).
		Return(assert.AnError).Once()

	handler := commands.NewCreatePackageCommandHandler(factory, notifier)
	require.NoError(t, handler.Handle(ctx, cmd))

	uow.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreatePackageCommandHandler_Handle_DestinationMustMatchMode(t *testing.T) {
	ctx := t.Context()

	deliveryType := kernel.NewUUID()

	// Delivery mode without a destination address.
	cmd, err := commands.NewCreatePackageCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), "TRK-11",
		parcel.ModeDelivery, &deliveryType, nil, nil,
	)
	require.NoError(t, err)

	factory := new(MockParcelUoWFactory)
	notifier := new(MockNotifier)

	handler := commands.NewCreatePackageCommandHandler(factory, notifier)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, parcel.ErrDestinationIsInvalid)
	factory.AssertNotCalled(t, "Create")
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestCreatePackageCommand_Validate(t *testing.T) {
	var cmd commands.CreatePackageCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrCreatePackageCommandIsNotConstructed)

	_, err := commands.NewCreatePackageCommand(
		kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(), "TRK-12",
		parcel.ModePickup, nil, nil, nil,
	)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = commands.NewCreatePackageCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), "",
		parcel.ModePickup, nil, nil, nil,
	)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
