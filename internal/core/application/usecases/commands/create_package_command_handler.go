package commands

import (
	"context"
	"time"

	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/ports"
)

// CreatePackageCommandHandler registers a customer's expected package in
// Recorded status and notifies the customer.
type CreatePackageCommandHandler struct {
	uowFactory ParcelUoWFactory
	notifier   ports.Notifier
}

// NewCreatePackageCommandHandler creates a handler for package registration.
func NewCreatePackageCommandHandler(uowFactory ParcelUoWFactory, notifier ports.Notifier) CreatePackageCommandHandler {
	return CreatePackageCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the package registration command.
func (h CreatePackageCommandHandler) Handle(ctx context.Context, cmd CreatePackageCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	newParcel, err := parcel.NewParcel(
		cmd.PackageID(),
		cmd.TrackingNumber(),
		cmd.UserID(),
		cmd.WarehouseID(),
		cmd.Mode(),
		cmd.DeliveryTypeID(),
		cmd.ShippedTo(),
		cmd.PickupLocationID(),
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ParcelRepository().Add(ctx, newParcel); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// Notification failures never fail the triggering operation.
	packageID := newParcel.ID()
	_ = h.notifier.Notify(ctx, ports.Notification{
		Event:    ports.EventPackageCreated,
		UserID:   newParcel.UserID(),
		ParcelID: &packageID,
	})

	return nil
}
