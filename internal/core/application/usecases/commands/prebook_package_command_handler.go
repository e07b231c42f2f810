package commands

import (
	"context"
	"time"

	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/ports"
)

// PrebookPackageCommandHandler registers a package at staff intake in
// Pre-Booked status with its warehouse arrival stamped.
type PrebookPackageCommandHandler struct {
	uowFactory ParcelUoWFactory
	notifier   ports.Notifier
}

// NewPrebookPackageCommandHandler creates a handler for staff package intake.
func NewPrebookPackageCommandHandler(uowFactory ParcelUoWFactory, notifier ports.Notifier) PrebookPackageCommandHandler {
	return PrebookPackageCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the staff intake command.
func (h PrebookPackageCommandHandler) Handle(ctx context.Context, cmd PrebookPackageCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	newParcel, err := parcel.NewPreBookedParcel(
		cmd.PackageID(),
		cmd.TrackingNumber(),
		cmd.UserID(),
		cmd.StaffID(),
		cmd.WarehouseID(),
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

	packageID := newParcel.ID()
	_ = h.notifier.Notify(ctx, ports.Notification{
		Event:    ports.EventPackageCreated,
		UserID:   newParcel.UserID(),
		ParcelID: &packageID,
	})

	return nil
}
