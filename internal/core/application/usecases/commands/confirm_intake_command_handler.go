package commands

import (
	"context"

	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/ports"
	"forwarder/internal/pkg/errs"
)

// ConfirmIntakeCommandHandler applies the customer's confirmation to a
// Pre-Booked package. Packages already at the warehouse move straight to
// Arrived at warehouse; the rest become Recorded.
type ConfirmIntakeCommandHandler struct {
	uowFactory ParcelUoWFactory
	notifier   ports.Notifier
}

// NewConfirmIntakeCommandHandler creates a handler for intake confirmation.
func NewConfirmIntakeCommandHandler(uowFactory ParcelUoWFactory, notifier ports.Notifier) ConfirmIntakeCommandHandler {
	return ConfirmIntakeCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the intake confirmation command.
func (h ConfirmIntakeCommandHandler) Handle(ctx context.Context, cmd ConfirmIntakeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parcelRepo := uow.ParcelRepository()

	aggregate, err := parcelRepo.Get(ctx, cmd.PackageID())
	if err != nil {
		return err
	}
	if !aggregate.UserID().IsEqual(cmd.UserID()) {
		return errs.NewObjectNotFoundError("packageID", cmd.PackageID())
	}

	if err = aggregate.ConfirmIntake(
		cmd.Mode(), cmd.DeliveryTypeID(), cmd.ShippedTo(), cmd.PickupLocationID(),
	); err != nil {
		return err
	}

	if err = parcelRepo.UpdateWithStatusGuard(ctx, aggregate, parcel.PreBooked); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if aggregate.Status() == parcel.ArrivedAtWarehouse {
		packageID := aggregate.ID()
		_ = h.notifier.Notify(ctx, ports.Notification{
			Event:    ports.EventPackageArrived,
			UserID:   aggregate.UserID(),
			ParcelID: &packageID,
		})
	}

	return nil
}
