package commands

import (
	"context"
	"time"

	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/ports"
)

// MarkArrivedCommandHandler moves a Recorded package to Arrived at warehouse
// and stamps the arrival time that storage-fee accrual is measured from.
type MarkArrivedCommandHandler struct {
	uowFactory ParcelUoWFactory
	notifier   ports.Notifier
}

// NewMarkArrivedCommandHandler creates a handler for package arrival.
func NewMarkArrivedCommandHandler(uowFactory ParcelUoWFactory, notifier ports.Notifier) MarkArrivedCommandHandler {
	return MarkArrivedCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the package arrival command.
func (h MarkArrivedCommandHandler) Handle(ctx context.Context, cmd MarkArrivedCommand) error {
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

	if err = aggregate.MarkArrived(time.Now().UTC()); err != nil {
		return err
	}

	if err = parcelRepo.UpdateWithStatusGuard(ctx, aggregate, parcel.Recorded); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	packageID := aggregate.ID()
	_ = h.notifier.Notify(ctx, ports.Notification{
		Event:    ports.EventPackageArrived,
		UserID:   aggregate.UserID(),
		ParcelID: &packageID,
	})

	return nil
}
