package commands

import (
	"context"

	"forwarder/internal/core/ports"
	"forwarder/internal/pkg/errs"
)

// CancelPackageCommandHandler moves a pre-payment package to Awaiting return.
type CancelPackageCommandHandler struct {
	uowFactory ParcelUoWFactory
	notifier   ports.Notifier
}

// NewCancelPackageCommandHandler creates a handler for package cancellation.
func NewCancelPackageCommandHandler(uowFactory ParcelUoWFactory, notifier ports.Notifier) CancelPackageCommandHandler {
	return CancelPackageCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the cancellation command. The status the package was read
// in travels into the update guard, so a concurrent transition fails the
// cancellation instead of silently overwriting it.
func (h CancelPackageCommandHandler) Handle(ctx context.Context, cmd CancelPackageCommand) error {
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
	if cmd.UserID() != nil && !aggregate.UserID().IsEqual(*cmd.UserID()) {
		return errs.NewObjectNotFoundError("packageID", cmd.PackageID())
	}

	readStatus := aggregate.Status()
	if err = aggregate.Cancel(); err != nil {
		return err
	}

	if err = parcelRepo.UpdateWithStatusGuard(ctx, aggregate, readStatus); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	event := ports.EventAwaitingReturn
	if cmd.UserID() != nil {
		event = ports.EventPackageCancelled
	}

	packageID := aggregate.ID()
	_ = h.notifier.Notify(ctx, ports.Notification{
		Event:    event,
		UserID:   aggregate.UserID(),
		ParcelID: &packageID,
	})

	return nil
}
