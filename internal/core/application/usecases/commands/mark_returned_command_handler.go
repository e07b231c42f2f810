package commands

import (
	"context"

	"forwarder/internal/core/ports"
)

// MarkReturnedCommandHandler completes the return path of a package.
type MarkReturnedCommandHandler struct {
	uowFactory ParcelUoWFactory
	notifier   ports.Notifier
}

// NewMarkReturnedCommandHandler creates a handler for return completion.
func NewMarkReturnedCommandHandler(uowFactory ParcelUoWFactory, notifier ports.Notifier) MarkReturnedCommandHandler {
	return MarkReturnedCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the return completion command.
func (h MarkReturnedCommandHandler) Handle(ctx context.Context, cmd MarkReturnedCommand) error {
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

	readStatus := aggregate.Status()
	if err = aggregate.MarkReturned(); err != nil {
		return err
	}

	if err = parcelRepo.UpdateWithStatusGuard(ctx, aggregate, readStatus); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	packageID := aggregate.ID()
	_ = h.notifier.Notify(ctx, ports.Notification{
		Event:    ports.EventPackageReturned,
		UserID:   aggregate.UserID(),
		ParcelID: &packageID,
	})

	return nil
}
