package commands

import (
	"context"
	"time"

	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/ports"
)

// ConfirmPickupCommandHandler completes a Pickup shipment: every member
// package moves to Picked up and the shipment becomes Successful.
type ConfirmPickupCommandHandler struct {
	uowFactory ShipmentUoWFactory
	notifier   ports.Notifier
}

// NewConfirmPickupCommandHandler creates a handler for pickup hand-over.
func NewConfirmPickupCommandHandler(uowFactory ShipmentUoWFactory, notifier ports.Notifier) ConfirmPickupCommandHandler {
	return ConfirmPickupCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the pickup hand-over command.
func (h ConfirmPickupCommandHandler) Handle(ctx context.Context, cmd ConfirmPickupCommand) error {
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

	shipmentRepo := uow.ShipmentRepository()
	parcelRepo := uow.ParcelRepository()

	aggregate, err := shipmentRepo.Get(ctx, cmd.ShipmentID())
	if err != nil {
		return err
	}

	parcels, err := parcelRepo.GetAllByIDs(ctx, aggregate.PackageIDs())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, p := range parcels {
		if err = p.ConfirmPickup(now); err != nil {
			return err
		}
		if err = parcelRepo.UpdateWithStatusGuard(ctx, p, parcel.ReadyToPickup); err != nil {
			return err
		}
	}

	// Every member just reached its terminal status.
	if err = aggregate.Complete(now); err != nil {
		return err
	}
	if err = shipmentRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, p := range parcels {
		packageID := p.ID()
		_ = h.notifier.Notify(ctx, ports.Notification{
			Event:    ports.EventPackagePickedUp,
			UserID:   p.UserID(),
			ParcelID: &packageID,
		})
	}

	return nil
}
