package commands

import (
	"context"
	"time"

	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/domain/model/shipment"
	"forwarder/internal/core/ports"
)

// CourierEventCommandHandler applies courier progress webhooks to a Delivery
// shipment's packages: picked up moves them Out for delivery, delivered moves
// them Shipped and completes the shipment.
//
// Replayed webhooks are detected by a current-status pre-check and
// acknowledged without re-stamping timestamps or re-notifying.
type CourierEventCommandHandler struct {
	uowFactory ShipmentUoWFactory
	notifier   ports.Notifier
}

// NewCourierEventCommandHandler creates a handler for courier webhooks.
func NewCourierEventCommandHandler(uowFactory ShipmentUoWFactory, notifier ports.Notifier) CourierEventCommandHandler {
	return CourierEventCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the courier event command.
func (h CourierEventCommandHandler) Handle(ctx context.Context, cmd CourierEventCommand) error {
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

	if h.isReplay(cmd.Event(), aggregate, parcels) {
		return nil
	}

	now := time.Now().UTC()
	expected, event := parcel.ReadyToShip, ports.EventOutForDelivery
	if cmd.Event() == CourierDelivered {
		expected, event = parcel.OutForDelivery, ports.EventPackageShipped
	}

	for _, p := range parcels {
		if cmd.Event() == CourierPickedUp {
			err = p.StartDelivery(now)
		} else {
			err = p.CompleteDelivery(now)
		}
		if err != nil {
			return err
		}

		if err = parcelRepo.UpdateWithStatusGuard(ctx, p, expected); err != nil {
			return err
		}
	}

	if cmd.Event() == CourierDelivered {
		// Every member just reached its terminal status.
		if err = aggregate.Complete(now); err != nil {
			return err
		}
		if err = shipmentRepo.Update(ctx, aggregate); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, p := range parcels {
		packageID := p.ID()
		_ = h.notifier.Notify(ctx, ports.Notification{
			Event:    event,
			UserID:   p.UserID(),
			ParcelID: &packageID,
		})
	}

	return nil
}

// isReplay reports whether the event was already applied.
func (h CourierEventCommandHandler) isReplay(
	event CourierEvent,
	aggregate *shipment.Shipment,
	parcels []*parcel.Parcel,
) bool {
	if event == CourierDelivered {
		return aggregate.Status() == shipment.Successful
	}

	for _, p := range parcels {
		if p.Status() != parcel.OutForDelivery {
			return false
		}
	}
	return len(parcels) > 0
}
