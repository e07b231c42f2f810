package commands

import (
	"context"
	"time"

	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/domain/model/shipment"
	"forwarder/internal/core/ports"
	"forwarder/internal/pkg/errs"
)

// DispatchShipmentCommandHandler runs the ready-to-ship batch operation for
// one shipment. For Delivery shipments the external courier booking happens
// FIRST; only a successful booking advances any package state, so a failed
// booking leaves the shipment fully untouched.
type DispatchShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	gateway    ports.DispatchGateway
	notifier   ports.Notifier
}

// NewDispatchShipmentCommandHandler creates a handler for shipment dispatch.
func NewDispatchShipmentCommandHandler(
	uowFactory ShipmentUoWFactory,
	gateway ports.DispatchGateway,
	notifier ports.Notifier,
) DispatchShipmentCommandHandler {
	return DispatchShipmentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		notifier:   notifier,
	}
}

// Handle processes the dispatch command.
func (h DispatchShipmentCommandHandler) Handle(ctx context.Context, cmd DispatchShipmentCommand) error {
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

	jobID := ""
	if aggregate.DeliveryMode() == parcel.ModeDelivery {
		jobID, err = h.bookCourier(ctx, aggregate, parcels)
		if err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	if err = aggregate.Start(jobID, now); err != nil {
		return err
	}

	for _, p := range parcels {
		if err = p.MakeReady(now); err != nil {
			return err
		}
		if err = parcelRepo.UpdateWithStatusGuard(ctx, p, parcel.Paid); err != nil {
			return err
		}
	}

	if err = shipmentRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	event := ports.EventReadyToPickup
	if aggregate.DeliveryMode() == parcel.ModeDelivery {
		event = ports.EventReadyToShip
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

// bookCourier books the external courier job before any state changes.
// The shipment's destination is the shared address of its member packages.
func (h DispatchShipmentCommandHandler) bookCourier(
	ctx context.Context,
	aggregate *shipment.Shipment,
	parcels []*parcel.Parcel,
) (string, error) {
	if len(parcels) == 0 || parcels[0].ShippedTo() == nil {
		return "", errs.NewValueIsRequiredError("shippedTo")
	}

	totalWeight := 0.0
	for _, p := range parcels {
		totalWeight += p.Weight()
	}

	return h.gateway.BookDelivery(ctx, ports.DispatchBooking{
		ShipmentUID:  aggregate.ShipmentUID(),
		Address:      *parcels[0].ShippedTo(),
		PackageCount: len(parcels),
		TotalWeight:  totalWeight,
	})
}
