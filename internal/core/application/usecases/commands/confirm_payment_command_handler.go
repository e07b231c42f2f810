package commands

import (
	"context"
	"time"

	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/ports"
)

// ConfirmPaymentCommandHandler settles a checkout transaction and fans the
// confirmation out to every package in the transaction's shipments.
//
// The handler is idempotent: a replayed webhook for an already settled
// transaction is acknowledged without touching any state or re-notifying.
type ConfirmPaymentCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
}

// NewConfirmPaymentCommandHandler creates a handler for payment confirmation.
func NewConfirmPaymentCommandHandler(uowFactory UoWFactory, notifier ports.Notifier) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the payment confirmation command.
func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) error {
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

	trxRepo := uow.TransactionRepository()

	trx, err := trxRepo.Get(ctx, cmd.TransactionID())
	if err != nil {
		return err
	}
	if trx.IsPaid() {
		// Replayed webhook: already settled, nothing to do.
		return nil
	}

	now := time.Now().UTC()
	if err = trx.MarkPaid(now); err != nil {
		return err
	}
	if err = trxRepo.Update(ctx, trx); err != nil {
		return err
	}

	shipments, err := uow.ShipmentRepository().GetAllByTransaction(ctx, trx.ID())
	if err != nil {
		return err
	}

	parcelRepo := uow.ParcelRepository()
	notifications := make([]ports.Notification, 0)

	for _, s := range shipments {
		for _, packageID := range s.PackageIDs() {
			aggregate, getErr := parcelRepo.Get(ctx, packageID)
			if getErr != nil {
				return getErr
			}

			if err = aggregate.ConfirmPayment(now); err != nil {
				return err
			}
			if err = parcelRepo.UpdateWithStatusGuard(ctx, aggregate, parcel.Unpaid); err != nil {
				return err
			}

			id := aggregate.ID()
			notifications = append(notifications, ports.Notification{
				Event:    ports.EventPackagePaid,
				UserID:   aggregate.UserID(),
				ParcelID: &id,
			})
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, notification := range notifications {
		_ = h.notifier.Notify(ctx, notification)
	}

	return nil
}
