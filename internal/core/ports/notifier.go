package ports

import (
	"context"

	"forwarder/internal/core/domain/model/kernel"
)

// NotificationEvent tags what happened to a package or shipment so the
// notification channel can render the right message.
type NotificationEvent string

const (
	EventPackageCreated    NotificationEvent = "package.created"
	EventPackageArrived    NotificationEvent = "package.arrived"
	EventActionRequired    NotificationEvent = "package.requires-action"
	EventPackagePaid       NotificationEvent = "package.paid"
	EventReadyToShip       NotificationEvent = "package.ready-to-ship"
	EventReadyToPickup     NotificationEvent = "package.ready-to-pickup"
	EventOutForDelivery    NotificationEvent = "package.out-for-delivery"
	EventPackageShipped    NotificationEvent = "package.shipped"
	EventPackagePickedUp   NotificationEvent = "package.picked-up"
	EventPackageCancelled  NotificationEvent = "package.cancelled"
	EventAwaitingReturn    NotificationEvent = "package.awaiting-return"
	EventPackageReturned   NotificationEvent = "package.returned"
	EventDepositReminder   NotificationEvent = "package.deposit-reminder"
	EventShipmentCompleted NotificationEvent = "shipment.completed"
)

// Notification is one customer-facing message to be delivered out of band.
type Notification struct {
	Event      NotificationEvent
	UserID     kernel.UUID
	ParcelID   *kernel.UUID
	ShipmentID *kernel.UUID
}

// Notifier delivers customer notifications. Notification failures never fail
// the triggering operation; callers log and continue.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}
