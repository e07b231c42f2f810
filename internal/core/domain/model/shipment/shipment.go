package shipment

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/pkg/errs"
)

var (
	// ErrShipmentIsNotConstructed is returned when a Shipment instance was not
	// created through NewShipment or RestoreShipment.
	ErrShipmentIsNotConstructed = errors.New("Shipment must be created via its constructors")

	// ErrShipmentHasNoPackages is returned when a shipment is created without
	// any member packages.
	ErrShipmentHasNoPackages = errors.New("Shipment must contain at least one package")
)

// Shipment is the aggregate root for a group of packages that travel together
// to one destination. It is created at checkout by the bundling step and owns
// the authoritative package membership list; parcels only carry a lookup
// back-reference.
//
// Shipment maintains these invariants:
//   - The package list is non-empty, duplicate-free, and immutable after
//     construction.
//   - A Delivery shipment only reaches Started after the external courier
//     booking succeeded; the booking job ID is stored on Start.
//   - Successful is only reached once every member package is terminal, which
//     the completion use case verifies before calling Complete.
type Shipment struct {
	id          kernel.UUID
	shipmentUID string

	packageIDs []kernel.UUID

	deliveryMode parcel.DeliveryMode
	warehouseID  kernel.UUID
	userID       kernel.UUID

	invoiceID     kernel.UUID
	transactionID kernel.UUID

	courierJobID string

	status Status

	createdAt   time.Time
	startedAt   *time.Time
	completedAt *time.Time

	isConstructed bool
}

// NewShipmentUID generates the externally visible shipment reference shared
// with customers and the courier.
func NewShipmentUID() string {
	return fmt.Sprintf("%d", rand.IntN(1_000_000)+1)
}

// NewShipment creates a Created shipment at checkout, owning the given
// packages. All packages in one shipment share the delivery mode, warehouse,
// owner, and billing documents; the bundling step guarantees that grouping.
func NewShipment(
	id kernel.UUID,
	shipmentUID string,
	packageIDs []kernel.UUID,
	mode parcel.DeliveryMode,
	warehouseID kernel.UUID,
	userID kernel.UUID,
	invoiceID kernel.UUID,
	transactionID kernel.UUID,
	now time.Time,
) (*Shipment, error) {
	s := &Shipment{
		status:        Created,
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setShipmentUID(shipmentUID),
		s.setPackageIDs(packageIDs),
		s.setDeliveryMode(mode),
		s.setWarehouseID(warehouseID),
		s.setUserID(userID),
		s.setBilling(invoiceID, transactionID),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// RestoreShipment reconstructs a shipment from persistence.
func RestoreShipment(
	id kernel.UUID,
	shipmentUID string,
	packageIDs []kernel.UUID,
	mode parcel.DeliveryMode,
	warehouseID kernel.UUID,
	userID kernel.UUID,
	invoiceID kernel.UUID,
	transactionID kernel.UUID,
	courierJobID string,
	status Status,
	createdAt time.Time,
	startedAt *time.Time,
	completedAt *time.Time,
) (*Shipment, error) {
	if err := errors.Join(id.Validate(), status.Validate(), mode.Validate()); err != nil {
		return nil, err
	}
	if len(packageIDs) == 0 {
		return nil, ErrShipmentHasNoPackages
	}

	return &Shipment{
		id:            id,
		shipmentUID:   shipmentUID,
		packageIDs:    packageIDs,
		deliveryMode:  mode,
		warehouseID:   warehouseID,
		userID:        userID,
		invoiceID:     invoiceID,
		transactionID: transactionID,
		courierJobID:  courierJobID,
		status:        status,
		createdAt:     createdAt,
		startedAt:     startedAt,
		completedAt:   completedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Shipment instance was properly constructed.
func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

// IsEqual compares two shipments by identifier.
func (s *Shipment) IsEqual(other *Shipment) bool {
	return other != nil && s.id.IsEqual(other.id)
}

// ID returns the shipment's unique identifier.
func (s *Shipment) ID() kernel.UUID { return s.id }

// ShipmentUID returns the externally visible shipment reference.
func (s *Shipment) ShipmentUID() string { return s.shipmentUID }

// PackageIDs returns the member package identifiers. The shipment is the
// authoritative owner of this relation.
func (s *Shipment) PackageIDs() []kernel.UUID { return s.packageIDs }

// ContainsPackage reports whether the given parcel belongs to this shipment.
func (s *Shipment) ContainsPackage(packageID kernel.UUID) bool {
	for _, id := range s.packageIDs {
		if id.IsEqual(packageID) {
			return true
		}
	}
	return false
}

// DeliveryMode returns the mode shared by all member packages.
func (s *Shipment) DeliveryMode() parcel.DeliveryMode { return s.deliveryMode }

// WarehouseID returns the dispatching warehouse.
func (s *Shipment) WarehouseID() kernel.UUID { return s.warehouseID }

// UserID returns the owning customer's identifier.
func (s *Shipment) UserID() kernel.UUID { return s.userID }

// InvoiceID returns the invoice issued at checkout.
func (s *Shipment) InvoiceID() kernel.UUID { return s.invoiceID }

// TransactionID returns the payment transaction issued at checkout.
func (s *Shipment) TransactionID() kernel.UUID { return s.transactionID }

// CourierJobID returns the courier booking reference, empty until Start and
// always empty for Pickup shipments.
func (s *Shipment) CourierJobID() string { return s.courierJobID }

// Status returns the current lifecycle status.
func (s *Shipment) Status() Status { return s.status }

// CreatedAt returns the checkout time.
func (s *Shipment) CreatedAt() time.Time { return s.createdAt }

// StartedAt returns the dispatch time, nil until Started.
func (s *Shipment) StartedAt() *time.Time { return s.startedAt }

// CompletedAt returns the completion time, nil until Successful.
func (s *Shipment) CompletedAt() *time.Time { return s.completedAt }

// Start moves the shipment to Started as part of the ready-to-ship batch
// operation, storing the courier booking reference for Delivery shipments.
// Callers must have secured the external booking before calling Start.
func (s *Shipment) Start(courierJobID string, now time.Time) error {
	if s.deliveryMode == parcel.ModeDelivery && courierJobID == "" {
		return errs.NewValueIsRequiredError("courierJobID")
	}

	newStatus, err := s.status.Start()
	if err != nil {
		return err
	}

	s.status = newStatus
	s.courierJobID = courierJobID
	s.startedAt = &now
	return nil
}

// Complete moves the shipment to Successful. The caller verifies beforehand
// that every member package reached its mode's terminal status.
func (s *Shipment) Complete(now time.Time) error {
	newStatus, err := s.status.Complete()
	if err != nil {
		return err
	}

	s.status = newStatus
	s.completedAt = &now
	return nil
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setShipmentUID(shipmentUID string) error {
	if shipmentUID == "" {
		return errs.NewValueIsRequiredError("shipmentUID")
	}
	s.shipmentUID = shipmentUID
	return nil
}

func (s *Shipment) setPackageIDs(packageIDs []kernel.UUID) error {
	if len(packageIDs) == 0 {
		return ErrShipmentHasNoPackages
	}

	seen := make(map[kernel.UUID]struct{}, len(packageIDs))
	for _, id := range packageIDs {
		if err := id.Validate(); err != nil {
			return err
		}
		if _, ok := seen[id]; ok {
			return errs.NewValueIsInvalidError("packageIDs")
		}
		seen[id] = struct{}{}
	}

	s.packageIDs = packageIDs
	return nil
}

func (s *Shipment) setDeliveryMode(mode parcel.DeliveryMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	s.deliveryMode = mode
	return nil
}

func (s *Shipment) setWarehouseID(warehouseID kernel.UUID) error {
	if err := warehouseID.Validate(); err != nil {
		return err
	}
	s.warehouseID = warehouseID
	return nil
}

func (s *Shipment) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	s.userID = userID
	return nil
}

func (s *Shipment) setBilling(invoiceID, transactionID kernel.UUID) error {
	if err := errors.Join(invoiceID.Validate(), transactionID.Validate()); err != nil {
		return err
	}
	s.invoiceID = invoiceID
	s.transactionID = transactionID
	return nil
}
