package parcel

import (
	"errors"
	"time"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/errs"
)

var (
	// ErrParcelIsNotConstructed is returned when a Parcel instance was not created
	// through NewParcel, NewPreBookedParcel, or RestoreParcel.
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via its constructors")

	// ErrDestinationIsInvalid is returned when the destination does not match the
	// delivery mode: Delivery parcels need a shipped-to address and a delivery
	// type, Pickup parcels need a pickup location.
	ErrDestinationIsInvalid = errors.New("destination does not match delivery mode")
)

// Parcel is the aggregate root for a single physical package tracked from
// intake through delivery, pickup, or return.
//
// Parcel maintains these invariants:
//   - Status transitions follow the lifecycle table in Status; a rejected
//     transition leaves the parcel unmodified.
//   - A Delivery parcel always carries a shipped-to address and delivery type;
//     a Pickup parcel always carries a pickup location.
//   - The flat-rate amount, once set by quoting, is the amortization unit used
//     for shared-shipment discounts and is never recomputed elsewhere.
//   - The shipment back-reference is written exactly once, at checkout; the
//     shipment's package list is the authoritative side of the relation.
//
// Timestamps are stamped by the transition that reaches the corresponding
// status and never overwritten, which keeps webhook replays idempotent.
type Parcel struct {
	id             kernel.UUID
	trackingNumber string
	userID         kernel.UUID
	staffID        *kernel.UUID
	warehouseID    kernel.UUID

	deliveryMode     DeliveryMode
	deliveryTypeID   *kernel.UUID
	shippedTo        *kernel.Address
	pickupLocationID *kernel.UUID

	weight              float64
	declaredValue       *float64
	declaredType        string
	offeredServiceIDs   []kernel.UUID
	confirmedServiceIDs []kernel.UUID

	shippingCost float64
	flatRate     float64

	invoiceID  *kernel.UUID
	shipmentID *kernel.UUID

	status Status

	createdAt        time.Time
	arrivedAt        *time.Time
	paidAt           *time.Time
	readyToShipAt    *time.Time
	outForDeliveryAt *time.Time
	shippedAt        *time.Time
	pickedUpAt       *time.Time

	isConstructed bool
}

// NewParcel creates a Recorded parcel at customer intake.
// Delivery mode requires shippedTo and deliveryTypeID; Pickup mode requires
// pickupLocationID. The mismatching fields must be nil.
func NewParcel(
	id kernel.UUID,
	trackingNumber string,
	userID kernel.UUID,
	warehouseID kernel.UUID,
	mode DeliveryMode,
	deliveryTypeID *kernel.UUID,
	shippedTo *kernel.Address,
	pickupLocationID *kernel.UUID,
	now time.Time,
) (*Parcel, error) {
	p := &Parcel{
		status:        Recorded,
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setTrackingNumber(trackingNumber),
		p.setUserID(userID),
		p.setWarehouseID(warehouseID),
		p.setDestination(mode, deliveryTypeID, shippedTo, pickupLocationID),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// NewPreBookedParcel creates a parcel at staff intake, before the customer
// has confirmed the destination details. The warehouse already holds the
// physical item, so arrival is stamped immediately.
func NewPreBookedParcel(
	id kernel.UUID,
	trackingNumber string,
	userID kernel.UUID,
	staffID kernel.UUID,
	warehouseID kernel.UUID,
	now time.Time,
) (*Parcel, error) {
	p := &Parcel{
		status:        PreBooked,
		createdAt:     now,
		arrivedAt:     &now,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setTrackingNumber(trackingNumber),
		p.setUserID(userID),
		p.setWarehouseID(warehouseID),
	); err != nil {
		return nil, err
	}
	if err := staffID.Validate(); err != nil {
		return nil, err
	}
	p.staffID = &staffID

	return p, nil
}

// RestoreParcel reconstructs a parcel from persistence without running intake
// validation. The status must be valid; destination consistency is the
// repository's responsibility.
func RestoreParcel(
	id kernel.UUID,
	trackingNumber string,
	userID kernel.UUID,
	staffID *kernel.UUID,
	warehouseID kernel.UUID,
	mode DeliveryMode,
	deliveryTypeID *kernel.UUID,
	shippedTo *kernel.Address,
	pickupLocationID *kernel.UUID,
	weight float64,
	declaredValue *float64,
	declaredType string,
	offeredServiceIDs []kernel.UUID,
	confirmedServiceIDs []kernel.UUID,
	shippingCost float64,
	flatRate float64,
	invoiceID *kernel.UUID,
	shipmentID *kernel.UUID,
	status Status,
	createdAt time.Time,
	arrivedAt, paidAt, readyToShipAt, outForDeliveryAt, shippedAt, pickedUpAt *time.Time,
) (*Parcel, error) {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	// A Pre-Booked parcel has no destination until the customer confirms
	// intake, so its mode is still unset at this point.
	if status != PreBooked {
		if err := mode.Validate(); err != nil {
			return nil, err
		}
	}

	return &Parcel{
		id:                  id,
		trackingNumber:      trackingNumber,
		userID:              userID,
		staffID:             staffID,
		warehouseID:         warehouseID,
		deliveryMode:        mode,
		deliveryTypeID:      deliveryTypeID,
		shippedTo:           shippedTo,
		pickupLocationID:    pickupLocationID,
		weight:              weight,
		declaredValue:       declaredValue,
		declaredType:        declaredType,
		offeredServiceIDs:   offeredServiceIDs,
		confirmedServiceIDs: confirmedServiceIDs,
		shippingCost:        shippingCost,
		flatRate:            flatRate,
		invoiceID:           invoiceID,
		shipmentID:          shipmentID,
		status:              status,
		createdAt:           createdAt,
		arrivedAt:           arrivedAt,
		paidAt:              paidAt,
		readyToShipAt:       readyToShipAt,
		outForDeliveryAt:    outForDeliveryAt,
		shippedAt:           shippedAt,
		pickedUpAt:          pickedUpAt,
		isConstructed:       true,
	}, nil
}

// Validate ensures the Parcel instance was properly constructed.
func (p *Parcel) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrParcelIsNotConstructed
	}
	return nil
}

// IsEqual compares two parcels by identifier.
func (p *Parcel) IsEqual(other *Parcel) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the parcel's unique identifier.
func (p *Parcel) ID() kernel.UUID { return p.id }

// TrackingNumber returns the carrier tracking number recorded at intake.
func (p *Parcel) TrackingNumber() string { return p.trackingNumber }

// UserID returns the owning customer's identifier.
func (p *Parcel) UserID() kernel.UUID { return p.userID }

// StaffID returns the staff member who quoted the parcel, nil before quoting.
func (p *Parcel) StaffID() *kernel.UUID { return p.staffID }

// WarehouseID returns the receiving warehouse.
func (p *Parcel) WarehouseID() kernel.UUID { return p.warehouseID }

// DeliveryMode returns Delivery or Pickup.
func (p *Parcel) DeliveryMode() DeliveryMode { return p.deliveryMode }

// DeliveryTypeID returns the delivery type for Delivery-mode parcels, nil otherwise.
func (p *Parcel) DeliveryTypeID() *kernel.UUID { return p.deliveryTypeID }

// ShippedTo returns the destination address for Delivery-mode parcels, nil otherwise.
func (p *Parcel) ShippedTo() *kernel.Address { return p.shippedTo }

// PickupLocationID returns the pickup point for Pickup-mode parcels, nil otherwise.
func (p *Parcel) PickupLocationID() *kernel.UUID { return p.pickupLocationID }

// Weight returns the weight measured at quoting, in kg.
func (p *Parcel) Weight() float64 { return p.weight }

// DeclaredValue returns the customer-declared value, nil until declared.
func (p *Parcel) DeclaredValue() *float64 { return p.declaredValue }

// DeclaredType returns the customer-declared content type.
func (p *Parcel) DeclaredType() string { return p.declaredType }

// OfferedServiceIDs returns the add-on services staff offered at quoting.
func (p *Parcel) OfferedServiceIDs() []kernel.UUID { return p.offeredServiceIDs }

// ConfirmedServiceIDs returns the services the customer confirmed at checkout.
func (p *Parcel) ConfirmedServiceIDs() []kernel.UUID { return p.confirmedServiceIDs }

// ShippingCost returns the line-haul cost computed at quoting.
func (p *Parcel) ShippingCost() float64 { return p.shippingCost }

// FlatRate returns the flat-rate component of the shipping cost.
// It is the amortization unit for shared-shipment discounts.
func (p *Parcel) FlatRate() float64 { return p.flatRate }

// InvoiceID returns the linked invoice, nil before checkout.
func (p *Parcel) InvoiceID() *kernel.UUID { return p.invoiceID }

// ShipmentID returns the shipment back-reference, nil before checkout.
// Lookup only; the shipment owns the relation.
func (p *Parcel) ShipmentID() *kernel.UUID { return p.shipmentID }

// Status returns the current lifecycle status.
func (p *Parcel) Status() Status { return p.status }

// CreatedAt returns the intake time.
func (p *Parcel) CreatedAt() time.Time { return p.createdAt }

// ArrivedAt returns the warehouse arrival time, nil until arrival.
func (p *Parcel) ArrivedAt() *time.Time { return p.arrivedAt }

// PaidAt returns the payment confirmation time, nil until paid.
func (p *Parcel) PaidAt() *time.Time { return p.paidAt }

// ReadyToShipAt returns the time of the ready-to-ship batch operation.
func (p *Parcel) ReadyToShipAt() *time.Time { return p.readyToShipAt }

// OutForDeliveryAt returns the courier warehouse-pickup time.
func (p *Parcel) OutForDeliveryAt() *time.Time { return p.outForDeliveryAt }

// ShippedAt returns the delivery time.
func (p *Parcel) ShippedAt() *time.Time { return p.shippedAt }

// PickedUpAt returns the customer hand-over time.
func (p *Parcel) PickedUpAt() *time.Time { return p.pickedUpAt }

// ConfirmIntake applies the customer's confirmation to a Pre-Booked parcel,
// attaching the destination details. Moves to Arrived at warehouse when
// arrival was already stamped at staff intake, Recorded otherwise.
func (p *Parcel) ConfirmIntake(
	mode DeliveryMode,
	deliveryTypeID *kernel.UUID,
	shippedTo *kernel.Address,
	pickupLocationID *kernel.UUID,
) error {
	newStatus, err := p.status.ConfirmIntake(p.arrivedAt != nil)
	if err != nil {
		return err
	}
	if err = p.setDestination(mode, deliveryTypeID, shippedTo, pickupLocationID); err != nil {
		return err
	}

	p.status = newStatus
	return nil
}

// MarkArrived registers physical arrival at the warehouse and stamps the
// arrival time used later for storage-fee accrual.
func (p *Parcel) MarkArrived(now time.Time) error {
	newStatus, err := p.status.Arrive()
	if err != nil {
		return err
	}

	p.status = newStatus
	p.arrivedAt = &now
	return nil
}

// Quote records the measured weight, the computed shipping cost and flat-rate
// component, the offered add-on services, and the acting staff member, and
// hands the parcel to the customer for value declaration.
func (p *Parcel) Quote(
	weight float64,
	shippingCost float64,
	flatRate float64,
	offeredServiceIDs []kernel.UUID,
	staffID kernel.UUID,
) error {
	if weight <= 0 {
		return errs.NewValueIsInvalidError("weight")
	}
	if err := staffID.Validate(); err != nil {
		return err
	}

	newStatus, err := p.status.RequireAction()
	if err != nil {
		return err
	}

	p.status = newStatus
	p.weight = weight
	p.shippingCost = shippingCost
	if flatRate > 0 {
		p.flatRate = flatRate
	}
	p.offeredServiceIDs = offeredServiceIDs
	p.staffID = &staffID
	return nil
}

// DeclareValue stores the customer's declared value and opens the parcel for
// payment. Declared-value-percentage services rely on this being set before
// checkout, which the status order guarantees.
func (p *Parcel) DeclareValue(value float64) error {
	if value < 0 {
		return errs.NewValueIsInvalidError("declaredValue")
	}

	newStatus, err := p.status.Declare()
	if err != nil {
		return err
	}

	p.status = newStatus
	p.declaredValue = &value
	return nil
}

// ConfirmExtras stores the declared content type and the confirmed add-on
// services from the customer's cart entry. Only Unpaid parcels can be checked
// out; the extras must be confirmed before the cart is priced.
func (p *Parcel) ConfirmExtras(declaredType string, confirmedServiceIDs []kernel.UUID) error {
	if p.status != Unpaid {
		return &InvalidTransitionError{Event: "checkout", From: p.status}
	}

	p.declaredType = declaredType
	p.confirmedServiceIDs = confirmedServiceIDs
	return nil
}

// AttachCheckout links the parcel to the invoice and shipment created at
// checkout. The status itself does not change until payment confirmation.
func (p *Parcel) AttachCheckout(invoiceID kernel.UUID, shipmentID kernel.UUID) error {
	if p.status != Unpaid {
		return &InvalidTransitionError{Event: "checkout", From: p.status}
	}
	if err := errors.Join(invoiceID.Validate(), shipmentID.Validate()); err != nil {
		return err
	}

	p.invoiceID = &invoiceID
	p.shipmentID = &shipmentID
	return nil
}

// ConfirmPayment moves the parcel to Paid and stamps paidAt.
func (p *Parcel) ConfirmPayment(now time.Time) error {
	newStatus, err := p.status.Pay()
	if err != nil {
		return err
	}

	p.status = newStatus
	p.paidAt = &now
	return nil
}

// MakeReady moves a Paid parcel to its mode's ready status as part of the
// ready-to-ship batch operation.
func (p *Parcel) MakeReady(now time.Time) error {
	newStatus, err := p.status.MakeReady(p.deliveryMode)
	if err != nil {
		return err
	}

	p.status = newStatus
	p.readyToShipAt = &now
	return nil
}

// StartDelivery applies the courier's warehouse-pickup event.
func (p *Parcel) StartDelivery(now time.Time) error {
	newStatus, err := p.status.StartDelivery()
	if err != nil {
		return err
	}

	p.status = newStatus
	p.outForDeliveryAt = &now
	return nil
}

// CompleteDelivery applies the courier's delivered event.
func (p *Parcel) CompleteDelivery(now time.Time) error {
	newStatus, err := p.status.CompleteDelivery()
	if err != nil {
		return err
	}

	p.status = newStatus
	p.shippedAt = &now
	return nil
}

// ConfirmPickup applies the staff hand-over confirmation for Pickup parcels.
func (p *Parcel) ConfirmPickup(now time.Time) error {
	newStatus, err := p.status.ConfirmPickup()
	if err != nil {
		return err
	}

	p.status = newStatus
	p.pickedUpAt = &now
	return nil
}

// Cancel moves a pre-payment parcel to Awaiting return.
func (p *Parcel) Cancel() error {
	newStatus, err := p.status.Cancel()
	if err != nil {
		return err
	}

	p.status = newStatus
	return nil
}

// MarkReturned completes the return path.
func (p *Parcel) MarkReturned() error {
	newStatus, err := p.status.Return()
	if err != nil {
		return err
	}

	p.status = newStatus
	return nil
}

func (p *Parcel) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Parcel) setTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber")
	}
	p.trackingNumber = trackingNumber
	return nil
}

func (p *Parcel) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	p.userID = userID
	return nil
}

func (p *Parcel) setWarehouseID(warehouseID kernel.UUID) error {
	if err := warehouseID.Validate(); err != nil {
		return err
	}
	p.warehouseID = warehouseID
	return nil
}

func (p *Parcel) setDestination(
	mode DeliveryMode,
	deliveryTypeID *kernel.UUID,
	shippedTo *kernel.Address,
	pickupLocationID *kernel.UUID,
) error {
	if err := mode.Validate(); err != nil {
		return err
	}

	switch mode {
	case ModeDelivery:
		if shippedTo == nil || deliveryTypeID == nil || pickupLocationID != nil {
			return ErrDestinationIsInvalid
		}
		if err := errors.Join(shippedTo.Validate(), deliveryTypeID.Validate()); err != nil {
			return err
		}
	case ModePickup:
		if pickupLocationID == nil || shippedTo != nil || deliveryTypeID != nil {
			return ErrDestinationIsInvalid
		}
		if err := pickupLocationID.Validate(); err != nil {
			return err
		}
	}

	p.deliveryMode = mode
	p.deliveryTypeID = deliveryTypeID
	p.shippedTo = shippedTo
	p.pickupLocationID = pickupLocationID
	return nil
}
