package parcel

import (
	"errors"
	"fmt"

	"forwarder/internal/pkg/errs"
)

// ErrInvalidTransition is the sentinel for every rejected lifecycle transition.
// Use errors.Is to detect it regardless of the concrete transition attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

// InvalidTransitionError reports a lifecycle event applied to a parcel whose
// current status is not an allowed predecessor. The parcel is left unmodified.
type InvalidTransitionError struct {
	Event string
	From  Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot apply %q to parcel in status %q", ErrInvalidTransition, e.Event, e.From)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// DeliveryMode distinguishes parcels couriered to the customer's address from
// parcels handed over at a pickup point.
type DeliveryMode string

const (
	ModeDelivery DeliveryMode = "Delivery"
	ModePickup   DeliveryMode = "Pickup"
)

// Validate checks the mode is one of the two closed variants.
func (m DeliveryMode) Validate() error {
	if m != ModeDelivery && m != ModePickup {
		return errs.NewValueIsInvalidErrorWithCause("deliveryMode",
			fmt.Errorf("%q is not a valid delivery mode", string(m)))
	}
	return nil
}

// TerminalStatus returns the status that completes a parcel's lifecycle for
// this mode: Shipped for Delivery, Picked up for Pickup.
func (m DeliveryMode) TerminalStatus() Status {
	if m == ModePickup {
		return PickedUp
	}
	return Shipped
}

// Status represents the lifecycle state of a parcel.
// It implements a state machine with a closed set of states; every transition
// is checked against a table of allowed predecessors in a single place, so an
// illegal transition can only fail one way (InvalidTransitionError).
//
// State transitions:
//
//	Pre-Booked ──> Recorded ──> Arrived at warehouse ──> Awaiting user actions ──> Unpaid ──> Paid
//	                                                                                           │
//	                              ┌────────────────────────────────────────────────────────────┤
//	                              ▼                                                            ▼
//	                        Ready to ship ──> Out for delivery ──> Shipped          Ready to pickup ──> Picked up
//
//	Recorded / Awaiting user actions / Unpaid ──> Awaiting return ──> Returned
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// PreBooked is assigned at staff intake before the customer confirms details.
	PreBooked

	// Recorded is the initial customer-visible status after intake.
	Recorded

	// ArrivedAtWarehouse means warehouse staff registered physical arrival.
	ArrivedAtWarehouse

	// AwaitingUserActions means the parcel was weighed and quoted; the
	// customer must declare a value before payment.
	AwaitingUserActions

	// Unpaid means the customer declared the value and checkout may proceed.
	Unpaid

	// Paid means the linked transaction was confirmed by the payment gateway.
	Paid

	// ReadyToShip means a Delivery-mode parcel has a booked courier job.
	ReadyToShip

	// OutForDelivery means the courier picked the parcel up from the warehouse.
	OutForDelivery

	// Shipped is the terminal status for Delivery-mode parcels.
	Shipped

	// ReadyToPickup means a Pickup-mode parcel awaits customer hand-off.
	ReadyToPickup

	// PickedUp is the terminal status for Pickup-mode parcels.
	PickedUp

	// AwaitingReturn means the parcel was cancelled and awaits return handling.
	AwaitingReturn

	// Returned is the terminal status of the return path.
	Returned
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:             "Unknown",
		PreBooked:           "Pre-Booked",
		Recorded:            "Recorded",
		ArrivedAtWarehouse:  "Arrived at warehouse",
		AwaitingUserActions: "Awaiting user actions",
		Unpaid:              "Unpaid",
		Paid:                "Paid",
		ReadyToShip:         "Ready to ship",
		OutForDelivery:      "Out for delivery",
		Shipped:             "Shipped",
		ReadyToPickup:       "Ready to pickup",
		PickedUp:            "Picked up",
		AwaitingReturn:      "Awaiting return",
		Returned:            "Returned",
	}
}

// Validate checks if the Status value is one of the closed set.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s <= Unknown || s > Returned {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// This is also the persisted representation, so renaming a status is a
// data migration, not a refactor.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString maps a persisted representation back to a Status.
func StatusFromString(v string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == v && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", v))
}

// IsTerminal reports whether no further lifecycle transition is possible.
func (s Status) IsTerminal() bool {
	return s == Shipped || s == PickedUp || s == Returned
}

// transition is the single point where predecessors are enforced.
// It returns next when the current status is in from, and an
// InvalidTransitionError otherwise.
func (s Status) transition(event string, next Status, from ...Status) (Status, error) {
	for _, f := range from {
		if s == f {
			return next, nil
		}
	}
	return Unknown, &InvalidTransitionError{Event: event, From: s}
}

// ConfirmIntake transitions a Pre-Booked parcel after customer confirmation.
// arrived selects the target: Arrived at warehouse when the warehouse already
// stamped arrival, Recorded otherwise.
func (s Status) ConfirmIntake(arrived bool) (Status, error) {
	next := Recorded
	if arrived {
		next = ArrivedAtWarehouse
	}
	return s.transition("confirm intake", next, PreBooked)
}

// Arrive transitions Recorded -> Arrived at warehouse.
func (s Status) Arrive() (Status, error) {
	return s.transition("arrive", ArrivedAtWarehouse, Recorded)
}

// RequireAction transitions Arrived at warehouse -> Awaiting user actions
// once staff have weighed and quoted the parcel.
func (s Status) RequireAction() (Status, error) {
	return s.transition("quote", AwaitingUserActions, ArrivedAtWarehouse)
}

// Declare transitions Awaiting user actions -> Unpaid after the customer
// declares the parcel value.
func (s Status) Declare() (Status, error) {
	return s.transition("declare value", Unpaid, AwaitingUserActions)
}

// Pay transitions Unpaid -> Paid on payment confirmation.
func (s Status) Pay() (Status, error) {
	return s.transition("confirm payment", Paid, Unpaid)
}

// MakeReady transitions Paid to the mode's ready status: Ready to ship for
// Delivery, Ready to pickup for Pickup.
func (s Status) MakeReady(mode DeliveryMode) (Status, error) {
	next := ReadyToShip
	if mode == ModePickup {
		next = ReadyToPickup
	}
	return s.transition("make ready", next, Paid)
}

// StartDelivery transitions Ready to ship -> Out for delivery when the
// courier reports warehouse pickup.
func (s Status) StartDelivery() (Status, error) {
	return s.transition("start delivery", OutForDelivery, ReadyToShip)
}

// CompleteDelivery transitions Out for delivery -> Shipped when the courier
// reports delivery.
func (s Status) CompleteDelivery() (Status, error) {
	return s.transition("complete delivery", Shipped, OutForDelivery)
}

// ConfirmPickup transitions Ready to pickup -> Picked up at hand-over.
func (s Status) ConfirmPickup() (Status, error) {
	return s.transition("confirm pickup", PickedUp, ReadyToPickup)
}

// Cancel transitions a pre-payment parcel to Awaiting return.
// Allowed from Recorded, Awaiting user actions, and Unpaid.
func (s Status) Cancel() (Status, error) {
	return s.transition("cancel", AwaitingReturn, Recorded, AwaitingUserActions, Unpaid)
}

// Return transitions to Returned. Allowed from Awaiting return and directly
// from the cancellable pre-payment statuses.
func (s Status) Return() (Status, error) {
	return s.transition("return", Returned, AwaitingReturn, Recorded, AwaitingUserActions, Unpaid)
}
