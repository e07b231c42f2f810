package shipment

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is the sentinel for rejected shipment transitions.
var ErrInvalidTransition = errors.New("invalid shipment state transition")

// InvalidTransitionError reports a shipment lifecycle event applied out of order.
type InvalidTransitionError struct {
	Event string
	From  Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot apply %q to shipment in status %q", ErrInvalidTransition, e.Event, e.From)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Status represents the lifecycle state of a shipment.
//
// State transitions:
//
//	Created ──> Started ──> Successful
//
// Created is set at checkout. Started is reached by the ready-to-ship batch
// operation, for Delivery mode only after the external dispatch booking
// succeeded. Successful is reached once every contained package is in its
// mode's terminal status.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Created is the initial status assigned at checkout.
	Created

	// Started means the shipment is dispatched (Delivery) or open for
	// hand-over (Pickup).
	Started

	// Successful is the final state: all contained packages are terminal.
	Successful
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Created:    "Created",
		Started:    "Started",
		Successful: "Successful",
	}
}

// Validate checks if the Status value is one of the closed set.
func (s Status) Validate() error {
	if s != Created && s != Started && s != Successful {
		return fmt.Errorf("%d is not a valid shipment status", s)
	}
	return nil
}

// String returns the persisted, human-readable name of the status.
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
	return Unknown, fmt.Errorf("%q is not a valid shipment status", v)
}

// Start transitions Created -> Started.
func (s Status) Start() (Status, error) {
	if s != Created {
		return Unknown, &InvalidTransitionError{Event: "start", From: s}
	}
	return Started, nil
}

// Complete transitions Started -> Successful.
func (s Status) Complete() (Status, error) {
	if s != Started {
		return Unknown, &InvalidTransitionError{Event: "complete", From: s}
	}
	return Successful, nil
}
