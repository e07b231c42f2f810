package commands

import (
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/errs"
	"forwarder/internal/pkg/guard"
)

var ErrCourierEventCommandIsNotConstructed = errors.New(
	"CourierEventCommand must be created via NewCourierEventCommand constructor",
)

// CourierEvent is a recognized progress event from the courier webhook.
type CourierEvent int

const (
	// CourierPickedUp means the courier collected the shipment from the
	// warehouse (job_type 0, job_status 1).
	CourierPickedUp CourierEvent = iota + 1

	// CourierDelivered means the courier delivered the shipment
	// (job_type 1, job_status 2).
	CourierDelivered
)

// CourierEventFromJob maps the courier's job_type/job_status pair to an
// event. Unrecognized pairs are rejected.
func CourierEventFromJob(jobType, jobStatus int) (CourierEvent, error) {
	switch {
	case jobType == 0 && jobStatus == 1:
		return CourierPickedUp, nil
	case jobType == 1 && jobStatus == 2:
		return CourierDelivered, nil
	default:
		return 0, errs.NewValueIsInvalidError("jobType/jobStatus")
	}
}

// CourierEventCommand represents a progress webhook from the external
// courier for one Delivery shipment.
type CourierEventCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	event      CourierEvent

	guard guard.ConstructorGuard
}

// NewCourierEventCommand creates a command from a courier webhook.
func NewCourierEventCommand(shipmentID kernel.UUID, event CourierEvent) (CourierEventCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return CourierEventCommand{}, err
	}
	if event != CourierPickedUp && event != CourierDelivered {
		return CourierEventCommand{}, errs.NewValueIsInvalidError("event")
	}

	return CourierEventCommand{
		shipmentID: shipmentID,
		event:      event,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CourierEventCommand) Validate() error {
	return c.guard.Validate(ErrCourierEventCommandIsNotConstructed)
}

// ShipmentID returns the shipment the event refers to.
func (c CourierEventCommand) ShipmentID() kernel.UUID { return c.shipmentID }

// Event returns the recognized courier event.
func (c CourierEventCommand) Event() CourierEvent { return c.event }
