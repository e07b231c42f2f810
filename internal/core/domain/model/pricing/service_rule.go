package pricing

import (
	"errors"
	"fmt"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/errs"
)

// ErrServiceRuleIsNotConstructed is returned when a ServiceRule instance was
// not created through NewServiceRule.
var ErrServiceRuleIsNotConstructed = errors.New("ServiceRule must be created via its constructors")

// ServicePriceType selects how an add-on service is priced.
type ServicePriceType string

const (
	// ServiceFlatRate services cost their value once per package.
	ServiceFlatRate ServicePriceType = "Flat rate"

	// ServiceDeclaredValue services cost a percentage of the customer's
	// declared value: declaredValue * value / 100.
	ServiceDeclaredValue ServicePriceType = "Declared Value"

	// ServiceDeclaredType services cost their value once, applied per
	// declared content type.
	ServiceDeclaredType ServicePriceType = "Declared Type"

	// ServiceWeight services cost value multiplied by the measured weight.
	ServiceWeight ServicePriceType = "Weight"
)

// Validate checks if the ServicePriceType is one of the closed set.
func (t ServicePriceType) Validate() error {
	switch t {
	case ServiceFlatRate, ServiceDeclaredValue, ServiceDeclaredType, ServiceWeight:
		return nil
	}
	return fmt.Errorf("%q is not a valid service price type", string(t))
}

// ServiceRule describes an add-on service a warehouse offers, such as extra
// packaging or insurance. Staff offer a subset at quoting; the customer
// confirms a subset at checkout, where each confirmed service becomes an
// invoice line.
type ServiceRule struct {
	id          kernel.UUID
	name        string
	warehouseID kernel.UUID
	priceType   ServicePriceType
	value       float64
	required    bool
	active      bool

	isConstructed bool
}

// NewServiceRule creates a validated service rule.
func NewServiceRule(
	id kernel.UUID,
	name string,
	warehouseID kernel.UUID,
	priceType ServicePriceType,
	value float64,
	required bool,
	active bool,
) (*ServiceRule, error) {
	if err := errors.Join(
		id.Validate(),
		warehouseID.Validate(),
		priceType.Validate(),
	); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if value < 0 {
		return nil, errs.NewValueIsInvalidError("value")
	}

	return &ServiceRule{
		id:            id,
		name:          name,
		warehouseID:   warehouseID,
		priceType:     priceType,
		value:         value,
		required:      required,
		active:        active,
		isConstructed: true,
	}, nil
}

// Validate ensures the ServiceRule instance was properly constructed.
func (r *ServiceRule) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrServiceRuleIsNotConstructed
	}
	return nil
}

// ID returns the rule's unique identifier.
func (r *ServiceRule) ID() kernel.UUID { return r.id }

// Name returns the customer-facing service name.
func (r *ServiceRule) Name() string { return r.name }

// WarehouseID returns the warehouse offering this service.
func (r *ServiceRule) WarehouseID() kernel.UUID { return r.warehouseID }

// PriceType returns the service's pricing model.
func (r *ServiceRule) PriceType() ServicePriceType { return r.priceType }

// Value returns the service's rate, percentage, or flat amount.
func (r *ServiceRule) Value() float64 { return r.value }

// IsRequired reports whether the service is mandatory at checkout.
func (r *ServiceRule) IsRequired() bool { return r.required }

// IsActive reports whether the service can currently be offered.
func (r *ServiceRule) IsActive() bool { return r.active }

// Cost returns the service's price for a package with the given measured
// weight and declared value. Declared-value services assume the value was
// declared before checkout, which the package lifecycle guarantees.
func (r *ServiceRule) Cost(weight float64, declaredValue float64) float64 {
	switch r.priceType {
	case ServiceDeclaredValue:
		return declaredValue * r.value / 100
	case ServiceWeight:
		return r.value * weight
	default:
		return r.value
	}
}
