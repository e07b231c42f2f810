package kernel

import (
	"strings"

	"forwarder/internal/pkg/errs"
	"forwarder/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when attempting to use an improperly initialized Address.
// Addresses must be created using the NewAddress constructor to ensure validity.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via the NewAddress constructor")

// Address is an immutable value object representing a postal address.
// The zero value is invalid and fails validation - use NewAddress.
//
// Two parcels heading to the same Address (same Formatted output) and
// sharing delivery type and warehouse travel as one physical shipment,
// so the Formatted representation doubles as part of the bundling key
// and must stay deterministic.
//
// Example:
//
//	addr, err := kernel.NewAddress("John Doe", "1 Main St", "CA", "San Jose", "95101", "USA")
//	if err != nil {
//	    // handle validation error
//	}
//	fmt.Println(addr.Formatted()) // John Doe,1 Main St,CA,San Jose,95101,USA
type Address struct { //nolint:recvcheck //using for validation
	name    string
	street  string
	state   string
	city    string
	zipcode string
	country string

	guard guard.ConstructorGuard
}

// NewAddress creates a validated Address. Street, city, and country are
// required; name, state, and zipcode may be empty.
func NewAddress(name, street, state, city, zipcode, country string) (Address, error) {
	if street == "" {
		return Address{}, errs.NewValueIsRequiredError("street")
	}
	if city == "" {
		return Address{}, errs.NewValueIsRequiredError("city")
	}
	if country == "" {
		return Address{}, errs.NewValueIsRequiredError("country")
	}

	return Address{
		name:    name,
		street:  street,
		state:   state,
		city:    city,
		zipcode: zipcode,
		country: country,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the Address was created through NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Name returns the addressee name.
func (a Address) Name() string { return a.name }

// Street returns the street line.
func (a Address) Street() string { return a.street }

// State returns the state or region.
func (a Address) State() string { return a.state }

// City returns the city.
func (a Address) City() string { return a.city }

// Zipcode returns the postal code.
func (a Address) Zipcode() string { return a.zipcode }

// Country returns the country.
func (a Address) Country() string { return a.country }

// IsEqual compares two addresses field by field.
func (a Address) IsEqual(other Address) bool {
	return a.Formatted() == other.Formatted()
}

// Formatted returns the deterministic comma-separated representation in the
// fixed order name, street, state, city, zipcode, country. The order is part
// of the shipment bundling contract and must not change.
func (a Address) Formatted() string {
	return strings.Join([]string{a.name, a.street, a.state, a.city, a.zipcode, a.country}, ",")
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.Formatted()
}
