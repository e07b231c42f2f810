package commands

import (
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/pkg/errs"
	"forwarder/internal/pkg/guard"
)

var ErrQuotePackageCommandIsNotConstructed = errors.New(
	"QuotePackageCommand must be created via NewQuotePackageCommand constructor",
)

// QuotePackageCommand represents staff weighing an arrived package and
// pricing its onward journey. The origin country keys the rate catalog
// together with the package's warehouse and delivery type.
type QuotePackageCommand struct { //nolint:recvcheck //using for validation
	packageID         kernel.UUID
	staffID           kernel.UUID
	weight            float64
	originCountry     string
	offeredServiceIDs []kernel.UUID

	guard guard.ConstructorGuard
}

// NewQuotePackageCommand creates a command to quote an arrived package.
func NewQuotePackageCommand(
	packageID kernel.UUID,
	staffID kernel.UUID,
	weight float64,
	originCountry string,
	offeredServiceIDs []kernel.UUID,
) (QuotePackageCommand, error) {
	if err := errors.Join(packageID.Validate(), staffID.Validate()); err != nil {
		return QuotePackageCommand{}, err
	}
	if weight <= 0 {
		return QuotePackageCommand{}, errs.NewValueIsInvalidError("weight")
	}
	if originCountry == "" {
		return QuotePackageCommand{}, errs.NewValueIsRequiredError("originCountry")
	}
	for _, id := range offeredServiceIDs {
		if err := id.Validate(); err != nil {
			return QuotePackageCommand{}, err
		}
	}

	return QuotePackageCommand{
		packageID:         packageID,
		staffID:           staffID,
		weight:            weight,
		originCountry:     originCountry,
		offeredServiceIDs: offeredServiceIDs,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c QuotePackageCommand) Validate() error {
	return c.guard.Validate(ErrQuotePackageCommandIsNotConstructed)
}

// PackageID returns the package being quoted.
func (c QuotePackageCommand) PackageID() kernel.UUID { return c.packageID }

// StaffID returns the staff member performing the quote.
func (c QuotePackageCommand) StaffID() kernel.UUID { return c.staffID }

// Weight returns the measured weight in kg.
func (c QuotePackageCommand) Weight() float64 { return c.weight }

// OriginCountry returns the country the package shipped from.
func (c QuotePackageCommand) OriginCountry() string { return c.originCountry }

// OfferedServiceIDs returns the add-on services staff offer with the quote.
func (c QuotePackageCommand) OfferedServiceIDs() []kernel.UUID { return c.offeredServiceIDs }
