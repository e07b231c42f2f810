package pricing

import (
	"errors"

	"forwarder/internal/pkg/errs"
)

// ErrSettingsIsNotConstructed is returned when a Settings instance was not
// created through NewSettings.
var ErrSettingsIsNotConstructed = errors.New("Settings must be created via NewSettings")

// Settings carries the operational values driving storage-fee accrual.
// It is loaded per warehouse scope and passed explicitly into the checkout
// calculation.
type Settings struct {
	freeDepositDays  int
	costPerKgDeposit float64

	isConstructed bool
}

// NewSettings creates a validated Settings value.
func NewSettings(freeDepositDays int, costPerKgDeposit float64) (Settings, error) {
	if freeDepositDays < 0 {
		return Settings{}, errs.NewValueIsInvalidError("freeDepositDays")
	}
	if costPerKgDeposit < 0 {
		return Settings{}, errs.NewValueIsInvalidError("costPerKgDeposit")
	}

	return Settings{
		freeDepositDays:  freeDepositDays,
		costPerKgDeposit: costPerKgDeposit,
		isConstructed:    true,
	}, nil
}

// Validate ensures the Settings instance was properly constructed.
func (s Settings) Validate() error {
	if !s.isConstructed {
		return ErrSettingsIsNotConstructed
	}
	return nil
}

// FreeDepositDays returns the number of storage days free of charge.
func (s Settings) FreeDepositDays() int { return s.freeDepositDays }

// CostPerKgDeposit returns the storage fee per kg per chargeable day.
func (s Settings) CostPerKgDeposit() float64 { return s.costPerKgDeposit }

// StorageFee returns the fee accrued by a package of the given weight stored
// for the given number of days. Days within the free allowance cost nothing.
func (s Settings) StorageFee(weight float64, daysStored int) float64 {
	chargeable := daysStored - s.freeDepositDays
	if chargeable <= 0 {
		return 0
	}
	return s.costPerKgDeposit * weight * float64(chargeable)
}
