// Package pricingrepo provides read-side access to the rate catalog: price
// rules keyed by route, add-on service rules keyed by warehouse, and the
// operational settings row. The catalog is maintained out of band, so these
// repositories only read.
package pricingrepo

import (
	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/pricing"

	"github.com/google/uuid"
)

// PriceRuleDTO represents the database structure for route price rules.
type PriceRuleDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OriginCountry  string    `gorm:"index:idx_price_rules_route"`
	WarehouseID    uuid.UUID `gorm:"type:uuid;index:idx_price_rules_route"`
	DeliveryTypeID uuid.UUID `gorm:"type:uuid;index:idx_price_rules_route"`
	PriceType      string
	Value          float64
	Active         bool
}

// TableName specifies the database table name for price rules.
func (PriceRuleDTO) TableName() string {
	return "price_rules"
}

// ServiceRuleDTO represents the database structure for add-on service rules.
type ServiceRuleDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string
	WarehouseID uuid.UUID `gorm:"type:uuid;index"`
	PriceType   string
	Value       float64
	Required    bool
	Active      bool
}

// TableName specifies the database table name for service rules.
func (ServiceRuleDTO) TableName() string {
	return "service_rules"
}

// SettingsDTO represents the single operational settings row.
type SettingsDTO struct {
	ID               int `gorm:"primaryKey"`
	FreeDepositDays  int
	CostPerKgDeposit float64
}

// TableName specifies the database table name for operational settings.
func (SettingsDTO) TableName() string {
	return "settings"
}

// priceRuleToDomain converts a database DTO to a price rule.
func priceRuleToDomain(dto PriceRuleDTO) (*pricing.PriceRule, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	warehouseID, err := kernel.UUIDFromBytes(dto.WarehouseID[:])
	if err != nil {
		return nil, err
	}
	deliveryTypeID, err := kernel.UUIDFromBytes(dto.DeliveryTypeID[:])
	if err != nil {
		return nil, err
	}

	return pricing.NewPriceRule(
		id, dto.OriginCountry, warehouseID, deliveryTypeID,
		pricing.PriceType(dto.PriceType), dto.Value, dto.Active,
	)
}

// serviceRuleToDomain converts a database DTO to a service rule.
func serviceRuleToDomain(dto ServiceRuleDTO) (*pricing.ServiceRule, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	warehouseID, err := kernel.UUIDFromBytes(dto.WarehouseID[:])
	if err != nil {
		return nil, err
	}

	return pricing.NewServiceRule(
		id, dto.Name, warehouseID,
		pricing.ServicePriceType(dto.PriceType), dto.Value, dto.Required, dto.Active,
	)
}
