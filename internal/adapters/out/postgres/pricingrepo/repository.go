package pricingrepo

import (
	"context"
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/pricing"
	"forwarder/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPriceRuleRepository implements PriceRuleRepository using GORM.
type GormPriceRuleRepository struct {
	db *gorm.DB
}

// NewGormPriceRuleRepository creates a new GORM price rule repository.
func NewGormPriceRuleRepository(db *gorm.DB) *GormPriceRuleRepository {
	return &GormPriceRuleRepository{db: db}
}

// GetActiveForRoute retrieves the active price rules matching the route.
// An empty result is not an error; the price calculator decides whether an
// unpriced route aborts the quote.
func (r *GormPriceRuleRepository) GetActiveForRoute(
	ctx context.Context,
	originCountry string,
	warehouseID kernel.UUID,
	deliveryTypeID kernel.UUID,
) ([]*pricing.PriceRule, error) {
	if err := errors.Join(warehouseID.Validate(), deliveryTypeID.Validate()); err != nil {
		return nil, err
	}

	var dtos []PriceRuleDTO
	err := r.db.WithContext(ctx).Find(&dtos,
		"origin_country = ? AND warehouse_id = ? AND delivery_type_id = ? AND active",
		originCountry, warehouseID.Bytes(), deliveryTypeID.Bytes(),
	).Error
	if err != nil {
		return nil, err
	}

	rules := make([]*pricing.PriceRule, 0, len(dtos))
	for _, dto := range dtos {
		rule, toErr := priceRuleToDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// GormServiceRuleRepository implements ServiceRuleRepository using GORM.
type GormServiceRuleRepository struct {
	db *gorm.DB
}

// NewGormServiceRuleRepository creates a new GORM service rule repository.
func NewGormServiceRuleRepository(db *gorm.DB) *GormServiceRuleRepository {
	return &GormServiceRuleRepository{db: db}
}

// GetByIDs retrieves the service rules with the given IDs, keyed by ID.
// Missing IDs are simply absent from the map; the checkout treats an absent
// confirmed service as a hard error.
func (r *GormServiceRuleRepository) GetByIDs(
	ctx context.Context,
	ids []kernel.UUID,
) (map[kernel.UUID]*pricing.ServiceRule, error) {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []ServiceRuleDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "id IN ?", raw).Error; err != nil {
		return nil, err
	}

	rules := make(map[kernel.UUID]*pricing.ServiceRule, len(dtos))
	for _, dto := range dtos {
		rule, toErr := serviceRuleToDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		rules[rule.ID()] = rule
	}

	return rules, nil
}

// GetActiveForWarehouse retrieves the active service rules a warehouse can
// offer at quoting.
func (r *GormServiceRuleRepository) GetActiveForWarehouse(
	ctx context.Context,
	warehouseID kernel.UUID,
) ([]*pricing.ServiceRule, error) {
	if err := warehouseID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ServiceRuleDTO
	err := r.db.WithContext(ctx).Find(&dtos, "warehouse_id = ? AND active", warehouseID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	rules := make([]*pricing.ServiceRule, 0, len(dtos))
	for _, dto := range dtos {
		rule, toErr := serviceRuleToDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// GormSettingsRepository implements SettingsRepository using GORM.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GORM settings repository.
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get retrieves the operational settings row.
func (r *GormSettingsRepository) Get(ctx context.Context) (pricing.Settings, error) {
	var dto SettingsDTO
	if err := r.db.WithContext(ctx).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pricing.Settings{}, errs.NewObjectNotFoundError("settings", 1)
		}
		return pricing.Settings{}, err
	}

	return pricing.NewSettings(dto.FreeDepositDays, dto.CostPerKgDeposit)
}
