package parcelrepo

import (
	"context"
	"errors"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormParcelRepository implements ParcelRepository using GORM.
type GormParcelRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormParcelRepository creates a new GORM parcel repository.
func NewGormParcelRepository(db *gorm.DB, tracker aggregateTracker) *GormParcelRepository {
	return &GormParcelRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new parcel to the database.
func (r *GormParcelRepository) Add(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing parcel to the database.
func (r *GormParcelRepository) Update(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ParcelDTO{}).
		Omit("Services").
		Where("id = ?", dto.ID).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := r.replaceServices(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateWithStatusGuard saves an existing parcel only if its stored status
// still matches expected. A zero-row update means another writer advanced the
// parcel first; the caller gets ErrConcurrentModification and must not retry
// blindly.
func (r *GormParcelRepository) UpdateWithStatusGuard(
	ctx context.Context,
	aggregate *parcel.Parcel,
	expected parcel.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ParcelDTO{}).
		Omit("Services").
		Where("id = ? AND status = ?", dto.ID, expected.String()).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrentModificationError("parcel", aggregate.ID().String())
	}

	if err := r.replaceServices(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a parcel by ID.
func (r *GormParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("parcel", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByIDs retrieves the parcels with the given IDs. Missing IDs are not an
// error; callers decide whether an incomplete result aborts the operation.
func (r *GormParcelRepository) GetAllByIDs(ctx context.Context, ids []kernel.UUID) ([]*parcel.Parcel, error) {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []ParcelDTO
	if err := r.preloaded(ctx).Find(&dtos, "id IN ?", raw).Error; err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// GetAllByUser retrieves all parcels owned by the given customer.
func (r *GormParcelRepository) GetAllByUser(ctx context.Context, userID kernel.UUID) ([]*parcel.Parcel, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ParcelDTO
	if err := r.preloaded(ctx).Find(&dtos, "user_id = ?", userID.Bytes()).Error; err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// GetAllInStatus retrieves all parcels currently in the given status.
func (r *GormParcelRepository) GetAllInStatus(ctx context.Context, status parcel.Status) ([]*parcel.Parcel, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []ParcelDTO
	if err := r.preloaded(ctx).Find(&dtos, "status = ?", status.String()).Error; err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// replaceServices rewrites the parcel's service references. Confirmed services
// only appear at checkout, so the update path must be able to grow the set.
func (r *GormParcelRepository) replaceServices(ctx context.Context, dto ParcelDTO) error {
	err := r.db.WithContext(ctx).Where("parcel_id = ?", dto.ID).Delete(&ParcelServiceDTO{}).Error
	if err != nil {
		return err
	}
	if len(dto.Services) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&dto.Services).Error
}

func (r *GormParcelRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Services", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func (r *GormParcelRepository) toDomainAll(dtos []ParcelDTO) ([]*parcel.Parcel, error) {
	parcels := make([]*parcel.Parcel, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		parcels = append(parcels, aggregate)
	}
	return parcels, nil
}
