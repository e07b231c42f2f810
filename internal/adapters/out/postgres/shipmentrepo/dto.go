// Package shipmentrepo provides data transfer objects and mapping functions
// for shipment persistence. The shipment's package membership is the
// authoritative side of the shipment-package relation and is stored in its own
// table, ordered as bundled at checkout.
package shipmentrepo

import (
	"time"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// ShipmentDTO represents the database structure for persisting shipment
// aggregates.
type ShipmentDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentUID string    `gorm:"index"`

	DeliveryMode string
	WarehouseID  uuid.UUID `gorm:"type:uuid"`
	UserID       uuid.UUID `gorm:"type:uuid;index"`

	InvoiceID     uuid.UUID `gorm:"type:uuid"`
	TransactionID uuid.UUID `gorm:"type:uuid;index"`

	CourierJobID string

	Status string `gorm:"index"`

	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	Packages []ShipmentPackageDTO `gorm:"foreignKey:ShipmentID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for shipment entities.
func (ShipmentDTO) TableName() string {
	return "shipments"
}

// ShipmentPackageDTO represents one member package of a shipment.
type ShipmentPackageDTO struct {
	ShipmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	PackageID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position   int
}

// TableName specifies the database table name for shipment membership rows.
func (ShipmentPackageDTO) TableName() string {
	return "shipment_packages"
}

// fromDomain converts a shipment domain aggregate to its database representation.
func fromDomain(aggregate *shipment.Shipment) ShipmentDTO {
	dto := ShipmentDTO{
		ID:            aggregate.ID().Bytes(),
		ShipmentUID:   aggregate.ShipmentUID(),
		DeliveryMode:  string(aggregate.DeliveryMode()),
		WarehouseID:   aggregate.WarehouseID().Bytes(),
		UserID:        aggregate.UserID().Bytes(),
		InvoiceID:     aggregate.InvoiceID().Bytes(),
		TransactionID: aggregate.TransactionID().Bytes(),
		CourierJobID:  aggregate.CourierJobID(),
		Status:        aggregate.Status().String(),
		CreatedAt:     aggregate.CreatedAt(),
		StartedAt:     aggregate.StartedAt(),
		CompletedAt:   aggregate.CompletedAt(),
	}

	for i, packageID := range aggregate.PackageIDs() {
		dto.Packages = append(dto.Packages, ShipmentPackageDTO{
			ShipmentID: dto.ID,
			PackageID:  packageID.Bytes(),
			Position:   i,
		})
	}

	return dto
}

// toDomain converts a database DTO to a shipment domain aggregate using
// RestoreShipment. Membership rows must be preloaded ordered by position.
func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	warehouseID, err := kernel.UUIDFromBytes(dto.WarehouseID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	invoiceID, err := kernel.UUIDFromBytes(dto.InvoiceID[:])
	if err != nil {
		return nil, err
	}
	transactionID, err := kernel.UUIDFromBytes(dto.TransactionID[:])
	if err != nil {
		return nil, err
	}

	status, err := shipment.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	packageIDs := make([]kernel.UUID, 0, len(dto.Packages))
	for _, member := range dto.Packages {
		packageID, memberErr := kernel.UUIDFromBytes(member.PackageID[:])
		if memberErr != nil {
			return nil, memberErr
		}
		packageIDs = append(packageIDs, packageID)
	}

	return shipment.RestoreShipment(
		id, dto.ShipmentUID, packageIDs, parcel.DeliveryMode(dto.DeliveryMode),
		warehouseID, userID, invoiceID, transactionID,
		dto.CourierJobID, status, dto.CreatedAt, dto.StartedAt, dto.CompletedAt,
	)
}
