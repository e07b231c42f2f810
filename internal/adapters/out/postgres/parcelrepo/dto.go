// Package parcelrepo provides data transfer objects and mapping functions for
// parcel persistence. It implements the repository pattern for the parcel
// aggregate, handling the conversion between domain entities and database rows.
package parcelrepo

import (
	"time"

	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// Service ID slots on a parcel: staff offer services at quoting, the customer
// confirms a subset at checkout.
const (
	serviceKindOffered   = "offered"
	serviceKindConfirmed = "confirmed"
)

// ParcelDTO represents the database structure for persisting parcel
// aggregates. The lifecycle status is stored in its human-readable string
// form, which is also the representation the reporting queries filter on.
type ParcelDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingNumber string     `gorm:"index"`
	UserID         uuid.UUID  `gorm:"type:uuid;index"`
	StaffID        *uuid.UUID `gorm:"type:uuid"`
	WarehouseID    uuid.UUID  `gorm:"type:uuid;index"`

	DeliveryMode     string
	DeliveryTypeID   *uuid.UUID `gorm:"type:uuid"`
	ShippedTo        AddressDTO `gorm:"embedded;embeddedPrefix:shipped_to_"`
	PickupLocationID *uuid.UUID `gorm:"type:uuid"`

	Weight        float64
	DeclaredValue *float64
	DeclaredType  string

	ShippingCost float64
	FlatRate     float64

	InvoiceID  *uuid.UUID `gorm:"type:uuid"`
	ShipmentID *uuid.UUID `gorm:"type:uuid;index"`

	Status string `gorm:"index"`

	CreatedAt        time.Time
	ArrivedAt        *time.Time
	PaidAt           *time.Time
	ReadyToShipAt    *time.Time
	OutForDeliveryAt *time.Time
	ShippedAt        *time.Time
	PickedUpAt       *time.Time

	Services []ParcelServiceDTO `gorm:"foreignKey:ParcelID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for parcel entities.
func (ParcelDTO) TableName() string {
	return "parcels"
}

// AddressDTO represents the embedded destination address within the parcels
// table. All columns are empty for Pickup-mode parcels; the delivery mode
// decides whether the address is reconstructed.
type AddressDTO struct {
	Name    string
	Street  string
	State   string
	City    string
	Zipcode string
	Country string
}

// ParcelServiceDTO represents one add-on service reference on a parcel, with
// the slot it belongs to and its original ordering.
type ParcelServiceDTO struct {
	ParcelID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	ServiceID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind      string    `gorm:"primaryKey"`
	Position  int
}

// TableName specifies the database table name for parcel service references.
func (ParcelServiceDTO) TableName() string {
	return "parcel_services"
}

// fromDomain converts a parcel domain aggregate to its database representation.
func fromDomain(aggregate *parcel.Parcel) ParcelDTO {
	dto := ParcelDTO{
		ID:               aggregate.ID().Bytes(),
		TrackingNumber:   aggregate.TrackingNumber(),
		UserID:           aggregate.UserID().Bytes(),
		StaffID:          optionalUUID(aggregate.StaffID()),
		WarehouseID:      aggregate.WarehouseID().Bytes(),
		DeliveryMode:     string(aggregate.DeliveryMode()),
		DeliveryTypeID:   optionalUUID(aggregate.DeliveryTypeID()),
		PickupLocationID: optionalUUID(aggregate.PickupLocationID()),
		Weight:           aggregate.Weight(),
		DeclaredValue:    aggregate.DeclaredValue(),
		DeclaredType:     aggregate.DeclaredType(),
		ShippingCost:     aggregate.ShippingCost(),
		FlatRate:         aggregate.FlatRate(),
		InvoiceID:        optionalUUID(aggregate.InvoiceID()),
		ShipmentID:       optionalUUID(aggregate.ShipmentID()),
		Status:           aggregate.Status().String(),
		CreatedAt:        aggregate.CreatedAt(),
		ArrivedAt:        aggregate.ArrivedAt(),
		PaidAt:           aggregate.PaidAt(),
		ReadyToShipAt:    aggregate.ReadyToShipAt(),
		OutForDeliveryAt: aggregate.OutForDeliveryAt(),
		ShippedAt:        aggregate.ShippedAt(),
		PickedUpAt:       aggregate.PickedUpAt(),
	}

	if addr := aggregate.ShippedTo(); addr != nil {
		dto.ShippedTo = AddressDTO{
			Name:    addr.Name(),
			Street:  addr.Street(),
			State:   addr.State(),
			City:    addr.City(),
			Zipcode: addr.Zipcode(),
			Country: addr.Country(),
		}
	}

	for i, serviceID := range aggregate.OfferedServiceIDs() {
		dto.Services = append(dto.Services, ParcelServiceDTO{
			ParcelID:  dto.ID,
			ServiceID: serviceID.Bytes(),
			Kind:      serviceKindOffered,
			Position:  i,
		})
	}
	for i, serviceID := range aggregate.ConfirmedServiceIDs() {
		dto.Services = append(dto.Services, ParcelServiceDTO{
			ParcelID:  dto.ID,
			ServiceID: serviceID.Bytes(),
			Kind:      serviceKindConfirmed,
			Position:  i,
		})
	}

	return dto
}

// toDomain converts a database DTO to a parcel domain aggregate using
// RestoreParcel. Service references must be preloaded ordered by position.
func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	warehouseID, err := kernel.UUIDFromBytes(dto.WarehouseID[:])
	if err != nil {
		return nil, err
	}

	staffID, err := domainUUID(dto.StaffID)
	if err != nil {
		return nil, err
	}
	deliveryTypeID, err := domainUUID(dto.DeliveryTypeID)
	if err != nil {
		return nil, err
	}
	pickupLocationID, err := domainUUID(dto.PickupLocationID)
	if err != nil {
		return nil, err
	}
	invoiceID, err := domainUUID(dto.InvoiceID)
	if err != nil {
		return nil, err
	}
	shipmentID, err := domainUUID(dto.ShipmentID)
	if err != nil {
		return nil, err
	}

	status, err := parcel.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	mode := parcel.DeliveryMode(dto.DeliveryMode)

	var shippedTo *kernel.Address
	if mode == parcel.ModeDelivery {
		addr, addrErr := kernel.NewAddress(
			dto.ShippedTo.Name, dto.ShippedTo.Street, dto.ShippedTo.State,
			dto.ShippedTo.City, dto.ShippedTo.Zipcode, dto.ShippedTo.Country,
		)
		if addrErr != nil {
			return nil, addrErr
		}
		shippedTo = &addr
	}

	var offered, confirmed []kernel.UUID
	for _, service := range dto.Services {
		serviceID, serviceErr := kernel.UUIDFromBytes(service.ServiceID[:])
		if serviceErr != nil {
			return nil, serviceErr
		}
		if service.Kind == serviceKindConfirmed {
			confirmed = append(confirmed, serviceID)
		} else {
			offered = append(offered, serviceID)
		}
	}

	return parcel.RestoreParcel(
		id, dto.TrackingNumber, userID, staffID, warehouseID,
		mode, deliveryTypeID, shippedTo, pickupLocationID,
		dto.Weight, dto.DeclaredValue, dto.DeclaredType, offered, confirmed,
		dto.ShippingCost, dto.FlatRate, invoiceID, shipmentID,
		status, dto.CreatedAt,
		dto.ArrivedAt, dto.PaidAt, dto.ReadyToShipAt, dto.OutForDeliveryAt,
		dto.ShippedAt, dto.PickedUpAt,
	)
}

func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func domainUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
