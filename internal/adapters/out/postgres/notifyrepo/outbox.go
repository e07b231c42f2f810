// Package notifyrepo implements the notifier port as a transactional outbox.
// Notifications are written as pending rows; message rendering and delivery
// live in a separate sender process, which polls GetPending and acknowledges
// delivery with MarkSent. Nothing in this service consumes those two methods.
package notifyrepo

import (
	"context"
	"time"

	"forwarder/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationDTO represents one outbox row. SentAt stays nil until the
// notification has been delivered.
type NotificationDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Event      string     `gorm:"index"`
	UserID     uuid.UUID  `gorm:"type:uuid;index"`
	ParcelID   *uuid.UUID `gorm:"type:uuid"`
	ShipmentID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time
	SentAt     *time.Time `gorm:"index"`
}

// TableName specifies the database table name for notification outbox rows.
func (NotificationDTO) TableName() string {
	return "notifications"
}

// OutboxNotifier implements the notifier port by appending outbox rows.
type OutboxNotifier struct {
	db *gorm.DB
}

// NewOutboxNotifier creates a notifier backed by the notifications table.
func NewOutboxNotifier(db *gorm.DB) *OutboxNotifier {
	return &OutboxNotifier{db: db}
}

// Notify appends a pending notification row. Callers treat failures as
// non-fatal.
func (n *OutboxNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	dto := NotificationDTO{
		ID:        uuid.New(),
		Event:     string(notification.Event),
		UserID:    notification.UserID.Bytes(),
		CreatedAt: time.Now(),
	}
	if notification.ParcelID != nil {
		raw := notification.ParcelID.Bytes()
		dto.ParcelID = &raw
	}
	if notification.ShipmentID != nil {
		raw := notification.ShipmentID.Bytes()
		dto.ShipmentID = &raw
	}

	return n.db.WithContext(ctx).Create(&dto).Error
}

// GetPending returns the oldest undelivered notifications, capped at limit.
func (n *OutboxNotifier) GetPending(ctx context.Context, limit int) ([]NotificationDTO, error) {
	var dtos []NotificationDTO
	err := n.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return dtos, nil
}

// MarkSent stamps the given notifications as delivered.
func (n *OutboxNotifier) MarkSent(ctx context.Context, ids []uuid.UUID, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return n.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("id IN ?", ids).
		Update("sent_at", now).Error
}
