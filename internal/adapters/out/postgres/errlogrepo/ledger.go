// Package errlogrepo persists failures captured at the HTTP boundary so they
// can be inspected without access to process logs.
package errlogrepo

import (
	"context"
	"time"

	"forwarder/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrorEntryDTO represents one recorded failure.
type ErrorEntryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Subsystem string    `gorm:"index"`
	Endpoint  string
	Name      string
	Message   string
	Stack     string `gorm:"type:text"`
	UserID    string
	CreatedAt time.Time
}

// TableName specifies the database table name for error ledger rows.
func (ErrorEntryDTO) TableName() string {
	return "error_log"
}

// GormErrorLedger implements the error ledger port using GORM.
type GormErrorLedger struct {
	db *gorm.DB
}

// NewGormErrorLedger creates an error ledger backed by the error_log table.
func NewGormErrorLedger(db *gorm.DB) *GormErrorLedger {
	return &GormErrorLedger{db: db}
}

// Record appends one failure row. Recording is best effort; callers must not
// let a ledger failure mask the original error.
func (l *GormErrorLedger) Record(ctx context.Context, entry ports.ErrorEntry) error {
	dto := ErrorEntryDTO{
		ID:        uuid.New(),
		Subsystem: entry.Subsystem,
		Endpoint:  entry.Endpoint,
		Name:      entry.Name,
		Message:   entry.Message,
		Stack:     entry.Stack,
		UserID:    entry.UserID,
		CreatedAt: time.Now(),
	}

	return l.db.WithContext(ctx).Create(&dto).Error
}
