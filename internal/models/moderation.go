package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ModerationStrike struct {
	BaseModelWithDeleted
	UserID    string `gorm:"type:uuid;not null;index"`
	IssuedBy  string `gorm:"type:uuid;not null"`
	Reason    string `gorm:"type:text;not null"`
	Severity  int    `gorm:"not null;check:severity >= 1 AND severity <= 3"`
	ExpiresAt *time.Time
}

// AuditLog is append-only: rows carry no update timestamp and are never
// modified after insert. Actor and entity ids are stored without FK
// constraints so the log survives deletion of what it describes.
type AuditLog struct {
	ID         string         `gorm:"type:uuid;primaryKey"`
	ActorID    *string        `gorm:"type:uuid;index"`
	EntityType string         `gorm:"type:varchar(64);not null;index:idx_audit_entity,priority:1"`
	EntityID   string         `gorm:"type:uuid;not null;index:idx_audit_entity,priority:2"`
	Action     string         `gorm:"type:varchar(64);not null;index"`
	Metadata   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
