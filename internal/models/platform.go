package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MarketplaceConfig is a one-row table holding the platform's nested
// configuration. The JSONB payloads are written through the typed shapes
// below (schema-on-write), never as raw blobs.
type MarketplaceConfig struct {
	BaseModel
	Categories datatypes.JSON `gorm:"type:jsonb"` // []CategoryEntry
	Fees       datatypes.JSON `gorm:"type:jsonb"` // FeeSchedule
	Roles      datatypes.JSON `gorm:"type:jsonb"` // []RoleDefinition
	UpdatedBy  *string        `gorm:"type:uuid"`
}

// CategoryEntry is the declared shape of one Categories element.
type CategoryEntry struct {
	Slug     string   `json:"slug" validate:"required,lowercase"`
	Label    string   `json:"label" validate:"required"`
	Children []string `json:"children,omitempty"`
}

// FeeSchedule is the declared shape of the Fees payload. Percentages are
// basis points to stay integral.
type FeeSchedule struct {
	ServiceFeeBps    int             `json:"service_fee_bps" validate:"min=0,max=10000"`
	ProcessingFeeBps int             `json:"processing_fee_bps" validate:"min=0,max=10000"`
	MinimumFee       decimal.Decimal `json:"minimum_fee"`
	Currency         string          `json:"currency" validate:"required,len=3"`
}

// RoleDefinition is the declared shape of one Roles element.
type RoleDefinition struct {
	Name        string   `json:"name" validate:"required"`
	Permissions []string `json:"permissions" validate:"required,min=1"`
}

type PlatformSetting struct {
	BaseModel
	Key       string         `gorm:"size:128;uniqueIndex;not null"`
	Value     datatypes.JSON `gorm:"type:jsonb"`
	UpdatedBy *string        `gorm:"type:uuid"`
}

type PlatformMetric struct {
	BaseModel
	Name   string          `gorm:"size:128;not null;uniqueIndex:uniq_metric_period,priority:1"`
	Period string          `gorm:"size:32;not null;uniqueIndex:uniq_metric_period,priority:2"` // e.g. "2026-08"
	Value  decimal.Decimal `gorm:"type:numeric(20,4);not null"`
}

// SearchQuery is an append-only log of what users searched for. UserID is
// nil for anonymous searches; rows carry no update timestamp.
type SearchQuery struct {
	ID          string         `gorm:"type:uuid;primaryKey"`
	UserID      *string        `gorm:"type:uuid;index"`
	Query       string         `gorm:"not null"`
	Filters     datatypes.JSON `gorm:"type:jsonb"`
	ResultCount int
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (SearchQuery) TableName() string {
	return "search_queries"
}

func (s *SearchQuery) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
