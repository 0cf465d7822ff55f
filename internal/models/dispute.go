package models

import (
	"time"

	"gorm.io/datatypes"
)

// Dispute pits a claimant against a respondent over a referenced entity.
// The reference is polymorphic: (ReferenceType, ReferenceID) with no FK at
// the schema level. See Reference for the resolution contract.
type Dispute struct {
	BaseModelWithDeleted
	ClaimantID    string        `gorm:"type:uuid;not null;index"`
	RespondentID  string        `gorm:"type:uuid;not null;index"`
	ReferenceType ReferenceKind `gorm:"type:varchar(32);not null;index:idx_disputes_reference,priority:1"`
	ReferenceID   string        `gorm:"type:uuid;not null;index:idx_disputes_reference,priority:2"`
	Reason        string        `gorm:"type:text;not null"`
	Status        DisputeStatus `gorm:"type:varchar(20);default:'open';index"`
	Resolution    *string       `gorm:"type:text"`
	ResolvedBy    *string       `gorm:"type:uuid"`
	// Set exactly when Status becomes terminal, never cleared.
	ResolvedAt *time.Time

	// Relations
	Evidence []DisputeEvidence `gorm:"foreignKey:DisputeID"`
	Messages []DisputeMessage  `gorm:"foreignKey:DisputeID"`
}

func (d *Dispute) IsResolved() bool {
	return d.Status == DisputeStatusResolved
}

type DisputeEvidence struct {
	BaseModelWithDeleted
	DisputeID   string         `gorm:"type:uuid;not null;index"`
	SubmittedBy string         `gorm:"type:uuid;not null;index"`
	Title       string         `gorm:"not null"`
	Description string         `gorm:"type:text"`
	Attachments datatypes.JSON `gorm:"type:jsonb"` // [{"name": ..., "url": ...}]
}

// DisputeMessage visibility controls counterpart readability: "party"
// messages are shown to both sides, "internal" only to staff. The schema
// stores the flag; filtering is the reader's responsibility (scopes.go).
type DisputeMessage struct {
	BaseModelWithDeleted
	DisputeID  string            `gorm:"type:uuid;not null;index"`
	SenderID   string            `gorm:"type:uuid;not null;index"`
	Body       string            `gorm:"type:text;not null"`
	Visibility MessageVisibility `gorm:"type:varchar(10);default:'party';index"`
	Metadata   datatypes.JSON    `gorm:"type:jsonb"`
}
