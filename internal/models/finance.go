package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Refund moves money back from an escrow. Amount is numeric(20,4); money
// never goes through binary floats. IdempotencyKey guards against a retried
// request creating a second refund for the same logical operation.
type Refund struct {
	BaseModel
	EscrowID       string          `gorm:"type:uuid;not null;index"`
	TransactionID  *string         `gorm:"type:uuid;index"`
	Amount         decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Currency       string          `gorm:"type:varchar(3);default:'USD'"`
	Reason         string          `gorm:"type:text"`
	Status         RefundStatus    `gorm:"type:varchar(20);default:'pending';index"`
	FailureReason  *string
	IdempotencyKey string     `gorm:"size:128;uniqueIndex;not null"`
	ProcessedAt    *time.Time // set when Status leaves pending
}

// RefundRequest predates Refund and keeps its free-text status.
type RefundRequest struct {
	BaseModel
	EscrowID    string          `gorm:"type:uuid;not null;index"`
	RequestedBy string          `gorm:"type:uuid;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Reason      string          `gorm:"type:text"`
	Status      string          `gorm:"type:varchar(50);default:'pending'"`
}

type PayoutRequest struct {
	BaseModel
	UserID      string          `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Currency    string          `gorm:"type:varchar(3);default:'USD'"`
	Destination string          // external account reference
	Status      string          `gorm:"type:varchar(50);default:'pending'"`
	PaidAt      *time.Time
}
