package models

import "time"

// Token entities share one validity rule: a token is usable iff its
// consumption/revocation marker is unset and, when an expiry exists, it lies
// in the future. Consumers re-evaluate the predicate on every use.

type Session struct {
	BaseModel
	UserID    string    `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	UserAgent string
	IP        string    `gorm:"type:varchar(45)"`
	ExpiresAt time.Time `gorm:"not null"`
	RevokedAt *time.Time
}

func (s *Session) Valid(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

type PasswordReset struct {
	BaseModel
	UserID     string    `gorm:"type:uuid;not null;index"`
	Token      string    `gorm:"not null;uniqueIndex"`
	ExpiresAt  time.Time `gorm:"not null"`
	ConsumedAt *time.Time
}

func (p *PasswordReset) Valid(now time.Time) bool {
	return p.ConsumedAt == nil && now.Before(p.ExpiresAt)
}

type EmailVerification struct {
	BaseModel
	UserID     string    `gorm:"type:uuid;not null;index"`
	Email      string    `gorm:"not null"`
	Token      string    `gorm:"not null;uniqueIndex"`
	ExpiresAt  time.Time `gorm:"not null"`
	ConsumedAt *time.Time
}

func (e *EmailVerification) Valid(now time.Time) bool {
	return e.ConsumedAt == nil && now.Before(e.ExpiresAt)
}

// CalendarIcsToken never expires; it is only ever revoked. Default reads go
// through scopes.ActiveIcsTokens, administrative reads use scopes.WithRevoked.
type CalendarIcsToken struct {
	BaseModel
	UserID    string `gorm:"type:uuid;not null;uniqueIndex"`
	Token     string `gorm:"not null;uniqueIndex"`
	RevokedAt *time.Time
}

func (c *CalendarIcsToken) Valid(now time.Time) bool {
	return c.RevokedAt == nil
}
