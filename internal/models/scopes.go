package models

import (
	"time"

	"gorm.io/gorm"
)

// Query scopes. Visibility filters are deliberate, per-call-site choices
// passed through db.Scopes(...) rather than ambient default scopes; "active"
// vs "all" stays visible in the calling code.

// ActiveIcsTokens hides revoked calendar tokens. This is the default filter
// for CalendarIcsToken reads.
func ActiveIcsTokens(db *gorm.DB) *gorm.DB {
	return db.Where("revoked_at IS NULL")
}

// WithRevoked is the explicit administrative override of ActiveIcsTokens.
func WithRevoked(db *gorm.DB) *gorm.DB {
	return db
}

// PartyVisible restricts dispute messages to those both parties may read.
func PartyVisible(db *gorm.DB) *gorm.DB {
	return db.Where("visibility = ?", MessageVisibilityParty)
}

// UsableTokens filters token rows by the shared validity predicate for
// entities with an expiry and a consumption marker.
func UsableTokens(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("consumed_at IS NULL AND expires_at > ?", now)
	}
}
