package models

import "time"

// IdempotencyKey stores the outcome of a previously served mutating request.
// (Method, Path, Key) identifies the logical operation; RequestHash is the
// sha256 of the body and detects the same key being reused for a different
// request. LockedAt marks an in-flight first execution; it is a
// mutual-exclusion hint, not a distributed lock.
type IdempotencyKey struct {
	BaseModel
	Method         string `gorm:"size:10;not null;uniqueIndex:uniq_idempotency_scope,priority:1"`
	Path           string `gorm:"size:255;not null;uniqueIndex:uniq_idempotency_scope,priority:2"`
	Key            string `gorm:"size:128;not null;uniqueIndex:uniq_idempotency_scope,priority:3"`
	RequestHash    string `gorm:"size:64;not null"`
	ResponseStatus int    // 0 until the first execution completes
	ResponseBody   []byte `gorm:"type:bytea"`
	LockedAt       *time.Time
	CompletedAt    *time.Time
}

// Completed reports whether a response has been stored for replay.
func (k *IdempotencyKey) Completed() bool {
	return k.CompletedAt != nil
}
