package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"markethub_backend/internal/models"
	"markethub_backend/pkg/apperrors"
)

var (
	// ErrIdempotencyConflict: same key, different request fingerprint.
	ErrIdempotencyConflict = errors.New("idempotency key reused with a different request hash")
	// ErrIdempotencyInFlight: the first request holding this key has not
	// stored a response yet. Duplicates are rejected, not blocked.
	ErrIdempotencyInFlight = errors.New("request with this idempotency key is still in flight")
	ErrIdempotencyNotFound = errors.New("idempotency record not found")
)

// BeginState tells the caller what Begin decided.
type BeginState int

const (
	// BeginStarted: first occurrence, record locked, caller must execute
	// and then Complete (or Abort on failure).
	BeginStarted BeginState = iota
	// BeginReplayed: a stored response exists; return it verbatim and do
	// not re-execute side effects.
	BeginReplayed
)

type IdempotencyRepository interface {
	// Begin claims (method, path, key) for the given request hash. See
	// BeginState for the contract on each outcome.
	Begin(db *gorm.DB, method, path, key, requestHash string) (*models.IdempotencyKey, BeginState, error)

	// Complete stores the response for replay and releases the lock.
	Complete(db *gorm.DB, id string, status int, body []byte) error

	// Abort discards a failed first execution so a retry starts fresh.
	Abort(db *gorm.DB, id string) error

	FindByKey(db *gorm.DB, method, path, key string) (*models.IdempotencyKey, error)

	// CleanCompletedBefore drops stored responses older than the cutoff.
	CleanCompletedBefore(db *gorm.DB, cutoff time.Time) (int64, error)
}

type idempotencyRepository struct{}

func NewIdempotencyRepository() IdempotencyRepository {
	return &idempotencyRepository{}
}

func (r *idempotencyRepository) Begin(db *gorm.DB, method, path, key, requestHash string) (*models.IdempotencyKey, BeginState, error) {
	now := time.Now()
	record := &models.IdempotencyKey{
		Method:      method,
		Path:        path,
		Key:         key,
		RequestHash: requestHash,
		LockedAt:    &now,
	}

	err := db.Create(record).Error
	if err == nil {
		return record, BeginStarted, nil
	}
	if !apperrors.IsUniqueViolation(err) {
		return nil, 0, err
	}

	// Someone got here first; the unique index rejected our insert
	// atomically. Decide between replay, conflict and in-flight.
	existing, ferr := r.FindByKey(db, method, path, key)
	if ferr != nil {
		return nil, 0, ferr
	}

	if existing.RequestHash != requestHash {
		return nil, 0, ErrIdempotencyConflict
	}
	if !existing.Completed() {
		return nil, 0, ErrIdempotencyInFlight
	}
	return existing, BeginReplayed, nil
}

func (r *idempotencyRepository) Complete(db *gorm.DB, id string, status int, body []byte) error {
	now := time.Now()
	result := db.Model(&models.IdempotencyKey{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"response_status": status,
			"response_body":   body,
			"locked_at":       nil,
			"completed_at":    now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrIdempotencyNotFound
	}
	return nil
}

func (r *idempotencyRepository) Abort(db *gorm.DB, id string) error {
	result := db.Delete(&models.IdempotencyKey{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrIdempotencyNotFound
	}
	return nil
}

func (r *idempotencyRepository) FindByKey(db *gorm.DB, method, path, key string) (*models.IdempotencyKey, error) {
	var record models.IdempotencyKey
	err := db.Where("method = ? AND path = ? AND key = ?", method, path, key).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdempotencyNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *idempotencyRepository) CleanCompletedBefore(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("completed_at IS NOT NULL AND completed_at < ?", cutoff).
		Delete(&models.IdempotencyKey{})
	return result.RowsAffected, result.Error
}
