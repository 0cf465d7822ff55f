package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"markethub_backend/internal/models"
)

var (
	ErrStrikeNotFound  = errors.New("moderation strike not found")
	ErrInvalidSeverity = errors.New("severity must be between 1 and 3")
)

type ModerationRepository interface {
	IssueStrike(db *gorm.DB, strike *models.ModerationStrike) error
	// ActiveStrikes returns strikes that are neither revoked (soft-deleted)
	// nor past their expiry.
	ActiveStrikes(db *gorm.DB, userID string) ([]models.ModerationStrike, error)
	// RevokeStrike soft-deletes; the record stays for audit purposes.
	RevokeStrike(db *gorm.DB, id string) error
	StrikeHistory(db *gorm.DB, userID string) ([]models.ModerationStrike, error)

	// AppendAuditLog writes one immutable event row.
	AppendAuditLog(db *gorm.DB, entry *models.AuditLog) error
	FindAuditTrail(db *gorm.DB, entityType, entityID string) ([]models.AuditLog, error)
	FindAuditByActor(db *gorm.DB, actorID string, limit int) ([]models.AuditLog, error)
}

type moderationRepository struct{}

func NewModerationRepository() ModerationRepository {
	return &moderationRepository{}
}

func (r *moderationRepository) IssueStrike(db *gorm.DB, strike *models.ModerationStrike) error {
	if strike.Severity < 1 || strike.Severity > 3 {
		return ErrInvalidSeverity
	}
	return db.Create(strike).Error
}

func (r *moderationRepository) ActiveStrikes(db *gorm.DB, userID string) ([]models.ModerationStrike, error) {
	var strikes []models.ModerationStrike
	err := db.Where("user_id = ?", userID).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("created_at DESC").
		Find(&strikes).Error
	return strikes, err
}

func (r *moderationRepository) RevokeStrike(db *gorm.DB, id string) error {
	result := db.Delete(&models.ModerationStrike{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStrikeNotFound
	}
	return nil
}

func (r *moderationRepository) StrikeHistory(db *gorm.DB, userID string) ([]models.ModerationStrike, error) {
	var strikes []models.ModerationStrike
	err := db.Unscoped().Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&strikes).Error
	return strikes, err
}

func (r *moderationRepository) AppendAuditLog(db *gorm.DB, entry *models.AuditLog) error {
	return db.Create(entry).Error
}

func (r *moderationRepository) FindAuditTrail(db *gorm.DB, entityType, entityID string) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *moderationRepository) FindAuditByActor(db *gorm.DB, actorID string, limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := db.Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
