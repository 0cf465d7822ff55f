package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"markethub_backend/internal/models"
)

var (
	ErrTokenNotFound  = errors.New("token not found")
	ErrTokenNotUsable = errors.New("token is expired, consumed or revoked")
)

// TokenRepository covers the identity/session token entities. Every lookup
// of a usable token re-evaluates the validity predicate; there is no path
// that returns an expired, consumed or revoked token as active.
type TokenRepository interface {
	CreateSession(db *gorm.DB, session *models.Session) error
	FindActiveSession(db *gorm.DB, token string) (*models.Session, error)
	RevokeSession(db *gorm.DB, token string) error
	RevokeAllSessions(db *gorm.DB, userID string) error
	CleanExpiredSessions(db *gorm.DB) error

	CreatePasswordReset(db *gorm.DB, reset *models.PasswordReset) error
	// ConsumePasswordReset atomically marks a usable token consumed and
	// returns it; a second call with the same token fails.
	ConsumePasswordReset(db *gorm.DB, token string) (*models.PasswordReset, error)

	CreateEmailVerification(db *gorm.DB, verification *models.EmailVerification) error
	ConsumeEmailVerification(db *gorm.DB, token string) (*models.EmailVerification, error)

	CreateIcsToken(db *gorm.DB, icsToken *models.CalendarIcsToken) error
	// FindActiveIcsToken applies the default revoked-rows filter.
	FindActiveIcsToken(db *gorm.DB, token string) (*models.CalendarIcsToken, error)
	// FindIcsTokenWithRevoked is the explicit administrative override.
	FindIcsTokenWithRevoked(db *gorm.DB, token string) (*models.CalendarIcsToken, error)
	RevokeIcsToken(db *gorm.DB, token string) error
}

type tokenRepository struct{}

func NewTokenRepository() TokenRepository {
	return &tokenRepository{}
}

func (r *tokenRepository) CreateSession(db *gorm.DB, session *models.Session) error {
	return db.Create(session).Error
}

func (r *tokenRepository) FindActiveSession(db *gorm.DB, token string) (*models.Session, error) {
	var session models.Session
	err := db.Where("token = ? AND revoked_at IS NULL AND expires_at > ?", token, time.Now()).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *tokenRepository) RevokeSession(db *gorm.DB, token string) error {
	result := db.Model(&models.Session{}).
		Where("token = ? AND revoked_at IS NULL", token).
		Update("revoked_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *tokenRepository) RevokeAllSessions(db *gorm.DB, userID string) error {
	return db.Model(&models.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}

func (r *tokenRepository) CleanExpiredSessions(db *gorm.DB) error {
	return db.Where("expires_at < ?", time.Now()).Delete(&models.Session{}).Error
}

func (r *tokenRepository) CreatePasswordReset(db *gorm.DB, reset *models.PasswordReset) error {
	return db.Create(reset).Error
}

func (r *tokenRepository) ConsumePasswordReset(db *gorm.DB, token string) (*models.PasswordReset, error) {
	now := time.Now()

	// Single conditional update: only a currently-usable token is consumed,
	// so two concurrent consumers cannot both succeed.
	result := db.Model(&models.PasswordReset{}).
		Where("token = ?", token).
		Scopes(models.UsableTokens(now)).
		Update("consumed_at", now)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, r.classifyMiss(db, &models.PasswordReset{}, token)
	}

	var reset models.PasswordReset
	if err := db.Where("token = ?", token).First(&reset).Error; err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *tokenRepository) CreateEmailVerification(db *gorm.DB, verification *models.EmailVerification) error {
	return db.Create(verification).Error
}

func (r *tokenRepository) ConsumeEmailVerification(db *gorm.DB, token string) (*models.EmailVerification, error) {
	now := time.Now()

	result := db.Model(&models.EmailVerification{}).
		Where("token = ?", token).
		Scopes(models.UsableTokens(now)).
		Update("consumed_at", now)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, r.classifyMiss(db, &models.EmailVerification{}, token)
	}

	var verification models.EmailVerification
	if err := db.Where("token = ?", token).First(&verification).Error; err != nil {
		return nil, err
	}
	return &verification, nil
}

func (r *tokenRepository) CreateIcsToken(db *gorm.DB, icsToken *models.CalendarIcsToken) error {
	return db.Create(icsToken).Error
}

func (r *tokenRepository) FindActiveIcsToken(db *gorm.DB, token string) (*models.CalendarIcsToken, error) {
	var icsToken models.CalendarIcsToken
	err := db.Scopes(models.ActiveIcsTokens).
		Where("token = ?", token).
		First(&icsToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &icsToken, nil
}

func (r *tokenRepository) FindIcsTokenWithRevoked(db *gorm.DB, token string) (*models.CalendarIcsToken, error) {
	var icsToken models.CalendarIcsToken
	err := db.Scopes(models.WithRevoked).
		Where("token = ?", token).
		First(&icsToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &icsToken, nil
}

func (r *tokenRepository) RevokeIcsToken(db *gorm.DB, token string) error {
	result := db.Model(&models.CalendarIcsToken{}).
		Where("token = ? AND revoked_at IS NULL", token).
		Update("revoked_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// classifyMiss distinguishes "no such token" from "exists but not usable".
func (r *tokenRepository) classifyMiss(db *gorm.DB, model interface{}, token string) error {
	var count int64
	if err := db.Model(model).Where("token = ?", token).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrTokenNotFound
	}
	return ErrTokenNotUsable
}
