package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"markethub_backend/internal/models"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrExperienceNotFound = errors.New("experience entry not found")
)

type ProfileRepository interface {
	CreateProfile(db *gorm.DB, profile *models.Profile) error
	FindProfileByID(db *gorm.DB, id string) (*models.Profile, error)
	FindProfileByUserID(db *gorm.DB, userID string) (*models.Profile, error)

	AddEducation(db *gorm.DB, education *models.ProfileEducation) error
	ListEducation(db *gorm.DB, profileID string) ([]models.ProfileEducation, error)

	AddExperience(db *gorm.DB, experience *models.ProfileExperience) error
	// DeleteExperience soft-deletes; the row stays and is excluded from
	// default reads until restored.
	DeleteExperience(db *gorm.DB, id string) error
	RestoreExperience(db *gorm.DB, id string) error
	ListExperience(db *gorm.DB, profileID string, withDeleted bool) ([]models.ProfileExperience, error)

	// RecordView appends to the view log. viewerID is nil for anonymous views.
	RecordView(db *gorm.DB, profileID string, viewerID *string, source string) error
	CountViews(db *gorm.DB, profileID string) (int64, error)
	CountViewsSince(db *gorm.DB, profileID string, since time.Time) (int64, error)
}

type profileRepository struct{}

func NewProfileRepository() ProfileRepository {
	return &profileRepository{}
}

func (r *profileRepository) CreateProfile(db *gorm.DB, profile *models.Profile) error {
	return db.Create(profile).Error
}

func (r *profileRepository) FindProfileByID(db *gorm.DB, id string) (*models.Profile, error) {
	var profile models.Profile
	err := db.Preload("Education").Preload("Experience").
		Preload("Skills.SkillRef").Preload("Tags.TagRef").
		First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindProfileByUserID(db *gorm.DB, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) AddEducation(db *gorm.DB, education *models.ProfileEducation) error {
	return db.Create(education).Error
}

func (r *profileRepository) ListEducation(db *gorm.DB, profileID string) ([]models.ProfileEducation, error) {
	var entries []models.ProfileEducation
	err := db.Where("profile_id = ?", profileID).
		Order("start_year DESC").
		Find(&entries).Error
	return entries, err
}

func (r *profileRepository) AddExperience(db *gorm.DB, experience *models.ProfileExperience) error {
	return db.Create(experience).Error
}

func (r *profileRepository) DeleteExperience(db *gorm.DB, id string) error {
	result := db.Delete(&models.ProfileExperience{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrExperienceNotFound
	}
	return nil
}

func (r *profileRepository) RestoreExperience(db *gorm.DB, id string) error {
	result := db.Unscoped().Model(&models.ProfileExperience{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrExperienceNotFound
	}
	return nil
}

func (r *profileRepository) ListExperience(db *gorm.DB, profileID string, withDeleted bool) ([]models.ProfileExperience, error) {
	var entries []models.ProfileExperience
	query := db
	if withDeleted {
		query = query.Unscoped()
	}
	err := query.Where("profile_id = ?", profileID).
		Order("start_date DESC").
		Find(&entries).Error
	return entries, err
}

func (r *profileRepository) RecordView(db *gorm.DB, profileID string, viewerID *string, source string) error {
	return db.Create(&models.ProfileView{
		ProfileID: profileID,
		ViewerID:  viewerID,
		Source:    source,
	}).Error
}

func (r *profileRepository) CountViews(db *gorm.DB, profileID string) (int64, error) {
	var count int64
	err := db.Model(&models.ProfileView{}).
		Where("profile_id = ?", profileID).
		Count(&count).Error
	return count, err
}

func (r *profileRepository) CountViewsSince(db *gorm.DB, profileID string, since time.Time) (int64, error) {
	var count int64
	err := db.Model(&models.ProfileView{}).
		Where("profile_id = ? AND created_at >= ?", profileID, since).
		Count(&count).Error
	return count, err
}
