package repositories

import (
	"errors"

	"gorm.io/gorm"

	"markethub_backend/internal/models"
	"markethub_backend/pkg/apperrors"
)

var (
	ErrTagAlreadyAttached = errors.New("tag is already attached to this entity")
	ErrTagLinkNotFound    = errors.New("tag link not found")
)

// TagRepository covers both tag families: free-text tag rows on listings
// and the composite-key dictionary links on groups and profiles.
type TagRepository interface {
	AddGigTag(db *gorm.DB, gigID, tag string) (*models.GigTag, error)
	RemoveGigTag(db *gorm.DB, gigID, tag string) error
	ListGigTags(db *gorm.DB, gigID string) ([]models.GigTag, error)

	AddProjectTag(db *gorm.DB, projectID, tag string) (*models.ProjectTag, error)
	RemoveProjectTag(db *gorm.DB, projectID, tag string) error

	AddJobTag(db *gorm.DB, jobID, tag string) (*models.JobTag, error)
	AddApplicationTag(db *gorm.DB, applicationID, tag string) (*models.ApplicationTag, error)

	LinkGroupTag(db *gorm.DB, groupID, tagID string) error
	UnlinkGroupTag(db *gorm.DB, groupID, tagID string) error
	ListGroupTags(db *gorm.DB, groupID string) ([]models.GroupTag, error)

	LinkProfileSkill(db *gorm.DB, profileID, skillID string, level int) error
	UnlinkProfileSkill(db *gorm.DB, profileID, skillID string) error
	ListProfileSkills(db *gorm.DB, profileID string) ([]models.ProfileSkill, error)

	LinkProfileTag(db *gorm.DB, profileID, tagID string) error
	UnlinkProfileTag(db *gorm.DB, profileID, tagID string) error
}

type tagRepository struct{}

func NewTagRepository() TagRepository {
	return &tagRepository{}
}

func (r *tagRepository) AddGigTag(db *gorm.DB, gigID, tag string) (*models.GigTag, error) {
	row := &models.GigTag{GigID: gigID, Tag: tag}
	if err := db.Create(row).Error; err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrTagAlreadyAttached
		}
		return nil, err
	}
	return row, nil
}

func (r *tagRepository) RemoveGigTag(db *gorm.DB, gigID, tag string) error {
	result := db.Where("gig_id = ? AND tag = ?", gigID, tag).Delete(&models.GigTag{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTagLinkNotFound
	}
	return nil
}

func (r *tagRepository) ListGigTags(db *gorm.DB, gigID string) ([]models.GigTag, error) {
	var tags []models.GigTag
	err := db.Where("gig_id = ?", gigID).Order("tag ASC").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) AddProjectTag(db *gorm.DB, projectID, tag string) (*models.ProjectTag, error) {
	row := &models.ProjectTag{ProjectID: projectID, Tag: tag}
	if err := db.Create(row).Error; err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrTagAlreadyAttached
		}
		return nil, err
	}
	return row, nil
}

func (r *tagRepository) RemoveProjectTag(db *gorm.DB, projectID, tag string) error {
	result := db.Where("project_id = ? AND tag = ?", projectID, tag).Delete(&models.ProjectTag{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTagLinkNotFound
	}
	return nil
}

// Job and application tags carry no pair-uniqueness; duplicates are allowed
// by the schema and deduplicated by consumers where needed.

func (r *tagRepository) AddJobTag(db *gorm.DB, jobID, tag string) (*models.JobTag, error) {
	row := &models.JobTag{JobID: jobID, Tag: tag}
	if err := db.Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *tagRepository) AddApplicationTag(db *gorm.DB, applicationID, tag string) (*models.ApplicationTag, error) {
	row := &models.ApplicationTag{ApplicationID: applicationID, Tag: tag}
	if err := db.Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *tagRepository) LinkGroupTag(db *gorm.DB, groupID, tagID string) error {
	err := db.Create(&models.GroupTag{GroupID: groupID, TagID: tagID}).Error
	if apperrors.IsUniqueViolation(err) {
		return ErrTagAlreadyAttached
	}
	return err
}

func (r *tagRepository) UnlinkGroupTag(db *gorm.DB, groupID, tagID string) error {
	result := db.Where("group_id = ? AND tag_id = ?", groupID, tagID).Delete(&models.GroupTag{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTagLinkNotFound
	}
	return nil
}

func (r *tagRepository) ListGroupTags(db *gorm.DB, groupID string) ([]models.GroupTag, error) {
	var links []models.GroupTag
	err := db.Preload("TagRef").Where("group_id = ?", groupID).Find(&links).Error
	return links, err
}

func (r *tagRepository) LinkProfileSkill(db *gorm.DB, profileID, skillID string, level int) error {
	err := db.Create(&models.ProfileSkill{ProfileID: profileID, SkillID: skillID, Level: level}).Error
	if apperrors.IsUniqueViolation(err) {
		return ErrTagAlreadyAttached
	}
	return err
}

func (r *tagRepository) UnlinkProfileSkill(db *gorm.DB, profileID, skillID string) error {
	result := db.Where("profile_id = ? AND skill_id = ?", profileID, skillID).Delete(&models.ProfileSkill{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTagLinkNotFound
	}
	return nil
}

func (r *tagRepository) ListProfileSkills(db *gorm.DB, profileID string) ([]models.ProfileSkill, error) {
	var links []models.ProfileSkill
	err := db.Preload("SkillRef").Where("profile_id = ?", profileID).Find(&links).Error
	return links, err
}

func (r *tagRepository) LinkProfileTag(db *gorm.DB, profileID, tagID string) error {
	err := db.Create(&models.ProfileTag{ProfileID: profileID, TagID: tagID}).Error
	if apperrors.IsUniqueViolation(err) {
		return ErrTagAlreadyAttached
	}
	return err
}

func (r *tagRepository) UnlinkProfileTag(db *gorm.DB, profileID, tagID string) error {
	result := db.Where("profile_id = ? AND tag_id = ?", profileID, tagID).Delete(&models.ProfileTag{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTagLinkNotFound
	}
	return nil
}
