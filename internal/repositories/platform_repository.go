package repositories

import (
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"markethub_backend/internal/models"
	"markethub_backend/internal/validator"
)

var ErrSettingNotFound = errors.New("platform setting not found")

// PlatformRepository manages the one-or-few-row configuration tables and
// the append-only metric/search logs. JSONB payloads go through the typed
// shapes in models/platform.go and are validated before write.
type PlatformRepository interface {
	GetMarketplaceConfig(db *gorm.DB) (*models.MarketplaceConfig, error)
	UpdateCategories(db *gorm.DB, categories []models.CategoryEntry, updatedBy string) error
	UpdateFees(db *gorm.DB, fees models.FeeSchedule, updatedBy string) error
	UpdateRoles(db *gorm.DB, roles []models.RoleDefinition, updatedBy string) error

	SetSetting(db *gorm.DB, key string, value interface{}, updatedBy string) error
	GetSetting(db *gorm.DB, key string) (*models.PlatformSetting, error)

	RecordMetric(db *gorm.DB, metric *models.PlatformMetric) error
	RecordSearchQuery(db *gorm.DB, query *models.SearchQuery) error
}

type platformRepository struct {
	validate   *validator.Validator
	moderation ModerationRepository
}

func NewPlatformRepository() PlatformRepository {
	return &platformRepository{
		validate:   validator.New(),
		moderation: NewModerationRepository(),
	}
}

// GetMarketplaceConfig returns the singleton row, creating an empty one on
// first access.
func (r *platformRepository) GetMarketplaceConfig(db *gorm.DB) (*models.MarketplaceConfig, error) {
	var cfg models.MarketplaceConfig
	err := db.Order("created_at ASC").First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = models.MarketplaceConfig{}
		if err := db.Create(&cfg).Error; err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *platformRepository) UpdateCategories(db *gorm.DB, categories []models.CategoryEntry, updatedBy string) error {
	for _, c := range categories {
		if err := r.validate.Validate(c); err != nil {
			return err
		}
	}
	return r.updateConfigColumn(db, "categories", categories, updatedBy)
}

func (r *platformRepository) UpdateFees(db *gorm.DB, fees models.FeeSchedule, updatedBy string) error {
	if err := r.validate.Validate(fees); err != nil {
		return err
	}
	return r.updateConfigColumn(db, "fees", fees, updatedBy)
}

func (r *platformRepository) UpdateRoles(db *gorm.DB, roles []models.RoleDefinition, updatedBy string) error {
	for _, role := range roles {
		if err := r.validate.Validate(role); err != nil {
			return err
		}
	}
	return r.updateConfigColumn(db, "roles", roles, updatedBy)
}

func (r *platformRepository) updateConfigColumn(db *gorm.DB, column string, value interface{}, updatedBy string) error {
	cfg, err := r.GetMarketplaceConfig(db)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := db.Model(cfg).Updates(map[string]interface{}{
		column:       datatypes.JSON(payload),
		"updated_by": updatedBy,
	}).Error; err != nil {
		return err
	}

	// Configuration changes are audited.
	return r.moderation.AppendAuditLog(db, &models.AuditLog{
		ActorID:    &updatedBy,
		EntityType: "marketplace_config",
		EntityID:   cfg.ID,
		Action:     "update_" + column,
		Metadata:   datatypes.JSON(payload),
	})
}

func (r *platformRepository) SetSetting(db *gorm.DB, key string, value interface{}, updatedBy string) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var setting models.PlatformSetting
	err = db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&models.PlatformSetting{
			Key:       key,
			Value:     datatypes.JSON(payload),
			UpdatedBy: &updatedBy,
		}).Error
	}
	if err != nil {
		return err
	}

	return db.Model(&setting).Updates(map[string]interface{}{
		"value":      datatypes.JSON(payload),
		"updated_by": updatedBy,
	}).Error
}

func (r *platformRepository) GetSetting(db *gorm.DB, key string) (*models.PlatformSetting, error) {
	var setting models.PlatformSetting
	if err := db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return &setting, nil
}

func (r *platformRepository) RecordMetric(db *gorm.DB, metric *models.PlatformMetric) error {
	return db.Create(metric).Error
}

func (r *platformRepository) RecordSearchQuery(db *gorm.DB, query *models.SearchQuery) error {
	return db.Create(query).Error
}
