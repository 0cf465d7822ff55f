package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"markethub_backend/internal/config"
	"markethub_backend/internal/logger"
	"markethub_backend/internal/models"
)

var gormDB *gorm.DB

// ConnectGorm opens the shared GORM handle using the configured DSN.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate creates or updates the table for every entity.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.ProfileEducation{},
		&models.ProfileExperience{},
		&models.ProfileView{},
		&models.Gig{},
		&models.Job{},
		&models.Project{},
		&models.Application{},
		&models.Group{},
		&models.Connection{},
		// tag layer
		&models.Tag{},
		&models.Skill{},
		&models.ApplicationTag{},
		&models.JobTag{},
		&models.GigTag{},
		&models.ProjectTag{},
		&models.GroupTag{},
		&models.ProfileSkill{},
		&models.ProfileTag{},
		// disputes
		&models.Dispute{},
		&models.DisputeEvidence{},
		&models.DisputeMessage{},
		// finance
		&models.Refund{},
		&models.RefundRequest{},
		&models.PayoutRequest{},
		&models.IdempotencyKey{},
		// identity tokens
		&models.Session{},
		&models.PasswordReset{},
		&models.EmailVerification{},
		&models.CalendarIcsToken{},
		// moderation & platform
		&models.ModerationStrike{},
		&models.AuditLog{},
		&models.MarketplaceConfig{},
		&models.PlatformSetting{},
		&models.PlatformMetric{},
		&models.SearchQuery{},
	)

	if err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("auto-migrate completed")
	return nil
}
