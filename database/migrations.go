package database

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"markethub_backend/internal/logger"
	"markethub_backend/pkg/apperrors"
)

// Migration is one versioned schema change. Down must be the exact
// structural inverse of Up, releasing objects in reverse creation order,
// so apply+revert leaves the schema as it was.
type Migration struct {
	ID   string
	Up   func(tx *gorm.DB) error
	Down func(tx *gorm.DB) error
}

// SchemaMigration is the persisted ledger of applied migrations.
type SchemaMigration struct {
	ID        string    `gorm:"primaryKey;size:64"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// Migrations returns the registered list in apply order.
func Migrations() []Migration {
	return []Migration{
		addConnectionIndexes,
	}
}

// MigrateUp applies every pending migration in ID order. Each migration
// runs in its own transaction; a failure halts the run without touching
// later migrations. Returns the number applied.
func MigrateUp(db *gorm.DB) (int, error) {
	return ApplyMigrations(db, Migrations())
}

// ApplyMigrations is MigrateUp over an explicit list.
func ApplyMigrations(db *gorm.DB, migrations []Migration) (int, error) {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return 0, fmt.Errorf("failed to prepare migration ledger: %w", err)
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].ID < migrations[j].ID })

	applied := 0
	for _, m := range migrations {
		done, err := isApplied(db, m.ID)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{ID: m.ID}).Error
		})
		logger.MigrationLog(m.ID, "up", err)
		if err != nil {
			return applied, apperrors.ErrMigrationFailed(err, m.ID)
		}
		applied++
	}

	return applied, nil
}

// MigrateDown reverts the last `steps` applied migrations, newest first.
func MigrateDown(db *gorm.DB, steps int) (int, error) {
	return RevertMigrations(db, Migrations(), steps)
}

// RevertMigrations is MigrateDown over an explicit list.
func RevertMigrations(db *gorm.DB, migrations []Migration, steps int) (int, error) {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return 0, fmt.Errorf("failed to prepare migration ledger: %w", err)
	}

	byID := make(map[string]Migration, len(migrations))
	for _, m := range migrations {
		byID[m.ID] = m
	}

	var ledger []SchemaMigration
	if err := db.Order("id DESC").Find(&ledger).Error; err != nil {
		return 0, err
	}

	reverted := 0
	for _, entry := range ledger {
		if reverted >= steps {
			break
		}

		m, ok := byID[entry.ID]
		if !ok {
			return reverted, fmt.Errorf("migration %s is applied but not registered", entry.ID)
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&SchemaMigration{}, "id = ?", m.ID).Error
		})
		logger.MigrationLog(m.ID, "down", err)
		if err != nil {
			return reverted, apperrors.ErrMigrationFailed(err, m.ID)
		}
		reverted++
	}

	return reverted, nil
}

// MigrationState pairs a registered migration with its ledger status.
type MigrationState struct {
	ID      string
	Applied bool
}

// MigrationStatus lists registered migrations in apply order with their
// applied flag.
func MigrationStatus(db *gorm.DB) ([]MigrationState, error) {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return nil, fmt.Errorf("failed to prepare migration ledger: %w", err)
	}

	migrations := Migrations()
	states := make([]MigrationState, 0, len(migrations))
	for _, m := range migrations {
		done, err := isApplied(db, m.ID)
		if err != nil {
			return nil, err
		}
		states = append(states, MigrationState{ID: m.ID, Applied: done})
	}
	return states, nil
}

func isApplied(db *gorm.DB, id string) (bool, error) {
	var count int64
	err := db.Model(&SchemaMigration{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// addConnectionIndexes backfills the composite and lookup indexes on
// connections. deleted_at participates in the unique pair so a soft-deleted
// connection frees the pair for a new request.
var addConnectionIndexes = Migration{
	ID: "20240115000000_add_connection_indexes",
	Up: func(tx *gorm.DB) error {
		stmts := []string{
			`CREATE UNIQUE INDEX connections_unique_pair ON connections (requester_id, addressee_id, deleted_at)`,
			`CREATE INDEX idx_connections_status ON connections (status)`,
			`CREATE INDEX idx_connections_created_at ON connections (created_at)`,
		}
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	},
	Down: func(tx *gorm.DB) error {
		// Reverse creation order.
		stmts := []string{
			`DROP INDEX idx_connections_created_at`,
			`DROP INDEX idx_connections_status`,
			`DROP INDEX connections_unique_pair`,
		}
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	},
}
