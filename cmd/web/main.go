package main

import (
	"markethub_backend/database"
	"markethub_backend/internal/config"
	"markethub_backend/internal/logger"
)

func main() {
	config.LoadConfig()
	logger.Init(config.GetConfig().Server.Env)

	db, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("auto-migrate failed", "error", err)
	}

	applied, err := database.MigrateUp(db)
	if err != nil {
		logger.Fatal("migrations failed", "error", err)
	}
	logger.Info("database ready", "migrations_applied", applied)
}
