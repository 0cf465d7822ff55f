package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"markethub_backend/database"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database schema management",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

Runs AutoMigrate for every entity, then applies all pending versioned
migrations in order. A failing migration halts the run; already-applied
migrations are skipped via the schema_migrations ledger.`,
	Run: func(cmd *cobra.Command, args []string) {
		db, err := database.ConnectGorm()
		if err != nil {
			fail(err)
		}
		if err := database.AutoMigrate(db); err != nil {
			fail(err)
		}
		applied, err := database.MigrateUp(db)
		if err != nil {
			fail(err)
		}
		fmt.Printf("applied %d migration(s)\n", applied)
	},
}

var dbDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback versioned migrations",
	Long: `Rollback the given number of versioned migrations (default: 1),
newest first. Each Down is the structural inverse of its Up, so the schema
returns to its pre-migration state.`,
	Run: func(cmd *cobra.Command, args []string) {
		steps := 1
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil {
				steps = n
			}
		}

		db, err := database.ConnectGorm()
		if err != nil {
			fail(err)
		}
		reverted, err := database.MigrateDown(db, steps)
		if err != nil {
			fail(err)
		}
		fmt.Printf("reverted %d migration(s)\n", reverted)
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which versioned migrations are applied",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := database.ConnectGorm()
		if err != nil {
			fail(err)
		}
		states, err := database.MigrationStatus(db)
		if err != nil {
			fail(err)
		}
		for _, s := range states {
			mark := " "
			if s.Applied {
				mark = "x"
			}
			fmt.Printf("[%s] %s\n", mark, s.ID)
		}
	},
}

func fail(err error) {
	fmt.Println("db command failed:", err)
	os.Exit(1)
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbDownCmd)
	dbCmd.AddCommand(dbStatusCmd)
	rootCmd.AddCommand(dbCmd)
}
