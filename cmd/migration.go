package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/schiang418/cyclescope-domain-api/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var migrationsPath string

func newMigrate() *migrate.Migrate {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.DB.Configured() {
		log.Fatalf("Database is not configured, set DATABASE_URL or database.host")
	}

	m, err := migrate.New(migrationsPath, cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}
	return m
}

func closeMigrate(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		log.Printf("Migration source error on close: %v\n", srcErr)
	}
	if dbErr != nil {
		log.Printf("Migration database error on close: %v\n", dbErr)
	}
}

func runMigrations(direction string) {
	m := newMigrate()
	defer closeMigrate(m)

	var migrationErr error
	switch direction {
	case "up":
		migrationErr = m.Up()
	case "down":
		migrationErr = m.Steps(-1)
	}

	if errors.Is(migrationErr, migrate.ErrNoChange) {
		fmt.Println("No migrations to apply.")
		return
	}
	if migrationErr != nil {
		log.Fatalf("Migration failed: %v", migrationErr)
	}

	if direction == "up" {
		fmt.Println("Applied migrations successfully.")
	} else {
		fmt.Println("Reverted last migration successfully.")
	}
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all available database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		runMigrations("up")
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the last database migration",
	Run: func(cmd *cobra.Command, args []string) {
		runMigrations("down")
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Run: func(cmd *cobra.Command, args []string) {
		m := newMigrate()
		defer closeMigrate(m)

		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("No migrations applied.")
			return
		}
		if err != nil {
			log.Fatalf("Failed to read schema version: %v", err)
		}
		fmt.Printf("Schema version %d (dirty: %t)\n", version, dirty)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrationsPath, "path", "file://migrations", "migration source URL")
	migrateCmd.AddCommand(upCmd)
	migrateCmd.AddCommand(downCmd)
	migrateCmd.AddCommand(versionCmd)
}
