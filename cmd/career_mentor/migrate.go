package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-mentor/internal/db"
)

var (
	migrateConfig string
	migratePrint  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  "Create the users, quiz_results and career_paths tables in the database named by DATABASE_URL. Safe to run repeatedly.",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVarP(&migrateConfig, "config", "c", "", "Path to a JSON or YAML config file")
	migrateCmd.Flags().BoolVar(&migratePrint, "print", false, "Print the schema instead of applying it")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	if migratePrint {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), db.Schema())
		return err
	}

	cfg, err := loadConfig(migrateConfig, os.Getenv)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	database, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(cmd.Context()); err != nil {
		return err
	}
	logger.Info("database schema applied")
	return nil
}
