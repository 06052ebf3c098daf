package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/journeyhouse/onboarding/internal/config"
	"github.com/journeyhouse/onboarding/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the onboarding tables",
	Long:  "Applies the onboarding schema to DATABASE_URL. Tables that already exist are left untouched.",
	RunE:  runMigrate,
}

var (
	migrateDatabaseURL string
	migratePrint       bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL)")
	migrateCmd.Flags().BoolVar(&migratePrint, "print", false, "Print the schema instead of applying it")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	if migratePrint {
		fmt.Fprint(cmd.OutOrStdout(), db.Schema())
		return nil
	}

	databaseURL := migrateDatabaseURL
	if databaseURL == "" {
		// Migrations need no encryption key, so skip full validation.
		env, err := config.FromEnv()
		if err != nil {
			return err
		}
		databaseURL = env.DatabaseURL
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set and --db-url not provided")
	}

	database, err := db.Connect(cmd.Context(), databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Schema applied")
	return nil
}
