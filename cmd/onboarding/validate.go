package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/journeyhouse/onboarding/internal/config"
	"github.com/journeyhouse/onboarding/internal/intake"
	"github.com/journeyhouse/onboarding/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a submission file against the intake rules",
	Long:  "Checks a submission JSON file against the onboarding schema and, unless --schema-only is set, the strict field rules applied by /api/intake.",
	RunE:  runValidate,
}

var (
	validateJSONPath   string
	validateSchemaOnly bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateJSONPath, "json", "j", "", "Path to submission JSON file (required)")
	validateCmd.Flags().BoolVar(&validateSchemaOnly, "schema-only", false, "Only check the JSON schema")

	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if validateSchemaOnly {
		err = schemas.ValidateFile(validateJSONPath)
	} else {
		var data []byte
		data, err = os.ReadFile(validateJSONPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", validateJSONPath, err)
		}
		_, err = intake.NewService(config.ValidationStrict).Submit(cmd.Context(), data, "")
	}

	out := cmd.OutOrStdout()
	var verr *schemas.ValidationError
	switch {
	case err == nil:
		fmt.Fprintln(out, "Validation passed")
		return nil
	case errors.As(err, &verr):
		fmt.Fprintln(out, "Validation failed:")
		for _, fe := range verr.Errors {
			fmt.Fprintf(out, "  - %s: %s\n", fe.Field, fe.Message)
		}
		return fmt.Errorf("%d validation error(s)", len(verr.Errors))
	default:
		return err
	}
}
