package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/journeyhouse/onboarding/internal/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the document templates and check that they load",
	RunE:  runTemplates,
}

var templatesVerify bool

func init() {
	templatesCmd.Flags().BoolVar(&templatesVerify, "verify", false, "Load every template and report failures")
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := templates.NewFromConfig(cmd.Context(), cfg, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Source: %s\n\n", store.Source())

	fmt.Fprintln(out, templateTable(store.Entries()))

	if !templatesVerify {
		return nil
	}
	if err := store.Verify(cmd.Context()); err != nil {
		return fmt.Errorf("template verification failed: %w", err)
	}
	fmt.Fprintln(out, "\nAll templates loaded")
	return nil
}

var (
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = cellStyle.Bold(true)
)

func templateTable(entries []templates.Entry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TYPE", "VERSION", "FILE", "TITLE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, e := range entries {
		t.Row(string(e.Type), e.Version, e.File, e.Title)
	}
	return t.Render()
}
