package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/journeyhouse/onboarding/internal/documents"
	"github.com/journeyhouse/onboarding/internal/logging"
	"github.com/journeyhouse/onboarding/internal/templates"
	"github.com/journeyhouse/onboarding/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Assemble documents from a submission file into a PDF",
	Long:  "Reads a document generation request (a submission plus documentTypes) from JSON and writes the combined PDF.",
	RunE:  runRender,
}

var (
	renderInput  string
	renderOutput string
	renderTypes  []string
)

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "in", "i", "", "Path to request JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Output PDF path or directory (default: generated filename in the current directory)")
	renderCmd.Flags().StringSliceVarP(&renderTypes, "types", "t", nil, "Document types to render, overriding documentTypes in the file")

	if err := renderCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewConsole(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	content, err := os.ReadFile(renderInput)
	if err != nil {
		return fmt.Errorf("failed to read request file: %w", err)
	}
	var sub types.Submission
	if err := json.Unmarshal(content, &sub); err != nil {
		return fmt.Errorf("failed to unmarshal request JSON: %w", err)
	}
	if len(renderTypes) > 0 {
		sub.DocumentTypes = renderTypes
	}

	ctx := cmd.Context()
	store, err := templates.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		return err
	}
	assembler := documents.NewAssembler(documents.NewRegistry(store, logger), logger)

	result, err := assembler.Assemble(ctx, &sub)
	if err != nil {
		return fmt.Errorf("failed to assemble documents: %w", err)
	}

	outPath := renderOutput
	switch {
	case outPath == "":
		outPath = result.Filename
	case strings.HasSuffix(outPath, string(os.PathSeparator)) || isDir(outPath):
		outPath = filepath.Join(outPath, result.Filename)
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, result.Bytes, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d documents, %d pages, %d bytes)\n",
		outPath, len(result.DocumentTypes), result.Pages, result.ContentLength)
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
