// Package templates provides the Markdown documents that are merged with
// submission data before rendering.
package templates

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/journeyhouse/onboarding/internal/config"
	"github.com/journeyhouse/onboarding/internal/logging"
	"github.com/journeyhouse/onboarding/internal/types"
)

// Placeholder names recognized in templates, written as {{NAME}}.
const (
	ResidentName       = "RESIDENT_NAME"
	LegalStatusSummary = "LEGAL_STATUS_SUMMARY"
	PendingCharges     = "PENDING_CHARGES"
	Convictions        = "CONVICTIONS"
	Date               = "DATE"
)

var placeholderPattern = regexp.MustCompile(`\{\{([A-Z][A-Z0-9_]*)\}\}`)

// Template is one loaded Markdown document.
type Template struct {
	Type    types.DocumentType
	Title   string
	Version string
	File    string
	Body    string
}

// Store resolves document types to templates. File contents are read on every
// Load; only the manifest is kept.
type Store struct {
	source   Source
	manifest *Manifest
	logger   *zap.Logger
}

// NewStore reads the manifest from source. A source without a manifest uses the
// embedded one, so a directory or bucket can override individual files.
func NewStore(ctx context.Context, source Source, logger *zap.Logger) (*Store, error) {
	logger = logging.OrNop(logger)

	data, err := source.ReadFile(ctx, ManifestFile)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("template source has no manifest, using embedded manifest",
			zap.Stringer("source", source))
		data, err = EmbeddedSource().ReadFile(ctx, ManifestFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template manifest from %s: %w", source, err)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	return &Store{source: source, manifest: manifest, logger: logger}, nil
}

// NewFromConfig picks the template source named by the configuration.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	var source Source
	switch {
	case cfg.TemplateBucket != "":
		s3Source, err := NewS3Source(cfg.AWSRegion, cfg.TemplateBucket, cfg.TemplatePrefix)
		if err != nil {
			return nil, err
		}
		source = s3Source
	case cfg.TemplateDir != "":
		source = DirSource(cfg.TemplateDir)
	default:
		source = EmbeddedSource()
	}
	return NewStore(ctx, source, logger)
}

// Source returns where templates are read from.
func (s *Store) Source() Source {
	return s.source
}

// Entries returns the manifest entries in manifest order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.manifest.Templates))
	copy(out, s.manifest.Templates)
	return out
}

// Load reads the template for docType.
func (s *Store) Load(ctx context.Context, docType types.DocumentType) (*Template, error) {
	entry, ok := s.manifest.Lookup(docType)
	if !ok {
		return nil, &NotFoundError{Type: string(docType)}
	}

	body, err := s.source.ReadFile(ctx, entry.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Type: string(docType), File: entry.File, Err: err}
		}
		return nil, fmt.Errorf("failed to read template %s: %w", entry.File, err)
	}

	s.logger.Debug("loaded template",
		zap.String("type", string(docType)),
		zap.String("version", entry.Version),
		zap.Int("bytes", len(body)))

	return &Template{
		Type:    entry.Type,
		Title:   entry.Title,
		Version: entry.Version,
		File:    entry.File,
		Body:    string(body),
	}, nil
}

// Verify loads every manifest entry concurrently and reports all that fail.
func (s *Store) Verify(ctx context.Context) error {
	var (
		mu   sync.Mutex
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, entry := range s.manifest.Templates {
		g.Go(func() error {
			tmpl, err := s.Load(gctx, entry.Type)
			if err == nil && strings.TrimSpace(tmpl.Body) == "" {
				err = fmt.Errorf("template %s is empty", entry.File)
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Substitute replaces every {{NAME}} token whose name is a key of values.
// Unknown tokens are left in place.
func Substitute(text string, values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", values[k])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Placeholders returns the distinct token names left in text, in order of appearance.
func Placeholders(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
