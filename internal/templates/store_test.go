package templates

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journeyhouse/onboarding/internal/config"
	"github.com/journeyhouse/onboarding/internal/types"
)

func TestEmbeddedStore_LoadsEveryTemplateBackedType(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(ctx, EmbeddedSource(), nil)
	require.NoError(t, err)

	for _, docType := range types.KnownDocumentTypes {
		if !docType.IsMarkdownBacked() {
			continue
		}
		t.Run(string(docType), func(t *testing.T) {
			tmpl, err := store.Load(ctx, docType)
			require.NoError(t, err)
			assert.Equal(t, docType, tmpl.Type)
			assert.NotEmpty(t, tmpl.Title)
			assert.NotEmpty(t, tmpl.Version)
			assert.Contains(t, tmpl.Body, "{{RESIDENT_NAME}}")
		})
	}

	require.NoError(t, store.Verify(ctx))
}

func TestEmbeddedStore_CriminalHistoryPlaceholders(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(ctx, EmbeddedSource(), nil)
	require.NoError(t, err)

	tmpl, err := store.Load(ctx, types.DocCriminalHistory)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{ResidentName, LegalStatusSummary, PendingCharges, Convictions, Date},
		Placeholders(tmpl.Body))
}

func TestStore_LoadUnregisteredType(t *testing.T) {
	store, err := NewStore(context.Background(), EmbeddedSource(), nil)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), types.DocIntakeForm)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "intake_form", nf.Type)
	assert.Empty(t, nf.File)
}

func TestDirSource_MissingFileIsNotFound(t *testing.T) {
	dir := t.TempDir()
	manifest := "templates:\n  - type: house_rules\n    title: House Rules\n    file: house_rules.md\n    version: \"1\"\n" +
		"  - type: ethics\n    title: Ethics\n    file: ethics.md\n    version: \"1\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(manifest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "house_rules.md"), []byte("# Rules for {{RESIDENT_NAME}}"), 0644))

	ctx := context.Background()
	store, err := NewStore(ctx, DirSource(dir), nil)
	require.NoError(t, err)

	tmpl, err := store.Load(ctx, types.DocHouseRules)
	require.NoError(t, err)
	assert.Equal(t, "# Rules for {{RESIDENT_NAME}}", tmpl.Body)

	_, err = store.Load(ctx, types.DocEthics)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ethics.md", nf.File)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	verifyErr := store.Verify(ctx)
	require.Error(t, verifyErr)
	assert.Contains(t, verifyErr.Error(), "ethics.md")
	assert.NotContains(t, verifyErr.Error(), "house_rules.md")
}

func TestNewStore_FallsBackToEmbeddedManifest(t *testing.T) {
	source := FSSource{FS: fstest.MapFS{
		"house_rules.md": {Data: []byte("# Custom house rules")},
	}, Label: "test"}

	ctx := context.Background()
	store, err := NewStore(ctx, source, nil)
	require.NoError(t, err)
	assert.Len(t, store.Entries(), 7)

	tmpl, err := store.Load(ctx, types.DocHouseRules)
	require.NoError(t, err)
	assert.Equal(t, "# Custom house rules", tmpl.Body)
}

func TestNewStore_InvalidManifest(t *testing.T) {
	source := FSSource{FS: fstest.MapFS{
		ManifestFile: {Data: []byte("templates: [")},
	}, Label: "test"}

	_, err := NewStore(context.Background(), source, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse template manifest")
}

func TestVerify_EmptyTemplate(t *testing.T) {
	source := FSSource{FS: fstest.MapFS{
		ManifestFile: {Data: []byte("templates:\n  - type: ethics\n    file: ethics.md\n")},
		"ethics.md":  {Data: []byte("  \n")},
	}, Label: "test"}

	store, err := NewStore(context.Background(), source, nil)
	require.NoError(t, err)
	err = store.Verify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
}

func TestNewFromConfig_Dir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ethics.md"), []byte("# Ethics"), 0644))

	store, err := NewFromConfig(context.Background(), &config.Config{TemplateDir: dir}, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(store.Source().String(), "dir:"))

	store, err = NewFromConfig(context.Background(), &config.Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "embedded", store.Source().String())
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		values map[string]string
		want   string
	}{
		{
			name:   "every occurrence",
			text:   "{{RESIDENT_NAME}} agrees. Signed, {{RESIDENT_NAME}}",
			values: map[string]string{ResidentName: "Jane Doe"},
			want:   "Jane Doe agrees. Signed, Jane Doe",
		},
		{
			name:   "unknown tokens kept",
			text:   "{{RESIDENT_NAME}} on {{DATE}}",
			values: map[string]string{ResidentName: "Jane"},
			want:   "Jane on {{DATE}}",
		},
		{
			name:   "values are not re-expanded",
			text:   "{{PENDING_CHARGES}}",
			values: map[string]string{PendingCharges: "{{RESIDENT_NAME}}", ResidentName: "Jane"},
			want:   "{{RESIDENT_NAME}}",
		},
		{
			name:   "nil values",
			text:   "plain {{X}}",
			values: nil,
			want:   "plain {{X}}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Substitute(tt.text, tt.values))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"A", "B_2"}, Placeholders("{{A}} {{B_2}} {{A}} {{lower}} {A}"))
	assert.Nil(t, Placeholders("none here"))
}

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"empty", "templates: []", "lists no templates"},
		{"intake form not template backed", "templates:\n  - type: intake_form\n    file: a.md\n", "not a template-backed"},
		{"unknown type", "templates:\n  - type: lease\n    file: a.md\n", "not a template-backed"},
		{"missing file", "templates:\n  - type: ethics\n", "file is required"},
		{"duplicate", "templates:\n  - type: ethics\n    file: a.md\n  - type: ethics\n    file: b.md\n", "more than once"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
