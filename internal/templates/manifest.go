package templates

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/journeyhouse/onboarding/internal/types"
)

// ManifestFile is the name of the manifest inside every template source.
const ManifestFile = "manifest.yaml"

// Entry describes one Markdown-backed document.
type Entry struct {
	Type    types.DocumentType `yaml:"type"`
	Title   string             `yaml:"title"`
	File    string             `yaml:"file"`
	Version string             `yaml:"version"`
}

// Manifest lists the templates a source provides.
type Manifest struct {
	Templates []Entry `yaml:"templates"`
}

// ParseManifest decodes and checks a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse template manifest: %w", err)
	}
	if len(m.Templates) == 0 {
		return nil, fmt.Errorf("template manifest lists no templates")
	}

	seen := make(map[types.DocumentType]bool, len(m.Templates))
	for i, e := range m.Templates {
		if !e.Type.IsMarkdownBacked() {
			return nil, fmt.Errorf("template manifest entry %d: %q is not a template-backed document type", i, e.Type)
		}
		if e.File == "" {
			return nil, fmt.Errorf("template manifest entry %d (%s): file is required", i, e.Type)
		}
		if seen[e.Type] {
			return nil, fmt.Errorf("template manifest lists %s more than once", e.Type)
		}
		seen[e.Type] = true
	}
	return &m, nil
}

// Lookup returns the entry for a document type.
func (m *Manifest) Lookup(docType types.DocumentType) (Entry, bool) {
	for _, e := range m.Templates {
		if e.Type == docType {
			return e, true
		}
	}
	return Entry{}, false
}
