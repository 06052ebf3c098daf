package documents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/journeyhouse/onboarding/internal/rendering"
	"github.com/journeyhouse/onboarding/internal/templates"
	"github.com/journeyhouse/onboarding/internal/types"
)

// failingLoader serves the embedded templates except for the types in fail.
type failingLoader struct {
	store *templates.Store
	fail  map[types.DocumentType]error
}

func (l *failingLoader) Load(ctx context.Context, docType types.DocumentType) (*templates.Template, error) {
	if err, ok := l.fail[docType]; ok {
		return nil, err
	}
	return l.store.Load(ctx, docType)
}

func embeddedStore(t *testing.T) *templates.Store {
	t.Helper()
	store, err := templates.NewStore(context.Background(), templates.EmbeddedSource(), nil)
	require.NoError(t, err)
	return store
}

func newTestRegistry(t *testing.T, fail map[types.DocumentType]error) *Registry {
	t.Helper()
	r := NewRegistry(&failingLoader{store: embeddedStore(t), fail: fail}, nil)
	r.newID = func() string { return "doc-0001" }
	return r
}

var errTemplateGone = errors.New("template file is gone")

func boolPtr(b bool) *bool { return &b }

// texts returns the text of every element of kind k.
func texts(elements []rendering.Element, k rendering.Kind) []string {
	var out []string
	for _, e := range elements {
		if e.Kind == k {
			out = append(out, e.Text)
		}
	}
	return out
}

// after returns the elements following the first heading with text heading, up
// to the next heading.
func after(elements []rendering.Element, heading string) []rendering.Element {
	for i, e := range elements {
		if e.Kind != rendering.KindHeading || e.Text != heading {
			continue
		}
		var out []rendering.Element
		for _, next := range elements[i+1:] {
			if next.Kind == rendering.KindHeading || next.Kind == rendering.KindTitle {
				break
			}
			out = append(out, next)
		}
		return out
	}
	return nil
}

// stubLoader returns one fixed template for every type.
type stubLoader struct {
	title string
	body  string
}

func (l *stubLoader) Load(_ context.Context, docType types.DocumentType) (*templates.Template, error) {
	return &templates.Template{Type: docType, Title: l.title, Version: "test", Body: l.body}, nil
}
