package documents

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/journeyhouse/onboarding/internal/logging"
	"github.com/journeyhouse/onboarding/internal/rendering"
	"github.com/journeyhouse/onboarding/internal/templates"
	"github.com/journeyhouse/onboarding/internal/types"
)

// TemplateLoader provides templates for Markdown-backed documents.
type TemplateLoader interface {
	Load(ctx context.Context, docType types.DocumentType) (*templates.Template, error)
}

// Registry maps document types to composers. Unregistered types use the
// unknown-type composer.
type Registry struct {
	composers map[types.DocumentType]Composer
	loader    TemplateLoader
	logger    *zap.Logger
	newID     func() string
}

// NewRegistry returns a registry with a composer for every known document type.
func NewRegistry(loader TemplateLoader, logger *zap.Logger) *Registry {
	r := &Registry{
		composers: make(map[types.DocumentType]Composer),
		loader:    loader,
		logger:    logging.OrNop(logger),
		newID:     uuid.NewString,
	}

	r.Register(types.DocIntakeForm, r.composeIntakeForm)
	r.Register(types.DocUnknown, r.composeUnknown)
	for _, docType := range types.KnownDocumentTypes {
		if !docType.IsMarkdownBacked() {
			continue
		}
		if docType == types.DocCriminalHistory {
			r.Register(docType, r.markdownComposer(criminalHistoryValues))
		} else {
			r.Register(docType, r.markdownComposer(baseValues))
		}
	}
	return r
}

// Register sets the composer for docType, replacing any existing one.
func (r *Registry) Register(docType types.DocumentType, c Composer) {
	r.composers[docType] = c
}

// Lookup returns the composer for docType.
func (r *Registry) Lookup(docType types.DocumentType) Composer {
	if c, ok := r.composers[docType]; ok {
		return c
	}
	return r.composers[types.DocUnknown]
}

// Compose runs the composer for req.Type. A panicking composer is reported as
// an error.
func (r *Registry) Compose(ctx context.Context, req *Request, sig *types.SignatureRecord) (elements []rendering.Element, err error) {
	defer func() {
		if p := recover(); p != nil {
			elements = nil
			err = fmt.Errorf("panic while composing %s: %v", req.Type, p)
		}
	}()
	return r.Lookup(req.Type)(ctx, req, sig)
}
