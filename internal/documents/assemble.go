package documents

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/journeyhouse/onboarding/internal/logging"
	"github.com/journeyhouse/onboarding/internal/rendering"
	"github.com/journeyhouse/onboarding/internal/types"
)

// minPDFSize is the size below which output is logged as suspect.
const minPDFSize = 100

var (
	unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_-]+`)
	nonASCIIChars       = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)
)

// ResolveDocumentTypes returns the ordered tags to render. An empty list falls
// back to legacy. The digital signature consent appears exactly once and last;
// other tags keep their relative order.
func ResolveDocumentTypes(list []string, legacy string) ([]string, error) {
	requested := make([]string, 0, len(list)+1)
	for _, tag := range list {
		if tag = strings.TrimSpace(tag); tag != "" {
			requested = append(requested, tag)
		}
	}
	if len(requested) == 0 {
		if legacy = strings.TrimSpace(legacy); legacy == "" {
			return nil, &MissingDocumentTypesError{}
		}
		requested = append(requested, legacy)
	}

	resolved := make([]string, 0, len(requested)+1)
	for _, tag := range requested {
		if types.ParseDocumentType(tag) == types.DocDigitalSignatureConsent {
			continue
		}
		resolved = append(resolved, tag)
	}
	return append(resolved, string(types.DocDigitalSignatureConsent)), nil
}

// IndexSignatures keys records by signature type. When a type repeats the last
// record wins.
func IndexSignatures(records []types.SignatureRecord, logger *zap.Logger) map[types.DocumentType]*types.SignatureRecord {
	logger = logging.OrNop(logger)
	index := make(map[types.DocumentType]*types.SignatureRecord, len(records))
	for i := range records {
		key := types.DocumentType(strings.ToLower(strings.TrimSpace(records[i].SignatureType)))
		if prev, ok := index[key]; ok {
			logger.Warn("duplicate signature for document type, using the last one",
				zap.String("signature_type", string(key)),
				zap.String("replaced_signature_id", prev.SignatureID),
				zap.String("signature_id", records[i].SignatureID))
		}
		index[key] = &records[i]
	}
	return index
}

// Filename builds the attachment name from the resident's name and the
// requested tags. requested is the list before the consent is appended.
func Filename(firstName, lastName string, requested []string) string {
	suffix := "multiple_documents"
	if len(requested) == 1 {
		suffix = strings.TrimSpace(requested[0])
	}
	name := strings.Join([]string{strings.TrimSpace(firstName), strings.TrimSpace(lastName), suffix}, "_")
	return unsafeFilenameChars.ReplaceAllString(norm.NFC.String(name), "_") + ".pdf"
}

// ASCIIFilename folds name to ASCII for clients that ignore RFC 5987
// parameters. Accents are stripped; letters without an ASCII base become "_".
func ASCIIFilename(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}
	return nonASCIIChars.ReplaceAllString(folded, "_")
}

// Result is an assembled PDF.
type Result struct {
	Bytes         []byte
	ContentLength int
	Filename      string
	DocumentTypes []string
	Pages         int
	Document      rendering.Document
}

// Assembler drives the registry over the requested documents and serializes
// the result.
type Assembler struct {
	registry *Registry
	logger   *zap.Logger
	now      func() time.Time
}

// NewAssembler creates an assembler over registry.
func NewAssembler(registry *Registry, logger *zap.Logger) *Assembler {
	return &Assembler{
		registry: registry,
		logger:   logging.OrNop(logger),
		now:      time.Now,
	}
}

// Assemble renders every requested document of s into one PDF. A document that
// fails to compose is replaced by an error notice; only a missing document list
// or a serialization failure fails the call.
func (a *Assembler) Assemble(ctx context.Context, s *types.Submission) (*Result, error) {
	if s == nil {
		return nil, &MissingDocumentTypesError{}
	}

	requested := requestedTags(s)
	resolved, err := ResolveDocumentTypes(s.DocumentTypes, s.DocumentType)
	if err != nil {
		return nil, err
	}

	signatures := IndexSignatures(s.Signatures, a.logger)
	date := a.now()

	b := rendering.NewBuilder().SetMetadata(rendering.Metadata{
		Title:   documentTitle(resolved),
		Author:  "Journey House",
		Subject: strings.TrimSpace(s.FullName() + " onboarding documents"),
	})

	for i, tag := range resolved {
		if i > 0 {
			b.AddPageBreak()
		}
		docType := types.ParseDocumentType(tag)
		req := &Request{Submission: s, Type: docType, Tag: tag, Date: date}

		elements, err := a.registry.Compose(ctx, req, signatures[docType])
		if err != nil {
			a.logger.Error("failed to compose document",
				zap.String("document_type", tag),
				zap.Error(err))
			elements = errorNotice(tag, err)
		}
		b.Append(elements...)
	}

	doc := b.Build()
	pdf, err := rendering.RenderPDF(doc)
	if err != nil {
		return nil, &AssemblyError{Message: "failed to serialize PDF", Cause: err}
	}
	a.checkOutput(pdf.Bytes)
	if len(pdf.MissingGlyphs) > 0 {
		a.logger.Warn("PDF font has no glyph for some characters; printed as '?'",
			zap.Strings("document_types", resolved),
			zap.Strings("code_points", rendering.FormatRunes(pdf.MissingGlyphs)))
	}

	a.logger.Info("assembled documents",
		zap.Strings("document_types", resolved),
		zap.Int("pages", pdf.Pages),
		zap.Int("bytes", len(pdf.Bytes)))

	return &Result{
		Bytes:         pdf.Bytes,
		ContentLength: len(pdf.Bytes),
		Filename:      Filename(s.FirstName, s.LastName, requested),
		DocumentTypes: resolved,
		Pages:         pdf.Pages,
		Document:      doc,
	}, nil
}

// checkOutput logs output that does not look like a PDF. It never fails.
func (a *Assembler) checkOutput(data []byte) {
	if len(data) < minPDFSize || !bytes.HasPrefix(data, []byte("%PDF-")) {
		a.logger.Error("generated PDF looks corrupt",
			zap.Int("bytes", len(data)),
			zap.Bool("has_signature", bytes.HasPrefix(data, []byte("%PDF-"))))
	}
}

func requestedTags(s *types.Submission) []string {
	var tags []string
	for _, tag := range s.DocumentTypes {
		if strings.TrimSpace(tag) != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 && strings.TrimSpace(s.DocumentType) != "" {
		tags = []string{s.DocumentType}
	}
	return tags
}

func documentTitle(resolved []string) string {
	if len(resolved) <= 2 {
		return types.DisplayName(resolved[0])
	}
	return fmt.Sprintf("Onboarding Documents (%d)", len(resolved))
}
