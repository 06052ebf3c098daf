//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DocumentType identifies which document the composer renders.
type DocumentType string

// Document types accepted by the PDF endpoint.
const (
	DocIntakeForm              DocumentType = "intake_form"
	DocResidentAsGuest         DocumentType = "resident_as_guest"
	DocContractTerms           DocumentType = "contract_terms"
	DocCriminalHistory         DocumentType = "criminal_history"
	DocEthics                  DocumentType = "ethics"
	DocCriticalRules           DocumentType = "critical_rules"
	DocHouseRules              DocumentType = "house_rules"
	DocDigitalSignatureConsent DocumentType = "digital_signature_consent"
	DocUnknown                 DocumentType = "unknown"
)

// KnownDocumentTypes lists every recognized type in canonical order.
var KnownDocumentTypes = []DocumentType{
	DocIntakeForm,
	DocResidentAsGuest,
	DocContractTerms,
	DocCriminalHistory,
	DocEthics,
	DocCriticalRules,
	DocHouseRules,
	DocDigitalSignatureConsent,
}

// ParseDocumentType maps a request tag onto a DocumentType. Unrecognized tags
// return DocUnknown; it never fails.
func ParseDocumentType(tag string) DocumentType {
	normalized := DocumentType(strings.ToLower(strings.TrimSpace(tag)))
	for _, known := range KnownDocumentTypes {
		if normalized == known {
			return known
		}
	}
	return DocUnknown
}

// IsMarkdownBacked reports whether the document is rendered from a template.
func (d DocumentType) IsMarkdownBacked() bool {
	switch d {
	case DocIntakeForm, DocUnknown:
		return false
	}
	return ParseDocumentType(string(d)) != DocUnknown
}

// DisplayName turns a tag such as "house_rules" into "House Rules".
func DisplayName(tag string) string {
	words := strings.Fields(strings.ReplaceAll(tag, "_", " "))
	return cases.Title(language.Und).String(strings.Join(words, " "))
}
