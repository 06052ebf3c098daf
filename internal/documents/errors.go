package documents

import "fmt"

// MissingDocumentTypesError is returned when a request names no document.
type MissingDocumentTypesError struct{}

func (e *MissingDocumentTypesError) Error() string {
	return "documentTypes or documentType is required"
}

// AssemblyError is returned when the combined document cannot be serialized.
type AssemblyError struct {
	Message string
	Cause   error
}

func (e *AssemblyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("assembly error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("assembly error: %s", e.Message)
}

func (e *AssemblyError) Unwrap() error {
	return e.Cause
}
