package templates

import "fmt"

// NotFoundError is returned when no template exists for a document type.
type NotFoundError struct {
	Type string
	File string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("no template registered for document type %q", e.Type)
	}
	return fmt.Sprintf("template %s for document type %q not found", e.File, e.Type)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}
