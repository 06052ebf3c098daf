package intake

import "fmt"

// InvalidJSONError is returned when the request body cannot be decoded.
type InvalidJSONError struct {
	Cause error
}

func (e *InvalidJSONError) Error() string {
	if e.Cause == nil {
		return "request body is not valid JSON"
	}
	return fmt.Sprintf("request body is not valid JSON: %v", e.Cause)
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Cause
}

// UpstreamError is returned when the downstream PDF service cannot be reached
// or its response cannot be read.
type UpstreamError struct {
	URL   string
	Cause error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream request to %s failed: %v", e.URL, e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
