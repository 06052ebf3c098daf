package server

import (
	"errors"
	"net/http"

	"github.com/journeyhouse/onboarding/internal/documents"
	"github.com/journeyhouse/onboarding/internal/intake"
	"github.com/journeyhouse/onboarding/internal/schemas"
)

// HTTPStatus returns the appropriate HTTP status code for an error. Client input
// errors map to 4xx; assembly, persistence and upstream failures to 500.
func HTTPStatus(err error) int {
	var (
		tooLarge   *http.MaxBytesError
		validation *schemas.ValidationError
		badJSON    *intake.InvalidJSONError
		missing    *documents.MissingDocumentTypesError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validation), errors.As(err, &badJSON), errors.As(err, &missing):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
