package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/journeyhouse/onboarding/internal/documents"
	"github.com/journeyhouse/onboarding/internal/intake"
	"github.com/journeyhouse/onboarding/internal/schemas"
	"github.com/journeyhouse/onboarding/internal/types"
)

// IntakeResponse is the envelope returned by the intake endpoints.
type IntakeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StoredSubmission is the data returned after a submission is saved.
type StoredSubmission struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	IntakeDate    string `json:"intake_date"`
}

// readBody reads at most maxBodyBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// handleGeneratePDF assembles the requested documents into one PDF, or proxies
// the request when a PDF forwarder is configured.
func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "Failed to read request body: "+err.Error())
		return
	}

	if s.pdfForwarder != nil {
		s.forwardPDF(w, r, raw)
		return
	}

	s.logger.Info("generating documents", intake.LogFields(raw)...)

	var sub types.Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		err = &intake.InvalidJSONError{Cause: err}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.assembler.Assemble(r.Context(), &sub)
	if err != nil {
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("failed to generate PDF", zap.Error(err))
		}
		s.errorResponse(w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", contentDisposition(result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(result.ContentLength))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Bytes); err != nil {
		s.logger.Warn("failed to write PDF response", zap.Error(err))
	}
}

// forwardPDF relays the body to the downstream PDF service and its response back.
func (s *Server) forwardPDF(w http.ResponseWriter, r *http.Request, raw []byte) {
	resp, err := s.pdfForwarder.Forward(r.Context(), raw, r.Header.Get("Authorization"))
	if err != nil {
		s.logger.Error("PDF forward failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), "PDF generation proxy error: "+err.Error())
		return
	}
	if resp.OK() && len(resp.Body) == 0 {
		s.errorResponse(w, http.StatusInternalServerError, "Empty PDF received from generation service")
		return
	}
	s.relay(w, resp)
}

// relay copies a downstream response to w.
func (s *Server) relay(w http.ResponseWriter, resp *intake.Response) {
	w.Header().Set("Content-Type", resp.ContentType)
	if resp.OK() {
		w.Header().Set("Content-Disposition", resp.ContentDisposition)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		s.logger.Warn("failed to relay downstream response", zap.Error(err))
	}
}

// handleIntake validates a submission, then stores, forwards or acknowledges it.
func (s *Server) handleIntake(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		s.intakeError(w, err)
		return
	}

	outcome, err := s.intake.Submit(r.Context(), raw, r.Header.Get("Authorization"))
	if err != nil {
		s.intakeError(w, err)
		return
	}

	switch outcome.Action {
	case intake.ActionForwarded:
		s.relay(w, outcome.Forwarded)
	case intake.ActionStored:
		fields := gjson.GetManyBytes(raw, "firstName", "lastName", "intakeDate")
		s.jsonResponse(w, http.StatusOK, IntakeResponse{
			Success: true,
			Message: "Resident data saved successfully",
			Data: StoredSubmission{
				ParticipantID: outcome.ParticipantID,
				Name:          fields[0].String() + " " + fields[1].String(),
				IntakeDate:    fields[2].String(),
			},
		})
	default:
		s.jsonResponse(w, http.StatusOK, IntakeResponse{
			Success: true,
			Message: "Resident data received",
		})
	}
}

func (s *Server) intakeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	resp := IntakeResponse{Success: false, Error: err.Error()}

	var verr *schemas.ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Message = "Validation failed"
		resp.Data = map[string]any{"errors": verr.Errors}
	case status < http.StatusInternalServerError:
		resp.Message = "Invalid request"
	default:
		resp.Message = "Failed to process resident data"
	}
	s.jsonResponse(w, status, resp)
}

// contentDisposition names the attachment. Non-ASCII names are sent as an RFC
// 5987 filename* parameter with an ASCII fallback.
func contentDisposition(filename string) string {
	fallback := documents.ASCIIFilename(filename)
	if fallback == filename {
		return fmt.Sprintf("attachment; filename=%q", filename)
	}
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", fallback, url.PathEscape(filename))
}
