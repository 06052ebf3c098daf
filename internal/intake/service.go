// Package intake accepts onboarding submissions: it validates them, then
// stores them, forwards them downstream, or simply acknowledges them.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/journeyhouse/onboarding/internal/config"
	"github.com/journeyhouse/onboarding/internal/db"
	"github.com/journeyhouse/onboarding/internal/logging"
	"github.com/journeyhouse/onboarding/internal/schemas"
	"github.com/journeyhouse/onboarding/internal/types"
)

// Actions reported in an Outcome.
const (
	ActionStored    = "stored"
	ActionForwarded = "forwarded"
	ActionAccepted  = "accepted"
)

// SubmissionStore persists a validated submission.
type SubmissionStore interface {
	SaveSubmission(ctx context.Context, s *types.Submission, sealer db.Sealer) (uuid.UUID, error)
}

// Outcome describes what happened to an accepted submission.
type Outcome struct {
	Action        string
	ParticipantID string
	Forwarded     *Response
}

// Service handles intake submissions.
type Service struct {
	mode      string
	store     SubmissionStore
	sealer    db.Sealer
	forwarder *Forwarder
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithStore persists submissions. It takes precedence over forwarding.
func WithStore(store SubmissionStore, sealer db.Sealer) Option {
	return func(s *Service) {
		s.store = store
		s.sealer = sealer
	}
}

// WithForwarder forwards submissions downstream when no store is configured.
func WithForwarder(f *Forwarder) Option {
	return func(s *Service) {
		s.forwarder = f
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a service validating in mode (config.ValidationStrict or
// config.ValidationPassthrough).
func NewService(mode string, opts ...Option) *Service {
	s := &Service{mode: mode}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)
	if s.mode == "" {
		s.mode = config.ValidationStrict
	}
	return s
}

// Submit validates raw and hands it to the configured destination.
func (s *Service) Submit(ctx context.Context, raw []byte, authorization string) (*Outcome, error) {
	s.logger.Info("received submission", LogFields(raw)...)

	var sub *types.Submission
	var err error
	if s.mode == config.ValidationPassthrough {
		if !json.Valid(raw) {
			return nil, &InvalidJSONError{}
		}
	} else {
		if sub, err = s.validateStrict(raw); err != nil {
			return nil, err
		}
	}

	switch {
	case s.store != nil:
		if sub == nil {
			if sub, err = decode(raw); err != nil {
				return nil, err
			}
		}
		id, err := s.store.SaveSubmission(ctx, sub, s.sealer)
		if err != nil {
			s.logger.Error("failed to save submission", zap.Error(err))
			return nil, err
		}
		s.logger.Info("stored submission", zap.String("participant_id", id.String()))
		return &Outcome{Action: ActionStored, ParticipantID: id.String()}, nil

	case s.forwarder != nil:
		resp, err := s.forwarder.Forward(ctx, raw, authorization)
		if err != nil {
			s.logger.Error("failed to forward submission", zap.Error(err))
			return nil, err
		}
		if !resp.OK() {
			s.logger.Warn("downstream rejected submission",
				zap.Int("status", resp.StatusCode),
				zap.Int("bytes", len(resp.Body)))
		}
		return &Outcome{Action: ActionForwarded, Forwarded: resp}, nil

	default:
		return &Outcome{Action: ActionAccepted}, nil
	}
}

func (s *Service) validateStrict(raw []byte) (*types.Submission, error) {
	if !json.Valid(raw) {
		return nil, &InvalidJSONError{}
	}
	if err := schemas.ValidateSubmission(raw); err != nil {
		return nil, err
	}
	sub, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if err := sub.Validate(); err != nil {
		return nil, fieldErrors(err)
	}
	return sub, nil
}

func decode(raw []byte) (*types.Submission, error) {
	var sub types.Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, &InvalidJSONError{Cause: err}
	}
	return &sub, nil
}

// fieldErrors converts struct validation failures into a schema-style error.
func fieldErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &schemas.ValidationError{}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, schemas.FieldError{
			Field:   strings.TrimPrefix(fe.Namespace(), "Submission."),
			Message: fmt.Sprintf("failed the '%s' rule", fe.Tag()),
		})
	}
	return out
}

// LogFields extracts the fields safe to log from a raw body.
func LogFields(raw []byte) []zap.Field {
	res := gjson.GetManyBytes(raw, "firstName", "lastName", "documentTypes", "signatures.#", "documentType")
	var docTypes []string
	for _, v := range res[2].Array() {
		docTypes = append(docTypes, v.String())
	}
	if len(docTypes) == 0 && res[4].String() != "" {
		docTypes = []string{res[4].String()}
	}
	return []zap.Field{
		zap.String("first_name", res[0].String()),
		zap.String("last_name", res[1].String()),
		zap.Strings("document_types", docTypes),
		zap.Int64("signatures", res[3].Int()),
		zap.Int("bytes", len(raw)),
	}
}
