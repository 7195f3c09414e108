package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-formintake/pkg/validation"
	"github.com/goliatone/go-formintake/pkg/webhook"
)

const tracerName = "github.com/goliatone/go-formintake/pkg/intake"

// Transport delivers a serialized submission. *webhook.Client satisfies it.
type Transport interface {
	Deliver(ctx context.Context, d webhook.Delivery) error
}

// Pipeline validates and submits form states.
type Pipeline struct {
	transport Transport
	endpoints map[string]string
	sanitize  bool
	logger    *slog.Logger
	tracer    trace.Tracer
	newID     func() string
}

// NewPipeline builds a pipeline delivering through transport.
func NewPipeline(transport Transport, options ...Option) *Pipeline {
	p := &Pipeline{
		transport: transport,
		endpoints: make(map[string]string),
		logger:    slog.New(slog.DiscardHandler),
		tracer:    otel.Tracer(tracerName),
		newID:     uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Validate returns s with Errors set to the current validation failures (nil
// when valid). It has no other effect.
func (p *Pipeline) Validate(s State) State {
	next := s.clone()
	result := validation.Validate(s.Form, s.Values)
	next.Errors = result.Errors
	return next
}

// Endpoint resolves the webhook URL for the state's form. Absolute URLs in the
// form definition are used as is.
func (p *Pipeline) Endpoint(s State) string {
	key := strings.TrimSpace(s.Form.Endpoint)
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	if url, ok := p.endpoints[key]; ok && key != "" {
		return url
	}
	if url, ok := p.endpoints[s.Form.ID]; ok {
		return url
	}
	// Environment variables cannot carry "-", so lead-gen may arrive as lead_gen.
	return p.endpoints[strings.ReplaceAll(s.Form.ID, "-", "_")]
}

// Submit serializes the state's values and performs exactly one delivery. The
// caller is responsible for validating first. On success the returned state
// holds default values; on failure it holds the submitted values unchanged.
func (p *Pipeline) Submit(ctx context.Context, s State) (State, Result) {
	id := p.newID()
	ctx, span := p.tracer.Start(ctx, "intake.submit", trace.WithAttributes(
		attribute.String("intake.form_id", s.Form.ID),
		attribute.String("intake.submission_id", id),
	))
	defer span.End()

	logger := p.logger.With(
		slog.String("form_id", s.Form.ID),
		slog.String("submission_id", id),
	)

	failed := s.clone()
	failed.Status = StatusFailed

	payload, err := p.Payload(s)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode payload")
		logger.Error("intake payload encoding failed", slog.String("error", err.Error()))
		return failed, failure(err)
	}

	if p.transport == nil {
		err := fmt.Errorf("intake: transport is not configured")
		span.SetStatus(codes.Error, err.Error())
		logger.Error("intake submission failed", slog.String("error", err.Error()))
		return failed, failure(err)
	}

	logger.Info("intake submission started", slog.Int("payload_bytes", len(payload)))
	err = p.transport.Deliver(ctx, webhook.Delivery{
		ID:       id,
		Endpoint: p.Endpoint(s),
		Payload:  payload,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, ReasonTransport)
		logger.Warn("intake submission failed", slog.String("error", err.Error()))
		return failed, failure(err)
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("intake submission succeeded")

	next := s.Reset()
	next.Status = StatusSucceeded
	return next, Success()
}

// Attempt runs the submit control flow: validate, and when valid move to
// Submitting and submit. Invalid values leave the state Idle with errors and
// return a *ValidationError without touching the network.
func (p *Pipeline) Attempt(ctx context.Context, s State) (State, Result, error) {
	if s.Status == StatusSubmitting {
		return s, Result{}, ErrSubmissionInFlight
	}

	validated := p.Validate(s)
	if len(validated.Errors) > 0 {
		validated.Status = StatusIdle
		return validated, Result{}, &ValidationError{Fields: validated.Errors}
	}

	validated.Status = StatusSubmitting
	next, result := p.Submit(ctx, validated)
	return next, result, nil
}

// Payload returns the JSON body for s: declared fields only, sanitized when
// enabled.
func (p *Pipeline) Payload(s State) ([]byte, error) {
	values := s.Form.Project(s.Values)
	if p.sanitize {
		values = sanitizeValues(values)
	}
	payload, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("intake: encode payload: %w", err)
	}
	return payload, nil
}

func failure(cause error) Result {
	result := Failure(ReasonTransport)
	result.Err = cause
	return result
}
