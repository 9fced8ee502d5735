// Package generate runs one prompt through config, payload, transport and
// extraction and returns the answer text.
package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/metalagman/milli-ai/internal/config"
	"github.com/metalagman/milli-ai/internal/db"
	"github.com/metalagman/milli-ai/internal/extract"
	"github.com/metalagman/milli-ai/internal/payload"
	"github.com/metalagman/milli-ai/internal/transport"
	"github.com/rs/zerolog/log"
)

// ConfigSource supplies the loaded config.
type ConfigSource interface {
	EnsureLoaded() (*config.Config, error)
}

// Recorder journals call outcomes.
type Recorder interface {
	RecordCall(ctx context.Context, rec db.CallRecord) (string, error)
}

// Generator sends prompts to the configured endpoint.
type Generator struct {
	config    ConfigSource
	transport transport.Transport
	recorder  Recorder
	now       func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithRecorder journals every call to r.
func WithRecorder(r Recorder) Option {
	return func(g *Generator) {
		g.recorder = r
	}
}

// WithClock overrides the clock used for journal timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator.
func New(cfg ConfigSource, t transport.Transport, opts ...Option) *Generator {
	g := &Generator{
		config:    cfg,
		transport: t,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateText sends prompt, with selection as context when non-empty, and
// returns the answer. Any failure is returned as a single *Error.
func (g *Generator) GenerateText(ctx context.Context, prompt, selection string) (string, error) {
	rec := db.CallRecord{
		StartedAt:   g.now(),
		PromptBytes: len(prompt) + len(selection),
	}

	answer, err := g.generate(ctx, &rec, prompt, selection)
	rec.Duration = g.now().Sub(rec.StartedAt)
	if err != nil {
		rec.Status = db.StatusFailed
		rec.ErrorKind = err.Kind.String()
		rec.Error = err.Message
		g.record(ctx, rec)
		return "", err
	}

	rec.Status = db.StatusOK
	rec.AnswerBytes = len(answer)
	g.record(ctx, rec)
	return answer, nil
}

func (g *Generator) generate(ctx context.Context, rec *db.CallRecord, prompt, selection string) (string, *Error) {
	cfg, err := g.config.EnsureLoaded()
	if err != nil {
		return "", configError(err)
	}
	rec.Model = cfg.Model

	body := payload.Build(cfg.Model, cfg.Temperature, prompt, selection)
	req := transport.Request{
		URL:     transport.JoinURL(cfg.BaseURL, cfg.ResponsesEndpoint),
		APIKey:  cfg.APIKey,
		Body:    []byte(body),
		Timeout: transport.EffectiveTimeout(cfg.TimeoutMS),
	}
	rec.URL = req.URL

	log.Debug().Str("url", req.URL).Str("model", cfg.Model).Int("payload_bytes", len(body)).Msg("sending AI request")
	resp, err := g.transport.Send(ctx, req)
	if err != nil {
		return "", g.transportError(err)
	}
	return extract.Text(string(resp.Body)), nil
}

func (g *Generator) record(ctx context.Context, rec db.CallRecord) {
	if g.recorder == nil {
		return
	}
	if _, err := g.recorder.RecordCall(ctx, rec); err != nil {
		log.Warn().Err(err).Msg("journal AI call")
	}
}

func configError(err error) *Error {
	var notFound *config.NotFoundError
	switch {
	case errors.Is(err, config.ErrNoHome):
		return &Error{Kind: KindNoHomeDirectory, Message: fmt.Sprintf("Could not determine HOME for ~/%s", config.FileName), Err: err}
	case errors.As(err, &notFound):
		return &Error{Kind: KindConfigNotFound, Message: fmt.Sprintf("Missing AI config at %s", notFound.Path), Err: err}
	case errors.Is(err, config.ErrIncomplete):
		return &Error{Kind: KindConfigIncomplete, Message: "AI config missing base_url, responses_endpoint, or model", Err: err}
	default:
		return &Error{Kind: KindConfigNotFound, Message: fmt.Sprintf("Could not read AI config: %v", err), Err: err}
	}
}

func (g *Generator) transportError(err error) *Error {
	var callErr *transport.CallError
	switch {
	case errors.Is(err, transport.ErrWriteFailed):
		return &Error{Kind: KindPayloadWriteFailed, Message: "Could not write AI payload to temp file", Err: err}
	case errors.Is(err, transport.ErrNotInvocable):
		return &Error{Kind: KindProcessNotInvocable, Message: fmt.Sprintf("Could not invoke %s for AI request", transportName(g.transport)), Err: err}
	case errors.As(err, &callErr):
		return &Error{Kind: KindCallFailed, Message: fmt.Sprintf("AI call failed: %s", callErr.Body), Err: err}
	default:
		return &Error{Kind: KindCallFailed, Message: fmt.Sprintf("AI call failed: %v", err), Err: err}
	}
}

func transportName(t transport.Transport) string {
	if named, ok := t.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "transport"
}
