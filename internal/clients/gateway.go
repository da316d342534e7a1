package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Gateway issues generation calls across an ordered cascade of candidate
// models. Candidates are tried strictly in sequence; the next one is only
// called after the previous has failed.
type Gateway struct {
	cfg       GatewayConfig
	providers map[ProviderKind]AIClient
	observer  Observer
}

func NewGateway(cfg GatewayConfig, providers map[ProviderKind]AIClient, observer Observer) *Gateway {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Tasks == nil {
		cfg.Tasks = DefaultTasks()
	}
	return &Gateway{cfg: cfg, providers: providers, observer: observer}
}

// Result describes the successful call of a cascade.
type Result struct {
	Model    string
	Text     string
	Attempts int
}

// CandidateModels returns [primary, fallbacks...] with blanks dropped and
// duplicates removed, keeping the first occurrence.
func CandidateModels(primary string, fallbacks []string) []string {
	seen := make(map[string]bool, len(fallbacks)+1)
	out := make([]string, 0, len(fallbacks)+1)
	for _, m := range append([]string{primary}, fallbacks...) {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// Candidates is the cascade for a requested model; an empty request uses
// the configured default.
func (g *Gateway) Candidates(requested string) []string {
	primary := strings.TrimSpace(requested)
	if primary == "" {
		primary = g.cfg.DefaultModel
	}
	return CandidateModels(primary, g.cfg.FallbackModels)
}

func (g *Gateway) DefaultModel() string { return g.cfg.DefaultModel }

// Configured reports whether at least one provider has a credential.
func (g *Gateway) Configured() bool {
	for _, p := range g.providers {
		if p != nil && p.Configured() {
			return true
		}
	}
	return false
}

// GenerateStructured runs the cascade for req and decodes the first
// parseable answer into T. Values implementing Validate() error are
// validated too; a failed validation moves on to the next candidate.
func GenerateStructured[T any](ctx context.Context, g *Gateway, req GenerateRequest) (T, *Result, error) {
	var out T
	res, err := g.run(ctx, req, g.Candidates(req.Model), func(text string) error {
		var v T
		if err := DecodeJSON(text, &v); err != nil {
			return err
		}
		if validator, ok := any(v).(interface{ Validate() error }); ok {
			if err := validator.Validate(); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
			}
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, nil, err
	}
	return out, res, nil
}

// GenerateText runs a free-text cascade over the given models. A nil list
// uses the gateway's default cascade for req.Model.
func (g *Gateway) GenerateText(ctx context.Context, req GenerateRequest, models []string) (*Result, error) {
	if models == nil {
		models = g.Candidates(req.Model)
	} else {
		models = CandidateModels("", models)
	}
	return g.run(ctx, req, models, func(string) error { return nil })
}

func (g *Gateway) providerFor(model string) AIClient {
	p := g.providers[ProviderFor(model)]
	if p == nil || !p.Configured() {
		return nil
	}
	return p
}

func (g *Gateway) run(ctx context.Context, req GenerateRequest, candidates []string, accept func(string) error) (*Result, error) {
	callable := make([]string, 0, len(candidates))
	for _, model := range candidates {
		if g.providerFor(model) != nil {
			callable = append(callable, model)
		}
	}
	if len(callable) == 0 {
		return nil, ErrMissingCredential
	}

	if tc, ok := g.cfg.Tasks[req.Task]; ok {
		if req.Temperature == nil {
			temp := tc.Temperature
			req.Temperature = &temp
		}
		if req.MaxTokens == 0 {
			req.MaxTokens = tc.MaxTokens
		}
	}

	cascade := &CascadeError{}
	for i, model := range callable {
		if err := ctx.Err(); err != nil {
			cascade.Attempts = append(cascade.Attempts, Attempt{Model: model, Err: err})
			break
		}

		provider := g.providerFor(model)
		call := req
		call.Model = model

		start := time.Now()
		text, err := provider.GenerateContent(ctx, call)
		if err == nil && strings.TrimSpace(text) == "" {
			err = ErrEmptyResponse
		}
		if err == nil {
			err = accept(text)
		}

		g.observer.OnCallComplete(CallEvent{
			Task:      req.Task,
			Provider:  provider.Name(),
			Model:     model,
			Attempt:   i + 1,
			LatencyMs: time.Since(start).Milliseconds(),
			Success:   err == nil,
			ErrorCode: errorCode(err),
		})

		if err == nil {
			return &Result{Model: model, Text: text, Attempts: i + 1}, nil
		}
		cascade.Attempts = append(cascade.Attempts, Attempt{Model: model, Err: err})
	}
	return nil, cascade
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, ErrInvalidOutput):
		return "invalid_output"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	default:
		return ErrorTypeOf(err).String()
	}
}
