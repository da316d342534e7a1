// Package testutil holds fakes shared by service and handler tests.
package testutil

import (
	"context"
	"sync"

	"github.com/planea/back/internal/clients"
)

// FakeAI is a scripted provider. Errors take precedence over replies; a
// reply keyed by task wins over one keyed by model.
type FakeAI struct {
	mu sync.Mutex

	Unconfigured bool
	Replies      map[string]string
	ByTask       map[clients.Task]string
	Errors       map[string]error
	TaskErrors   map[clients.Task]error
	// Before runs ahead of every answer, e.g. to block a call.
	Before func(ctx context.Context, req clients.GenerateRequest)

	calls []clients.GenerateRequest
}

func (f *FakeAI) Name() string     { return "Fake" }
func (f *FakeAI) Configured() bool { return !f.Unconfigured }

func (f *FakeAI) GenerateContent(ctx context.Context, req clients.GenerateRequest) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	before := f.Before
	f.mu.Unlock()

	if before != nil {
		before(ctx, req)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.TaskErrors[req.Task]; ok {
		return "", err
	}
	if err, ok := f.Errors[req.Model]; ok {
		return "", err
	}
	if text, ok := f.ByTask[req.Task]; ok {
		return text, nil
	}
	return f.Replies[req.Model], nil
}

// Calls returns a copy of every request received so far.
func (f *FakeAI) Calls() []clients.GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]clients.GenerateRequest, len(f.calls))
	copy(out, f.calls)
	return out
}

// Models lists the model of every call in order.
func (f *FakeAI) Models() []string {
	calls := f.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Model)
	}
	return out
}

// NewGateway serves every provider kind with fake.
func NewGateway(fake *FakeAI, defaultModel string, fallbacks ...string) *clients.Gateway {
	return clients.NewGateway(clients.GatewayConfig{
		DefaultModel:   defaultModel,
		FallbackModels: fallbacks,
	}, map[clients.ProviderKind]clients.AIClient{
		clients.ProviderGoogle: fake,
		clients.ProviderClaude: fake,
		clients.ProviderOpenAI: fake,
	}, nil)
}

// FakeEmail records sent messages.
type FakeEmail struct {
	mu       sync.Mutex
	Disabled bool
	Err      error
	Sent     []SentEmail
}

type SentEmail struct {
	To, Subject, Body string
}

func (f *FakeEmail) Configured() bool { return !f.Disabled }

func (f *FakeEmail) SendEmail(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}
