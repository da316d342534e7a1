package clients

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient answers per model from a fixed table and records calls.
type scriptedClient struct {
	mu         sync.Mutex
	name       string
	configured bool
	replies    map[string]string
	errs       map[string]error
	calls      []GenerateRequest
}

func (c *scriptedClient) Name() string     { return c.name }
func (c *scriptedClient) Configured() bool { return c.configured }

func (c *scriptedClient) GenerateContent(_ context.Context, req GenerateRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, req)
	if err, ok := c.errs[req.Model]; ok {
		return "", err
	}
	return c.replies[req.Model], nil
}

func (c *scriptedClient) models() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.calls))
	for _, call := range c.calls {
		out = append(out, call.Model)
	}
	return out
}

type recordingObserver struct {
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) { o.events = append(o.events, e) }

type titled struct {
	Title string `json:"title"`
}

func (t titled) Validate() error {
	if t.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

func newTestGateway(google *scriptedClient, fallbacks ...string) (*Gateway, *recordingObserver) {
	obs := &recordingObserver{}
	gw := NewGateway(GatewayConfig{
		DefaultModel:   "gemini-2.5-flash",
		FallbackModels: fallbacks,
	}, map[ProviderKind]AIClient{ProviderGoogle: google}, obs)
	return gw, obs
}

func TestCandidateModels(t *testing.T) {
	tests := []struct {
		name      string
		primary   string
		fallbacks []string
		want      []string
	}{
		{"dedupes keeping first", "a", []string{"b", "a", "c", "b"}, []string{"a", "b", "c"}},
		{"drops blanks", "", []string{" ", "b"}, []string{"b"}},
		{"primary only", "a", nil, []string{"a"}},
		{"trims", " a ", []string{"a"}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CandidateModels(tt.primary, tt.fallbacks))
		})
	}
}

func TestGatewayCandidatesUsesDefault(t *testing.T) {
	gw, _ := newTestGateway(&scriptedClient{configured: true}, "gemini-2.5-pro", "gemini-2.5-flash")
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.5-pro"}, gw.Candidates(""))
	assert.Equal(t, []string{"gemini-2.0-flash", "gemini-2.5-pro", "gemini-2.5-flash"}, gw.Candidates("gemini-2.0-flash"))
}

func TestGenerateStructuredFirstSuccessStops(t *testing.T) {
	google := &scriptedClient{name: "Gemini", configured: true, replies: map[string]string{
		"gemini-2.5-flash": `{"title":"Fracciones"}`,
		"gemini-2.5-pro":   `{"title":"never"}`,
	}}
	gw, obs := newTestGateway(google, "gemini-2.5-pro")

	out, res, err := GenerateStructured[titled](context.Background(), gw, GenerateRequest{Task: TaskLessonPlan})
	require.NoError(t, err)
	assert.Equal(t, "Fracciones", out.Title)
	assert.Equal(t, "gemini-2.5-flash", res.Model)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, []string{"gemini-2.5-flash"}, google.models())
	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
}

func TestGenerateStructuredFallsBackInOrder(t *testing.T) {
	google := &scriptedClient{name: "Gemini", configured: true,
		errs: map[string]error{
			"gemini-2.5-flash": NewQuotaExceededError("Gemini", 429, "quota exceeded"),
		},
		replies: map[string]string{
			"gemini-2.0-flash": "Claro, aquí está:\n```json\nnot json\n```",
			"gemini-2.5-pro":   `{"title":""}`,
			"gemini-1.5-pro":   "```json\n{\"title\":\"Fracciones\"}\n```",
		}}
	gw, obs := newTestGateway(google, "gemini-2.0-flash", "gemini-2.5-pro", "gemini-1.5-pro")

	out, res, err := GenerateStructured[titled](context.Background(), gw, GenerateRequest{Task: TaskLessonPlan})
	require.NoError(t, err)
	assert.Equal(t, "Fracciones", out.Title)
	assert.Equal(t, "gemini-1.5-pro", res.Model)
	assert.Equal(t, 4, res.Attempts)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.0-flash", "gemini-2.5-pro", "gemini-1.5-pro"}, google.models())

	codes := make([]string, 0, len(obs.events))
	for _, e := range obs.events {
		codes = append(codes, e.ErrorCode)
	}
	assert.Equal(t, []string{"quota_exceeded", "invalid_output", "invalid_output", ""}, codes)
}

func TestGenerateStructuredAllFailReturnsLastError(t *testing.T) {
	lastErr := NewRateLimitError("Gemini", 429, "slow down")
	google := &scriptedClient{name: "Gemini", configured: true, errs: map[string]error{
		"gemini-2.5-flash": NewModelNotFoundError("Gemini", 404, "gone"),
		"gemini-2.5-pro":   lastErr,
	}}
	gw, _ := newTestGateway(google, "gemini-2.5-pro")

	_, res, err := GenerateStructured[titled](context.Background(), gw, GenerateRequest{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrAllModelsFailed)
	assert.ErrorIs(t, err, lastErr)
	assert.Equal(t, ErrorTypeRateLimit, ErrorTypeOf(err))

	var cascade *CascadeError
	require.ErrorAs(t, err, &cascade)
	assert.Len(t, cascade.Attempts, 2)
}

func TestGenerateStructuredEmptyTextFails(t *testing.T) {
	google := &scriptedClient{name: "Gemini", configured: true, replies: map[string]string{"gemini-2.5-flash": "   "}}
	gw, _ := newTestGateway(google)

	_, _, err := GenerateStructured[titled](context.Background(), gw, GenerateRequest{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerateStructuredMissingCredential(t *testing.T) {
	google := &scriptedClient{name: "Gemini", configured: false}
	gw, obs := newTestGateway(google, "gemini-2.5-pro")

	_, _, err := GenerateStructured[titled](context.Background(), gw, GenerateRequest{})
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Empty(t, google.models())
	assert.Empty(t, obs.events)
}

func TestGatewaySkipsUnconfiguredProviders(t *testing.T) {
	google := &scriptedClient{name: "Gemini", configured: true, replies: map[string]string{"gemini-2.5-flash": `{"title":"ok"}`}}
	claude := &scriptedClient{name: "Claude", configured: false}
	gw := NewGateway(GatewayConfig{
		DefaultModel:   "claude-sonnet-4-5",
		FallbackModels: []string{"gemini-2.5-flash"},
	}, map[ProviderKind]AIClient{ProviderGoogle: google, ProviderClaude: claude}, nil)

	_, res, err := GenerateStructured[titled](context.Background(), gw, GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", res.Model)
	assert.Empty(t, claude.models())
}

func TestGatewayStopsOnCanceledContext(t *testing.T) {
	google := &scriptedClient{name: "Gemini", configured: true}
	gw, _ := newTestGateway(google, "gemini-2.5-pro")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := GenerateStructured[titled](ctx, gw, GenerateRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, google.models())
}

func TestGatewayAppliesTaskDefaults(t *testing.T) {
	google := &scriptedClient{name: "Gemini", configured: true, replies: map[string]string{"gemini-2.5-flash": "hola"}}
	gw, _ := newTestGateway(google)

	_, err := gw.GenerateText(context.Background(), GenerateRequest{Task: TaskChat}, nil)
	require.NoError(t, err)

	custom := 0.1
	_, err = gw.GenerateText(context.Background(), GenerateRequest{Task: TaskChat, Temperature: &custom, MaxTokens: 10}, nil)
	require.NoError(t, err)

	require.Len(t, google.calls, 2)
	require.NotNil(t, google.calls[0].Temperature)
	assert.InDelta(t, 0.7, *google.calls[0].Temperature, 1e-9)
	assert.Equal(t, 2048, google.calls[0].MaxTokens)
	assert.InDelta(t, 0.1, *google.calls[1].Temperature, 1e-9)
	assert.Equal(t, 10, google.calls[1].MaxTokens)
}

func TestGenerateTextExplicitModels(t *testing.T) {
	google := &scriptedClient{name: "Gemini", configured: true,
		errs:    map[string]error{"fast": errors.New("boom")},
		replies: map[string]string{"slow": "respuesta"}}
	gw, _ := newTestGateway(google)

	res, err := gw.GenerateText(context.Background(), GenerateRequest{Task: TaskChat}, []string{"fast", "slow", "fast"})
	require.NoError(t, err)
	assert.Equal(t, "respuesta", res.Text)
	assert.Equal(t, "slow", res.Model)
	assert.Equal(t, []string{"fast", "slow"}, google.models())
}

func TestProviderFor(t *testing.T) {
	assert.Equal(t, ProviderClaude, ProviderFor("claude-sonnet-4-5"))
	assert.Equal(t, ProviderOpenAI, ProviderFor("gpt-4o"))
	assert.Equal(t, ProviderOpenAI, ProviderFor("o3-mini"))
	assert.Equal(t, ProviderGoogle, ProviderFor("gemini-2.5-flash"))
	assert.Equal(t, ProviderGoogle, ProviderFor("models/gemini-2.5-pro"))
}
