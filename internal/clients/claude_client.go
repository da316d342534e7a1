package clients

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

const claudeBaseURL = "https://api.anthropic.com/v1/messages"

// ClaudeClient calls the Anthropic Messages API.
type ClaudeClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type ClaudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
	Messages    []ClaudeMessage `json:"messages"`
}

type ClaudeMessage struct {
	Role    string               `json:"role"`
	Content []ClaudeContentBlock `json:"content"`
}

type ClaudeContentBlock struct {
	Type   string        `json:"type"`
	Text   string        `json:"text,omitempty"`
	Source *ClaudeSource `json:"source,omitempty"`
}

type ClaudeSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type ClaudeResponse struct {
	Content    []ClaudeContentBlock `json:"content"`
	StopReason string               `json:"stop_reason"`
	Usage      ClaudeUsage          `json:"usage"`
}

type ClaudeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type claudeErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewClaudeClient(opts ProviderOptions) *ClaudeClient {
	return &ClaudeClient{
		apiKey:  opts.APIKey,
		baseURL: opts.baseURL(claudeBaseURL),
		client:  opts.httpClient(),
	}
}

func (c *ClaudeClient) Name() string { return "Claude" }

func (c *ClaudeClient) Configured() bool { return c.apiKey != "" }

func (c *ClaudeClient) GenerateContent(ctx context.Context, req GenerateRequest) (string, error) {
	if !c.Configured() {
		return "", ErrMissingCredential
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	request := ClaudeRequest{
		Model:       req.Model,
		MaxTokens:   maxTokens,
		System:      req.System,
		Temperature: req.Temperature,
	}
	// The Messages API has no schema parameter; the shape goes into the
	// system prompt instead.
	if req.Schema != nil {
		schemaJSON, err := json.Marshal(req.Schema.JSONSchema())
		if err != nil {
			return "", fmt.Errorf("failed to marshal schema: %w", err)
		}
		request.System = strings.TrimSpace(request.System +
			"\n\nResponde únicamente con un objeto JSON válido que cumpla este JSON Schema:\n" + string(schemaJSON))
	}

	for _, content := range req.Contents {
		role := "user"
		if content.Role == RoleModel {
			role = "assistant"
		}
		msg := ClaudeMessage{Role: role}
		for _, part := range content.Parts {
			if part.File == nil {
				msg.Content = append(msg.Content, ClaudeContentBlock{Type: "text", Text: part.Text})
				continue
			}
			blockType := "document"
			if strings.HasPrefix(part.File.MimeType, "image/") {
				blockType = "image"
			}
			msg.Content = append(msg.Content, ClaudeContentBlock{
				Type: blockType,
				Source: &ClaudeSource{
					Type:      "base64",
					MediaType: part.File.MimeType,
					Data:      base64.StdEncoding.EncodeToString(part.File.Data),
				},
			})
		}
		request.Messages = append(request.Messages, msg)
	}

	status, body, err := postJSON(ctx, c.client, c.baseURL, map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": "2023-06-01",
	}, request)
	if err != nil {
		return "", err
	}

	if status != http.StatusOK {
		var errBody claudeErrorBody
		if json.Unmarshal(body, &errBody) == nil && errBody.Error.Type != "" {
			return "", c.classify(status, errBody.Error.Type, errBody.Error.Message)
		}
		return "", NewGeneralError(c.Name(), status, truncate(string(body), 500))
	}

	var claudeResp ClaudeResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if claudeResp.StopReason == "max_tokens" {
		return "", NewTokenLimitError(c.Name(), status, "response truncated at the output token limit")
	}

	var sb strings.Builder
	for _, block := range claudeResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: no text blocks returned from Claude", ErrEmptyResponse)
	}
	return sb.String(), nil
}

func (c *ClaudeClient) classify(status int, errorType, message string) error {
	switch errorType {
	case "invalid_request_error":
		if isTokenLimitMessage(message) {
			return NewTokenLimitError(c.Name(), status, message)
		}
		if isQuotaMessage(message) {
			return NewQuotaExceededError(c.Name(), status, message)
		}
		return NewGeneralError(c.Name(), status, message)
	case "authentication_error", "permission_error":
		return NewInvalidAPIKeyError(c.Name(), status, message)
	case "not_found_error":
		return NewModelNotFoundError(c.Name(), status, message)
	case "rate_limit_error":
		return NewRateLimitError(c.Name(), status, message)
	default:
		return NewGeneralError(c.Name(), status, fmt.Sprintf("%s: %s", errorType, message))
	}
}
