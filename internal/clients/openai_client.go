package clients

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

const openAIBaseURL = "https://api.openai.com/v1/chat/completions"

// OpenAIClient calls the chat completions endpoint.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type OpenAIRequest struct {
	Model               string                `json:"model"`
	Messages            []OpenAIMessage       `json:"messages"`
	MaxCompletionTokens int                   `json:"max_completion_tokens,omitempty"`
	Temperature         *float64              `json:"temperature,omitempty"`
	ResponseFormat      *OpenAIResponseFormat `json:"response_format,omitempty"`
}

type OpenAIMessage struct {
	Role    string              `json:"role"`
	Content []OpenAIContentPart `json:"content"`
}

type OpenAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *OpenAIImageURL `json:"image_url,omitempty"`
	File     *OpenAIFile     `json:"file,omitempty"`
}

type OpenAIImageURL struct {
	URL string `json:"url"`
}

type OpenAIFile struct {
	Filename string `json:"filename,omitempty"`
	FileData string `json:"file_data"`
}

type OpenAIResponseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *OpenAIJSONSchema `json:"json_schema,omitempty"`
}

type OpenAIJSONSchema struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

type OpenAIResponse struct {
	Choices []OpenAIChoice `json:"choices"`
	Error   *OpenAIError   `json:"error,omitempty"`
}

type OpenAIChoice struct {
	Message      OpenAIResponseMessage `json:"message"`
	FinishReason string                `json:"finish_reason"`
}

type OpenAIResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Refusal string `json:"refusal,omitempty"`
}

type OpenAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

func NewOpenAIClient(opts ProviderOptions) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  opts.APIKey,
		baseURL: opts.baseURL(openAIBaseURL),
		client:  opts.httpClient(),
	}
}

func (c *OpenAIClient) Name() string { return "OpenAI" }

func (c *OpenAIClient) Configured() bool { return c.apiKey != "" }

func (c *OpenAIClient) GenerateContent(ctx context.Context, req GenerateRequest) (string, error) {
	if !c.Configured() {
		return "", ErrMissingCredential
	}

	request := OpenAIRequest{
		Model:               req.Model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         req.Temperature,
	}
	if req.System != "" {
		request.Messages = append(request.Messages, OpenAIMessage{
			Role:    "system",
			Content: []OpenAIContentPart{{Type: "text", Text: req.System}},
		})
	}
	if req.Schema != nil {
		name := string(req.Task)
		if name == "" {
			name = "response"
		}
		request.ResponseFormat = &OpenAIResponseFormat{
			Type:       "json_schema",
			JSONSchema: &OpenAIJSONSchema{Name: name, Schema: req.Schema.JSONSchema()},
		}
	}

	for _, content := range req.Contents {
		role := "user"
		if content.Role == RoleModel {
			role = "assistant"
		}
		msg := OpenAIMessage{Role: role}
		for _, part := range content.Parts {
			if part.File == nil {
				msg.Content = append(msg.Content, OpenAIContentPart{Type: "text", Text: part.Text})
				continue
			}
			dataURL := fmt.Sprintf("data:%s;base64,%s", part.File.MimeType, base64.StdEncoding.EncodeToString(part.File.Data))
			if strings.HasPrefix(part.File.MimeType, "image/") {
				msg.Content = append(msg.Content, OpenAIContentPart{Type: "image_url", ImageURL: &OpenAIImageURL{URL: dataURL}})
				continue
			}
			msg.Content = append(msg.Content, OpenAIContentPart{
				Type: "file",
				File: &OpenAIFile{Filename: part.File.Name, FileData: dataURL},
			})
		}
		request.Messages = append(request.Messages, msg)
	}

	status, body, err := postJSON(ctx, c.client, c.baseURL, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, request)
	if err != nil {
		return "", err
	}

	var response OpenAIResponse
	if jsonErr := json.Unmarshal(body, &response); jsonErr != nil && status == http.StatusOK {
		return "", fmt.Errorf("failed to unmarshal response: %w", jsonErr)
	}
	if status != http.StatusOK || response.Error != nil {
		if response.Error == nil {
			return "", NewGeneralError(c.Name(), status, truncate(string(body), 500))
		}
		return "", c.classify(status, response.Error)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned from OpenAI", ErrEmptyResponse)
	}
	choice := response.Choices[0]
	if choice.FinishReason == "length" {
		return "", NewTokenLimitError(c.Name(), status, "response truncated at the output token limit")
	}
	if choice.Message.Refusal != "" {
		return "", NewBlockedError(c.Name(), choice.Message.Refusal)
	}
	if choice.FinishReason == "content_filter" {
		return "", NewBlockedError(c.Name(), "response blocked by content filter")
	}
	return choice.Message.Content, nil
}

func (c *OpenAIClient) classify(status int, apiErr *OpenAIError) error {
	switch apiErr.Code {
	case "context_length_exceeded", "max_tokens_exceeded":
		return NewTokenLimitError(c.Name(), status, apiErr.Message)
	case "insufficient_quota":
		return NewQuotaExceededError(c.Name(), status, apiErr.Message)
	case "invalid_api_key":
		return NewInvalidAPIKeyError(c.Name(), status, apiErr.Message)
	case "rate_limit_exceeded":
		return NewRateLimitError(c.Name(), status, apiErr.Message)
	case "model_not_found":
		return NewModelNotFoundError(c.Name(), status, apiErr.Message)
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return NewInvalidAPIKeyError(c.Name(), status, apiErr.Message)
	case http.StatusNotFound:
		return NewModelNotFoundError(c.Name(), status, apiErr.Message)
	case http.StatusTooManyRequests:
		if isQuotaMessage(apiErr.Message) {
			return NewQuotaExceededError(c.Name(), status, apiErr.Message)
		}
		return NewRateLimitError(c.Name(), status, apiErr.Message)
	}
	return NewGeneralError(c.Name(), status, fmt.Sprintf("%s: %s", apiErr.Code, apiErr.Message))
}
