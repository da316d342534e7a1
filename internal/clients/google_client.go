package clients

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

const googleBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GoogleClient calls the Gemini generateContent endpoint.
type GoogleClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type GoogleRequest struct {
	SystemInstruction *GoogleContent         `json:"systemInstruction,omitempty"`
	Contents          []GoogleContent        `json:"contents"`
	GenerationConfig  GoogleGenerationConfig `json:"generationConfig"`
}

type GoogleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GooglePart `json:"parts"`
}

type GooglePart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *GoogleInlineData `json:"inlineData,omitempty"`
	Thought    bool              `json:"thought,omitempty"`
}

type GoogleInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type GoogleGenerationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int      `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema  `json:"responseSchema,omitempty"`
}

type GoogleResponse struct {
	Candidates     []GoogleCandidate     `json:"candidates"`
	PromptFeedback *GooglePromptFeedback `json:"promptFeedback,omitempty"`
	Error          *GoogleError          `json:"error,omitempty"`
}

type GoogleCandidate struct {
	Content      GoogleContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type GooglePromptFeedback struct {
	BlockReason string `json:"blockReason"`
}

type GoogleError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func NewGoogleClient(opts ProviderOptions) *GoogleClient {
	return &GoogleClient{
		apiKey:  opts.APIKey,
		baseURL: strings.TrimRight(opts.baseURL(googleBaseURL), "/"),
		client:  opts.httpClient(),
	}
}

func (c *GoogleClient) Name() string { return "Gemini" }

func (c *GoogleClient) Configured() bool { return c.apiKey != "" }

// googleModelPath adds the "models/" prefix the REST path requires.
func googleModelPath(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

func (c *GoogleClient) GenerateContent(ctx context.Context, req GenerateRequest) (string, error) {
	if !c.Configured() {
		return "", ErrMissingCredential
	}
	if req.Model == "" {
		return "", NewModelNotFoundError(c.Name(), 0, "model not specified")
	}

	request := GoogleRequest{
		Contents: make([]GoogleContent, 0, len(req.Contents)),
		GenerationConfig: GoogleGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}
	if req.System != "" {
		request.SystemInstruction = &GoogleContent{Parts: []GooglePart{{Text: req.System}}}
	}
	if req.Schema != nil {
		request.GenerationConfig.ResponseMimeType = "application/json"
		request.GenerationConfig.ResponseSchema = req.Schema
	}
	for _, content := range req.Contents {
		gc := GoogleContent{Role: string(content.Role)}
		for _, part := range content.Parts {
			if part.File != nil {
				gc.Parts = append(gc.Parts, GooglePart{InlineData: &GoogleInlineData{
					MimeType: part.File.MimeType,
					Data:     base64.StdEncoding.EncodeToString(part.File.Data),
				}})
				continue
			}
			gc.Parts = append(gc.Parts, GooglePart{Text: part.Text})
		}
		request.Contents = append(request.Contents, gc)
	}

	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, googleModelPath(req.Model))
	status, body, err := postJSON(ctx, c.client, url, map[string]string{"x-goog-api-key": c.apiKey}, request)
	if err != nil {
		return "", err
	}

	var response GoogleResponse
	if jsonErr := json.Unmarshal(body, &response); jsonErr != nil && status == http.StatusOK {
		return "", fmt.Errorf("failed to unmarshal response: %w", jsonErr)
	}

	if status != http.StatusOK || response.Error != nil {
		code, message := status, truncate(string(body), 500)
		if response.Error != nil {
			if response.Error.Code != 0 {
				code = response.Error.Code
			}
			message = response.Error.Message
		}
		return "", c.classify(code, req.Model, message)
	}

	if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
		return "", NewBlockedError(c.Name(), "prompt blocked: "+response.PromptFeedback.BlockReason)
	}
	if len(response.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned from Gemini", ErrEmptyResponse)
	}

	candidate := response.Candidates[0]
	switch candidate.FinishReason {
	case "MAX_TOKENS":
		return "", NewTokenLimitError(c.Name(), status, "response truncated at the output token limit")
	case "SAFETY", "PROHIBITED_CONTENT", "BLOCKLIST":
		return "", NewBlockedError(c.Name(), "response blocked: "+candidate.FinishReason)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	content := sb.String()
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: finishReason=%s", ErrEmptyResponse, candidate.FinishReason)
	}
	return content, nil
}

func (c *GoogleClient) classify(code int, model, message string) error {
	switch code {
	case http.StatusBadRequest:
		if isTokenLimitMessage(message) {
			return NewTokenLimitError(c.Name(), code, message)
		}
		return NewGeneralError(c.Name(), code, message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return NewInvalidAPIKeyError(c.Name(), code, message)
	case http.StatusNotFound:
		return NewModelNotFoundError(c.Name(), code, fmt.Sprintf("model %q: %s", model, message))
	case http.StatusTooManyRequests:
		if isQuotaMessage(message) {
			return NewQuotaExceededError(c.Name(), code, message)
		}
		return NewRateLimitError(c.Name(), code, message)
	default:
		return NewGeneralError(c.Name(), code, message)
	}
}
