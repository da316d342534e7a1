package clients

import (
	"context"
	"strings"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// FileContent is a binary attachment (PDF, image) sent inline with a prompt.
type FileContent struct {
	Name     string
	MimeType string
	Data     []byte
}

// Part is one piece of a multi-part prompt: either text or a file.
type Part struct {
	Text string
	File *FileContent
}

func TextPart(text string) Part { return Part{Text: text} }

func FilePart(file FileContent) Part { return Part{File: &file} }

type Content struct {
	Role  Role
	Parts []Part
}

// UserContent builds a single user turn from the given parts.
func UserContent(parts ...Part) Content {
	return Content{Role: RoleUser, Parts: parts}
}

// GenerateRequest is a provider-neutral generation call.
type GenerateRequest struct {
	Task        Task
	Model       string
	System      string
	Contents    []Content
	Schema      *Schema  // nil for free text
	Temperature *float64 // nil uses the task default
	MaxTokens   int      // 0 uses the task default
}

// AIClient is one hosted model provider.
type AIClient interface {
	// Name identifies the provider in logs and errors.
	Name() string
	// Configured reports whether a credential is available.
	Configured() bool
	// GenerateContent returns the raw text produced by model.
	GenerateContent(ctx context.Context, req GenerateRequest) (string, error)
}

type ProviderKind string

const (
	ProviderGoogle ProviderKind = "gemini"
	ProviderClaude ProviderKind = "claude"
	ProviderOpenAI ProviderKind = "openai"
)

// ProviderFor routes a model identifier to the provider that serves it.
func ProviderFor(model string) ProviderKind {
	m := strings.ToLower(strings.TrimSpace(model))
	m = strings.TrimPrefix(m, "models/")
	switch {
	case strings.HasPrefix(m, "claude"):
		return ProviderClaude
	case strings.HasPrefix(m, "gpt"), strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"), strings.HasPrefix(m, "chatgpt"):
		return ProviderOpenAI
	default:
		return ProviderGoogle
	}
}
