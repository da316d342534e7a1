package clients

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingCredential is returned before any network call when no
	// candidate model has a configured provider key.
	ErrMissingCredential = errors.New("no AI credential configured")

	// ErrAllModelsFailed is matched by the error returned once every
	// candidate model of a cascade has failed.
	ErrAllModelsFailed = errors.New("all candidate models failed")

	// ErrInvalidOutput indicates the model text could not be turned into the
	// expected structured value.
	ErrInvalidOutput = errors.New("invalid model output")

	// ErrEmptyResponse indicates the provider answered without any text.
	ErrEmptyResponse = errors.New("empty model response")
)

type ErrorType int

const (
	ErrorTypeGeneral ErrorType = iota
	ErrorTypeTokenLimit
	ErrorTypeInvalidAPIKey
	ErrorTypeRateLimit
	ErrorTypeModelNotFound
	ErrorTypeQuotaExceeded
	ErrorTypeBlocked
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTokenLimit:
		return "token_limit"
	case ErrorTypeInvalidAPIKey:
		return "invalid_api_key"
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeModelNotFound:
		return "model_not_found"
	case ErrorTypeQuotaExceeded:
		return "quota_exceeded"
	case ErrorTypeBlocked:
		return "blocked"
	default:
		return "general"
	}
}

// APIError is a classified provider failure.
type APIError struct {
	Type     ErrorType
	Provider string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s API error (%s, status %d): %s", e.Provider, e.Type, e.Status, e.Message)
	}
	return fmt.Sprintf("%s API error (%s): %s", e.Provider, e.Type, e.Message)
}

// ErrorTypeOf returns the classification of err, or ErrorTypeGeneral when err
// is not an *APIError.
func ErrorTypeOf(err error) ErrorType {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type
	}
	return ErrorTypeGeneral
}

// IsTokenLimitError checks if the error is related to token limits
func IsTokenLimitError(err error) bool {
	return ErrorTypeOf(err) == ErrorTypeTokenLimit
}

func NewTokenLimitError(provider string, status int, message string) *APIError {
	return &APIError{Type: ErrorTypeTokenLimit, Provider: provider, Status: status, Message: message}
}

func NewInvalidAPIKeyError(provider string, status int, message string) *APIError {
	return &APIError{Type: ErrorTypeInvalidAPIKey, Provider: provider, Status: status, Message: message}
}

func NewRateLimitError(provider string, status int, message string) *APIError {
	return &APIError{Type: ErrorTypeRateLimit, Provider: provider, Status: status, Message: message}
}

func NewModelNotFoundError(provider string, status int, message string) *APIError {
	return &APIError{Type: ErrorTypeModelNotFound, Provider: provider, Status: status, Message: message}
}

func NewQuotaExceededError(provider string, status int, message string) *APIError {
	return &APIError{Type: ErrorTypeQuotaExceeded, Provider: provider, Status: status, Message: message}
}

func NewBlockedError(provider string, message string) *APIError {
	return &APIError{Type: ErrorTypeBlocked, Provider: provider, Message: message}
}

func NewGeneralError(provider string, status int, message string) *APIError {
	return &APIError{Type: ErrorTypeGeneral, Provider: provider, Status: status, Message: message}
}

func isTokenLimitMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "too many tokens") ||
		strings.Contains(msg, "maximum context length") ||
		strings.Contains(msg, "context_length_exceeded") ||
		strings.Contains(msg, "input token count")
}

func isQuotaMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "quota") || strings.Contains(msg, "billing") || strings.Contains(msg, "credit balance")
}

// Attempt records one candidate model tried by a cascade.
type Attempt struct {
	Model string
	Err   error
}

// CascadeError is returned when every candidate failed. It matches both
// ErrAllModelsFailed and the last candidate's error with errors.Is.
type CascadeError struct {
	Attempts []Attempt
}

func (e *CascadeError) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

func (e *CascadeError) Error() string {
	last := e.Last()
	if last == nil {
		return ErrAllModelsFailed.Error()
	}
	return fmt.Sprintf("%s after %d attempt(s), last (%s): %v",
		ErrAllModelsFailed, len(e.Attempts), e.Attempts[len(e.Attempts)-1].Model, last)
}

func (e *CascadeError) Unwrap() []error {
	if last := e.Last(); last != nil {
		return []error{ErrAllModelsFailed, last}
	}
	return []error{ErrAllModelsFailed}
}
