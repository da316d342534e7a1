package clients

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// CleanJSON recovers a JSON object from raw model text. Markdown code fences
// and surrounding prose are treated as noise: the object is located by
// balanced-brace scanning over the untouched text, skipping string literals,
// so fences, braces or backticks inside values never truncate or alter it.
// The returned object is a verbatim slice of raw.
func CleanJSON(raw string) (string, error) {
	if obj := firstBalancedObject(raw); obj != "" {
		return obj, nil
	}
	return "", fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
}

// DecodeJSON cleans raw and unmarshals it into out.
func DecodeJSON(raw string, out any) error {
	cleaned, err := CleanJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return nil
}

// firstBalancedObject tries every '{' as a start position and returns the
// first balanced block that is valid JSON.
func firstBalancedObject(s string) string {
	for start := strings.IndexByte(s, '{'); start >= 0; {
		if block := balancedFrom(s, start); block != "" && json.Valid([]byte(block)) {
			return block
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return ""
}

func balancedFrom(s string, start int) string {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
