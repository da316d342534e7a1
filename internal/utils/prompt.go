package utils

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
)

//go:embed prompts/*.txt
var embeddedPrompts embed.FS

// PromptLoader reads prompt templates and fills {VAR} placeholders.
type PromptLoader struct {
	fsys fs.FS
}

// NewPromptLoader reads templates from baseDir, or from the built-in set
// when baseDir is empty.
func NewPromptLoader(baseDir string) *PromptLoader {
	if baseDir != "" {
		return &PromptLoader{fsys: os.DirFS(baseDir)}
	}
	sub, _ := fs.Sub(embeddedPrompts, "prompts")
	return &PromptLoader{fsys: sub}
}

// LoadPrompt reads filename and replaces each {KEY} with its value.
func (p *PromptLoader) LoadPrompt(filename string, variables map[string]string) (string, error) {
	content, err := fs.ReadFile(p.fsys, filename)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	return strings.TrimSpace(placeholders(variables).Replace(string(content))), nil
}

// placeholders substitutes all keys in one pass, so a value that itself
// contains "{KEY}" is inserted literally.
func placeholders(variables map[string]string) *strings.Replacer {
	keys := make([]string, 0, len(variables))
	for key := range variables {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(pairs, "{"+key+"}", variables[key])
	}
	return strings.NewReplacer(pairs...)
}

// OptionalSection renders "label: value" on its own line, or nothing when
// value is blank.
func OptionalSection(label, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return "\n" + label + ": " + value
}
