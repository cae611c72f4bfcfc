// Package prompts manages the system and user prompts for extraction
// requests. Embedded .tmpl files are the defaults; an operator can
// override either by saving a plain text file in the prompts directory.
package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed system.tmpl
var defaultSystemPrompt string

//go:embed user.tmpl
var defaultUserTmpl string

// File names for operator overrides inside the prompts directory.
const (
	SystemFileName = "system.txt"
	UserFileName   = "user.txt"
)

// DefaultSystemPrompt returns the embedded default system prompt.
func DefaultSystemPrompt() string {
	return defaultSystemPrompt
}

// DefaultUserTemplate returns the embedded default user prompt template.
func DefaultUserTemplate() string {
	return defaultUserTmpl
}

// UserPromptData is the payload available to the user prompt template.
type UserPromptData struct {
	// Document is the full source document text.
	Document string
	// Schema is the serialized contract the response must follow.
	Schema string
}

// BuildUserPrompt executes a user prompt template with the given data.
// The template text may be the embedded default or an operator override.
func BuildUserPrompt(tmplText string, data UserPromptData) (string, error) {
	tmpl, err := template.New("user").Parse(tmplText)
	if err != nil {
		return "", fmt.Errorf("failed to parse user prompt template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build user prompt: %w", err)
	}
	return buf.String(), nil
}
