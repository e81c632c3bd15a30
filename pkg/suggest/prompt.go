package suggest

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed prompt.tmpl
var promptText string

var promptTemplate = template.Must(template.New("suggest").Parse(promptText))

type promptData struct {
	Request
	Count int
}

// RenderPrompt fills the prompt template for req.
func RenderPrompt(req Request, count int) (string, error) {
	var b strings.Builder
	if err := promptTemplate.Execute(&b, promptData{Request: req, Count: count}); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return b.String(), nil
}
