package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/remediarr/remediarr/internal/model"
)

// Fields is the fixed set of values comment templates may reference. Every
// placeholder resolves from here; templates cannot reach anything else.
type Fields struct {
	Title    string
	Season   int
	Episode  int
	Deleted  int
	Keywords []string
}

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Renderer expands {placeholder} tokens in configured comment templates.
// Unknown template names and unknown placeholders are configuration errors,
// surfaced so the caller can fall back to a generic message.
type Renderer struct {
	templates map[model.TemplateName]string
}

func NewRenderer(templates map[model.TemplateName]string) *Renderer {
	return &Renderer{templates: templates}
}

func (r *Renderer) Render(name model.TemplateName, fields Fields) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("no template configured for %q", name)
	}

	var badToken string
	out := placeholderRe.ReplaceAllStringFunc(tmpl, func(token string) string {
		value, ok := resolve(token[1:len(token)-1], fields)
		if !ok && badToken == "" {
			badToken = token
		}
		return value
	})
	if badToken != "" {
		return "", fmt.Errorf("template %q references unknown placeholder %s", name, badToken)
	}

	return out, nil
}

func resolve(key string, fields Fields) (string, bool) {
	switch key {
	case "title":
		return fields.Title, true
	case "season":
		return fmt.Sprintf("%02d", fields.Season), true
	case "episode":
		return fmt.Sprintf("%02d", fields.Episode), true
	case "deleted":
		return fmt.Sprintf("%d", fields.Deleted), true
	case "keywords":
		return strings.Join(fields.Keywords, ", "), true
	}
	return "", false
}
