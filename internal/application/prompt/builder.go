// Package prompt renders the per-action instruction sent to the model.
package prompt

import (
	"fmt"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/doeshing/tunemate-go/internal/domain"
)

var funcs = template.FuncMap{
	"title": func(s string) string {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError {
			return s
		}
		return string(unicode.ToUpper(r)) + s[size:]
	},
}

var templates = map[domain.Action]*template.Template{
	domain.ActionReply:     mustParse(domain.ActionReply, replyTemplate),
	domain.ActionGrammar:   mustParse(domain.ActionGrammar, grammarTemplate),
	domain.ActionSimplify:  mustParse(domain.ActionSimplify, simplifyTemplate),
	domain.ActionPolite:    mustParse(domain.ActionPolite, politeTemplate),
	domain.ActionTranslate: mustParse(domain.ActionTranslate, translateTemplate),
	domain.ActionEvaluate:  mustParse(domain.ActionEvaluate, evaluateTemplate),
}

func mustParse(action domain.Action, body string) *template.Template {
	return template.Must(template.New(string(action)).Funcs(funcs).Parse(body))
}

type promptData struct {
	Text      string
	Reference string
}

// Build renders the prompt for action. Text and reference are embedded
// verbatim; validating them is the caller's job. The only error is an
// action with no template.
func Build(action domain.Action, text, reference string) (string, error) {
	tmpl, ok := templates[action]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownAction, action)
	}

	var sb strings.Builder
	data := promptData{Text: text, Reference: strings.TrimSpace(reference)}
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", action, err)
	}
	return sb.String(), nil
}

// Has reports whether a template exists for action.
func Has(action domain.Action) bool {
	_, ok := templates[action]
	return ok
}
