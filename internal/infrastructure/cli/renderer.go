package cli

import (
	"fmt"
	"strings"

	"github.com/doeshing/tunemate-go/internal/domain"
	"github.com/doeshing/tunemate-go/internal/infrastructure/cli/helpers"
)

// RenderResult formats a processed result for the terminal: one box per
// option, the evaluation when present, and a footer with processing info.
func RenderResult(result domain.ProcessResult) string {
	resp := result.Response
	var b strings.Builder

	header := fmt.Sprintf("%s  %s", helpers.Title.Render(string(resp.Action)), helpers.OutcomeStyle(resp.Outcome).Render(string(resp.Outcome)))
	if resp.Tier != domain.TierNone {
		header += helpers.Muted.Render(fmt.Sprintf(" (fallback tier %d)", resp.Tier))
	}
	b.WriteString(header + "\n\n")

	for i, option := range resp.Options {
		b.WriteString(helpers.Box.Render(renderOption(i, option)))
		b.WriteString("\n")
	}

	if resp.Evaluation != nil {
		b.WriteString(renderEvaluation(*resp.Evaluation))
	}

	if resp.Encouragement != "" {
		b.WriteString("\n" + resp.Encouragement + "\n")
	}
	b.WriteString(helpers.Muted.Render(footer(result.ProcessingInfo)) + "\n")
	return b.String()
}

func renderOption(index int, option domain.OptionRecord) string {
	title := option.Title
	if title == "" {
		title = fmt.Sprintf("Option %d", index+1)
	}
	lines := []string{helpers.Title.Render(title), option.Content}
	if option.Note != "" {
		lines = append(lines, helpers.Muted.Render("Note: "+option.Note))
	}
	if option.Explanation != "" {
		lines = append(lines, helpers.Muted.Render("Why: "+option.Explanation))
	}
	return strings.Join(lines, "\n")
}

func renderEvaluation(eval domain.Evaluation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %d/10\n", helpers.Title.Render("Score:"), eval.Score)
	writeList(&b, "Mistakes", eval.Mistakes)
	writeList(&b, "Strengths", eval.Strengths)
	return b.String()
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(helpers.Title.Render(label+":") + "\n")
	for _, item := range items {
		b.WriteString("  - " + item + "\n")
	}
}

func footer(info domain.ProcessingInfo) string {
	parts := []string{fmt.Sprintf("model %s", info.Model)}
	if info.FromCache {
		parts = append(parts, "from cache")
	}
	if info.DatabaseSaved {
		parts = append(parts, "saved to history")
	}
	return strings.Join(parts, " | ")
}
