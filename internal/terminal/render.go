// Package terminal renders agent answers, the banner and the history list
// for the interactive CLI.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fleveque/stock-agent/internal/model"
)

const width = 80

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 1).
		Width(width)

	textStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Width(width)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6"))

	imageStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	warningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B")).
		Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	mutedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)
)

// Banner returns the welcome panel: title, API key status and usage examples.
func Banner(provider string, configured bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📊 AI Stock Agent"))
	b.WriteString("\n\n")

	if configured {
		b.WriteString(okStyle.Render(fmt.Sprintf("✔ %s API key found", provider)))
	} else {
		b.WriteString(warningStyle.Render(fmt.Sprintf("⚠ %s not set: AI insights will show an error", apiKeyVar(provider))))
	}
	b.WriteString("\n\n")

	b.WriteString("Type a stock ticker or a finance question, e.g.\n")
	for _, ex := range []string{"stock price of TSLA", "compare AAPL and MSFT", "what is a dividend?"} {
		b.WriteString(mutedStyle.Render("  • " + ex))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("Questions outside finance (e.g. Explain machine learning) are declined."))

	return panelStyle.Render(b.String())
}

func apiKeyVar(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	default:
		return "MISTRAL_API_KEY"
	}
}

// Items renders an answer. The first item of a ticker report is styled as
// a header; charts are shown as the path they were saved to.
func Items(items []model.ResponseItem) string {
	var blocks []string
	for i, it := range items {
		switch {
		case it.IsImage():
			blocks = append(blocks, imageStyle.Render("🖼  chart saved to "+it.Path))
		case i == 0 && len(items) > 1:
			blocks = append(blocks, headerStyle.Render(it.Text))
		default:
			blocks = append(blocks, textStyle.Render(markdownBold(strings.TrimRight(it.Text, "\n"))))
		}
	}
	return strings.Join(blocks, "\n\n")
}

// markdownBold renders **bold** spans, which is all the markup the agent emits.
func markdownBold(s string) string {
	parts := strings.Split(s, "**")
	if len(parts) < 3 {
		return s
	}
	bold := lipgloss.NewStyle().Bold(true)
	var b strings.Builder
	for i, p := range parts {
		// An unmatched trailing "**" leaves an even number of parts.
		if i%2 == 1 && i < len(parts)-1 {
			b.WriteString(bold.Render(p))
			continue
		}
		if i%2 == 1 {
			b.WriteString("**")
		}
		b.WriteString(p)
	}
	return b.String()
}

// History renders saved queries numbered from 1, newest first.
func History(entries []model.HistoryEntry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("No saved queries yet.")
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("🕘 History"))
	for i, e := range entries {
		fmt.Fprintf(&b, "\n%d. %s", i+1, e.Query)
	}
	return b.String()
}

// Warning renders a one-line warning such as the blank query message.
func Warning(msg string) string {
	return warningStyle.Render("⚠ " + msg)
}
