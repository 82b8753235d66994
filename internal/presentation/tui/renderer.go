package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// CatalogueMarkdown documents the definitions as markdown, one section per category.
func CatalogueMarkdown(defs []domain.NodeDefinition) string {
	byCategory := make(map[string][]domain.NodeDefinition)
	for _, d := range defs {
		byCategory[d.Category] = append(byCategory[d.Category], d)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var sb strings.Builder
	sb.WriteString("# Node catalogue\n")
	for _, c := range categories {
		name := c
		if name == "" {
			name = "Other"
		}
		fmt.Fprintf(&sb, "\n## %s\n\n", name)
		sb.WriteString("| id | title | inputs | outputs |\n")
		sb.WriteString("|----|-------|--------|---------|\n")
		for _, d := range byCategory[c] {
			fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n", d.ID, d.Title, pinList(d.Inputs), pinList(d.Outputs))
		}
	}
	return sb.String()
}

func pinList(pins []domain.PinConfig) string {
	if len(pins) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(pins))
	for _, p := range pins {
		s := fmt.Sprintf("%s:%s", p.ID, p.Kind)
		if p.Required {
			s += "!"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}
