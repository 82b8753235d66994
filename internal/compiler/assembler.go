package compiler

import (
	"sort"
	"strings"

	"github.com/aretw0/picograph/pkg/domain"
)

// Function is one generated top-level callback.
type Function struct {
	Name string
	Body []string
}

// Assemble renders the preamble followed by one function per entry.
// Standard callbacks come first in lifecycle order, custom ones alphabetically.
// Functions are separated by a blank line and the result ends with a newline.
func Assemble(preamble []string, functions []Function, indent string) string {
	fns := append([]Function(nil), functions...)
	sort.SliceStable(fns, func(i, j int) bool {
		pi, pj := domain.EventPriority(fns[i].Name), domain.EventPriority(fns[j].Name)
		if pi != pj {
			return pi < pj
		}
		return fns[i].Name < fns[j].Name
	})

	var blocks []string
	if len(preamble) > 0 {
		blocks = append(blocks, strings.Join(preamble, "\n"))
	}
	for _, fn := range fns {
		var b strings.Builder
		b.WriteString("function " + fn.Name + "()\n")
		for _, line := range indentLines(fn.Body, indent, 1) {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteString("end")
		blocks = append(blocks, b.String())
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}
