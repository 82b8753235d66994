package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestStatus_PlainProfile(t *testing.T) {
	assert.Equal(t, "✔ compiled", Status(termenv.Ascii, true, "compiled"))
	assert.Equal(t, "✘ cycle", Status(termenv.Ascii, false, "cycle"))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/")
}

func TestCatalogueMarkdown(t *testing.T) {
	md := CatalogueMarkdown([]domain.NodeDefinition{
		{
			ID: "if", Title: "If", Category: "Flow",
			Inputs: []domain.PinConfig{
				{ID: "exec", Kind: domain.KindExec},
				{ID: "condition", Kind: domain.KindBoolean, Required: true},
			},
			Outputs: []domain.PinConfig{{ID: "then", Kind: domain.KindExec}},
		},
		{ID: "on_init", Title: "On Init", Category: "Events"},
	})

	assert.Contains(t, md, "## Events")
	assert.Contains(t, md, "| `if` | If | exec:exec, condition:boolean! | then:exec |")
	assert.Contains(t, md, "| `on_init` | On Init | - | - |")
	assert.Less(t, bytes.Index([]byte(md), []byte("## Events")), bytes.Index([]byte(md), []byte("## Flow")))
}

func TestNewRenderer(t *testing.T) {
	out, err := NewRenderer()("# Title")
	assert.NoError(t, err)
	assert.Contains(t, out, "Title")
}
