// Package cartridge reads and writes the text .p8 cartridge format.
package cartridge

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	header = "pico-8 cartridge // http://www.pico-8.com"
	// DefaultVersion is the cartridge format version written in new carts.
	DefaultVersion = 42
	luaSection     = "__lua__"
)

// ErrNotACartridge is returned for input without the .p8 header.
var ErrNotACartridge = errors.New("not a pico-8 cartridge")

// Cartridge is a parsed .p8 file. Sections keep their order and raw bodies.
type Cartridge struct {
	Version  int
	Sections []Section
}

// Section is one "__name__" block.
type Section struct {
	Name string
	Body string
}

// New creates a cartridge holding only Lua source.
func New(source string) *Cartridge {
	c := &Cartridge{Version: DefaultVersion}
	c.SetLua(source)
	return c
}

// Lua returns the source of the __lua__ section.
func (c *Cartridge) Lua() (string, bool) {
	for _, s := range c.Sections {
		if s.Name == luaSection {
			return s.Body, true
		}
	}
	return "", false
}

// SetLua replaces the __lua__ section, adding it first when missing.
func (c *Cartridge) SetLua(source string) {
	body := strings.TrimRight(source, "\n")
	for i, s := range c.Sections {
		if s.Name == luaSection {
			c.Sections[i].Body = body
			return
		}
	}
	c.Sections = append([]Section{{Name: luaSection, Body: body}}, c.Sections...)
}

// WriteTo renders the cartridge.
func (c *Cartridge) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s\nversion %d\n", header, c.Version)
	for _, s := range c.Sections {
		b.WriteString(s.Name)
		b.WriteByte('\n')
		if s.Body != "" {
			b.WriteString(s.Body)
			b.WriteByte('\n')
		}
	}
	return b.WriteTo(w)
}

// Parse reads a .p8 file.
func Parse(r io.Reader) (*Cartridge, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !sc.Scan() || strings.TrimSpace(sc.Text()) != header {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotACartridge
	}

	c := &Cartridge{Version: DefaultVersion}
	var (
		current *Section
		body    []string
	)
	flush := func() {
		if current != nil {
			current.Body = strings.TrimRight(strings.Join(body, "\n"), "\n")
			c.Sections = append(c.Sections, *current)
		}
		body = nil
	}

	for sc.Scan() {
		line := sc.Text()
		if current == nil && strings.HasPrefix(line, "version ") {
			if _, err := fmt.Sscanf(line, "version %d", &c.Version); err != nil {
				return nil, fmt.Errorf("%w: bad version line %q", ErrNotACartridge, line)
			}
			continue
		}
		if isSectionHeader(line) {
			flush()
			current = &Section{Name: line}
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return c, nil
}

// sectionNames are the headers PICO-8 writes. Any other __name__ line is Lua.
var sectionNames = map[string]bool{
	"__lua__":   true,
	"__gfx__":   true,
	"__gff__":   true,
	"__label__": true,
	"__map__":   true,
	"__sfx__":   true,
	"__music__": true,
}

func isSectionHeader(line string) bool {
	if sectionNames[line] {
		return true
	}
	// Metadata sections such as __meta:title__.
	return strings.HasPrefix(line, "__meta:") && strings.HasSuffix(line, "__") &&
		!strings.ContainsAny(line, " \t")
}

// Merge replaces the Lua of an existing cartridge and keeps its assets.
// Empty existing data produces a fresh cartridge.
func Merge(existing []byte, source string) ([]byte, error) {
	c := New(source)
	if len(bytes.TrimSpace(existing)) > 0 {
		parsed, err := Parse(bytes.NewReader(existing))
		if err != nil {
			return nil, err
		}
		parsed.SetLua(source)
		c = parsed
	}
	var out bytes.Buffer
	if _, err := c.WriteTo(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
