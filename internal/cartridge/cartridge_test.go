package cartridge

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const existing = `pico-8 cartridge // http://www.pico-8.com
version 41
__lua__
-- old code
print("old")
__gfx__
00000000
00700700
__sfx__
000100000000
`

func TestNew_WriteTo(t *testing.T) {
	var b bytes.Buffer
	_, err := New("function _init()\nend\n").WriteTo(&b)
	require.NoError(t, err)
	assert.Equal(t, "pico-8 cartridge // http://www.pico-8.com\nversion 42\n__lua__\nfunction _init()\nend\n", b.String())
}

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(existing))
	require.NoError(t, err)
	assert.Equal(t, 41, c.Version)
	require.Len(t, c.Sections, 3)
	assert.Equal(t, "__gfx__", c.Sections[1].Name)
	assert.Equal(t, "00000000\n00700700", c.Sections[1].Body)

	src, ok := c.Lua()
	require.True(t, ok)
	assert.Equal(t, "-- old code\nprint(\"old\")", src)
}

func TestParse_NotACartridge(t *testing.T) {
	_, err := Parse(strings.NewReader("function _init() end"))
	assert.ErrorIs(t, err, ErrNotACartridge)

	_, err = Parse(strings.NewReader("pico-8 cartridge // http://www.pico-8.com\nversion x\n"))
	assert.ErrorIs(t, err, ErrNotACartridge)
}

func TestMerge_KeepsAssets(t *testing.T) {
	out, err := Merge([]byte(existing), "function _draw()\n  cls()\nend\n")
	require.NoError(t, err)

	want := `pico-8 cartridge // http://www.pico-8.com
version 41
__lua__
function _draw()
  cls()
end
__gfx__
00000000
00700700
__sfx__
000100000000
`
	assert.Equal(t, want, string(out))
}

func TestMerge_Fresh(t *testing.T) {
	out, err := Merge(nil, "cls()")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "pico-8 cartridge"))
	assert.Contains(t, string(out), "__lua__\ncls()\n")
}

func TestParse_OnlyKnownSectionHeaders(t *testing.T) {
	cart := `pico-8 cartridge // http://www.pico-8.com
version 42
__lua__
a = 1
__tag__
b = 2
__meta:title__
demo
__gfx__
00000000
`
	c, err := Parse(strings.NewReader(cart))
	require.NoError(t, err)
	require.Len(t, c.Sections, 3)
	assert.Equal(t, "__meta:title__", c.Sections[1].Name)

	src, ok := c.Lua()
	require.True(t, ok)
	assert.Equal(t, "a = 1\n__tag__\nb = 2", src)

	out, err := Merge([]byte(cart), "x = 1\n__tag__\ny = 2\n")
	require.NoError(t, err)
	again, err := Parse(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, again.Sections, 3)
}
