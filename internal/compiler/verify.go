package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/gopher-lua/parse"
)

// ErrInvalidSource is returned when generated source fails to parse.
var ErrInvalidSource = errors.New("generated source does not parse")

// Verify parses src as Lua 5.1. PICO-8 numeral extensions such as 0b1010
// and hexadecimal fractions are not understood by the parser.
func Verify(src string) error {
	if _, err := parse.Parse(strings.NewReader(src), "cart.lua"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	return nil
}
