package lua

import (
	"fmt"
	"strings"
)

// HiddenPrefix marks compiler-generated temporaries.
// SanitizeIdentifier never produces a name starting with it.
const HiddenPrefix = "__pg"

// FallbackIdentifier is used when the raw text holds no usable character.
const FallbackIdentifier = "var"

var keywords = []string{
	"and", "break", "do", "else", "elseif", "end", "false", "for", "function", "goto", "if",
	"in", "local", "nil", "not", "or", "repeat", "return", "then", "true", "until", "while",
}

// PICO-8 callbacks and API globals. Shadowing them with a user variable breaks the cart.
var globals = []string{
	"_init", "_update", "_update60", "_draw",
	"abs", "add", "all", "atan2", "band", "bnot", "bor", "btn", "btnp", "bxor", "camera",
	"ceil", "chr", "circ", "circfill", "clip", "cls", "cocreate", "color", "coresume", "cos",
	"costatus", "count", "cursor", "del", "deli", "fget", "fillp", "flip", "flr", "foreach",
	"fset", "line", "map", "max", "mget", "mid", "min", "mset", "music", "oval", "ovalfill",
	"pairs", "pal", "palt", "peek", "pget", "poke", "print", "printh", "pset", "rect",
	"rectfill", "rnd", "sfx", "sget", "sgn", "shl", "shr", "sin", "split", "spr", "sqrt",
	"srand", "sset", "sspr", "stat", "stop", "sub", "time", "tostr", "tonum", "yield",
}

var reserved = func() map[string]bool {
	m := make(map[string]bool, len(keywords)+len(globals))
	for _, k := range keywords {
		m[k] = true
	}
	for _, g := range globals {
		m[g] = true
	}
	return m
}()

// IsReserved reports whether name is a Lua keyword or a PICO-8 global.
func IsReserved(name string) bool {
	return reserved[name]
}

// IsKeyword reports whether name is a Lua keyword.
func IsKeyword(name string) bool {
	for _, k := range keywords {
		if k == name {
			return true
		}
	}
	return false
}

// IsIdentifier reports whether s matches [A-Za-z_][A-Za-z0-9_]* and is not a keyword.
func IsIdentifier(s string) bool {
	if s == "" || IsKeyword(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isIdentByte(c) || (i == 0 && isDigit(c)) {
			return false
		}
	}
	return true
}

// SanitizeIdentifier maps arbitrary text onto a valid, non-reserved Lua identifier.
func SanitizeIdentifier(raw string) string {
	var sb strings.Builder
	usable := false
	for _, r := range raw {
		if r < 0x80 && isIdentByte(byte(r)) {
			sb.WriteRune(r)
			if r != '_' {
				usable = true
			}
			continue
		}
		sb.WriteByte('_')
	}
	if !usable {
		return FallbackIdentifier
	}

	s := sb.String()
	if isDigit(s[0]) {
		s = "_" + s
	}
	if strings.HasPrefix(s, HiddenPrefix) {
		s = "v" + s
	}
	for reserved[s] {
		s += "_"
	}
	return s
}

// HiddenName builds the name of a compiler-generated temporary owned by nodeID.
// Distinct node ids always give distinct names.
func HiddenName(nodeID, name string, seq int) string {
	return fmt.Sprintf("%s_%s_%s_%d", HiddenPrefix, escapeID(nodeID), SanitizeIdentifier(name), seq)
}

// escapeID is an injective mapping of arbitrary text onto identifier bytes.
func escapeID(id string) string {
	var sb strings.Builder
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c == '_':
			sb.WriteString("__")
		case isIdentByte(c):
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, "_%02x", c)
		}
	}
	return sb.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentByte(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
