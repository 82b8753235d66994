package lua

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/spf13/cast"
)

// ErrNotALiteral is returned when a value cannot be rendered for the requested kind.
var ErrNotALiteral = errors.New("value cannot be formatted as a lua literal")

// PICO-8 accepts decimal, hex (optionally fractional) and binary numerals.
var numeral = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+|0[xX][0-9a-fA-F]+(\.[0-9a-fA-F]*)?|0[bB][01]+(\.[01]*)?)$`)

// FormatLiteral renders value as Lua source for a pin or property of the given kind.
// Absent values render as nil.
func FormatLiteral(kind domain.PinKind, value any) (string, error) {
	if value == nil {
		return "nil", nil
	}
	switch kind {
	case domain.KindString:
		s, err := cast.ToStringE(value)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotALiteral, err)
		}
		return Quote(s), nil
	case domain.KindBoolean:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotALiteral, err)
		}
		return strconv.FormatBool(b), nil
	case domain.KindNumber:
		return formatNumber(value)
	case domain.KindTable:
		return formatTable(value)
	case domain.KindAny, "":
		return formatAny(value)
	case domain.KindEnum:
		return "", fmt.Errorf("%w: enum values need FormatEnum", ErrNotALiteral)
	default:
		return "", fmt.Errorf("%w: kind %q has no literal form", ErrNotALiteral, kind)
	}
}

// FormatEnum checks value against options and renders it as a string literal.
func FormatEnum(options []string, value any) (string, error) {
	s, err := cast.ToStringE(value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotALiteral, err)
	}
	for _, o := range options {
		if o == s {
			return Quote(s), nil
		}
	}
	return "", fmt.Errorf("%w: %q is not one of %s", ErrNotALiteral, s, strings.Join(options, ", "))
}

// Quote renders s as a double-quoted Lua string.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				// Decimal escapes are greedy, pad so a following digit is not absorbed.
				fmt.Fprintf(&sb, `\%03d`, c)
				continue
			}
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func formatNumber(value any) (string, error) {
	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		if !numeral.MatchString(s) {
			return "", fmt.Errorf("%w: %q is not a number", ErrNotALiteral, v)
		}
		return s, nil
	case bool:
		return "", fmt.Errorf("%w: boolean is not a number", ErrNotALiteral)
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotALiteral, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v is not finite", ErrNotALiteral, f)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func formatAny(value any) (string, error) {
	switch value.(type) {
	case nil:
		return "nil", nil
	case string:
		return FormatLiteral(domain.KindString, value)
	case bool:
		return FormatLiteral(domain.KindBoolean, value)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return formatNumber(value)
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return formatTable(value)
	}
	return "", fmt.Errorf("%w: unsupported type %T", ErrNotALiteral, value)
}

// formatTable renders slices as sequences and maps as records with sorted keys.
func formatTable(value any) (string, error) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			s, err := formatAny(rv.Index(i).Interface())
			if err != nil {
				return "", fmt.Errorf("element %d: %w", i+1, err)
			}
			parts = append(parts, s)
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		values := make(map[string]any, rv.Len())
		for _, k := range rv.MapKeys() {
			ks, err := cast.ToStringE(k.Interface())
			if err != nil {
				return "", fmt.Errorf("%w: table key %v", ErrNotALiteral, k.Interface())
			}
			keys = append(keys, ks)
			values[ks] = rv.MapIndex(k).Interface()
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			s, err := formatAny(values[k])
			if err != nil {
				return "", fmt.Errorf("field %s: %w", k, err)
			}
			if IsIdentifier(k) {
				parts = append(parts, k+"="+s)
			} else {
				parts = append(parts, "["+Quote(k)+"]="+s)
			}
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	}
	return "", fmt.Errorf("%w: %T is not a table", ErrNotALiteral, value)
}
