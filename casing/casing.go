/*
Package casing renames keys between the snake_case convention spoken on the wire
and the camelCase convention used by smartapp code.

Maps are rewritten key by key, slices element by element, everything else passes through.
*/
package casing

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ToCamel rewrites every map key found in v from snake_case to camelCase.
func ToCamel(v any) any {
	return walk(v, SnakeToCamel)
}

// ToSnake rewrites every map key found in v from camelCase to snake_case.
func ToSnake(v any) any {
	return walk(v, CamelToSnake)
}

func walk(v any, rename func(string) string) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, item := range val {
			out[rename(key)] = walk(item, rename)
		}

		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = walk(item, rename)
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = walk(item, rename)
		}

		return out
	default:
		return v
	}
}

// SnakeToCamel converts city_name into cityName.
// The first segment is lowercased, every following one gets an uppercase first letter.
// Segments that start with a digit or are already uppercase lose their boundary, so
// item_2 and File_Id do not survive a round trip through CamelToSnake.
func SnakeToCamel(key string) string {
	if !strings.Contains(key, "_") {
		return key
	}

	segments := strings.Split(key, "_")

	var b strings.Builder
	b.Grow(len(key))
	b.WriteString(strings.ToLower(segments[0]))

	for _, segment := range segments[1:] {
		if segment == "" {
			continue
		}

		r, size := utf8.DecodeRuneInString(segment)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(segment[size:])
	}

	return b.String()
}

// CamelToSnake converts cityName into city_name.
func CamelToSnake(key string) string {
	if key == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(key) + 4) //nolint:mnd // room for a few separators

	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}

			b.WriteRune(unicode.ToLower(r))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}
