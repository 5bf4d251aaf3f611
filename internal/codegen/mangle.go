package codegen

import (
	"strings"
	"unicode"

	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
)

// toSnake splits name on case boundaries and underscores/dots already
// present, lower-casing every word and joining with "_". "heightObserved"
// becomes "height_observed"; "Bouncer" becomes "bouncer".
func toSnake(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '.' || r == '-':
			b.WriteByte('_')
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prev != '_' && (unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower)) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FileName renders name as a lowercase-snake-case file stem (spec §4.6: "file
// names lowercase-snake").
func FileName(name string) string {
	return toSnake(name)
}

// MacroName renders name as an UPPER_SNAKE_CASE preprocessor macro name
// (spec §4.6: "macro names uppercase-snake").
func MacroName(name string) string {
	return strings.ToUpper(toSnake(name))
}

// localitySuffix is the identifier suffix a back-end appends to distinguish
// a struct/signal name's locality at a glance. Internal variables carry no
// suffix since they are the common case within a Definition's own scope.
func localitySuffix(l hantype.Locality) string {
	switch l {
	case hantype.ExternalInput:
		return "_in"
	case hantype.ExternalOutput:
		return "_out"
	case hantype.Parameter:
		return "_param"
	default:
		return ""
	}
}

// VarName renders a Variable's name for emission, suffixed by its locality
// (spec §4.6: "variable names by locality suffix") so that, e.g., a C struct
// field for an external input called "height" is distinguishable from an
// internal variable that happens to share the name after flattening lifts
// instances into a shared namespace.
func VarName(name string, l hantype.Locality) string {
	return toSnake(name) + localitySuffix(l)
}
