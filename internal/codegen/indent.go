package codegen

import "strings"

// Indent renders one level of indentation per spec §6's codegenConfig
// "indentSize (int, default 4; negative means tabs)": a positive size is
// that many spaces per level, a negative size is one tab per level
// regardless of magnitude.
func Indent(level, indentSize int) string {
	if level <= 0 {
		return ""
	}
	if indentSize < 0 {
		return strings.Repeat("\t", level)
	}
	return strings.Repeat(" ", level*indentSize)
}
