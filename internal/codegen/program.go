package codegen

import (
	"fmt"

	"github.com/Goldenbeak21/modular-code-generation/internal/program"
)

// LowerProgram renders a Program as C-like statement lines (if/else-if/else,
// assignment, return, bare expression), indented starting at level. Neither
// back-end calls it: the C back-end does not emit Function bodies, and the
// RTL back-end has no call target for a Function.
func LowerProgram(p *program.Program, level, indentSize int, pd PrefixData, ops Ops) []string {
	var out []string
	for _, line := range p.Lines {
		ind := Indent(level, indentSize)
		switch line.Kind {
		case program.LineStatement:
			out = append(out, ind+LowerFormula(line.Expr, pd, ops)+";")
		case program.LineAssignment:
			out = append(out, fmt.Sprintf("%s%s = %s;", ind, pd.Resolve(line.Target), LowerFormula(line.Expr, pd, ops)))
		case program.LineReturn:
			out = append(out, ind+"return "+LowerFormula(line.Expr, pd, ops)+";")
		case program.LineIf:
			out = append(out, fmt.Sprintf("%sif (%s) {", ind, LowerFormula(line.Expr, pd, ops)))
			out = append(out, LowerProgram(line.Body, level+1, indentSize, pd, ops)...)
			out = append(out, ind+"}")
		case program.LineElseIf:
			out = appendElse(out, ind, fmt.Sprintf("else if (%s) {", LowerFormula(line.Expr, pd, ops)))
			out = append(out, LowerProgram(line.Body, level+1, indentSize, pd, ops)...)
			out = append(out, ind+"}")
		case program.LineElse:
			out = appendElse(out, ind, "else {")
			out = append(out, LowerProgram(line.Body, level+1, indentSize, pd, ops)...)
			out = append(out, ind+"}")
		}
	}
	return out
}

// appendElse joins an "else"/"else if" header onto the previous line's
// closing brace (the "} else {" style) rather than emitting the header on
// its own fresh line.
func appendElse(out []string, ind, header string) []string {
	if n := len(out); n > 0 && out[n-1] == ind+"}" {
		out[n-1] = ind + "} " + header
		return out
	}
	return append(out, ind+header)
}
