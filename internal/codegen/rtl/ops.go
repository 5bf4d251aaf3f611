package rtl

import (
	"strconv"

	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
)

var rtlBuiltinNames = map[exprlang.BuiltinOp]string{
	exprlang.BSqrt:  "fixed_sqrt",
	exprlang.BExp:   "fixed_exp",
	exprlang.BLn:    "fixed_ln",
	exprlang.BSin:   "fixed_sin",
	exprlang.BCos:   "fixed_cos",
	exprlang.BTan:   "fixed_tan",
	exprlang.BFloor: "fixed_floor",
	exprlang.BCeil:  "fixed_ceil",
	exprlang.BAbs:   "fixed_abs",
	exprlang.BPow:   "fixed_pow",
}

// formulaOps is the Ops table codegen.LowerFormula uses to render a Formula
// as VHDL source text. Binary +/- lower to plain signed arithmetic (Q16.16
// addition/subtraction needs no rescale); *,/ and every numeric builtin
// dispatch to the fixed-point package's named functions since those do need
// a rescale a bare operator cannot express (spec §4.6.2's Q16.16 lowering).
var formulaOps = codegen.Ops{
	Binary: func(op exprlang.BinaryOp) string {
		switch op {
		case exprlang.OpAdd:
			return "+"
		case exprlang.OpSub:
			return "-"
		case exprlang.OpEqual:
			return "="
		case exprlang.OpNotEqual:
			return "/="
		case exprlang.OpLess:
			return "<"
		case exprlang.OpLessEq:
			return "<="
		case exprlang.OpGreater:
			return ">"
		case exprlang.OpGreaterEq:
			return ">="
		case exprlang.OpAnd:
			return "and"
		case exprlang.OpOr:
			return "or"
		default:
			return op.String()
		}
	},
	Pow: func(base, exp string) string { return "fixed_pow(" + base + ", " + exp + ")" },
	Unary: func(op exprlang.UnaryOp) string {
		if op == exprlang.OpNot {
			return "not "
		}
		return "-"
	},
	NAry: func(op exprlang.NAryOp) string {
		if op == exprlang.OpOrChain {
			return "or"
		}
		return "and"
	},
	Bool: func(b bool) string {
		if b {
			return "'1'"
		}
		return "'0'"
	},
	Builtin: func(op exprlang.BuiltinOp) string { return rtlBuiltinNames[op] },
	Call:    func(name string) string { return codegen.FileName(name) },
	// Literal renders every numeric constant as a Q16.16 fixed-point
	// constant (spec §4.6.2: "literals and defaults are converted via
	// convertToFixedPoint(x) = round(x * 2^16)").
	Literal: func(x float64) string {
		return "to_signed(" + strconv.FormatInt(codegen.ToFixedPoint(x), 10) + ", 32)"
	},
	// BinaryFunc: "*" and "/" need a rescale a bare signed operator cannot
	// express, so they route through the fixed-point package's helpers
	// instead of plain infix (spec §4.6.2's Q16.16 lowering).
	BinaryFunc: map[exprlang.BinaryOp]func(left, right string) string{
		exprlang.OpMul: func(l, r string) string { return "fixed_mul(" + l + ", " + r + ")" },
		exprlang.OpDiv: func(l, r string) string { return "fixed_div(" + l + ", " + r + ")" },
	},
}
