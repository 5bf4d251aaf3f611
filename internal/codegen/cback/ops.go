package cback

import (
	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
)

var cBuiltinNames = map[exprlang.BuiltinOp]string{
	exprlang.BSqrt:  "sqrt",
	exprlang.BExp:   "exp",
	exprlang.BLn:    "log",
	exprlang.BSin:   "sin",
	exprlang.BCos:   "cos",
	exprlang.BTan:   "tan",
	exprlang.BFloor: "floor",
	exprlang.BCeil:  "ceil",
	exprlang.BAbs:   "fabs",
	exprlang.BPow:   "pow",
}

// formulaOps is the Ops table codegen.LowerFormula uses to render a Formula
// as C89/C99 source text (math.h double arithmetic throughout).
var formulaOps = codegen.Ops{
	Binary: func(op exprlang.BinaryOp) string { return op.String() },
	Pow:    func(base, exp string) string { return "pow(" + base + ", " + exp + ")" },
	Unary: func(op exprlang.UnaryOp) string {
		if op == exprlang.OpNot {
			return "!"
		}
		return "-"
	},
	NAry: func(op exprlang.NAryOp) string { return op.String() },
	Bool: func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	},
	Builtin: func(op exprlang.BuiltinOp) string { return cBuiltinNames[op] },
	Call:    func(name string) string { return codegen.FileName(name) },
}
