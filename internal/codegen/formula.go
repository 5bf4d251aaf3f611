package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
)

// Ops is a back-end's rendering vocabulary for Formula lowering: how its
// target language spells each operator and builtin. LowerFormula walks the
// exprlang AST once and defers every spelling decision to this table, so
// cback and rtl share the walk and precedence logic and differ only in
// their Ops value.
type Ops struct {
	// Binary renders an infix BinaryOp, except OpPow which Pow handles
	// instead (most targets have no '^' operator).
	Binary func(op exprlang.BinaryOp) string
	// Pow renders base^exp as a function call (e.g. C's pow(base, exp)).
	Pow func(base, exp string) string
	// Unary renders a UnaryOp's prefix spelling.
	Unary func(op exprlang.UnaryOp) string
	// NAry renders a chained-and/or operator's infix spelling.
	NAry func(op exprlang.NAryOp) string
	// Bool renders a boolean literal.
	Bool func(b bool) string
	// Builtin renders op's target function name.
	Builtin func(op exprlang.BuiltinOp) string
	// Call renders a caller-declared function's name (identity by default).
	Call func(name string) string
	// Literal renders a numeric Literal's value, overriding the default
	// decimal-text rendering. Nil means "use the default": plain decimal
	// text (the C back-end's doubles need no conversion). The RTL back-end
	// sets this to render every numeric literal as a Q16.16 fixed-point
	// constant (spec §4.6.2).
	Literal func(x float64) string
	// BinaryFunc overrides a BinaryOp's default infix rendering with a
	// function-call form, the same way Pow already does for every target
	// (most have no '^' operator). The RTL back-end routes OpMul/OpDiv
	// through this to call its fixed-point rescale helpers, since a bare
	// "*"/"/" on two Q16.16 operands is not correctly scaled.
	BinaryFunc map[exprlang.BinaryOp]func(left, right string) string
}

const (
	precOr = iota + 1
	precAnd
	precComparison
	precAdditive
	precMultiplicative
	precUnary
	precPow
	precAtom
)

func precedenceOf(n exprlang.Node) int {
	switch v := n.(type) {
	case *exprlang.Literal, *exprlang.Variable, *exprlang.Call, *exprlang.Builtin:
		return precAtom
	case *exprlang.Unary:
		return precUnary
	case *exprlang.Binary:
		switch v.Op {
		case exprlang.OpPow:
			return precPow
		case exprlang.OpAdd, exprlang.OpSub:
			return precAdditive
		case exprlang.OpMul, exprlang.OpDiv:
			return precMultiplicative
		case exprlang.OpAnd:
			return precAnd
		case exprlang.OpOr:
			return precOr
		default:
			return precComparison
		}
	case *exprlang.NAry:
		if v.Op == exprlang.OpAndChain {
			return precAnd
		}
		return precOr
	}
	return precAtom
}

// LowerFormula renders n as target-language source text, resolving every
// Variable reference through pd and every operator/builtin through ops.
func LowerFormula(n exprlang.Node, pd PrefixData, ops Ops) string {
	return wrapFormula(n, precOr, false, false, pd, ops)
}

func renderFormula(n exprlang.Node, pd PrefixData, ops Ops) string {
	switch v := n.(type) {
	case *exprlang.Literal:
		if v.IsBool {
			return ops.Bool(v.Bool)
		}
		if ops.Literal != nil {
			return ops.Literal(v.Num)
		}
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case *exprlang.Variable:
		return pd.Resolve(v.Name)
	case *exprlang.Unary:
		return ops.Unary(v.Op) + wrapFormula(v.X, precUnary, false, false, pd, ops)
	case *exprlang.Binary:
		if v.Op == exprlang.OpPow {
			return ops.Pow(
				wrapFormula(v.L, precPow, false, true, pd, ops),
				wrapFormula(v.R, precPow, true, true, pd, ops),
			)
		}
		if fn, ok := ops.BinaryFunc[v.Op]; ok {
			return fn(LowerFormula(v.L, pd, ops), LowerFormula(v.R, pd, ops))
		}
		p := precedenceOf(v)
		left := wrapFormula(v.L, p, false, false, pd, ops)
		right := wrapFormula(v.R, p, true, false, pd, ops)
		return fmt.Sprintf("%s %s %s", left, ops.Binary(v.Op), right)
	case *exprlang.NAry:
		p := precedenceOf(v)
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			parts[i] = wrapFormula(a, p, true, false, pd, ops)
		}
		return strings.Join(parts, " "+ops.NAry(v.Op)+" ")
	case *exprlang.Call:
		return ops.Call(v.Name) + "(" + joinFormulaArgs(v.Args, pd, ops) + ")"
	case *exprlang.Builtin:
		return ops.Builtin(v.Op) + "(" + joinFormulaArgs(v.Args, pd, ops) + ")"
	default:
		return ""
	}
}

func joinFormulaArgs(args []exprlang.Node, pd PrefixData, ops Ops) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = LowerFormula(a, pd, ops)
	}
	return strings.Join(parts, ", ")
}

func wrapFormula(child exprlang.Node, parentPrec int, isRight, rightAssoc bool, pd PrefixData, ops Ops) string {
	cp := precedenceOf(child)
	needsParens := cp < parentPrec
	if cp == parentPrec {
		if rightAssoc {
			needsParens = !isRight
		} else {
			needsParens = isRight
		}
	}
	rendered := renderFormula(child, pd, ops)
	if needsParens {
		return "(" + rendered + ")"
	}
	return rendered
}
