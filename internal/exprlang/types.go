package exprlang

import (
	"github.com/Goldenbeak21/modular-code-generation/internal/diagnostics"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
)

// VarTypes maps a variable name to its declared/inferred ValueType.
type VarTypes map[string]hantype.ValueType

// FuncTypes maps a caller-declared function name to its return ValueType.
type FuncTypes map[string]hantype.ValueType

// ResultType computes the result type of expr given the types of its free
// variables and the return types of any functions it calls (spec §4.1).
// Unknown names fail with ErrUnresolvedName; ill-typed operands fail with
// ErrTypeMismatch.
func ResultType(expr Node, vars VarTypes, funcs FuncTypes) (hantype.ValueType, error) {
	switch n := expr.(type) {
	case *Literal:
		if n.IsBool {
			return hantype.Boolean, nil
		}
		return hantype.Real, nil

	case *Variable:
		t, ok := vars[n.Name]
		if !ok {
			return hantype.Unknown, diagnostics.New(diagnostics.ErrUnresolvedName, n.Name, "no such variable")
		}
		return t, nil

	case *Unary:
		xt, err := ResultType(n.X, vars, funcs)
		if err != nil {
			return hantype.Unknown, err
		}
		switch n.Op {
		case OpNot:
			if xt != hantype.Boolean {
				return hantype.Unknown, diagnostics.New(diagnostics.ErrTypeMismatch, "!", "operand must be BOOLEAN, got %s", xt)
			}
			return hantype.Boolean, nil
		default: // OpNegate
			if xt != hantype.Real {
				return hantype.Unknown, diagnostics.New(diagnostics.ErrTypeMismatch, "-", "operand must be REAL, got %s", xt)
			}
			return hantype.Real, nil
		}

	case *Binary:
		lt, err := ResultType(n.L, vars, funcs)
		if err != nil {
			return hantype.Unknown, err
		}
		rt, err := ResultType(n.R, vars, funcs)
		if err != nil {
			return hantype.Unknown, err
		}
		switch {
		case n.Op.isArithmetic():
			if lt != hantype.Real || rt != hantype.Real {
				return hantype.Unknown, diagnostics.New(diagnostics.ErrTypeMismatch, n.Op.String(), "operands must be REAL, got %s and %s", lt, rt)
			}
			return hantype.Real, nil
		case n.Op.isComparison():
			if lt != rt {
				return hantype.Unknown, diagnostics.New(diagnostics.ErrTypeMismatch, n.Op.String(), "operands must match, got %s and %s", lt, rt)
			}
			return hantype.Boolean, nil
		case n.Op.isLogical():
			if lt != hantype.Boolean || rt != hantype.Boolean {
				return hantype.Unknown, diagnostics.New(diagnostics.ErrTypeMismatch, n.Op.String(), "operands must be BOOLEAN, got %s and %s", lt, rt)
			}
			return hantype.Boolean, nil
		}
		return hantype.Unknown, diagnostics.New(diagnostics.ErrTypeMismatch, n.Op.String(), "unknown binary operator")

	case *NAry:
		for _, a := range n.Args {
			at, err := ResultType(a, vars, funcs)
			if err != nil {
				return hantype.Unknown, err
			}
			if at != hantype.Boolean {
				return hantype.Unknown, diagnostics.New(diagnostics.ErrTypeMismatch, n.Op.String(), "all operands must be BOOLEAN, got %s", at)
			}
		}
		return hantype.Boolean, nil

	case *Builtin:
		want := builtinArity[n.Op]
		if len(n.Args) != want {
			return hantype.Unknown, diagnostics.New(diagnostics.ErrArityMismatch, n.Op.String(), "expected %d argument(s), got %d", want, len(n.Args))
		}
		for _, a := range n.Args {
			at, err := ResultType(a, vars, funcs)
			if err != nil {
				return hantype.Unknown, err
			}
			if at != hantype.Real {
				return hantype.Unknown, diagnostics.New(diagnostics.ErrTypeMismatch, n.Op.String(), "arguments must be REAL, got %s", at)
			}
		}
		return hantype.Real, nil

	case *Call:
		t, ok := funcs[n.Name]
		if !ok {
			return hantype.Unknown, diagnostics.New(diagnostics.ErrUnresolvedName, n.Name, "no such function")
		}
		for _, a := range n.Args {
			if _, err := ResultType(a, vars, funcs); err != nil {
				return hantype.Unknown, err
			}
		}
		return t, nil
	}
	return hantype.Unknown, diagnostics.New(diagnostics.ErrParse, "", "unreachable node type")
}
