package exprlang

import (
	"math"

	"github.com/Goldenbeak21/modular-code-generation/internal/diagnostics"
)

// Evaluate computes the value of expr under env. Evaluation is side-effect
// free and deterministic; it fails with ErrUnresolvedName, ErrTypeMismatch,
// ErrDivisionByZero, or ErrArityMismatch (spec §4.1).
func Evaluate(expr Node, env Env) (Value, error) {
	switch n := expr.(type) {
	case *Literal:
		if n.IsBool {
			return BoolValue(n.Bool), nil
		}
		return NumValue(n.Num), nil

	case *Variable:
		v, ok := env[n.Name]
		if !ok {
			return Value{}, diagnostics.New(diagnostics.ErrUnresolvedName, n.Name, "no such variable in environment")
		}
		return v, nil

	case *Unary:
		x, err := Evaluate(n.X, env)
		if err != nil {
			return Value{}, err
		}
		if n.Op == OpNot {
			if !x.IsBool {
				return Value{}, diagnostics.New(diagnostics.ErrTypeMismatch, "!", "operand must be BOOLEAN")
			}
			return BoolValue(!x.Bool), nil
		}
		if x.IsBool {
			return Value{}, diagnostics.New(diagnostics.ErrTypeMismatch, "-", "operand must be REAL")
		}
		return NumValue(-x.Num), nil

	case *Binary:
		l, err := Evaluate(n.L, env)
		if err != nil {
			return Value{}, err
		}
		r, err := Evaluate(n.R, env)
		if err != nil {
			return Value{}, err
		}
		return evalBinary(n.Op, l, r)

	case *NAry:
		result := n.Op == OpAndChain
		for _, a := range n.Args {
			v, err := Evaluate(a, env)
			if err != nil {
				return Value{}, err
			}
			if !v.IsBool {
				return Value{}, diagnostics.New(diagnostics.ErrTypeMismatch, n.Op.String(), "all operands must be BOOLEAN")
			}
			if n.Op == OpAndChain {
				result = result && v.Bool
			} else {
				result = result || v.Bool
			}
		}
		return BoolValue(result), nil

	case *Builtin:
		want := builtinArity[n.Op]
		if len(n.Args) != want {
			return Value{}, diagnostics.New(diagnostics.ErrArityMismatch, n.Op.String(), "expected %d argument(s), got %d", want, len(n.Args))
		}
		args := make([]float64, len(n.Args))
		for i, a := range n.Args {
			v, err := Evaluate(a, env)
			if err != nil {
				return Value{}, err
			}
			if v.IsBool {
				return Value{}, diagnostics.New(diagnostics.ErrTypeMismatch, n.Op.String(), "argument %d must be REAL", i)
			}
			args[i] = v.Num
		}
		return evalBuiltin(n.Op, args)

	case *Call:
		return Value{}, diagnostics.New(diagnostics.ErrUnresolvedName, n.Name, "direct evaluation of caller-declared functions requires inlining the callee Program first")
	}
	return Value{}, diagnostics.New(diagnostics.ErrParse, "", "unreachable node type")
}

func evalBinary(op BinaryOp, l, r Value) (Value, error) {
	switch {
	case op.isArithmetic():
		if l.IsBool || r.IsBool {
			return Value{}, diagnostics.New(diagnostics.ErrTypeMismatch, op.String(), "operands must be REAL")
		}
		if op == OpDiv && r.Num == 0 {
			return Value{}, diagnostics.New(diagnostics.ErrDivisionByZero, op.String(), "division by zero")
		}
		switch op {
		case OpAdd:
			return NumValue(l.Num + r.Num), nil
		case OpSub:
			return NumValue(l.Num - r.Num), nil
		case OpMul:
			return NumValue(l.Num * r.Num), nil
		case OpDiv:
			return NumValue(l.Num / r.Num), nil
		case OpPow:
			return NumValue(math.Pow(l.Num, r.Num)), nil
		}
	case op.isComparison():
		if l.IsBool != r.IsBool {
			return Value{}, diagnostics.New(diagnostics.ErrTypeMismatch, op.String(), "operands must have matching types")
		}
		return evalComparison(op, l, r)
	case op.isLogical():
		if !l.IsBool || !r.IsBool {
			return Value{}, diagnostics.New(diagnostics.ErrTypeMismatch, op.String(), "operands must be BOOLEAN")
		}
		if op == OpAnd {
			return BoolValue(l.Bool && r.Bool), nil
		}
		return BoolValue(l.Bool || r.Bool), nil
	}
	return Value{}, diagnostics.New(diagnostics.ErrTypeMismatch, op.String(), "unknown binary operator")
}

func evalComparison(op BinaryOp, l, r Value) (Value, error) {
	if l.IsBool {
		switch op {
		case OpEqual:
			return BoolValue(l.Bool == r.Bool), nil
		case OpNotEqual:
			return BoolValue(l.Bool != r.Bool), nil
		default:
			return Value{}, diagnostics.New(diagnostics.ErrTypeMismatch, op.String(), "ordering operators require REAL operands")
		}
	}
	switch op {
	case OpEqual:
		return BoolValue(l.Num == r.Num), nil
	case OpNotEqual:
		return BoolValue(l.Num != r.Num), nil
	case OpLess:
		return BoolValue(l.Num < r.Num), nil
	case OpLessEq:
		return BoolValue(l.Num <= r.Num), nil
	case OpGreater:
		return BoolValue(l.Num > r.Num), nil
	case OpGreaterEq:
		return BoolValue(l.Num >= r.Num), nil
	}
	return Value{}, diagnostics.New(diagnostics.ErrTypeMismatch, op.String(), "unknown comparison operator")
}

func evalBuiltin(op BuiltinOp, args []float64) (Value, error) {
	switch op {
	case BSqrt:
		return NumValue(math.Sqrt(args[0])), nil
	case BExp:
		return NumValue(math.Exp(args[0])), nil
	case BLn:
		return NumValue(math.Log(args[0])), nil
	case BSin:
		return NumValue(math.Sin(args[0])), nil
	case BCos:
		return NumValue(math.Cos(args[0])), nil
	case BTan:
		return NumValue(math.Tan(args[0])), nil
	case BFloor:
		return NumValue(math.Floor(args[0])), nil
	case BCeil:
		return NumValue(math.Ceil(args[0])), nil
	case BAbs:
		return NumValue(math.Abs(args[0])), nil
	case BPow:
		return NumValue(math.Pow(args[0], args[1])), nil
	}
	return Value{}, diagnostics.New(diagnostics.ErrParse, op.String(), "unknown builtin")
}
