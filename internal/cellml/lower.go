package cellml

import (
	"strconv"

	"github.com/Goldenbeak21/modular-code-generation/internal/diagnostics"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
)

// lowerOperand converts a <ci>, <cn>, <true/>, <false/>, or nested <apply>
// element into a Formula node.
func lowerOperand(e *element) (exprlang.Node, error) {
	switch e.Tag {
	case "apply":
		return lowerApply(e)
	case "ci":
		return &exprlang.Variable{Name: text(e)}, nil
	case "cn":
		f, err := strconv.ParseFloat(text(e), 64)
		if err != nil {
			return nil, diagnostics.New(diagnostics.ErrParse, text(e), "invalid <cn> numeric literal: %v", err)
		}
		return &exprlang.Literal{Num: f}, nil
	case "true":
		return &exprlang.Literal{IsBool: true, Bool: true}, nil
	case "false":
		return &exprlang.Literal{IsBool: true, Bool: false}, nil
	default:
		return nil, diagnostics.New(diagnostics.ErrUnsupportedMathML, e.Tag, "unsupported MathML operand")
	}
}

// lowerApply interprets an <apply> element's first child as the operator
// (MathML's own convention) and the remaining children as operands,
// lowering to the matching exprlang node. Only the subset needed to
// express d(x)/dt = f(...) is supported (spec §6.3); anything else fails
// with ErrUnsupportedMathML.
func lowerApply(e *element) (exprlang.Node, error) {
	if len(e.Children) < 1 {
		return nil, diagnostics.New(diagnostics.ErrUnsupportedMathML, "apply", "empty <apply> element")
	}
	op := e.Children[0].Tag
	args := e.Children[1:]

	lowerArgs := func() ([]exprlang.Node, error) {
		out := make([]exprlang.Node, len(args))
		for i, a := range args {
			n, err := lowerOperand(a)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}

	switch op {
	case "plus":
		nodes, err := lowerArgs()
		if err != nil {
			return nil, err
		}
		return foldBinary(exprlang.OpAdd, nodes)
	case "minus":
		nodes, err := lowerArgs()
		if err != nil {
			return nil, err
		}
		if len(nodes) == 1 {
			return &exprlang.Unary{Op: exprlang.OpNegate, X: nodes[0]}, nil
		}
		return foldBinary(exprlang.OpSub, nodes)
	case "times":
		nodes, err := lowerArgs()
		if err != nil {
			return nil, err
		}
		return foldBinary(exprlang.OpMul, nodes)
	case "divide":
		nodes, err := lowerArgs()
		if err != nil {
			return nil, err
		}
		return binaryExact(exprlang.OpDiv, nodes)
	case "power":
		nodes, err := lowerArgs()
		if err != nil {
			return nil, err
		}
		return binaryExact(exprlang.OpPow, nodes)
	case "eq":
		nodes, err := lowerArgs()
		if err != nil {
			return nil, err
		}
		return binaryExact(exprlang.OpEqual, nodes)
	case "neq":
		nodes, err := lowerArgs()
		if err != nil {
			return nil, err
		}
		return binaryExact(exprlang.OpNotEqual, nodes)
	case "lt":
		nodes, err := lowerArgs()
		if err != nil {
			return nil, err
		}
		return binaryExact(exprlang.OpLess, nodes)
	case "leq":
		nodes, err := lowerArgs()
		if err != nil {
			return nil, err
		}
		return binaryExact(exprlang.OpLessEq, nodes)
	case "gt":
		nodes, err := lowerArgs()
		if err != nil {
			return nil, err
		}
		return binaryExact(exprlang.OpGreater, nodes)
	case "geq":
		nodes, err := lowerArgs()
		if err != nil {
			return nil, err
		}
		return binaryExact(exprlang.OpGreaterEq, nodes)
	case "and":
		nodes, err := lowerArgs()
		if err != nil {
			return nil, err
		}
		return foldLogical(exprlang.OpAnd, nodes)
	case "or":
		nodes, err := lowerArgs()
		if err != nil {
			return nil, err
		}
		return foldLogical(exprlang.OpOr, nodes)
	case "not":
		nodes, err := lowerArgs()
		if err != nil {
			return nil, err
		}
		if len(nodes) != 1 {
			return nil, diagnostics.New(diagnostics.ErrArityMismatch, "not", "expected 1 argument, got %d", len(nodes))
		}
		return &exprlang.Unary{Op: exprlang.OpNot, X: nodes[0]}, nil
	default:
		return nil, diagnostics.New(diagnostics.ErrUnsupportedMathML, op, "unsupported MathML operator")
	}
}

func binaryExact(op exprlang.BinaryOp, nodes []exprlang.Node) (exprlang.Node, error) {
	if len(nodes) != 2 {
		return nil, diagnostics.New(diagnostics.ErrArityMismatch, op.String(), "expected 2 arguments, got %d", len(nodes))
	}
	return &exprlang.Binary{Op: op, L: nodes[0], R: nodes[1]}, nil
}

func foldBinary(op exprlang.BinaryOp, nodes []exprlang.Node) (exprlang.Node, error) {
	if len(nodes) < 2 {
		return nil, diagnostics.New(diagnostics.ErrArityMismatch, op.String(), "expected at least 2 arguments, got %d", len(nodes))
	}
	result := nodes[0]
	for _, n := range nodes[1:] {
		result = &exprlang.Binary{Op: op, L: result, R: n}
	}
	return result, nil
}

func foldLogical(op exprlang.BinaryOp, nodes []exprlang.Node) (exprlang.Node, error) {
	if len(nodes) < 2 {
		return nil, diagnostics.New(diagnostics.ErrArityMismatch, op.String(), "expected at least 2 arguments, got %d", len(nodes))
	}
	if len(nodes) == 2 {
		return &exprlang.Binary{Op: op, L: nodes[0], R: nodes[1]}, nil
	}
	nop := exprlang.OpAndChain
	if op == exprlang.OpOr {
		nop = exprlang.OpOrChain
	}
	return &exprlang.NAry{Op: nop, Args: nodes}, nil
}

// lowerODE recognizes the single equation shape this importer supports:
// apply(eq, apply(diff, bvar(ci), ci(target)), RHS) — i.e. d(target)/dt =
// RHS — and returns the target variable name and lowered RHS. Any other
// top-level equation shape is ErrUnsupportedMathML.
func lowerODE(eq *element) (target string, flow exprlang.Node, err error) {
	if eq.Tag != "apply" || len(eq.Children) != 3 || eq.Children[0].Tag != "eq" {
		return "", nil, diagnostics.New(diagnostics.ErrUnsupportedMathML, "math", "only d(x)/dt = RHS equations are supported")
	}
	lhs, rhs := eq.Children[1], eq.Children[2]
	if lhs.Tag != "apply" || len(lhs.Children) != 3 || lhs.Children[0].Tag != "diff" {
		return "", nil, diagnostics.New(diagnostics.ErrUnsupportedMathML, "math", "left-hand side must be a diff() term")
	}
	bvar, targetVar := lhs.Children[1], lhs.Children[2]
	if bvar.Tag != "bvar" || targetVar.Tag != "ci" {
		return "", nil, diagnostics.New(diagnostics.ErrUnsupportedMathML, "math", "malformed diff() term")
	}
	flow, err = lowerOperand(rhs)
	if err != nil {
		return "", nil, err
	}
	return text(targetVar), flow, nil
}
