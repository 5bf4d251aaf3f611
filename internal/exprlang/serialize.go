package exprlang

import (
	"fmt"
	"strconv"
	"strings"
)

// Precedence levels, lowest binds loosest. Used by String() to emit just
// enough parentheses to preserve the round-trip law (spec §4.1, §8).
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

func precedenceOf(n Node) int {
	switch v := n.(type) {
	case *Literal, *Variable, *Call, *Builtin:
		return precAtom
	case *Unary:
		return precUnary
	case *Binary:
		switch {
		case v.Op == OpPow:
			return precPow
		case v.Op.isArithmetic():
			if v.Op == OpAdd || v.Op == OpSub {
				return precAdditive
			}
			return precMultiplicative
		case v.Op.isComparison():
			return precComparison
		case v.Op == OpAnd:
			return precAnd
		case v.Op == OpOr:
			return precOr
		}
	case *NAry:
		if v.Op == OpAndChain {
			return precAnd
		}
		return precOr
	}
	return precAtom
}

func (n *Literal) String() string {
	if n.IsBool {
		return strconv.FormatBool(n.Bool)
	}
	return formatNumber(n.Num)
}

func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	return s
}

func (n *Variable) String() string { return n.Name }

func (n *Unary) String() string {
	operand := wrap(n.X, precUnary, false, false)
	return n.Op.String() + operand
}

func (n *Binary) String() string {
	p := precedenceOf(n)
	rightAssoc := n.Op == OpPow
	leftStr := wrap(n.L, p, false, rightAssoc)
	rightStr := wrap(n.R, p, true, rightAssoc)
	return fmt.Sprintf("%s %s %s", leftStr, n.Op.String(), rightStr)
}

func (n *NAry) String() string {
	p := precedenceOf(n)
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		// Every operand is treated like a right-hand operand: a nested
		// Binary/NAry at the same precedence can only have come from an
		// explicit parenthesization in the source (the parser always
		// flattens an unparenthesized chain), so it must round-trip with
		// parentheses restored.
		parts[i] = wrap(a, p, true, false)
	}
	sep := " " + n.Op.String() + " "
	return strings.Join(parts, sep)
}

func (n *Call) String() string {
	return n.Name + "(" + joinArgs(n.Args) + ")"
}

func (n *Builtin) String() string {
	return n.Op.String() + "(" + joinArgs(n.Args) + ")"
}

func joinArgs(args []Node) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

// wrap renders child in parentheses when necessary to preserve the exact
// tree shape at the given parent precedence. isRight marks the right-hand
// (or, for an NAry, a non-distinguished) operand; rightAssoc marks that the
// parent operator associates to the right (currently only '^').
func wrap(child Node, parentPrec int, isRight, rightAssoc bool) string {
	cp := precedenceOf(child)
	needsParens := cp < parentPrec
	if cp == parentPrec {
		if rightAssoc {
			needsParens = !isRight // left operand of a right-assoc op needs parens at equal precedence
		} else {
			needsParens = isRight // right operand of a left-assoc op needs parens at equal precedence
		}
	}
	if needsParens {
		return "(" + child.String() + ")"
	}
	return child.String()
}
