package program

import (
	"github.com/Goldenbeak21/modular-code-generation/internal/diagnostics"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
)

// CollectVariables returns the free variable names referenced anywhere in
// the Program, in first-occurrence order. Collection follows a
// breadth-first-at-this-level discipline (spec §4.2): every name referenced
// directly by a line at the current nesting level is registered before any
// name that only occurs inside a nested if/else-if/else body is, even
// though both end up in the same returned set — a variable referenced only
// inside a conditional is still part of its enclosing Program's scope.
func (p *Program) CollectVariables() []string {
	seen := map[string]bool{}
	var order []string
	add := func(names []string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				order = append(order, n)
			}
		}
	}

	var nested []*Program
	for _, line := range p.Lines {
		switch line.Kind {
		case LineStatement, LineReturn, LineAssignment:
			add(exprlang.CollectVariables(line.Expr))
		case LineIf, LineElseIf:
			add(exprlang.CollectVariables(line.Expr))
			nested = append(nested, line.Body)
		case LineElse:
			nested = append(nested, line.Body)
		}
	}
	for _, np := range nested {
		add(np.CollectVariables())
	}
	return order
}

// VarTypes maps a variable name to its inferred ValueType.
type VarTypes = exprlang.VarTypes

// CollectVariableTypes walks the Program, seeded with externals and the
// caller-visible function return types in funcs, inferring the type of
// every assignment target. A target assigned more than once must agree on
// type every time, or the walk fails with ErrTypeConflict. If/else-if
// conditions must evaluate to BOOLEAN. The returned table includes
// externals unchanged plus every inferred local.
func CollectVariableTypes(p *Program, externals VarTypes, funcs exprlang.FuncTypes) (VarTypes, error) {
	types := make(VarTypes, len(externals))
	for k, v := range externals {
		types[k] = v
	}
	if err := walkTypes(p, types, funcs); err != nil {
		return nil, err
	}
	return types, nil
}

func walkTypes(p *Program, types VarTypes, funcs exprlang.FuncTypes) error {
	for _, line := range p.Lines {
		switch line.Kind {
		case LineStatement, LineReturn:
			if _, err := exprlang.ResultType(line.Expr, types, funcs); err != nil {
				return err
			}
		case LineAssignment:
			rhsType, err := exprlang.ResultType(line.Expr, types, funcs)
			if err != nil {
				return err
			}
			if existing, ok := types[line.Target]; ok {
				if existing != rhsType {
					return diagnostics.New(diagnostics.ErrTypeConflict, line.Target,
						"assigned as %s here, previously %s", rhsType, existing)
				}
			} else {
				types[line.Target] = rhsType
			}
		case LineIf, LineElseIf:
			condType, err := exprlang.ResultType(line.Expr, types, funcs)
			if err != nil {
				return err
			}
			if condType != hantype.Boolean {
				return diagnostics.New(diagnostics.ErrTypeMismatch, "condition", "if/else-if condition must be BOOLEAN, got %s", condType)
			}
			if err := walkTypes(line.Body, types, funcs); err != nil {
				return err
			}
		case LineElse:
			if err := walkTypes(line.Body, types, funcs); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReturnType reports the Program's unified return type, found by combining
// the type of every `return` statement reachable from this Program
// (including inside nested if/else-if/else bodies) via combine(): a type
// combined with itself stays that type, two distinct types conflict with
// ErrReturnTypeConflict, and a Program with no return at all yields (nil,
// nil) — this package does not require a return on every path; see design
// notes for the alternative considered.
func (p *Program) ReturnType(types VarTypes, funcs exprlang.FuncTypes) (*hantype.ValueType, error) {
	var result *hantype.ValueType
	for _, line := range p.Lines {
		switch line.Kind {
		case LineReturn:
			t, err := exprlang.ResultType(line.Expr, types, funcs)
			if err != nil {
				return nil, err
			}
			tt := t
			result, err = combine(result, &tt)
			if err != nil {
				return nil, err
			}
		case LineIf, LineElseIf, LineElse:
			sub, err := line.Body.ReturnType(types, funcs)
			if err != nil {
				return nil, err
			}
			result, err = combine(result, sub)
			if err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// combine unifies two optional return types: a nil operand defers to the
// other, two equal non-nil types collapse to that type, and two distinct
// non-nil types are a conflict.
func combine(a, b *hantype.ValueType) (*hantype.ValueType, error) {
	if a == nil {
		return b, nil
	}
	if b == nil {
		return a, nil
	}
	if *a != *b {
		return nil, diagnostics.New(diagnostics.ErrReturnTypeConflict, "", "return type %s conflicts with earlier %s", *b, *a)
	}
	return a, nil
}
