// Package transform applies the IR transformations of spec §4.5, in their
// fixed order, to a just-imported hybrid.Network: parameter propagation,
// delay expansion, flattening, and a saturation-rewrite stub. Like
// internal/hybrid's Validate, transformations favor reporting everything
// they can via diagnostics.List over aborting at the first problem, and
// follow the clone-then-mutate shape of formula/controlflow.go: never
// mutate a Definition or Program that another Instance might still share
// unmodified.
package transform

import (
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
	"github.com/Goldenbeak21/modular-code-generation/internal/program"
)

// cloneDefinition deep-copies a Definition so a COMPILE_TIME specialisation
// for one Instance can never affect another Instance sharing the same
// template Definition.
func cloneDefinition(def *hybrid.Definition) *hybrid.Definition {
	out := &hybrid.Definition{
		Name:      def.Name,
		Variables: make([]hybrid.Variable, len(def.Variables)),
		Locations: make(map[string]*hybrid.Location, len(def.Locations)),
		Functions: make(map[string]*hybrid.Function, len(def.Functions)),
		Init: hybrid.Initialisation{
			InitialLocation: def.Init.InitialLocation,
			InitialValues:   make(map[string]exprlang.Node, len(def.Init.InitialValues)),
		},
	}
	copy(out.Variables, def.Variables)
	for i, v := range out.Variables {
		out.Variables[i] = cloneVariable(v)
	}
	for name, loc := range def.Locations {
		out.Locations[name] = cloneLocation(loc)
	}
	for name, fn := range def.Functions {
		out.Functions[name] = cloneFunction(fn)
	}
	for k, v := range def.Init.InitialValues {
		out.Init.InitialValues[k] = exprlang.Clone(v)
	}
	return out
}

func cloneVariable(v hybrid.Variable) hybrid.Variable {
	out := v
	if v.Default != nil {
		out.Default = exprlang.Clone(v.Default)
	}
	if v.DelayableBy != nil {
		out.DelayableBy = exprlang.Clone(v.DelayableBy)
	}
	return out
}

func cloneLocation(loc *hybrid.Location) *hybrid.Location {
	out := &hybrid.Location{
		Name:  loc.Name,
		Flow:  make(map[string]exprlang.Node, len(loc.Flow)),
		Update: make(map[string]exprlang.Node, len(loc.Update)),
	}
	if loc.Invariant != nil {
		out.Invariant = exprlang.Clone(loc.Invariant)
	}
	for k, v := range loc.Flow {
		out.Flow[k] = exprlang.Clone(v)
	}
	for k, v := range loc.Update {
		out.Update[k] = exprlang.Clone(v)
	}
	for _, t := range loc.Transitions {
		out.Transitions = append(out.Transitions, cloneTransition(t))
	}
	return out
}

func cloneTransition(t *hybrid.Transition) *hybrid.Transition {
	out := &hybrid.Transition{Target: t.Target}
	if t.Guard != nil {
		out.Guard = exprlang.Clone(t.Guard)
	}
	for _, u := range t.Update {
		out.Update = append(out.Update, hybrid.UpdateEntry{Variable: u.Variable, Value: exprlang.Clone(u.Value)})
	}
	return out
}

func cloneFunction(fn *hybrid.Function) *hybrid.Function {
	out := &hybrid.Function{Name: fn.Name, Inputs: make([]hybrid.Variable, len(fn.Inputs)), Body: cloneProgram(fn.Body)}
	copy(out.Inputs, fn.Inputs)
	return out
}

func cloneProgram(p *program.Program) *program.Program {
	if p == nil {
		return nil
	}
	out := &program.Program{Lines: make([]*program.Line, len(p.Lines))}
	for i, l := range p.Lines {
		out.Lines[i] = cloneLine(l)
	}
	return out
}

func cloneLine(l *program.Line) *program.Line {
	out := &program.Line{Kind: l.Kind, Target: l.Target, Body: cloneProgram(l.Body)}
	if l.Expr != nil {
		out.Expr = exprlang.Clone(l.Expr)
	}
	return out
}

// substituteDefinition rewrites every Variable node named `name` throughout
// def's formulas (Locations, Functions, Init) in place, via
// exprlang.SetParameter. Call this only on a Definition cloneDefinition
// just produced — it is not safe to call on a shared template.
func substituteDefinition(def *hybrid.Definition, name string, value exprlang.Node) {
	for _, loc := range def.Locations {
		if loc.Invariant != nil {
			loc.Invariant = exprlang.SetParameter(loc.Invariant, name, value)
		}
		for k, v := range loc.Flow {
			loc.Flow[k] = exprlang.SetParameter(v, name, value)
		}
		for k, v := range loc.Update {
			loc.Update[k] = exprlang.SetParameter(v, name, value)
		}
		for _, t := range loc.Transitions {
			if t.Guard != nil {
				t.Guard = exprlang.SetParameter(t.Guard, name, value)
			}
			for i, u := range t.Update {
				t.Update[i].Value = exprlang.SetParameter(u.Value, name, value)
			}
		}
	}
	for _, fn := range def.Functions {
		fn.Body = substituteProgram(fn.Body, name, value)
	}
	for k, v := range def.Init.InitialValues {
		def.Init.InitialValues[k] = exprlang.SetParameter(v, name, value)
	}
}

func substituteProgram(p *program.Program, name string, value exprlang.Node) *program.Program {
	if p == nil {
		return nil
	}
	out := &program.Program{Lines: make([]*program.Line, len(p.Lines))}
	for i, l := range p.Lines {
		nl := &program.Line{Kind: l.Kind, Target: l.Target}
		if l.Expr != nil {
			nl.Expr = exprlang.SetParameter(l.Expr, name, value)
		}
		nl.Body = substituteProgram(l.Body, name, value)
		out.Lines[i] = nl
	}
	return out
}
