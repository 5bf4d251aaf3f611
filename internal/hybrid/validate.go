package hybrid

import (
	"sort"

	"github.com/Goldenbeak21/modular-code-generation/internal/diagnostics"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
)

// Validate checks the structural invariants of a Definition (spec §3.6):
// the initial location exists, every transition target exists, every name
// referenced in a formula resolves to a declared variable, a declared
// function, a parameter, or a builtin, and no variable name is repeated.
// It reports every problem it finds rather than stopping at the first.
func (d *Definition) Validate(globalFuncs exprlang.FuncTypes) error {
	var diag diagnostics.List

	seen := map[string]bool{}
	varTypes := make(exprlang.VarTypes, len(d.Variables))
	for _, v := range d.Variables {
		if seen[v.Name] {
			diag.Addf(diagnostics.ErrUnresolvedName, v.Name, "duplicate variable name in definition %q", d.Name)
			continue
		}
		seen[v.Name] = true
		varTypes[v.Name] = v.Type
	}

	for _, loc := range d.Locations {
		for varName := range loc.Flow {
			for _, v := range d.Variables {
				if v.Name == varName && v.Locality == hantype.Parameter {
					diag.Addf(diagnostics.ErrTypeMismatch, varName, "a PARAMETER variable may not have flow")
				}
			}
		}
	}

	funcTypes := make(exprlang.FuncTypes, len(d.Functions)+len(globalFuncs))
	for k, v := range globalFuncs {
		funcTypes[k] = v
	}
	for name, fn := range d.Functions {
		rt, err := fn.Body.ReturnType(varTypes, funcTypes)
		if err != nil {
			diag.Addf(diagnostics.ErrReturnTypeConflict, name, "%v", err)
			continue
		}
		if rt != nil {
			funcTypes[name] = *rt
		}
	}

	if d.Init.InitialLocation == "" {
		diag.Addf(diagnostics.ErrUnresolvedName, d.Name, "no initial location set")
	} else if _, ok := d.Locations[d.Init.InitialLocation]; !ok {
		diag.Addf(diagnostics.ErrUnresolvedName, d.Init.InitialLocation, "initial location does not exist in definition %q", d.Name)
	}

	for locName, loc := range d.Locations {
		for varName, flow := range loc.Flow {
			if vt, ok := varTypes[varName]; !ok {
				diag.Addf(diagnostics.ErrUnresolvedName, varName, "flow target is not a declared variable (location %q)", locName)
			} else if vt != hantype.Real {
				diag.Addf(diagnostics.ErrTypeMismatch, varName, "flow target must be REAL (location %q)", locName)
			}
			if _, err := exprlang.ResultType(flow, varTypes, funcTypes); err != nil {
				diag.Addf(diagnostics.ErrTypeMismatch, varName, "flow expression in location %q: %v", locName, err)
			}
		}
		for _, t := range loc.Transitions {
			if _, ok := d.Locations[t.Target]; !ok {
				diag.Addf(diagnostics.ErrUnresolvedName, t.Target, "transition target does not exist (from location %q)", locName)
			}
			if t.Guard != nil {
				if gt, err := exprlang.ResultType(t.Guard, varTypes, funcTypes); err != nil {
					diag.Addf(diagnostics.ErrTypeMismatch, t.Target, "transition guard: %v", err)
				} else if gt != hantype.Boolean {
					diag.Addf(diagnostics.ErrTypeMismatch, t.Target, "transition guard must be BOOLEAN")
				}
			}
			for _, u := range t.Update {
				if _, ok := varTypes[u.Variable]; !ok {
					diag.Addf(diagnostics.ErrUnresolvedName, u.Variable, "update target is not a declared variable (transition to %q)", t.Target)
				}
				if _, err := exprlang.ResultType(u.Value, varTypes, funcTypes); err != nil {
					diag.Addf(diagnostics.ErrTypeMismatch, u.Variable, "update expression: %v", err)
				}
			}
		}
	}

	return diag.Err()
}

// Validate checks Network-level invariants: every Instance's
// DefinitionName resolves inside Definitions, every Mapping's destination
// resolves to a declared port, and the Network's own port names are
// unique.
func (n *Network) Validate() error {
	var diag diagnostics.List

	seen := map[string]bool{}
	for _, v := range n.Variables {
		if seen[v.Name] {
			diag.Addf(diagnostics.ErrUnresolvedName, v.Name, "duplicate network port name in %q", n.Name)
		}
		seen[v.Name] = true
	}

	for instName, inst := range n.Instances {
		if _, ok := n.Definitions[inst.DefinitionName]; !ok {
			diag.Addf(diagnostics.ErrUnresolvedName, inst.DefinitionName, "instance %q references an undeclared definition", instName)
		}
	}

	for _, m := range n.Mappings {
		if m.DestInstance == "" {
			if !seen[m.DestPort] {
				diag.Addf(diagnostics.ErrUnresolvedMapping, m.DestPort, "mapping targets an undeclared network output port")
			}
			continue
		}
		inst, ok := n.Instances[m.DestInstance]
		if !ok {
			diag.Addf(diagnostics.ErrUnresolvedMapping, m.DestInstance, "mapping targets an undeclared instance")
			continue
		}
		member, ok := n.Definitions[inst.DefinitionName]
		if !ok {
			continue // already reported above
		}
		if !memberHasPort(member, m.DestPort) {
			diag.Addf(diagnostics.ErrUnresolvedMapping, m.DestInstance+"."+m.DestPort, "mapping targets an undeclared port")
		}
	}

	return diag.Err()
}

// ValidateRecursive checks n itself, every Automaton Definition it owns
// (against globalFuncs), and recurses into every nested Network Definition,
// accumulating every diagnostic from the whole tree into one report rather
// than stopping at the first member that fails (spec §7: validation errors
// are accumulated per Definition).
func (n *Network) ValidateRecursive(globalFuncs exprlang.FuncTypes) error {
	var diag diagnostics.List

	if err := n.Validate(); err != nil {
		diag.Addf(diagnostics.ErrUnresolvedMapping, n.Name, "%v", err)
	}

	for _, name := range sortedMemberNames(n.Definitions) {
		member := n.Definitions[name]
		switch {
		case member.Automaton != nil:
			if err := member.Automaton.Validate(globalFuncs); err != nil {
				diag.Addf(diagnostics.ErrUnresolvedName, name, "%v", err)
			}
		case member.Nested != nil:
			if err := member.Nested.ValidateRecursive(globalFuncs); err != nil {
				diag.Addf(diagnostics.ErrUnresolvedName, name, "%v", err)
			}
		}
	}

	return diag.Err()
}

func sortedMemberNames(defs map[string]Member) []string {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func memberHasPort(m Member, name string) bool {
	var vars []Variable
	switch {
	case m.Automaton != nil:
		vars = m.Automaton.Variables
	case m.Nested != nil:
		vars = m.Nested.Variables
	}
	for _, v := range vars {
		if v.Name == name {
			return true
		}
	}
	return false
}
