package transform

import (
	"fmt"

	"github.com/Goldenbeak21/modular-code-generation/internal/config"
	"github.com/Goldenbeak21/modular-code-generation/internal/diagnostics"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

// PropagateParameters implements spec §4.5 step 1. Under COMPILE_TIME, each
// Instance is repointed at a freshly cloned, specialised Definition with
// its PARAMETER variables inlined via setParameter and removed from the
// variable list (they become #define-style constants at code generation,
// not runtime struct fields). Under RUN_TIME, Definitions stay shared and
// the parameter expressions stay on the Instance unevaluated; this pass
// only checks they resolve in the enclosing scope, and no back-end writes
// them into the generated code. Mutates net and
// any nested networks in place.
func PropagateParameters(net *hybrid.Network, method config.ParametrisationMethod) error {
	var diag diagnostics.List
	propagateNetwork(net, method, &diag)
	return diag.Err()
}

func propagateNetwork(net *hybrid.Network, method config.ParametrisationMethod, diag *diagnostics.List) {
	scope := enclosingScope(net)

	for instName, inst := range net.Instances {
		member, ok := net.Definitions[inst.DefinitionName]
		if !ok {
			continue // reported by Network.Validate
		}
		if member.Nested != nil {
			propagateNetwork(member.Nested, method, diag)
			continue
		}
		if member.Automaton == nil || len(inst.Parameters) == 0 {
			continue
		}

		for pname, pexpr := range inst.Parameters {
			if _, err := exprlang.ResultType(pexpr, scope, nil); err != nil {
				diag.Addf(diagnostics.ErrUnresolvedName, pname, "parameter expression for instance %q does not resolve in the enclosing scope: %v", instName, err)
			}
		}
		if method != config.CompileTime {
			continue // RUN_TIME: parameters travel with the Instance, unevaluated
		}

		specialised := cloneDefinition(member.Automaton)
		for pname, pexpr := range inst.Parameters {
			substituteDefinition(specialised, pname, pexpr)
		}
		specialised.Variables = dropParameters(specialised.Variables, inst.Parameters)

		specialName := fmt.Sprintf("%s$%s", inst.DefinitionName, instName)
		specialised.Name = specialName
		net.Definitions[specialName] = hybrid.Member{Automaton: specialised}
		inst.DefinitionName = specialName
	}
}

// enclosingScope builds the VarTypes a Network's own Instances may
// reference from their parameter expressions: the Network's declared
// ports.
func enclosingScope(net *hybrid.Network) exprlang.VarTypes {
	scope := make(exprlang.VarTypes, len(net.Variables))
	for _, v := range net.Variables {
		scope[v.Name] = v.Type
	}
	return scope
}

func dropParameters(vars []hybrid.Variable, params map[string]exprlang.Node) []hybrid.Variable {
	out := make([]hybrid.Variable, 0, len(vars))
	for _, v := range vars {
		if v.Locality == hantype.Parameter {
			if _, bound := params[v.Name]; bound {
				continue
			}
		}
		out = append(out, v)
	}
	return out
}
