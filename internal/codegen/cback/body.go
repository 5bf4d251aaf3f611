package cback

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

func dataPrefix() codegen.PrefixData { return codegen.PrefixData{Prefix: "data->"} }

func lowerExpr(n exprlang.Node) string {
	if n == nil {
		return "0"
	}
	return codegen.LowerFormula(n, dataPrefix(), formulaOps)
}

// GenerateInit renders a Definition's init function: zero the struct, set
// every variable's Default (falling back to 0/false), and enter the
// Initialisation's starting location (spec §4.6.1: "init zeros the struct,
// assigns defaults, sets initial state").
func GenerateInit(def *hybrid.Definition, indentSize int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#include \"%s.h\"\n#include <string.h>\n\n", codegen.FileName(def.Name))
	fmt.Fprintf(&b, "void %s(%s *data) {\n", initFuncName(def.Name), structName(def.Name))
	ind := codegen.Indent(1, indentSize)
	fmt.Fprintf(&b, "%smemset(data, 0, sizeof(*data));\n", ind)
	fmt.Fprintf(&b, "%sdata->state = %s;\n", ind, stateCaseName(def.Name, def.Init.InitialLocation))
	for _, v := range orderedVariables(def.Variables) {
		if init, ok := def.Init.InitialValues[v.Name]; ok {
			fmt.Fprintf(&b, "%sdata->%s = %s;\n", ind, codegen.VarName(v.Name, v.Locality), lowerExpr(init))
		} else if v.Default != nil {
			fmt.Fprintf(&b, "%sdata->%s = %s;\n", ind, codegen.VarName(v.Name, v.Locality), lowerExpr(v.Default))
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// continuousUnion returns, for one Location, the variables mutated by its
// continuous phase (flowed, updated, or both) in deterministic order.
func continuousUnion(loc *hybrid.Location) []string {
	set := map[string]bool{}
	for name := range loc.Flow {
		set[name] = true
	}
	for name := range loc.Update {
		set[name] = true
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateRun renders a Definition's run function (spec §4.6.1 + §5): a
// bounded inter-transition loop that fires at most one transition per
// iteration, then — if none fired or requireOneIntraTransitionPerTick — an
// intra-location step that computes every flowed/updated variable's next
// value from the tick's entry valuation into a shadow before committing, so
// no read in this tick observes another variable's already-updated value
// (spec §5's concurrency contract).
func GenerateRun(def *hybrid.Definition, indentSize int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#include \"%s.h\"\n#include <math.h>\n#include \"config.h\"\n\n", codegen.FileName(def.Name))
	fmt.Fprintf(&b, "void %s(%s *data) {\n", runFuncName(def.Name), structName(def.Name))
	ind1 := codegen.Indent(1, indentSize)
	ind2 := codegen.Indent(2, indentSize)
	ind3 := codegen.Indent(3, indentSize)

	fmt.Fprintf(&b, "%sint transitioned = 0;\n", ind1)
	fmt.Fprintf(&b, "%sfor (int i = 0; i < MAXIMUM_INTER_TRANSITIONS; i++) {\n", ind1)
	fmt.Fprintf(&b, "%sint fired = 0;\n", ind2)
	fmt.Fprintf(&b, "%sswitch (data->state) {\n", ind2)
	for _, locName := range sortedLocationNames(def.Locations) {
		loc := def.Locations[locName]
		fmt.Fprintf(&b, "%scase %s: {\n", ind2, stateCaseName(def.Name, locName))
		for _, tr := range loc.Transitions {
			guard := "1"
			if tr.Guard != nil {
				guard = lowerExpr(tr.Guard)
			}
			fmt.Fprintf(&b, "%sif (%s) {\n", ind3, guard)
			ind4 := codegen.Indent(4, indentSize)
			for _, u := range tr.Update {
				fmt.Fprintf(&b, "%sdata->%s = %s;\n", ind4, resolveVarName(def, u.Variable), lowerExpr(u.Value))
			}
			fmt.Fprintf(&b, "%sdata->state = %s;\n", ind4, stateCaseName(def.Name, tr.Target))
			fmt.Fprintf(&b, "%sfired = 1;\n%sbreak;\n", ind4, ind4)
			fmt.Fprintf(&b, "%s}\n", ind3)
		}
		fmt.Fprintf(&b, "%sbreak;\n%s}\n", ind3, ind2)
	}
	fmt.Fprintf(&b, "%sdefault: break;\n%s}\n", ind2, ind2)
	fmt.Fprintf(&b, "%sif (!fired) { break; }\n", ind2)
	fmt.Fprintf(&b, "%stransitioned = 1;\n", ind2)
	fmt.Fprintf(&b, "%s}\n", ind1)

	fmt.Fprintf(&b, "%sif (!transitioned || REQUIRE_ONE_INTRA_TRANSITION_PER_TICK) {\n", ind1)
	fmt.Fprintf(&b, "%sswitch (data->state) {\n", ind2)
	for _, locName := range sortedLocationNames(def.Locations) {
		loc := def.Locations[locName]
		union := continuousUnion(loc)
		fmt.Fprintf(&b, "%scase %s: {\n", ind2, stateCaseName(def.Name, locName))
		for _, name := range union {
			ind4 := codegen.Indent(4, indentSize)
			// a discrete Update on a variable overrides its Euler flow step
			// for this tick (spec §4.6.1: flow "followed by its discrete
			// update"); either way the expression reads only the tick's
			// entry valuation (data->*), never another shadow (spec §5).
			if upd, ok := loc.Update[name]; ok {
				fmt.Fprintf(&b, "%sdouble %s_shadow = %s;\n", ind4, sanitiseLocal(name), lowerExpr(upd))
			} else {
				flow := loc.Flow[name]
				fmt.Fprintf(&b, "%sdouble %s_shadow = data->%s + (%s) * STEP_SIZE;\n",
					ind4, sanitiseLocal(name), resolveVarName(def, name), lowerExpr(flow))
			}
		}
		for _, name := range union {
			ind4 := codegen.Indent(4, indentSize)
			fmt.Fprintf(&b, "%sdata->%s = %s_shadow;\n", ind4, resolveVarName(def, name), sanitiseLocal(name))
		}
		fmt.Fprintf(&b, "%sbreak;\n%s}\n", ind3, ind2)
	}
	fmt.Fprintf(&b, "%sdefault: break;\n%s}\n", ind2, ind2)
	fmt.Fprintf(&b, "%s}\n", ind1)
	b.WriteString("}\n")
	return b.String()
}

func sanitiseLocal(name string) string { return codegen.FileName(name) }

// resolveVarName looks up name's declared locality on def so struct field
// references carry the same locality suffix GenerateHeader gave them.
func resolveVarName(def *hybrid.Definition, name string) string {
	for _, v := range def.Variables {
		if v.Name == name {
			return codegen.VarName(v.Name, v.Locality)
		}
	}
	return codegen.FileName(name)
}
