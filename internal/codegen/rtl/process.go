package rtl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

// continuousUnion returns, for one Location, the variables its continuous
// phase mutates (flowed, updated, or both), in deterministic order — the
// same union cback's GenerateRun computes for the same reason (spec §8's
// determinism law).
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

// generateProcessBody renders the case-on-state block that computes each
// location's guarded transition (at most one per clock, evaluated in
// declaration order) or, failing every guard, its continuous flow step as
// an explicit Euler update (spec §4.6.1's Euler step, reused here since
// spec §4.6.2 names no different discretisation for RTL). Every read is of
// a plain signal (this tick's entry valuation, per the template's default
// hold-then-override ordering); every write targets a "_update" shadow, so
// two locations' branches can never observe each other's partial writes.
func generateProcessBody(def *hybrid.Definition, indentSize int) string {
	var b strings.Builder
	ind3 := baseIndent(3, indentSize)
	ind4 := baseIndent(4, indentSize)
	ind5 := baseIndent(5, indentSize)
	ind6 := baseIndent(6, indentSize)

	fmt.Fprintf(&b, "%scase state is\n", ind3)
	for _, locName := range sortedLocationNames(def.Locations) {
		loc := def.Locations[locName]
		fmt.Fprintf(&b, "%swhen %s =>\n", ind4, stateLiteralName(def.Name, locName))

		if len(loc.Transitions) == 0 {
			writeFlowStep(&b, def, loc, ind5)
			continue
		}

		for i, tr := range loc.Transitions {
			keyword := "if"
			if i > 0 {
				keyword = "elsif"
			}
			guard := "true"
			if tr.Guard != nil {
				guard = lowerExpr(tr.Guard)
			}
			fmt.Fprintf(&b, "%s%s %s then\n", ind5, keyword, guard)
			for _, u := range tr.Update {
				fmt.Fprintf(&b, "%s%s_update <= %s;\n", ind6, signalName(u.Variable), lowerExpr(u.Value))
			}
			fmt.Fprintf(&b, "%snext_state <= %s;\n", ind6, stateLiteralName(def.Name, tr.Target))
		}
		fmt.Fprintf(&b, "%selse\n", ind5)
		writeFlowStep(&b, def, loc, baseIndent(6, indentSize))
		fmt.Fprintf(&b, "%send if;\n", ind5)
	}
	fmt.Fprintf(&b, "%swhen others =>\n%snull;\n", ind4, ind5)
	fmt.Fprintf(&b, "%send case;", ind3)
	return b.String()
}

// writeFlowStep renders loc's continuous-phase update (Euler integration
// for a flowed variable, or the plain discrete Update expression, which
// takes precedence the same way cback's GenerateRun prioritises a discrete
// Update over a flow for the same variable in one tick).
func writeFlowStep(b *strings.Builder, def *hybrid.Definition, loc *hybrid.Location, ind string) {
	for _, name := range continuousUnion(loc) {
		if upd, ok := loc.Update[name]; ok {
			fmt.Fprintf(b, "%s%s_update <= %s;\n", ind, signalName(name), lowerExpr(upd))
			continue
		}
		flow := loc.Flow[name]
		fmt.Fprintf(b, "%s%s_update <= %s + fixed_mul(%s, STEP_SIZE);\n",
			ind, signalName(name), signalName(name), lowerExpr(flow))
	}
}

// baseIndent matches the template's fixed 6-space lead-in for the process
// body (the template already nests it inside "process / elsif / case"),
// adding codegen.Indent's own per-level step on top so a document with a
// non-default indentSize still nests consistently below that fixed base.
func baseIndent(level, indentSize int) string {
	return "      " + codegen.Indent(level-3, indentSize)
}
