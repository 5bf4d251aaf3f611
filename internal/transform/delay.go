package transform

import (
	"fmt"
	"math"

	"github.com/Goldenbeak21/modular-code-generation/internal/diagnostics"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

// ExpandDelays implements spec §4.5 step 2 for every Automaton Definition
// reachable from net (recursing into nested networks, each under its own
// CodegenConfig.StepSize). A variable x with delayableBy d is expanded
// into a chain of n-1 extra internal REAL tap variables
// (x__delay1 .. x__delay(n-1), n = ceil(d/s)+1); every read of x outside
// x's own defining flow/update formula is rewritten to read the oldest
// tap, and a shift-register Update entry is added to every Location so
// the chain advances exactly once per tick, consistent with the
// compute-into-shadows-then-commit concurrency contract of spec §5 (the
// shift reads are unordered in the map precisely because they are all
// meant to observe the tick's entry valuation).
func ExpandDelays(net *hybrid.Network) error {
	var diag diagnostics.List
	expandNetwork(net, &diag)
	return diag.Err()
}

func expandNetwork(net *hybrid.Network, diag *diagnostics.List) {
	stepSize := net.CodegenConfig.StepSize
	for _, member := range net.Definitions {
		switch {
		case member.Automaton != nil:
			if err := expandDefinition(member.Automaton, stepSize); err != nil {
				diag.Add(err.(*diagnostics.Error))
			}
		case member.Nested != nil:
			expandNetwork(member.Nested, diag)
		}
	}
}

func expandDefinition(def *hybrid.Definition, stepSize float64) error {
	for _, v := range def.Variables {
		if v.DelayableBy == nil {
			continue
		}
		delay, err := exprlang.Evaluate(v.DelayableBy, exprlang.Env{})
		if err != nil {
			return diagnostics.New(diagnostics.ErrDelayUnsupported, v.Name, "delayableBy must be a compile-time constant: %v", err)
		}
		if delay.IsBool || delay.Num <= 0 {
			continue // delayableBy: 0 (the default) means "not actually delayed"
		}
		if stepSize <= 0 {
			return diagnostics.New(diagnostics.ErrDelayUnsupported, v.Name, "a positive execution.stepSize is required to size a delay buffer")
		}
		n := int(math.Ceil(delay.Num/stepSize)) + 1
		if n < 2 {
			continue
		}
		expandVariable(def, v.Name, n)
	}
	return nil
}

func expandVariable(def *hybrid.Definition, name string, n int) {
	taps := make([]string, n-1)
	for i := range taps {
		taps[i] = fmt.Sprintf("%s__delay%d", name, i+1)
		def.Variables = append(def.Variables, hybrid.Variable{Name: taps[i], Type: hantype.Real, Locality: hantype.Internal})
	}
	oldest := taps[len(taps)-1]

	for _, loc := range def.Locations {
		_, ownsFlow := loc.Flow[name]
		_, ownsUpdate := loc.Update[name]
		for varName, expr := range loc.Flow {
			if varName == name && ownsFlow {
				continue
			}
			loc.Flow[varName] = exprlang.SetParameter(expr, name, &exprlang.Variable{Name: oldest})
		}
		for varName, expr := range loc.Update {
			if varName == name && ownsUpdate {
				continue
			}
			loc.Update[varName] = exprlang.SetParameter(expr, name, &exprlang.Variable{Name: oldest})
		}
		if loc.Invariant != nil {
			loc.Invariant = exprlang.SetParameter(loc.Invariant, name, &exprlang.Variable{Name: oldest})
		}
		for _, t := range loc.Transitions {
			if t.Guard != nil {
				t.Guard = exprlang.SetParameter(t.Guard, name, &exprlang.Variable{Name: oldest})
			}
			for i, u := range t.Update {
				if u.Variable == name {
					continue
				}
				t.Update[i].Value = exprlang.SetParameter(u.Value, name, &exprlang.Variable{Name: oldest})
			}
		}

		// Shift register: each tap takes on the previous tap's (or x's)
		// entry-valuation value this tick; order in the map is irrelevant
		// because every right-hand side here reads pre-tick state.
		source := name
		for _, tap := range taps {
			loc.Update[tap] = &exprlang.Variable{Name: source}
			source = tap
		}
	}

	for k, v := range def.Init.InitialValues {
		if k == name {
			continue
		}
		def.Init.InitialValues[k] = exprlang.SetParameter(v, name, &exprlang.Variable{Name: oldest})
	}
	if initial, ok := def.Init.InitialValues[name]; ok {
		for _, tap := range taps {
			def.Init.InitialValues[tap] = exprlang.Clone(initial)
		}
	}
}
