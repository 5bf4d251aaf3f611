package rtl

import (
	"sort"

	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
	"github.com/Goldenbeak21/modular-code-generation/internal/diagnostics"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

type portCtx struct {
	Name      string
	Direction string
	Type      string
}

type signalCtx struct {
	Name    string
	Type    string
	Default string
}

type entityContext struct {
	FixedPointPackage string
	EntityName        string
	Ports             []portCtx
	StateType         string
	StateLiterals     []string
	InitialState      string
	Signals           []signalCtx
	ProcessBody       string
	StepSize          string
}

func lowerExpr(n exprlang.Node) string {
	if n == nil {
		return "(others => '0')"
	}
	return codegen.LowerFormula(n, codegen.PrefixData{}, formulaOps)
}

// GenerateEntity renders one Automaton Definition as a VHDL entity (spec
// §4.6.2). A delayable variable is rejected here rather than silently
// dropped: by the time codegen runs, transform.ExpandDelays has already
// rewritten every finite, constant delayableBy into ring-buffer tap
// variables (spec §4.5 point 2), so a DelayableBy surviving to this point
// is one the transform pass could not expand, and RTL has no
// runtime-indexed buffer construct to fall back to (spec §4.6.2:
// "Delayable variables are rejected with DelayUnsupported at present").
func GenerateEntity(def *hybrid.Definition, indentSize int, stepSize float64) (string, error) {
	for _, v := range def.Variables {
		if v.DelayableBy != nil {
			return "", diagnostics.New(diagnostics.ErrDelayUnsupported, v.Name,
				"definition %q: RTL back-end cannot lower a surviving delayableBy", def.Name)
		}
	}

	ctx := entityContext{
		FixedPointPackage: fixedPointPackageName,
		EntityName:        entityName(def.Name),
		StateType:         stateTypeName(def.Name),
		InitialState:      stateLiteralName(def.Name, def.Init.InitialLocation),
		StepSize:          formulaOps.Literal(stepSize),
	}

	for _, v := range def.Variables {
		switch v.Locality {
		case hantype.ExternalInput:
			ctx.Ports = append(ctx.Ports, portCtx{Name: portName(v.Name), Direction: "in", Type: codegen.LowerType(v.Type, codegen.VHDL)})
		case hantype.ExternalOutput:
			ctx.Ports = append(ctx.Ports, portCtx{Name: portName(v.Name), Direction: "out", Type: codegen.LowerType(v.Type, codegen.VHDL)})
		}
	}

	for _, locName := range sortedLocationNames(def.Locations) {
		ctx.StateLiterals = append(ctx.StateLiterals, stateLiteralName(def.Name, locName))
	}

	for _, v := range def.Variables {
		if v.Locality == hantype.ExternalInput {
			continue // a port, not a signal
		}
		deflt := "(others => '0')"
		if v.Type == hantype.Boolean {
			deflt = "'0'"
		}
		if initVal, ok := def.Init.InitialValues[v.Name]; ok {
			deflt = lowerExpr(initVal)
		} else if v.Default != nil {
			deflt = lowerExpr(v.Default)
		}
		ctx.Signals = append(ctx.Signals, signalCtx{
			Name:    signalName(v.Name),
			Type:    codegen.LowerType(v.Type, codegen.VHDL),
			Default: deflt,
		})
	}

	ctx.ProcessBody = generateProcessBody(def, indentSize)
	return render(entityTemplate, ctx), nil
}

// sortedLocationNames mirrors cback's helper: deterministic enum/case order
// (spec §8's determinism law).
func sortedLocationNames(locs map[string]*hybrid.Location) []string {
	names := make([]string, 0, len(locs))
	for name := range locs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
