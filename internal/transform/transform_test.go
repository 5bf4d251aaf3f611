package transform

import (
	"testing"

	"github.com/Goldenbeak21/modular-code-generation/internal/config"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

func mustParse(t *testing.T, s string) exprlang.Node {
	t.Helper()
	n, err := exprlang.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return n
}

func bouncerDefinition() *hybrid.Definition {
	return &hybrid.Definition{
		Name: "Bouncer",
		Variables: []hybrid.Variable{
			{Name: "height", Type: hantype.Real, Locality: hantype.Internal},
			{Name: "velocity", Type: hantype.Real, Locality: hantype.Internal},
			{Name: "g", Type: hantype.Real, Locality: hantype.Parameter},
		},
		Locations: map[string]*hybrid.Location{
			"Falling": {
				Name: "Falling",
				Flow: map[string]exprlang.Node{
					"height":   &exprlang.Variable{Name: "velocity"},
					"velocity": &exprlang.Unary{Op: exprlang.OpNegate, X: &exprlang.Variable{Name: "g"}},
				},
				Transitions: []*hybrid.Transition{
					{Target: "Falling", Guard: &exprlang.Binary{Op: exprlang.OpGreaterEq, L: &exprlang.Variable{Name: "height"}, R: &exprlang.Literal{Num: 0}}},
				},
			},
		},
		Init: hybrid.Initialisation{
			InitialLocation: "Falling",
			InitialValues: map[string]exprlang.Node{
				"height":   &exprlang.Literal{Num: 10},
				"velocity": &exprlang.Literal{Num: 0},
			},
		},
	}
}

func TestPropagateParametersCompileTime(t *testing.T) {
	def := bouncerDefinition()
	net := &hybrid.Network{
		Name:        "System",
		Definitions: map[string]hybrid.Member{"Bouncer": {Automaton: def}},
		Instances: map[string]*hybrid.Instance{
			"ball": {Name: "ball", DefinitionName: "Bouncer", Parameters: map[string]exprlang.Node{"g": &exprlang.Literal{Num: 9.8}}},
		},
		CodegenConfig: config.Defaults(),
	}

	if err := PropagateParameters(net, config.CompileTime); err != nil {
		t.Fatalf("PropagateParameters: %v", err)
	}

	inst := net.Instances["ball"]
	if inst.DefinitionName == "Bouncer" {
		t.Fatal("instance should be repointed at a specialised definition")
	}
	specialised := net.Definitions[inst.DefinitionName].Automaton
	for _, v := range specialised.Variables {
		if v.Name == "g" {
			t.Fatal("inlined parameter g should be dropped from the specialised definition's variables")
		}
	}
	velocityFlow := specialised.Locations["Falling"].Flow["velocity"]
	if velocityFlow.String() != "-9.8" {
		t.Errorf("velocity flow = %q, want -9.8 (g inlined)", velocityFlow.String())
	}
	// original template must be untouched
	if def.Locations["Falling"].Flow["velocity"].String() != "-g" {
		t.Errorf("original template definition was mutated: %q", def.Locations["Falling"].Flow["velocity"].String())
	}
}

func TestPropagateParametersRunTime(t *testing.T) {
	def := bouncerDefinition()
	net := &hybrid.Network{
		Name:        "System",
		Definitions: map[string]hybrid.Member{"Bouncer": {Automaton: def}},
		Instances: map[string]*hybrid.Instance{
			"ball": {Name: "ball", DefinitionName: "Bouncer", Parameters: map[string]exprlang.Node{"g": &exprlang.Literal{Num: 9.8}}},
		},
		CodegenConfig: config.Defaults(),
	}

	if err := PropagateParameters(net, config.RunTime); err != nil {
		t.Fatalf("PropagateParameters: %v", err)
	}
	if net.Instances["ball"].DefinitionName != "Bouncer" {
		t.Error("RUN_TIME propagation must not repoint the instance at a specialised definition")
	}
	if len(net.Definitions) != 1 {
		t.Errorf("RUN_TIME propagation must not create extra definitions, got %d", len(net.Definitions))
	}
}

func TestPropagateParametersUnresolvedScope(t *testing.T) {
	def := bouncerDefinition()
	net := &hybrid.Network{
		Name:        "System",
		Definitions: map[string]hybrid.Member{"Bouncer": {Automaton: def}},
		Instances: map[string]*hybrid.Instance{
			"ball": {Name: "ball", DefinitionName: "Bouncer", Parameters: map[string]exprlang.Node{"g": &exprlang.Variable{Name: "notAPort"}}},
		},
		CodegenConfig: config.Defaults(),
	}
	if err := PropagateParameters(net, config.CompileTime); err == nil {
		t.Fatal("expected error for a parameter expression referencing an undeclared enclosing-scope name")
	}
}

func delayableBouncer() *hybrid.Definition {
	def := bouncerDefinition()
	def.Variables = append(def.Variables, hybrid.Variable{
		Name: "heightObserved", Type: hantype.Real, Locality: hantype.Internal,
	})
	def.Locations["Falling"].Flow["heightObserved"] = &exprlang.Literal{Num: 0}
	def.Locations["Falling"].Update = map[string]exprlang.Node{
		"heightObserved": &exprlang.Variable{Name: "height"},
	}
	for i := range def.Variables {
		if def.Variables[i].Name == "height" {
			def.Variables[i].DelayableBy = &exprlang.Literal{Num: 0.003}
		}
	}
	def.Init.InitialValues["heightObserved"] = &exprlang.Literal{Num: 10}
	return def
}

func TestExpandDelaysRingBufferSize(t *testing.T) {
	def := delayableBouncer() // delayableBy 0.003, stepSize 0.001 -> n = ceil(3)+1 = 4 -> 3 taps
	net := &hybrid.Network{
		Name:          "System",
		Definitions:   map[string]hybrid.Member{"Bouncer": {Automaton: def}},
		CodegenConfig: config.Defaults(),
	}
	if err := ExpandDelays(net); err != nil {
		t.Fatalf("ExpandDelays: %v", err)
	}
	wantTaps := []string{"height__delay1", "height__delay2", "height__delay3"}
	names := map[string]bool{}
	for _, v := range def.Variables {
		names[v.Name] = true
	}
	for _, tap := range wantTaps {
		if !names[tap] {
			t.Errorf("missing tap variable %q", tap)
		}
	}
	// the variable's own flow (height's own ODE) must not be rewritten
	if def.Locations["Falling"].Flow["height"].String() != "velocity" {
		t.Errorf("height's own flow must stay undelayed, got %q", def.Locations["Falling"].Flow["height"].String())
	}
	// a read site elsewhere must be rewritten to the oldest tap
	if got := def.Locations["Falling"].Update["heightObserved"].String(); got != "height__delay3" {
		t.Errorf("heightObserved update = %q, want height__delay3", got)
	}
	// the shift chain must be present
	if def.Locations["Falling"].Update["height__delay1"].String() != "height" {
		t.Errorf("tap 1 should shift in from height directly")
	}
	if def.Locations["Falling"].Update["height__delay2"].String() != "height__delay1" {
		t.Errorf("tap 2 should shift in from tap 1")
	}
	if _, ok := def.Init.InitialValues["height__delay3"]; !ok {
		t.Error("oldest tap should get an initial value seeded from height's own")
	}
}

func TestExpandDelaysZeroDelayIsNoop(t *testing.T) {
	def := bouncerDefinition() // no delayableBy set at all
	net := &hybrid.Network{
		Name:          "System",
		Definitions:   map[string]hybrid.Member{"Bouncer": {Automaton: def}},
		CodegenConfig: config.Defaults(),
	}
	before := len(def.Variables)
	if err := ExpandDelays(net); err != nil {
		t.Fatalf("ExpandDelays: %v", err)
	}
	if len(def.Variables) != before {
		t.Error("a variable with no delayableBy must not gain tap variables")
	}
}

func TestFlattenLiftsNestedInstances(t *testing.T) {
	inner := bouncerDefinition()
	inner.Variables = append(inner.Variables,
		hybrid.Variable{Name: "heightIn", Type: hantype.Real, Locality: hantype.ExternalInput},
		hybrid.Variable{Name: "heightOut", Type: hantype.Real, Locality: hantype.ExternalOutput},
	)

	innerNet := &hybrid.Network{
		Name:        "SubSystem",
		Variables:   []hybrid.Variable{{Name: "heightIn", Type: hantype.Real, Locality: hantype.ExternalInput}, {Name: "heightOut", Type: hantype.Real, Locality: hantype.ExternalOutput}},
		Definitions: map[string]hybrid.Member{"Bouncer": {Automaton: inner}},
		Instances:   map[string]*hybrid.Instance{"ball": {Name: "ball", DefinitionName: "Bouncer"}},
		Mappings: []hybrid.Mapping{
			{DestInstance: "", DestPort: "heightOut", Source: &exprlang.Variable{Name: "ball.height"}},
		},
		CodegenConfig: config.Defaults(),
	}

	outer := &hybrid.Network{
		Name: "Top",
		Definitions: map[string]hybrid.Member{
			"Sub": {Nested: innerNet},
		},
		Instances: map[string]*hybrid.Instance{
			"sub": {Name: "sub", DefinitionName: "Sub"},
		},
		Mappings: []hybrid.Mapping{
			{DestInstance: "", DestPort: "out", Source: &exprlang.Variable{Name: "sub.heightOut"}},
		},
		CodegenConfig: config.Defaults(),
	}

	flat, err := Flatten(outer)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if _, ok := flat.Instances["sub.ball"]; !ok {
		t.Fatalf("expected lifted instance 'sub.ball', got %+v", flat.Instances)
	}
	if len(flat.Mappings) != 1 {
		t.Fatalf("expected 1 composed mapping, got %d", len(flat.Mappings))
	}
	got := flat.Mappings[0].Source.String()
	if got != "sub.ball.height" {
		t.Errorf("composed mapping source = %q, want sub.ball.height", got)
	}
}
