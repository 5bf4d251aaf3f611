package rtl

import (
	"strings"
	"testing"

	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

func bouncerDefinition() *hybrid.Definition {
	return &hybrid.Definition{
		Name: "Bouncer",
		Variables: []hybrid.Variable{
			{Name: "height", Type: hantype.Real, Locality: hantype.Internal},
			{Name: "velocity", Type: hantype.Real, Locality: hantype.Internal},
			{Name: "bounced", Type: hantype.Boolean, Locality: hantype.ExternalOutput},
		},
		Locations: map[string]*hybrid.Location{
			"Falling": {
				Name: "Falling",
				Flow: map[string]exprlang.Node{
					"height":   &exprlang.Variable{Name: "velocity"},
					"velocity": &exprlang.Literal{Num: -9.8},
				},
				Transitions: []*hybrid.Transition{
					{
						Target: "Falling",
						Guard:  &exprlang.Binary{Op: exprlang.OpLess, L: &exprlang.Variable{Name: "height"}, R: &exprlang.Literal{Num: 0}},
						Update: []hybrid.UpdateEntry{
							{Variable: "velocity", Value: &exprlang.Unary{Op: exprlang.OpNegate, X: &exprlang.Variable{Name: "velocity"}}},
						},
					},
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

func TestGenerateEntityContainsEntityAndStateEnum(t *testing.T) {
	def := bouncerDefinition()
	src, err := GenerateEntity(def, 4, 0.001)
	if err != nil {
		t.Fatalf("GenerateEntity: %v", err)
	}
	for _, want := range []string{
		"entity bouncer is",
		"st_bouncer_falling",
		"signal height : ",
		"signal height_update : ",
		"fixed_mul(",
		"to_signed(",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated entity missing %q:\n%s", want, src)
		}
	}
}

func TestGenerateEntityRejectsDelayable(t *testing.T) {
	def := bouncerDefinition()
	def.Variables[0].DelayableBy = &exprlang.Literal{Num: 1}
	if _, err := GenerateEntity(def, 4, 0.001); err == nil {
		t.Fatal("expected an error for a surviving delayableBy variable")
	}
}

func TestGenerateEntityDeterministic(t *testing.T) {
	def := bouncerDefinition()
	first, err := GenerateEntity(def, 4, 0.001)
	if err != nil {
		t.Fatalf("GenerateEntity: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := GenerateEntity(bouncerDefinition(), 4, 0.001)
		if err != nil {
			t.Fatalf("GenerateEntity: %v", err)
		}
		if again != first {
			t.Fatal("GenerateEntity is not deterministic across repeated calls on an equivalent Definition")
		}
	}
}
