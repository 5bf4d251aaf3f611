package cback

import (
	"strings"
	"testing"
)

func TestGenerateInitZerosStructAndSetsState(t *testing.T) {
	def := bouncerDefinition()
	src := GenerateInit(def, 4)
	for _, want := range []string{
		"void bouncer_init(bouncer_data *data) {",
		"memset(data, 0, sizeof(*data));",
		"data->state = BOUNCER_STATE_FALLING;",
		"data->height = 10",
		"data->velocity = 0",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated init missing %q:\n%s", want, src)
		}
	}
}

func TestGenerateRunContainsTransitionAndFlowSteps(t *testing.T) {
	def := bouncerDefinition()
	src := GenerateRun(def, 4)
	for _, want := range []string{
		"void bouncer_run(bouncer_data *data) {",
		"for (int i = 0; i < MAXIMUM_INTER_TRANSITIONS; i++) {",
		"case BOUNCER_STATE_FALLING: {",
		"if (data->height < 0) {",
		"data->velocity = -data->velocity;",
		"data->state = BOUNCER_STATE_FALLING;",
		"double height_shadow = data->height + (data->velocity) * STEP_SIZE;",
		"data->height = height_shadow;",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated run missing %q:\n%s", want, src)
		}
	}
}

func TestGenerateRunDeterministic(t *testing.T) {
	first := GenerateRun(bouncerDefinition(), 4)
	for i := 0; i < 5; i++ {
		again := GenerateRun(bouncerDefinition(), 4)
		if again != first {
			t.Fatal("GenerateRun is not deterministic across repeated calls on an equivalent Definition")
		}
	}
}
