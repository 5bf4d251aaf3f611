package cback

import (
	"strings"
	"testing"

	"github.com/Goldenbeak21/modular-code-generation/internal/config"
)

func TestGenerateConfigHeaderRendersExecutionMacros(t *testing.T) {
	cfg := config.Defaults()
	cfg.StepSize = 0.01
	cfg.SimulationTime = 5
	cfg.LoggingFile = "out.csv"
	src := GenerateConfigHeader(cfg)
	for _, want := range []string{
		"#define STEP_SIZE 0.01",
		"#define SIMULATION_TIME 5",
		"#define MAXIMUM_INTER_TRANSITIONS",
		"#define REQUIRE_ONE_INTRA_TRANSITION_PER_TICK",
		"#define LOGGING 1",
		"#define LOGGING_FILE \"out.csv\"",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated config.h missing %q:\n%s", want, src)
		}
	}
}

func TestGenerateConfigHeaderOmitsLoggingMacroWhenDisabled(t *testing.T) {
	cfg := config.Defaults()
	cfg.LoggingEnable = false
	src := GenerateConfigHeader(cfg)
	if strings.Contains(src, "#define LOGGING 1") {
		t.Errorf("expected no LOGGING macro when disabled:\n%s", src)
	}
}

// TestDefaultLoggingFieldsListsExternalOutputsInInstanceOrder exercises
// spec §8 scenario 2's "logging.fields ... default all outputs of all
// Instances", confirming the default CSV columns are every Instance's
// ExternalOutput variables in deterministic (instance, field) order.
func TestDefaultLoggingFieldsListsExternalOutputsInInstanceOrder(t *testing.T) {
	net := bouncerNetwork()
	fields := defaultLoggingFields(net)
	if len(fields) != 1 || fields[0] != "ball.bounced" {
		t.Errorf("expected default logging fields [ball.bounced], got %v", fields)
	}
}

func TestGenerateRunnableOmitsLoggerWhenDisabled(t *testing.T) {
	net := bouncerNetwork()
	net.CodegenConfig.LoggingEnable = false
	src := GenerateRunnable(net, 4)
	if strings.Contains(src, "#ifdef LOGGING") {
		t.Errorf("expected no logging block when LoggingEnable is false:\n%s", src)
	}
}

func TestGenerateRunnableDeclaresTimeLoopAndLogger(t *testing.T) {
	net := bouncerNetwork()
	net.CodegenConfig.LoggingEnable = true
	src := GenerateRunnable(net, 4)
	for _, want := range []string{
		"int main(void) {",
		"bouncer_data ball;",
		"system_io io;",
		"bouncer_init(&ball);",
		"#ifdef LOGGING",
		"fprintf(log_file, \"t,ball.bounced\\n\");",
		"long steps = (long)(SIMULATION_TIME / STEP_SIZE);",
		"for (long i = 0; i <= steps; i++) {",
		"bouncer_run(&ball);",
		"system_wire(&ball, &io);",
		"return 0;",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated runnable.c missing %q:\n%s", want, src)
		}
	}
}
