package haml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
)

func TestSpliceIncludesBasic(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "part.yaml"), []byte("x: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	main := "top: true\n!include part.yaml\n"
	out, err := SpliceIncludes(main, dir)
	if err != nil {
		t.Fatalf("SpliceIncludes: %v", err)
	}
	if out != "top: true\nx: 1\n\n" {
		t.Errorf("got %q", out)
	}
}

func TestSpliceIncludesCycle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	if err := os.WriteFile(a, []byte("!include b.yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("!include a.yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(a)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := SpliceIncludes(string(data), dir); err == nil {
		t.Fatal("expected ErrIncludeCycle, got nil")
	}
}

func TestImportSimpleNetwork(t *testing.T) {
	dir := t.TempDir()
	src := `
name: Bouncing
outputs:
  height: REAL
definitions:
  Bouncer:
    variables:
      height:
        type: REAL
        locality: EXTERNAL_OUTPUT
      velocity: REAL
    locations:
      Falling:
        flow:
          height: velocity
          velocity: "-9.8"
        transitions:
          - target: Falling
            guard: "height >= 0"
    init:
      location: Falling
      values:
        height: "10"
        velocity: "0"
instances:
  ball:
    definition: Bouncer
mappings:
  - dest: height
    source: ball.height
`
	path := filepath.Join(dir, "net.haml.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	net, err := Import(path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if net.Name != "Bouncing" {
		t.Errorf("Name = %q, want Bouncing", net.Name)
	}
	if len(net.Variables) != 1 || net.Variables[0].Name != "height" || net.Variables[0].Locality != hantype.ExternalOutput {
		t.Errorf("network ports = %+v, want one EXTERNAL_OUTPUT port named height", net.Variables)
	}
	member, ok := net.Definitions["Bouncer"]
	if !ok || member.Automaton == nil {
		t.Fatalf("Definitions[Bouncer] missing or not an automaton: %+v", member)
	}
	if len(member.Automaton.Locations) != 1 {
		t.Errorf("got %d locations, want 1", len(member.Automaton.Locations))
	}
	if err := member.Automaton.Validate(nil); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := net.Validate(); err != nil {
		t.Errorf("Network Validate: %v", err)
	}
}

func TestImportCodegenConfigOverlay(t *testing.T) {
	dir := t.TempDir()
	src := `
name: Bouncing
inputs: {}
outputs: {}
definitions: {}
instances: {}
codegenConfig:
  execution:
    stepSize: 0.01
  logging:
    file: bounce.csv
  parametrisationMethod: RUN_TIME
`
	path := filepath.Join(dir, "net.haml.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	net, err := Import(path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if net.CodegenConfig.StepSize != 0.01 {
		t.Errorf("StepSize = %v, want 0.01", net.CodegenConfig.StepSize)
	}
	if net.CodegenConfig.LoggingInterval != 0.01 {
		t.Errorf("LoggingInterval = %v, want 0.01 (defaults to StepSize)", net.CodegenConfig.LoggingInterval)
	}
	if net.CodegenConfig.LoggingFile != "bounce.csv" {
		t.Errorf("LoggingFile = %q, want bounce.csv", net.CodegenConfig.LoggingFile)
	}
	if net.CodegenConfig.IndentSize != 4 {
		t.Errorf("IndentSize = %v, want default 4", net.CodegenConfig.IndentSize)
	}
}

func TestImportUnknownVariableShorthand(t *testing.T) {
	dir := t.TempDir()
	src := "name: Bad\ninputs:\n  x: NOTATYPE\ndefinitions: {}\ninstances: {}\n"
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Import(path); err == nil {
		t.Fatal("expected error for unknown variable type shorthand")
	}
}
