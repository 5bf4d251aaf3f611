package cellml

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleModel = `<?xml version="1.0"?>
<model name="Bouncer" xmlns="http://www.cellml.org/cellml/1.0#">
  <component name="falling">
    <variable name="height" initial_value="10"/>
    <variable name="velocity" initial_value="0"/>
    <math xmlns="http://www.w3.org/1998/Math/MathML">
      <apply>
        <eq/>
        <apply><diff/><bvar><ci>time</ci></bvar><ci>height</ci></apply>
        <ci>velocity</ci>
      </apply>
      <apply>
        <eq/>
        <apply><diff/><bvar><ci>time</ci></bvar><ci>velocity</ci></apply>
        <apply><minus/><cn>9.8</cn></apply>
      </apply>
    </math>
  </component>
</model>
`

func TestImportSampleModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bouncer.cellml")
	if err := os.WriteFile(path, []byte(sampleModel), 0o644); err != nil {
		t.Fatal(err)
	}
	def, err := Import(path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if def.Name != "Bouncer" {
		t.Errorf("Name = %q, want Bouncer", def.Name)
	}
	if len(def.Variables) != 2 {
		t.Fatalf("got %d variables, want 2", len(def.Variables))
	}
	loc, ok := def.Locations["falling"]
	if !ok {
		t.Fatal("missing location 'falling'")
	}
	if _, ok := loc.Flow["height"]; !ok {
		t.Error("missing flow for height")
	}
	if _, ok := loc.Flow["velocity"]; !ok {
		t.Error("missing flow for velocity")
	}
	if def.Init.InitialLocation != "falling" {
		t.Errorf("InitialLocation = %q, want falling", def.Init.InitialLocation)
	}
	if err := def.Validate(nil); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestImportNetworkWrapsSingleInstance(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bouncer.cellml")
	if err := os.WriteFile(path, []byte(sampleModel), 0o644); err != nil {
		t.Fatal(err)
	}
	net, err := ImportNetwork(path)
	if err != nil {
		t.Fatalf("ImportNetwork: %v", err)
	}
	if net.Name != "Bouncer" {
		t.Errorf("Name = %q, want Bouncer", net.Name)
	}
	member, ok := net.Definitions["Bouncer"]
	if !ok || member.Automaton == nil {
		t.Fatal("expected a single Automaton member named Bouncer")
	}
	if len(net.Instances) != 1 {
		t.Fatalf("got %d instances, want 1", len(net.Instances))
	}
	for _, inst := range net.Instances {
		if inst.DefinitionName != "Bouncer" {
			t.Errorf("instance DefinitionName = %q, want Bouncer", inst.DefinitionName)
		}
	}
	if err := net.ValidateRecursive(nil); err != nil {
		t.Errorf("ValidateRecursive: %v", err)
	}
}

func TestImportUnsupportedMathRejected(t *testing.T) {
	const badModel = `<model name="Bad">
  <component name="c">
    <variable name="x" initial_value="0"/>
    <math>
      <apply><gcd/><ci>x</ci><cn>2</cn></apply>
    </math>
  </component>
</model>`
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.cellml")
	if err := os.WriteFile(path, []byte(badModel), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Import(path); err == nil {
		t.Fatal("expected ErrUnsupportedMathML, got nil")
	}
}
