package cback

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Goldenbeak21/modular-code-generation/internal/config"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

func TestGenerateCompileTimeNestsSourcesUnderDefinitionFolder(t *testing.T) {
	net := bouncerNetwork()
	dir := t.TempDir()

	if err := Generate(net, dir); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, rel := range []string{
		filepath.Join("bouncer", "bouncer.h"),
		filepath.Join("bouncer", "bouncer_init.c"),
		filepath.Join("bouncer", "bouncer_run.c"),
		"system.h",
		"system.c",
		"config.h",
		"runnable.c",
		"Makefile",
	} {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("expected %s to be written: %v", rel, err)
		}
	}
}

func TestGenerateRunTimeWritesOneFileSetDirectlyUnderRoot(t *testing.T) {
	net := bouncerNetwork()
	net.CodegenConfig.ParametrisationMethod = config.RunTime

	dir := t.TempDir()
	if err := Generate(net, dir); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, rel := range []string{"bouncer.h", "bouncer_init.c", "bouncer_run.c"} {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("expected %s directly under the output directory: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "bouncer")); err == nil {
		t.Errorf("RUN_TIME layout must not nest sources under a per-definition folder")
	}
}

// heartDefinition is a minimal one-Location automaton standing in for a
// chamber of a "heart" network (spec §8 scenario 2): a single ExternalOutput
// "rate" that never changes, enough to exercise the RUN_TIME file layout
// and the logging CSV column ordering without needing a real cardiac model.
func heartDefinition(name string, rate float64) *hybrid.Definition {
	return &hybrid.Definition{
		Name: name,
		Variables: []hybrid.Variable{
			{Name: "rate", Type: hantype.Real, Locality: hantype.ExternalOutput},
		},
		Locations: map[string]*hybrid.Location{
			"Beating": {Name: "Beating"},
		},
		Init: hybrid.Initialisation{
			InitialLocation: "Beating",
			InitialValues: map[string]exprlang.Node{
				"rate": &exprlang.Literal{Num: rate},
			},
		},
	}
}

// heartNetwork exercises spec §8 scenario 2: RUN_TIME parametrisation, one
// generated file per Definition (Atrium and Ventricle are distinct
// Definitions here, each referenced by one Instance),
// and codegenConfig.LoggingFields declared explicitly, which must surface as
// ordered CSV columns in the generated runnable's header line.
func heartNetwork() *hybrid.Network {
	atrium := heartDefinition("Atrium", 70)
	ventricle := heartDefinition("Ventricle", 70)
	cfg := config.Defaults()
	cfg.ParametrisationMethod = config.RunTime
	cfg.LoggingFields = []string{"ventricle.rate", "atrium.rate"}
	return &hybrid.Network{
		Name: "Heart",
		Definitions: map[string]hybrid.Member{
			"Atrium":    {Automaton: atrium},
			"Ventricle": {Automaton: ventricle},
		},
		Instances: map[string]*hybrid.Instance{
			"atrium":    {Name: "atrium", DefinitionName: "Atrium"},
			"ventricle": {Name: "ventricle", DefinitionName: "Ventricle"},
		},
		CodegenConfig: cfg,
	}
}

func TestGenerateHeartNetworkWritesOneFileSetPerDefinition(t *testing.T) {
	net := heartNetwork()
	dir := t.TempDir()

	if err := Generate(net, dir); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, rel := range []string{
		"atrium.h", "atrium_init.c", "atrium_run.c",
		"ventricle.h", "ventricle_init.c", "ventricle_run.c",
		"heart.h", "heart.c", "config.h", "runnable.c",
	} {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("expected %s to be written: %v", rel, err)
		}
	}
}

func TestGenerateHeartNetworkLoggingColumnsFollowDeclaredOrder(t *testing.T) {
	net := heartNetwork()
	dir := t.TempDir()
	if err := Generate(net, dir); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "runnable.c"))
	if err != nil {
		t.Fatalf("reading runnable.c: %v", err)
	}
	if !strings.Contains(string(data), `"t,ventricle.rate,atrium.rate\n"`) {
		t.Errorf("expected CSV header columns in declared logging.fields order (ventricle before atrium):\n%s", data)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	if err := Generate(heartNetwork(), dirA); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := Generate(heartNetwork(), dirB); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, rel := range []string{"atrium.h", "ventricle_run.c", "runnable.c", "Makefile"} {
		a, err := os.ReadFile(filepath.Join(dirA, rel))
		if err != nil {
			t.Fatalf("reading %s: %v", rel, err)
		}
		b, err := os.ReadFile(filepath.Join(dirB, rel))
		if err != nil {
			t.Fatalf("reading %s: %v", rel, err)
		}
		if string(a) != string(b) {
			t.Errorf("%s differs between two Generate runs over an equivalent Network", rel)
		}
	}
}
