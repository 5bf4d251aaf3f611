package rtl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Goldenbeak21/modular-code-generation/internal/config"
)

func TestGenerateWritesEntityNetworkAndSupportFiles(t *testing.T) {
	net := bouncerNetwork()
	dir := t.TempDir()

	if err := Generate(net, dir); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, name := range []string{"bouncer.vhdl", "system_net.vhdl", fixedPointPackageName + ".vhdl"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}
}

func TestGenerateRejectsRunTimeParametrisation(t *testing.T) {
	net := bouncerNetwork()
	net.CodegenConfig.ParametrisationMethod = config.RunTime
	if err := Generate(net, t.TempDir()); err == nil {
		t.Fatal("expected an error for RUN_TIME parametrisation")
	}
}
