package rtl

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
	"github.com/Goldenbeak21/modular-code-generation/internal/config"
	"github.com/Goldenbeak21/modular-code-generation/internal/diagnostics"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

// Generate is the RTL back-end's top-level entry point, mirroring cback's
// Generate(network, config, outDir) contract (spec §4.6): one .vhdl file
// per distinct Automaton Definition, one structural .vhdl per Network
// (nested or root) wiring its Instances together, and the shared
// fixed-point support package written once at the root.
func Generate(net *hybrid.Network, outDir string) error {
	if err := generateNetwork(net, outDir, true); err != nil {
		return err
	}
	return writeFile(filepath.Join(outDir, fixedPointPackageName+".vhdl"), GenerateFixedPointPackage())
}

func generateNetwork(net *hybrid.Network, dir string, isRoot bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return diagnostics.New(diagnostics.ErrIOError, dir, "creating output directory: %v", err)
	}
	cfg := net.CodegenConfig
	if cfg.ParametrisationMethod != config.CompileTime {
		return fmt.Errorf("rtl back-end: network %q: RUN_TIME parametrisation has no RTL lowering (no runtime struct/generic mechanism); use COMPILE_TIME", net.Name)
	}

	seen := map[string]bool{}
	for _, name := range sortedMemberNames(net.Definitions) {
		member := net.Definitions[name]
		switch {
		case member.Automaton != nil:
			if seen[member.Automaton.Name] {
				continue
			}
			seen[member.Automaton.Name] = true
			src, err := GenerateEntity(member.Automaton, cfg.IndentSize, cfg.StepSize)
			if err != nil {
				return err
			}
			if err := writeFile(filepath.Join(dir, codegen.FileName(member.Automaton.Name)+".vhdl"), src); err != nil {
				return err
			}
		case member.Nested != nil:
			sub := filepath.Join(dir, codegen.FileName(name))
			if err := generateNetwork(member.Nested, sub, false); err != nil {
				return err
			}
		}
	}

	return writeFile(filepath.Join(dir, codegen.FileName(net.Name)+"_net.vhdl"), GenerateNetworkEntity(net, cfg.IndentSize))
}

func sortedMemberNames(defs map[string]hybrid.Member) []string {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// writeFile mirrors cback's atomic write-then-rename helper.
func writeFile(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return diagnostics.New(diagnostics.ErrIOError, path, "creating temp file: %v", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return diagnostics.New(diagnostics.ErrIOError, path, "writing: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return diagnostics.New(diagnostics.ErrIOError, path, "closing: %v", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return diagnostics.New(diagnostics.ErrIOError, path, "chmod: %v", err)
	}
	return os.Rename(tmp.Name(), path)
}
