package cback

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
	"github.com/Goldenbeak21/modular-code-generation/internal/config"
	"github.com/Goldenbeak21/modular-code-generation/internal/diagnostics"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

// Generate is the C back-end's top-level entry point (spec §4.6: "a single
// top-level generate(network, config, outDir)"). Files are emitted
// leaves-first: a nested Network's own directory and archive-producing
// Makefile are written before its parent's (spec §5's ordering guarantee).
func Generate(net *hybrid.Network, outDir string) error {
	return generateNetwork(net, outDir, true)
}

func generateNetwork(net *hybrid.Network, dir string, isRoot bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return diagnostics.New(diagnostics.ErrIOError, dir, "creating output directory: %v", err)
	}
	cfg := net.CodegenConfig

	var subNetworks []string
	defNames := sortedMemberNames(net.Definitions)
	for _, name := range defNames {
		member := net.Definitions[name]
		if member.Nested == nil {
			continue
		}
		sub := filepath.Join(dir, codegen.FileName(name))
		if err := generateNetwork(member.Nested, sub, false); err != nil {
			return err
		}
		subNetworks = append(subNetworks, name)
	}

	if cfg.ParametrisationMethod == config.CompileTime {
		if err := emitCompileTime(net, dir); err != nil {
			return err
		}
	} else {
		if err := emitRunTime(net, dir); err != nil {
			return err
		}
	}

	if err := writeFile(filepath.Join(dir, codegen.FileName(net.Name)+".h"), GenerateNetworkHeader(net, cfg.IndentSize)); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, codegen.FileName(net.Name)+".c"), GenerateNetworkWiring(net, cfg.IndentSize)); err != nil {
		return err
	}

	if isRoot {
		if err := writeFile(filepath.Join(dir, "config.h"), GenerateConfigHeader(cfg)); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(dir, "runnable.c"), GenerateRunnable(net, cfg.IndentSize)); err != nil {
			return err
		}
	}

	return writeFile(filepath.Join(dir, "Makefile"), GenerateMakefile(net.Name, subNetworks, isRoot))
}

// emitCompileTime writes one source pair per Instance, under a folder per
// Definition, with that Instance's parameters already inlined by the
// transform package (spec §4.6.1's COMPILE_TIME file layout).
func emitCompileTime(net *hybrid.Network, dir string) error {
	cfg := net.CodegenConfig
	for _, instName := range sortedInstanceNames(net.Instances) {
		inst := net.Instances[instName]
		member, ok := net.Definitions[inst.DefinitionName]
		if !ok || member.Automaton == nil {
			continue
		}
		defDir := filepath.Join(dir, codegen.FileName(inst.DefinitionName))
		if err := os.MkdirAll(defDir, 0o755); err != nil {
			return diagnostics.New(diagnostics.ErrIOError, defDir, "creating definition directory: %v", err)
		}
		if err := emitAutomaton(member.Automaton, defDir, cfg.IndentSize); err != nil {
			return err
		}
	}
	return nil
}

// emitRunTime writes one source pair per Definition, shared by every
// Instance that references it (spec §4.6.1's RUN_TIME file layout). No
// generated code writes an Instance's parameter values: a PARAMETER field
// holds only what the Definition's init function sets (its initial value
// or default), or zero.
func emitRunTime(net *hybrid.Network, dir string) error {
	cfg := net.CodegenConfig
	seen := map[string]bool{}
	for _, name := range sortedMemberNames(net.Definitions) {
		member := net.Definitions[name]
		if member.Automaton == nil || seen[member.Automaton.Name] {
			continue
		}
		seen[member.Automaton.Name] = true
		if err := emitAutomaton(member.Automaton, dir, cfg.IndentSize); err != nil {
			return err
		}
	}
	return nil
}

func emitAutomaton(def *hybrid.Definition, dir string, indentSize int) error {
	if err := writeFile(filepath.Join(dir, codegen.FileName(def.Name)+".h"), GenerateHeader(def, indentSize)); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, codegen.FileName(def.Name)+"_init.c"), GenerateInit(def, indentSize)); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, codegen.FileName(def.Name)+"_run.c"), GenerateRun(def, indentSize))
}

func sortedMemberNames(defs map[string]hybrid.Member) []string {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// writeFile atomically replaces path's contents: write to a temp file in
// the same directory, then rename over the destination, so a failed or
// partial write never leaves a corrupt generated source file in place.
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
	if err := os.Rename(tmp.Name(), path); err != nil {
		return diagnostics.New(diagnostics.ErrIOError, path, "renaming into place: %v", err)
	}
	return nil
}
