// Package cback is the C back-end (spec §4.6.1): per-Definition header/body
// pairs, per-Network I/O glue, a root runnable with a CSV logger, and a
// hierarchical Makefile. It builds on internal/codegen's shared mangling,
// indentation, type-lowering and Formula-lowering utilities the way the RTL
// back-end does, differing only in its Ops table and file layout.
package cback

import (
	"strings"

	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
)

// structName is the emitted C struct type name for a Definition.
func structName(defName string) string {
	return codegen.FileName(defName) + "_data"
}

// stateEnumName is the emitted C enum type name for a Definition's locations.
func stateEnumName(defName string) string {
	return codegen.MacroName(defName) + "_STATE"
}

// stateCaseName is one location's enum constant.
func stateCaseName(defName, locName string) string {
	return codegen.MacroName(defName) + "_STATE_" + codegen.MacroName(locName)
}

// initFuncName and runFuncName are the emitted per-Definition lifecycle
// function names, optionally scoped to a single Instance under COMPILE_TIME
// layout (one specialised source pair per Instance).
func initFuncName(defName string) string { return codegen.FileName(defName) + "_init" }
func runFuncName(defName string) string  { return codegen.FileName(defName) + "_run" }

// headerGuard renders the #ifndef/#define guard macro for a generated header.
func headerGuard(fileStem string) string {
	return strings.ToUpper(fileStem) + "_H"
}
