// Package rtl is the RTL back-end (spec §4.6.2): a template-driven,
// synchronous VHDL description, one entity per Automaton Definition, with a
// shared fixed-point support package. It builds on internal/codegen's
// mangling, type-lowering and Formula-lowering utilities the same way the
// cback back-end does, differing only in its Ops table, its fixed-point
// literal lowering, and its text/template-based file layout.
package rtl

import (
	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
)

// entityName is the emitted VHDL entity name for a Definition.
func entityName(defName string) string {
	return codegen.FileName(defName)
}

// stateTypeName is the emitted enumeration type for a Definition's locations.
func stateTypeName(defName string) string {
	return codegen.FileName(defName) + "_state_t"
}

// stateLiteralName is one location's enumeration literal.
func stateLiteralName(defName, locName string) string {
	return "st_" + codegen.FileName(defName) + "_" + codegen.FileName(locName)
}

// signalName is a variable's emitted entry-valuation signal name.
func signalName(varName string) string {
	return codegen.FileName(varName)
}

// updateSignalName is a variable's shadow "*_update" signal, committed at
// the clocked process's end (spec §4.6.2: "signals ... and an `update`
// shadow for every variable"; spec §5's commit-at-tick-end contract).
func updateSignalName(varName string) string {
	return codegen.FileName(varName) + "_update"
}

// portName is a variable's emitted entity port name.
func portName(varName string) string {
	return codegen.FileName(varName)
}

// fixedPointPackageName is the shared support package every generated
// entity depends on (spec §4.6.2's Q16.16 lowering).
const fixedPointPackageName = "hanc_fixed_pkg"
