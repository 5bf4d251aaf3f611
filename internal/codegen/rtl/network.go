package rtl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

// instSignalName is the emitted top-level signal wiring one Instance's port
// to the rest of the network (VHDL has no dotted identifiers).
func instSignalName(inst, port string) string {
	return codegen.FileName(inst) + "_" + codegen.FileName(port)
}

// resolveReference mirrors cback's same-named helper: the longest
// Instance-name dotted prefix of name wins, falling back to the network's
// own top-level port signal.
func resolveReference(net *hybrid.Network, name string) string {
	best := ""
	for instName := range net.Instances {
		if strings.HasPrefix(name, instName+".") && len(instName) > len(best) {
			best = instName
		}
	}
	if best != "" {
		return instSignalName(best, name[len(best)+1:])
	}
	return portName(name)
}

// GenerateNetworkEntity renders the structural VHDL composing a Network's
// Instances: one component instantiation per Instance, a signal per
// Instance port, and a concurrent signal assignment per Mapping (spec
// §4.6.2's "ports for external inputs/outputs" at the network level, with
// the per-Automaton entities as components — the network-level analogue
// of cback's GenerateNetworkWiring, in VHDL's structural style rather than
// C's imperative glue function).
func GenerateNetworkEntity(net *hybrid.Network, indentSize int) string {
	var b strings.Builder
	b.WriteString("library ieee;\nuse ieee.std_logic_1164.all;\n")
	fmt.Fprintf(&b, "use work.%s.all;\n\n", fixedPointPackageName)

	name := entityName(net.Name)
	fmt.Fprintf(&b, "entity %s is\n  port (\n    clk   : in std_logic;\n    reset : in std_logic", name)
	for _, v := range net.Variables {
		dir := "in"
		if v.Locality == hantype.ExternalOutput {
			dir = "out"
		}
		fmt.Fprintf(&b, ";\n    %s : %s %s", portName(v.Name), dir, codegen.LowerType(v.Type, codegen.VHDL))
	}
	b.WriteString("\n  );\nend entity " + name + ";\n\n")

	instNames := sortedInstanceNames(net.Instances)
	defNames := map[string]bool{}
	for _, inst := range instNames {
		defNames[net.Instances[inst].DefinitionName] = true
	}
	sortedDefs := make([]string, 0, len(defNames))
	for d := range defNames {
		sortedDefs = append(sortedDefs, d)
	}
	sort.Strings(sortedDefs)

	fmt.Fprintf(&b, "architecture structural of %s is\n", name)
	for _, defName := range sortedDefs {
		member := net.Definitions[defName]
		if member.Automaton == nil {
			continue
		}
		fmt.Fprintf(&b, "  component %s\n    port (\n      clk : in std_logic;\n      reset : in std_logic", entityName(defName))
		for _, v := range orderedExternalPorts(member.Automaton.Variables) {
			dir := "in"
			if v.Locality == hantype.ExternalOutput {
				dir = "out"
			}
			fmt.Fprintf(&b, ";\n      %s : %s %s", portName(v.Name), dir, codegen.LowerType(v.Type, codegen.VHDL))
		}
		b.WriteString("\n    );\n  end component;\n\n")
	}

	for _, inst := range instNames {
		defName := net.Instances[inst].DefinitionName
		member := net.Definitions[defName]
		if member.Automaton == nil {
			continue
		}
		for _, v := range orderedExternalPorts(member.Automaton.Variables) {
			fmt.Fprintf(&b, "  signal %s : %s;\n", instSignalName(inst, v.Name), codegen.LowerType(v.Type, codegen.VHDL))
		}
	}
	b.WriteString("begin\n")

	for _, inst := range instNames {
		defName := net.Instances[inst].DefinitionName
		member := net.Definitions[defName]
		if member.Automaton == nil {
			continue
		}
		fmt.Fprintf(&b, "  %s_inst : %s\n    port map (\n      clk => clk,\n      reset => reset", codegen.FileName(inst), entityName(defName))
		for _, v := range orderedExternalPorts(member.Automaton.Variables) {
			fmt.Fprintf(&b, ",\n      %s => %s", portName(v.Name), instSignalName(inst, v.Name))
		}
		b.WriteString("\n    );\n\n")
	}

	for _, m := range net.Mappings {
		rename := map[string]string{}
		for _, ref := range exprlang.CollectVariables(m.Source) {
			rename[ref] = resolveReference(net, ref)
		}
		pd := codegen.PrefixData{Rename: rename, Prefix: ""}
		rhs := codegen.LowerFormula(m.Source, pd, formulaOps)

		var lhs string
		if m.DestInstance == "" {
			lhs = portName(m.DestPort)
		} else {
			lhs = instSignalName(m.DestInstance, m.DestPort)
		}
		fmt.Fprintf(&b, "  %s <= %s;\n", lhs, rhs)
	}

	b.WriteString("end architecture structural;\n")
	return b.String()
}

func orderedExternalPorts(vars []hybrid.Variable) []hybrid.Variable {
	var out []hybrid.Variable
	for _, v := range vars {
		if v.Locality == hantype.ExternalInput || v.Locality == hantype.ExternalOutput {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Locality != out[j].Locality {
			return out[i].Locality == hantype.ExternalInput
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func sortedInstanceNames(instances map[string]*hybrid.Instance) []string {
	names := make([]string, 0, len(instances))
	for name := range instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
