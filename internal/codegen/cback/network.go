package cback

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

// ioStructName is the emitted C struct holding a Network's own input/output
// ports (distinct from any one Instance's data struct).
func ioStructName(netName string) string { return codegen.FileName(netName) + "_io" }

// wireFuncName is the emitted glue function that applies every Mapping.
func wireFuncName(netName string) string { return codegen.FileName(netName) + "_wire" }

// instVarName renders the C pointer-field reference for one instance's port.
func instVarName(inst, field string) string {
	return instArgName(inst) + "->" + codegen.FileName(field)
}

// instArgName is the C parameter/local name for one Instance pointer,
// dots replaced since C identifiers cannot contain them.
func instArgName(inst string) string { return codegen.FileName(inst) }

// GenerateNetworkWiring renders the glue function that applies every one of
// net's Mappings by assignment, reading/writing each instance's data struct
// through a pointer parameter and the Network's own ports through its io
// struct (spec §4.6.1: "Per Network, emits I/O-mapping glue").
func GenerateNetworkWiring(net *hybrid.Network, indentSize int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#include \"%s.h\"\n\n", codegen.FileName(net.Name))

	instNames := sortedInstanceNames(net.Instances)
	var params []string
	for _, inst := range instNames {
		defName := net.Instances[inst].DefinitionName
		params = append(params, fmt.Sprintf("%s *%s", structName(defName), instArgName(inst)))
	}
	params = append(params, fmt.Sprintf("%s *io", ioStructName(net.Name)))

	fmt.Fprintf(&b, "void %s(%s) {\n", wireFuncName(net.Name), strings.Join(params, ", "))
	ind := codegen.Indent(1, indentSize)
	for _, m := range net.Mappings {
		rename := map[string]string{}
		for _, ref := range exprlang.CollectVariables(m.Source) {
			rename[ref] = resolveReference(net, ref)
		}
		pd := codegen.PrefixData{Prefix: "io->", Rename: rename}
		rhs := codegen.LowerFormula(m.Source, pd, formulaOps)

		var lhs string
		if m.DestInstance == "" {
			lhs = "io->" + codegen.FileName(m.DestPort)
		} else {
			lhs = instVarName(m.DestInstance, m.DestPort)
		}
		fmt.Fprintf(&b, "%s%s = %s;\n", ind, lhs, rhs)
	}
	b.WriteString("}\n")
	return b.String()
}

// resolveReference renders a Formula reference's C form: "<inst>.<port>"
// resolves against the longest Instance key that is a dotted prefix of the
// name (Instance keys are themselves dotted after flattening, e.g.
// "sub.ball"), falling back to the Network's own io struct for a bare
// network port name.
func resolveReference(net *hybrid.Network, name string) string {
	best := ""
	for instName := range net.Instances {
		if strings.HasPrefix(name, instName+".") && len(instName) > len(best) {
			best = instName
		}
	}
	if best != "" {
		return instVarName(best, name[len(best)+1:])
	}
	return "io->" + codegen.FileName(name)
}

// GenerateNetworkHeader renders the Network's io struct (its own ports) and
// the wiring function's prototype.
func GenerateNetworkHeader(net *hybrid.Network, indentSize int) string {
	stem := codegen.FileName(net.Name)
	guard := headerGuard(stem)
	var b strings.Builder
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)

	ind := codegen.Indent(1, indentSize)
	fmt.Fprintf(&b, "typedef struct {\n")
	for _, v := range orderedVariables(net.Variables) {
		fmt.Fprintf(&b, "%s%s %s;\n", ind, codegen.LowerType(v.Type, codegen.C), codegen.FileName(v.Name))
	}
	fmt.Fprintf(&b, "} %s;\n\n", ioStructName(net.Name))

	instNames := sortedInstanceNames(net.Instances)
	var includes []string
	seen := map[string]bool{}
	for _, inst := range instNames {
		defName := net.Instances[inst].DefinitionName
		if !seen[defName] {
			seen[defName] = true
			includes = append(includes, defName)
		}
	}
	sort.Strings(includes)
	for _, defName := range includes {
		fmt.Fprintf(&b, "#include \"%s.h\"\n", codegen.FileName(defName))
	}
	if len(includes) > 0 {
		b.WriteString("\n")
	}

	var params []string
	for _, inst := range instNames {
		defName := net.Instances[inst].DefinitionName
		params = append(params, fmt.Sprintf("%s *%s", structName(defName), instArgName(inst)))
	}
	params = append(params, fmt.Sprintf("%s *io", ioStructName(net.Name)))
	fmt.Fprintf(&b, "void %s(%s);\n\n", wireFuncName(net.Name), strings.Join(params, ", "))
	fmt.Fprintf(&b, "#endif /* %s */\n", guard)
	return b.String()
}

func sortedInstanceNames(instances map[string]*hybrid.Instance) []string {
	names := make([]string, 0, len(instances))
	for name := range instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
