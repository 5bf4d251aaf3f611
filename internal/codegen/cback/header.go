package cback

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

// orderedVariables sorts def's variables by locality (external-inputs,
// external-outputs, internals, parameters, per spec §4.6.1) and, within a
// locality, by name for deterministic output (spec §8's determinism law).
func orderedVariables(vars []hybrid.Variable) []hybrid.Variable {
	rank := map[hantype.Locality]int{
		hantype.ExternalInput:  0,
		hantype.ExternalOutput: 1,
		hantype.Internal:       2,
		hantype.Parameter:      3,
	}
	out := make([]hybrid.Variable, len(vars))
	copy(out, vars)
	sort.SliceStable(out, func(i, j int) bool {
		if rank[out[i].Locality] != rank[out[j].Locality] {
			return rank[out[i].Locality] < rank[out[j].Locality]
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func sortedLocationNames(locs map[string]*hybrid.Location) []string {
	names := make([]string, 0, len(locs))
	for name := range locs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateHeader renders a Definition's header: the state enum, its data
// struct (state field plus every variable ordered by locality), and the
// init/run prototypes (spec §4.6.1).
func GenerateHeader(def *hybrid.Definition, indentSize int) string {
	stem := codegen.FileName(def.Name)
	guard := headerGuard(stem)
	var b strings.Builder
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)
	b.WriteString("#include <stdbool.h>\n\n")

	enum := stateEnumName(def.Name)
	fmt.Fprintf(&b, "typedef enum {\n")
	for _, locName := range sortedLocationNames(def.Locations) {
		fmt.Fprintf(&b, "%s%s,\n", codegen.Indent(1, indentSize), stateCaseName(def.Name, locName))
	}
	fmt.Fprintf(&b, "} %s;\n\n", enum)

	structT := structName(def.Name)
	fmt.Fprintf(&b, "typedef struct {\n%s%s state;\n", codegen.Indent(1, indentSize), enum)
	for _, v := range orderedVariables(def.Variables) {
		fmt.Fprintf(&b, "%s%s %s; /* %s */\n", codegen.Indent(1, indentSize),
			codegen.LowerType(v.Type, codegen.C), codegen.VarName(v.Name, v.Locality), v.Locality)
	}
	fmt.Fprintf(&b, "} %s;\n\n", structT)

	fmt.Fprintf(&b, "void %s(%s *data);\n", initFuncName(def.Name), structT)
	fmt.Fprintf(&b, "void %s(%s *data);\n\n", runFuncName(def.Name), structT)
	fmt.Fprintf(&b, "#endif /* %s */\n", guard)
	return b.String()
}
