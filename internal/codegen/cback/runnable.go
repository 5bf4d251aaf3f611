package cback

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
	"github.com/Goldenbeak21/modular-code-generation/internal/config"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

// GenerateConfigHeader renders config.h: the execution/logging macros every
// generated .c file includes (spec §6's "config.h (execution/logging
// macros)").
func GenerateConfigHeader(cfg config.CodegenConfig) string {
	var b strings.Builder
	b.WriteString("#ifndef CONFIG_H\n#define CONFIG_H\n\n")
	fmt.Fprintf(&b, "#define STEP_SIZE %s\n", formatDouble(cfg.StepSize))
	fmt.Fprintf(&b, "#define SIMULATION_TIME %s\n", formatDouble(cfg.SimulationTime))
	fmt.Fprintf(&b, "#define MAXIMUM_INTER_TRANSITIONS %d\n", cfg.MaximumInterTransitions)
	fmt.Fprintf(&b, "#define REQUIRE_ONE_INTRA_TRANSITION_PER_TICK %s\n", boolMacro(cfg.RequireOneIntraTransitionPerTick))
	if cfg.LoggingEnable {
		b.WriteString("#define LOGGING 1\n")
	}
	fmt.Fprintf(&b, "#define LOGGING_INTERVAL %s\n", formatDouble(cfg.LoggingInterval))
	fmt.Fprintf(&b, "#define LOGGING_FILE %q\n", cfg.LoggingFile)
	b.WriteString("\n#endif /* CONFIG_H */\n")
	return b.String()
}

func formatDouble(f float64) string { return fmt.Sprintf("%g", f) }

func boolMacro(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// defaultLoggingFields lists every Instance's ExternalOutput variables, in
// deterministic (instance, then field) order, matching the spec's
// "logging.fields ... default all outputs of all Instances".
func defaultLoggingFields(net *hybrid.Network) []string {
	var fields []string
	for _, inst := range sortedInstanceNames(net.Instances) {
		def, ok := net.Definitions[net.Instances[inst].DefinitionName]
		if !ok || def.Automaton == nil {
			continue
		}
		vars := orderedVariables(def.Automaton.Variables)
		for _, v := range vars {
			if v.Locality == hantype.ExternalOutput {
				fields = append(fields, inst+"."+v.Name)
			}
		}
	}
	return fields
}

// GenerateRunnable renders the root time loop (spec §4.6.1: "a runnable with
// the time loop for i in 0..simulationTime/stepSize and an optional CSV
// logger gated by a LOGGING macro").
func GenerateRunnable(net *hybrid.Network, indentSize int) string {
	cfg := net.CodegenConfig
	var b strings.Builder
	b.WriteString("#include <stdio.h>\n#include \"config.h\"\n")
	fmt.Fprintf(&b, "#include \"%s.h\"\n", codegen.FileName(net.Name))

	instNames := sortedInstanceNames(net.Instances)
	seenDefs := map[string]bool{}
	var defIncludes []string
	for _, inst := range instNames {
		defName := net.Instances[inst].DefinitionName
		if !seenDefs[defName] {
			seenDefs[defName] = true
			defIncludes = append(defIncludes, defName)
		}
	}
	sort.Strings(defIncludes)
	for _, defName := range defIncludes {
		fmt.Fprintf(&b, "#include \"%s.h\"\n", codegen.FileName(defName))
	}
	b.WriteString("\n")

	ind := codegen.Indent(1, indentSize)
	b.WriteString("int main(void) {\n")
	for _, inst := range instNames {
		defName := net.Instances[inst].DefinitionName
		fmt.Fprintf(&b, "%s%s %s;\n", ind, structName(defName), instArgName(inst))
	}
	fmt.Fprintf(&b, "%s%s io;\n", ind, ioStructName(net.Name))
	for _, inst := range instNames {
		fmt.Fprintf(&b, "%s%s(&%s);\n", ind, initFuncName(net.Instances[inst].DefinitionName), instArgName(inst))
	}

	fields := cfg.LoggingFields
	if len(fields) == 0 {
		fields = defaultLoggingFields(net)
	}

	if cfg.LoggingEnable {
		fmt.Fprintf(&b, "#ifdef LOGGING\n")
		fmt.Fprintf(&b, "%sFILE *log_file = fopen(LOGGING_FILE, \"w\");\n", ind)
		header := append([]string{"t"}, fields...)
		fmt.Fprintf(&b, "%sfprintf(log_file, \"%s\\n\");\n", ind, strings.Join(header, ","))
		fmt.Fprintf(&b, "#endif\n")
	}

	fmt.Fprintf(&b, "%slong steps = (long)(SIMULATION_TIME / STEP_SIZE);\n", ind)
	fmt.Fprintf(&b, "%sfor (long i = 0; i <= steps; i++) {\n", ind)
	ind2 := codegen.Indent(2, indentSize)
	for _, inst := range instNames {
		fmt.Fprintf(&b, "%s%s(&%s);\n", ind2, runFuncName(net.Instances[inst].DefinitionName), instArgName(inst))
	}
	var wireArgs []string
	for _, inst := range instNames {
		wireArgs = append(wireArgs, "&"+instArgName(inst))
	}
	wireArgs = append(wireArgs, "&io")
	fmt.Fprintf(&b, "%s%s(%s);\n", ind2, wireFuncName(net.Name), strings.Join(wireArgs, ", "))

	if cfg.LoggingEnable {
		fmt.Fprintf(&b, "#ifdef LOGGING\n")
		fmt.Fprintf(&b, "%sif (i %% (long)(LOGGING_INTERVAL / STEP_SIZE) == 0) {\n", ind2)
		ind3 := codegen.Indent(3, indentSize)
		var exprs []string
		exprs = append(exprs, "(double)i * STEP_SIZE")
		for _, f := range fields {
			exprs = append(exprs, resolveReference(net, f))
		}
		fmtSpec := strings.TrimSuffix(strings.Repeat("%g,", len(exprs)), ",")
		fmt.Fprintf(&b, "%sfprintf(log_file, \"%s\\n\", %s);\n", ind3, fmtSpec, strings.Join(exprs, ", "))
		fmt.Fprintf(&b, "%s}\n", ind2)
		fmt.Fprintf(&b, "#endif\n")
	}
	fmt.Fprintf(&b, "%s}\n", ind)

	if cfg.LoggingEnable {
		fmt.Fprintf(&b, "#ifdef LOGGING\n%sfclose(log_file);\n#endif\n", ind)
	}
	fmt.Fprintf(&b, "%sreturn 0;\n", ind)
	b.WriteString("}\n")
	return b.String()
}
