package haml

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Goldenbeak21/modular-code-generation/internal/config"
	"github.com/Goldenbeak21/modular-code-generation/internal/diagnostics"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
	"github.com/Goldenbeak21/modular-code-generation/internal/program"
)

// Import reads a HAML source file, splices its !include tags, decodes the
// resulting YAML, and lowers it into a hybrid.Network (spec §4.4).
func Import(path string) (*hybrid.Network, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- author-supplied compiler input, not untrusted
	if err != nil {
		return nil, diagnostics.New(diagnostics.ErrIOError, path, "reading source: %v", err)
	}
	spliced, err := SpliceIncludes(string(data), filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	var d doc
	// KnownFields(true) rejects a top-level field the schema does not
	// declare (spec §6: "Unknown fields are rejected with UnknownField"),
	// where plain yaml.Unmarshal would have silently dropped it.
	dec := yaml.NewDecoder(strings.NewReader(spliced))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && err != io.EOF {
		if strings.Contains(err.Error(), "not found in type") {
			return nil, diagnostics.New(diagnostics.ErrUnknownField, path, "%v", err)
		}
		return nil, diagnostics.New(diagnostics.ErrParse, path, "invalid YAML: %v", err)
	}
	return lowerNetwork(d.Name, d.Inputs, d.Outputs, d.Definitions, d.Instances, d.Mappings, &d.CodegenConfig)
}

func lowerNetwork(name string, rawInputs, rawOutputs map[string]yaml.Node, rawDefs map[string]yaml.Node, rawInst map[string]yamlInstance, rawMaps []yamlMapping, rawConfig *yaml.Node) (*hybrid.Network, error) {
	inputs, err := lowerPortVariables(rawInputs, hantype.ExternalInput)
	if err != nil {
		return nil, err
	}
	outputs, err := lowerPortVariables(rawOutputs, hantype.ExternalOutput)
	if err != nil {
		return nil, err
	}
	vars := append(inputs, outputs...)
	cfg, err := config.FromYAMLNode(rawConfig)
	if err != nil {
		return nil, diagnostics.New(diagnostics.ErrParse, name, "decoding codegenConfig: %v", err)
	}
	defs := make(map[string]hybrid.Member, len(rawDefs))
	for defName, node := range rawDefs {
		member, err := lowerMember(defName, node)
		if err != nil {
			return nil, err
		}
		defs[defName] = member
	}
	instances := make(map[string]*hybrid.Instance, len(rawInst))
	for instName, raw := range rawInst {
		params := make(map[string]exprlang.Node, len(raw.Parameters))
		for pName, pExpr := range raw.Parameters {
			n, err := exprlang.Parse(pExpr)
			if err != nil {
				return nil, err
			}
			params[pName] = n
		}
		instances[instName] = &hybrid.Instance{Name: instName, DefinitionName: raw.Definition, Parameters: params}
	}
	mappings := make([]hybrid.Mapping, 0, len(rawMaps))
	for _, m := range rawMaps {
		src, err := exprlang.Parse(m.Source)
		if err != nil {
			return nil, err
		}
		destInstance, destPort := splitDest(m.Dest)
		mappings = append(mappings, hybrid.Mapping{DestInstance: destInstance, DestPort: destPort, Source: src})
	}
	return &hybrid.Network{
		Name:          name,
		Variables:     vars,
		Definitions:   defs,
		Instances:     instances,
		Mappings:      mappings,
		CodegenConfig: cfg,
	}, nil
}

// splitDest splits a "instance.port" mapping destination into its parts;
// a destination with no dot names a top-level Network output port.
func splitDest(dest string) (instance, port string) {
	if i := strings.IndexByte(dest, '.'); i >= 0 {
		return dest[:i], dest[i+1:]
	}
	return "", dest
}

func lowerMember(name string, node yaml.Node) (hybrid.Member, error) {
	if hasKey(node, "locations") {
		var raw yamlAutomaton
		if err := node.Decode(&raw); err != nil {
			return hybrid.Member{}, diagnostics.New(diagnostics.ErrParse, name, "decoding automaton: %v", err)
		}
		def, err := lowerAutomaton(name, raw)
		if err != nil {
			return hybrid.Member{}, err
		}
		return hybrid.Member{Automaton: def}, nil
	}
	if hasKey(node, "instances") {
		var raw yamlNetwork
		if err := node.Decode(&raw); err != nil {
			return hybrid.Member{}, diagnostics.New(diagnostics.ErrParse, name, "decoding nested network: %v", err)
		}
		nested, err := lowerNetwork(name, raw.Inputs, raw.Outputs, raw.Definitions, raw.Instances, raw.Mappings, &raw.CodegenConfig)
		if err != nil {
			return hybrid.Member{}, err
		}
		return hybrid.Member{Nested: nested}, nil
	}
	return hybrid.Member{}, diagnostics.New(diagnostics.ErrUnknownField, name,
		"a definitions entry must have either a 'locations' field (automaton) or an 'instances' field (nested network)")
}

func hasKey(node yaml.Node, key string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

func lowerAutomaton(name string, raw yamlAutomaton) (*hybrid.Definition, error) {
	vars, err := lowerVariables(raw.Variables)
	if err != nil {
		return nil, err
	}
	locs := make(map[string]*hybrid.Location, len(raw.Locations))
	for locName, rl := range raw.Locations {
		loc, err := lowerLocation(locName, rl)
		if err != nil {
			return nil, err
		}
		locs[locName] = loc
	}
	funcs := make(map[string]*hybrid.Function, len(raw.Functions))
	for fnName, rf := range raw.Functions {
		fn, err := lowerFunction(fnName, rf)
		if err != nil {
			return nil, err
		}
		funcs[fnName] = fn
	}
	initValues := make(map[string]exprlang.Node, len(raw.Init.Values))
	for k, v := range raw.Init.Values {
		n, err := exprlang.Parse(v)
		if err != nil {
			return nil, err
		}
		initValues[k] = n
	}
	return &hybrid.Definition{
		Name:      name,
		Variables: vars,
		Locations: locs,
		Functions: funcs,
		Init:      hybrid.Initialisation{InitialLocation: raw.Init.Location, InitialValues: initValues},
	}, nil
}

func lowerLocation(name string, raw yamlLocation) (*hybrid.Location, error) {
	loc := &hybrid.Location{Name: name}
	if raw.Invariant != "" {
		n, err := exprlang.Parse(raw.Invariant)
		if err != nil {
			return nil, err
		}
		loc.Invariant = n
	}
	loc.Flow = make(map[string]exprlang.Node, len(raw.Flow))
	for k, v := range raw.Flow {
		n, err := exprlang.Parse(v)
		if err != nil {
			return nil, err
		}
		loc.Flow[k] = n
	}
	loc.Update = make(map[string]exprlang.Node, len(raw.Update))
	for k, v := range raw.Update {
		n, err := exprlang.Parse(v)
		if err != nil {
			return nil, err
		}
		loc.Update[k] = n
	}
	for _, rt := range raw.Transitions {
		t, err := lowerTransition(rt)
		if err != nil {
			return nil, err
		}
		loc.Transitions = append(loc.Transitions, t)
	}
	return loc, nil
}

func lowerTransition(raw yamlTransition) (*hybrid.Transition, error) {
	t := &hybrid.Transition{Target: raw.Target}
	if raw.Guard != "" {
		n, err := exprlang.Parse(raw.Guard)
		if err != nil {
			return nil, err
		}
		t.Guard = n
	}
	pairs, err := orderedPairs(raw.Update)
	if err != nil {
		return nil, err
	}
	for _, kv := range pairs {
		n, err := exprlang.Parse(kv[1])
		if err != nil {
			return nil, err
		}
		t.Update = append(t.Update, hybrid.UpdateEntry{Variable: kv[0], Value: n})
	}
	return t, nil
}

func lowerFunction(name string, raw yamlFunction) (*hybrid.Function, error) {
	inputs := make([]hybrid.Variable, 0, len(raw.Inputs))
	for iname, itype := range raw.Inputs {
		vt, ok := hantype.ParseValueType(itype)
		if !ok {
			return nil, diagnostics.New(diagnostics.ErrUnknownField, iname, "unknown type %q for function %q input", itype, name)
		}
		inputs = append(inputs, hybrid.Variable{Name: iname, Type: vt, Locality: hantype.Internal})
	}
	body, err := program.Parse(raw.Body)
	if err != nil {
		return nil, err
	}
	return &hybrid.Function{Name: name, Inputs: inputs, Body: body}, nil
}

// lowerPortVariables lowers a Network's `inputs` or `outputs` map (spec
// §6: "map of name → Variable Type or Variable Definition") via the same
// shorthand rules as a Definition's own `variables` map, then forces every
// resulting Variable's Locality to the port kind its map declared it
// under — a network port's locality is which of the two maps it appears
// in, not a `locality` field on the entry itself.
func lowerPortVariables(raw map[string]yaml.Node, locality hantype.Locality) ([]hybrid.Variable, error) {
	vars, err := lowerVariables(raw)
	if err != nil {
		return nil, err
	}
	for i := range vars {
		vars[i].Locality = locality
	}
	return vars, nil
}

// lowerVariables resolves the shorthand described in spec §4.4: a bare
// scalar type name (REAL, BOOLEAN) lowers to a Variable with that type,
// INTERNAL locality, and no default; anything else must decode as the
// full object form.
func lowerVariables(raw map[string]yaml.Node) ([]hybrid.Variable, error) {
	result := make([]hybrid.Variable, 0, len(raw))
	for name, node := range raw {
		v, err := lowerVariable(name, node)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

func lowerVariable(name string, node yaml.Node) (hybrid.Variable, error) {
	if node.Kind == yaml.ScalarNode {
		vt, ok := hantype.ParseValueType(node.Value)
		if ok {
			return hybrid.Variable{Name: name, Type: vt, Locality: hantype.Internal}, nil
		}
		return hybrid.Variable{}, diagnostics.New(diagnostics.ErrUnknownField, name, "bare variable value %q is not REAL or BOOLEAN", node.Value)
	}
	var full yamlVariableFull
	if err := node.Decode(&full); err != nil {
		return hybrid.Variable{}, diagnostics.New(diagnostics.ErrParse, name, "decoding variable: %v", err)
	}
	vt, ok := hantype.ParseValueType(full.Type)
	if !ok {
		return hybrid.Variable{}, diagnostics.New(diagnostics.ErrUnknownField, name, "unknown variable type %q", full.Type)
	}
	locality := hantype.Internal
	if full.Locality != "" {
		switch full.Locality {
		case "INTERNAL":
			locality = hantype.Internal
		case "EXTERNAL_INPUT":
			locality = hantype.ExternalInput
		case "EXTERNAL_OUTPUT":
			locality = hantype.ExternalOutput
		case "PARAMETER":
			locality = hantype.Parameter
		default:
			return hybrid.Variable{}, diagnostics.New(diagnostics.ErrUnknownField, name, "unknown locality %q", full.Locality)
		}
	}
	v := hybrid.Variable{Name: name, Type: vt, Locality: locality}
	if full.Default != "" {
		n, err := exprlang.Parse(full.Default)
		if err != nil {
			return hybrid.Variable{}, err
		}
		v.Default = n
	}
	if full.DelayableBy != "" {
		n, err := exprlang.Parse(full.DelayableBy)
		if err != nil {
			return hybrid.Variable{}, err
		}
		v.DelayableBy = n
	}
	return v, nil
}
