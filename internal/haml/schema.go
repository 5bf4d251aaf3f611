package haml

import "gopkg.in/yaml.v3"

// doc is the raw top-level YAML shape of a HAML source file, decoded
// before any IR lowering happens.
type doc struct {
	Name          string                  `yaml:"name"`
	Inputs        map[string]yaml.Node    `yaml:"inputs"`
	Outputs       map[string]yaml.Node    `yaml:"outputs"`
	Definitions   map[string]yaml.Node    `yaml:"definitions"`
	Instances     map[string]yamlInstance `yaml:"instances"`
	Mappings      []yamlMapping           `yaml:"mappings"`
	CodegenConfig yaml.Node               `yaml:"codegenConfig"`
}

// yamlAutomaton is a Definitions entry that is a leaf Hybrid Automaton:
// identified structurally by carrying a `locations` key.
type yamlAutomaton struct {
	Variables map[string]yaml.Node    `yaml:"variables"`
	Locations map[string]yamlLocation `yaml:"locations"`
	Functions map[string]yamlFunction `yaml:"functions"`
	Init      yamlInit                `yaml:"init"`
}

// yamlNetwork is a Definitions entry that is itself a nested Network:
// identified structurally by carrying an `instances` key instead. Its
// inputs/outputs schema matches the root document's (spec §6: "`system`
// or top-level: `inputs` / `outputs`" applies to every Network, nested or
// not).
type yamlNetwork struct {
	Inputs        map[string]yaml.Node    `yaml:"inputs"`
	Outputs       map[string]yaml.Node    `yaml:"outputs"`
	Definitions   map[string]yaml.Node    `yaml:"definitions"`
	Instances     map[string]yamlInstance `yaml:"instances"`
	Mappings      []yamlMapping           `yaml:"mappings"`
	CodegenConfig yaml.Node               `yaml:"codegenConfig"`
}

type yamlVariableFull struct {
	Type        string `yaml:"type"`
	Locality    string `yaml:"locality"`
	Default     string `yaml:"default"`
	DelayableBy string `yaml:"delayableBy"`
}

type yamlLocation struct {
	Invariant   string            `yaml:"invariant"`
	Flow        map[string]string `yaml:"flow"`
	Update      map[string]string `yaml:"update"`
	Transitions []yamlTransition  `yaml:"transitions"`
}

type yamlTransition struct {
	Target string    `yaml:"target"`
	Guard  string    `yaml:"guard"`
	Update yaml.Node `yaml:"update"`
}

type yamlFunction struct {
	Inputs map[string]string `yaml:"inputs"`
	Body   string             `yaml:"body"`
}

type yamlInit struct {
	Location string            `yaml:"location"`
	Values   map[string]string `yaml:"values"`
}

type yamlInstance struct {
	Definition string            `yaml:"definition"`
	Parameters map[string]string `yaml:"parameters"`
}

type yamlMapping struct {
	Dest   string `yaml:"dest"`
	Source string `yaml:"source"`
}

// orderedPairs walks a yaml.MappingNode's Content (key0, value0, key1,
// value1, ...) preserving declaration order, which a decoded Go map would
// lose. Used for Transition.Update, since spec §3.5 calls that map out as
// explicitly ordered.
func orderedPairs(node yaml.Node) ([][2]string, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nil
	}
	pairs := make([][2]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, [2]string{node.Content[i].Value, node.Content[i+1].Value})
	}
	return pairs, nil
}
