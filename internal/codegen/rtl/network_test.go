package rtl

import (
	"strings"
	"testing"

	"github.com/Goldenbeak21/modular-code-generation/internal/config"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

func bouncerNetwork() *hybrid.Network {
	def := bouncerDefinition()
	def.Variables = append(def.Variables, hybrid.Variable{Name: "gravity", Type: hantype.Real, Locality: hantype.ExternalInput})
	return &hybrid.Network{
		Name:        "System",
		Definitions: map[string]hybrid.Member{"Bouncer": {Automaton: def}},
		Instances: map[string]*hybrid.Instance{
			"ball": {Name: "ball", DefinitionName: "Bouncer"},
		},
		Variables: []hybrid.Variable{
			{Name: "g", Type: hantype.Real, Locality: hantype.ExternalInput},
		},
		Mappings: []hybrid.Mapping{
			{DestInstance: "ball", DestPort: "gravity", Source: &exprlang.Variable{Name: "g"}},
		},
		CodegenConfig: config.Defaults(),
	}
}

func TestGenerateNetworkEntityWiresInstances(t *testing.T) {
	net := bouncerNetwork()
	src := GenerateNetworkEntity(net, 4)
	for _, want := range []string{
		"entity system is",
		"component bouncer",
		"ball_inst : bouncer",
		"ball_gravity <= g;",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated network missing %q:\n%s", want, src)
		}
	}
}
