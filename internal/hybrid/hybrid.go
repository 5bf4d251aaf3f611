// Package hybrid is the Hybrid Automaton Network intermediate
// representation: Variable, Location, Transition, Definition, Instance and
// Network, built by an importer, mutated only by the transform package,
// and read-only from code generation onward.
package hybrid

import (
	"github.com/Goldenbeak21/modular-code-generation/internal/config"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
	"github.com/Goldenbeak21/modular-code-generation/internal/program"
)

// Variable is a named, typed slot on a Definition or Network (spec §3.3).
type Variable struct {
	Name        string
	Type        hantype.ValueType
	Locality    hantype.Locality
	Default     exprlang.Node // nil if absent
	DelayableBy exprlang.Node // nil if not delayable
}

// Location is one discrete mode of a Definition (spec §3.4). A Location
// with an empty Flow map is purely discrete; one with no outgoing
// Transitions is terminal.
type Location struct {
	Name        string
	Invariant   exprlang.Node // defaults to literal true if nil
	Flow        map[string]exprlang.Node
	Update      map[string]exprlang.Node
	Transitions []*Transition
}

// Transition is one outgoing edge of a Location (spec §3.5). At most one
// Transition fires per inter-transition step (see the concurrency model).
type Transition struct {
	Target string
	Guard  exprlang.Node // defaults to literal true if nil
	Update []UpdateEntry // ordered
}

// UpdateEntry is one (variable, expression) pair in an ordered update map.
type UpdateEntry struct {
	Variable string
	Value    exprlang.Node
}

// Function is a named Program with typed formal inputs, attached to a
// Definition (spec §3.6).
type Function struct {
	Name   string
	Inputs []Variable
	Body   *program.Program
}

// Initialisation names the starting location and initial variable values
// of a Definition.
type Initialisation struct {
	InitialLocation string
	InitialValues   map[string]exprlang.Node
}

// Definition is one Hybrid Automaton (spec §3.6).
type Definition struct {
	Name      string
	Variables []Variable
	Locations map[string]*Location
	Functions map[string]*Function
	Init      Initialisation
}

// Instance binds a Definition into a Network under a local name, with
// parameter expressions evaluated against the enclosing Network's scope
// (spec §3.7). Instance carries the Definition's key into the owning
// Network's Definitions map, not a pointer — see design notes for why.
type Instance struct {
	Name           string
	DefinitionName string
	Parameters     map[string]exprlang.Node
}

// Mapping is one network-level I/O wire: a (destination instance,
// destination port) pair driven by a Formula (spec §3.8). DestInstance is
// empty for a top-level Network output port.
type Mapping struct {
	DestInstance string
	DestPort     string
	Source       exprlang.Node
}

// Member is a Network's Definitions-map entry: either a leaf Automaton or
// a nested Network, never both.
type Member struct {
	Automaton *Definition
	Nested    *Network
}

// Network is a (possibly recursive) composition of Definitions and
// Instances (spec §3.8).
type Network struct {
	Name        string
	Variables   []Variable // the Network's own input/output ports
	Definitions map[string]Member
	Instances   map[string]*Instance
	Mappings    []Mapping
	// CodegenConfig is this network's fully-resolved code-generation
	// settings (spec §3.8): whatever the HAML source's codegenConfig field
	// overrode, overlaid on config.Defaults().
	CodegenConfig config.CodegenConfig
}
