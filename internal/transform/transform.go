package transform

import "github.com/Goldenbeak21/modular-code-generation/internal/hybrid"

// Run applies the spec §4.5 transformations to net, in their fixed order:
// parameter propagation, delay expansion, optional flattening, then the
// saturation-rewrite hook. net's own CodegenConfig supplies the
// parametrisation method for the whole tree, nested networks included;
// each network's own CodegenConfig supplies the step size for its delays.
// Flatten is skipped when flatten is false, leaving the recursive Network
// shape intact for a back-end that wants it (spec §4.5 calls flattening
// "optional").
func Run(net *hybrid.Network, flatten bool) (*hybrid.Network, error) {
	if err := PropagateParameters(net, net.CodegenConfig.ParametrisationMethod); err != nil {
		return nil, err
	}
	if err := ExpandDelays(net); err != nil {
		return nil, err
	}
	if flatten {
		flat, err := Flatten(net)
		if err != nil {
			return nil, err
		}
		net = flat
	}
	if err := ApplySaturation(net); err != nil {
		return nil, err
	}
	return net, nil
}
