package transform

import "github.com/Goldenbeak21/modular-code-generation/internal/hybrid"

// ApplySaturation is spec §4.5 step 4's hook. The spec itself calls the
// clamp-to-invariant-range policy "currently a stub" and leaves the
// question open (§9); this function is therefore deliberately a no-op
// that exists so callers can wire it into the fixed transformation order
// without special-casing its absence. See DESIGN.md for the Open
// Question disposition.
func ApplySaturation(net *hybrid.Network) error {
	return nil
}
