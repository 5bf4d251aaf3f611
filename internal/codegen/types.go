package codegen

import "github.com/Goldenbeak21/modular-code-generation/internal/hantype"

// LowerType renders a ValueType as the target language's spelling (spec
// §4.6: "type lowering (target-specific rendering of BOOLEAN/REAL)"). In C,
// BOOLEAN lowers to plain int with 0/1 values and REAL to double (the
// generated header still includes <stdbool.h>, but no field uses bool).
// In VHDL, REAL lowers to signed(31 downto 0) holding Q16.16 fixed point
// and BOOLEAN to std_logic.
func LowerType(t hantype.ValueType, target Target) string {
	switch target {
	case VHDL:
		if t == hantype.Boolean {
			return "std_logic"
		}
		return "signed(31 downto 0)"
	default: // C
		if t == hantype.Boolean {
			return "int"
		}
		return "double"
	}
}

// FixedPointBits is the RTL back-end's fixed-point fractional width (Q16.16,
// spec §4.6.2).
const FixedPointBits = 16

// ToFixedPoint implements the spec's convertToFixedPoint(x) = round(x * 2^16).
func ToFixedPoint(x float64) int64 {
	scale := float64(int64(1) << FixedPointBits)
	if x >= 0 {
		return int64(x*scale + 0.5)
	}
	return -int64(-x*scale + 0.5)
}
