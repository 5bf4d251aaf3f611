package exprlang

import "github.com/Goldenbeak21/modular-code-generation/internal/hantype"

// Value is a runtime result of evaluating a formula: either a boolean or a
// real number, tagged by IsBool.
type Value struct {
	IsBool bool
	Bool   bool
	Num    float64
}

// Type reports the ValueType of v.
func (v Value) Type() hantype.ValueType {
	if v.IsBool {
		return hantype.Boolean
	}
	return hantype.Real
}

// BoolValue constructs a boolean Value.
func BoolValue(b bool) Value { return Value{IsBool: true, Bool: b} }

// NumValue constructs a real Value.
func NumValue(n float64) Value { return Value{Num: n} }

// Env is the (name → value) environment evaluate reads from.
type Env map[string]Value
