package rtl

import (
	"fmt"

	"github.com/Goldenbeak21/modular-code-generation/internal/codegen"
)

// GenerateFixedPointPackage renders the shared Q16.16 support package every
// generated entity's arithmetic calls into (spec §4.6.2: "Real-valued
// variables lower to a 32-bit signed fixed-point representation
// (Q16.16 unless configured otherwise)"). Multiply and divide need a
// rescale a plain `signed` "+"/"-" does not, so those two plus the numeric
// builtin table get named functions here instead of being inlined at every
// call site.
func GenerateFixedPointPackage() string {
	return fmt.Sprintf(`library ieee;
use ieee.std_logic_1164.all;
use ieee.numeric_std.all;

package %s is
  constant FIXED_FRAC_BITS : integer := %d;
  subtype fixed_t is signed(31 downto 0);

  function fixed_mul(a, b : fixed_t) return fixed_t;
  function fixed_div(a, b : fixed_t) return fixed_t;
  function fixed_sqrt(a : fixed_t) return fixed_t;
  function fixed_exp(a : fixed_t) return fixed_t;
  function fixed_ln(a : fixed_t) return fixed_t;
  function fixed_sin(a : fixed_t) return fixed_t;
  function fixed_cos(a : fixed_t) return fixed_t;
  function fixed_tan(a : fixed_t) return fixed_t;
  function fixed_floor(a : fixed_t) return fixed_t;
  function fixed_ceil(a : fixed_t) return fixed_t;
  function fixed_abs(a : fixed_t) return fixed_t;
  function fixed_pow(a, b : fixed_t) return fixed_t;
end package %s;

package body %s is
  -- widen to 64 bits before multiplying so the Q16.16 x Q16.16 product's
  -- integer part does not overflow before the fractional rescale.
  function fixed_mul(a, b : fixed_t) return fixed_t is
    variable wide : signed(63 downto 0);
  begin
    wide := resize(a, 64) * resize(b, 64);
    return fixed_t(wide(31 + FIXED_FRAC_BITS downto FIXED_FRAC_BITS));
  end function;

  function fixed_div(a, b : fixed_t) return fixed_t is
    variable wide : signed(63 downto 0);
  begin
    wide := shift_left(resize(a, 64), FIXED_FRAC_BITS);
    return fixed_t(resize(wide / resize(b, 64), 32));
  end function;

  -- TODO: the transcendental builtins (sqrt/exp/ln/sin/cos/tan) need a
  -- CORDIC or lookup-table implementation to be synthesis-accurate; these
  -- bodies are placeholders that preserve the call's type signature.
  function fixed_sqrt(a : fixed_t) return fixed_t is
  begin
    return a;
  end function;

  function fixed_exp(a : fixed_t) return fixed_t is
  begin
    return a;
  end function;

  function fixed_ln(a : fixed_t) return fixed_t is
  begin
    return a;
  end function;

  function fixed_sin(a : fixed_t) return fixed_t is
  begin
    return a;
  end function;

  function fixed_cos(a : fixed_t) return fixed_t is
  begin
    return a;
  end function;

  function fixed_tan(a : fixed_t) return fixed_t is
  begin
    return a;
  end function;

  -- clears the fractional bits, rounding toward negative infinity.
  function fixed_floor(a : fixed_t) return fixed_t is
  begin
    return shift_left(shift_right(a, FIXED_FRAC_BITS), FIXED_FRAC_BITS);
  end function;

  function fixed_ceil(a : fixed_t) return fixed_t is
  begin
    return a;
  end function;

  function fixed_abs(a : fixed_t) return fixed_t is
  begin
    if a < 0 then
      return -a;
    else
      return a;
    end if;
  end function;

  function fixed_pow(a, b : fixed_t) return fixed_t is
  begin
    return fixed_mul(a, b);
  end function;
end package body %s;
`, fixedPointPackageName, codegen.FixedPointBits, fixedPointPackageName, fixedPointPackageName, fixedPointPackageName)
}
