package rtl

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// newTemplate parses body with sprig's helper funcs registered (spec
// §4.6.2/§9: "the RTL back-end interpolates a text template with a nested
// context map. Any string-template library suffices"). Only `join` is
// actually used by entityTemplate below, but the full sprig.FuncMap is
// registered the way every template-driven generator
// in the pack registers it wholesale rather than hand-picking entries.
func newTemplate(name, body string) *template.Template {
	return template.Must(template.New(name).Funcs(sprig.TxtFuncMap()).Parse(body))
}

func render(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		// Every field entity.go feeds in is produced by this package itself
		// from a validated Definition, so a template execution error here
		// means entityTemplate and entityContext have drifted apart, not a
		// bad user input — a panic surfaces that programming error loudly
		// rather than emitting a half-written .vhdl file.
		panic(err)
	}
	return buf.String()
}

// entityTemplate is the per-Automaton VHDL entity+architecture (spec
// §4.6.2): ports for external inputs/outputs, signals for internal
// variables plus an update shadow per variable, a state enumeration, and a
// single clocked process implementing transition/flow logic.
var entityTemplate = newTemplate("entity", `library ieee;
use ieee.std_logic_1164.all;
use ieee.numeric_std.all;
use work.{{.FixedPointPackage}}.all;

entity {{.EntityName}} is
  port (
    clk   : in std_logic;
    reset : in std_logic{{range .Ports}};
    {{.Name}} : {{.Direction}} {{.Type}}{{end}}
  );
end entity {{.EntityName}};

architecture rtl of {{.EntityName}} is
  constant STEP_SIZE : fixed_t := {{.StepSize}};
  type {{.StateType}} is ({{.StateLiterals | join ", "}});
  signal state, next_state : {{.StateType}} := {{.InitialState}};
{{range .Signals}}
  signal {{.Name}} : {{.Type}};
  signal {{.Name}}_update : {{.Type}};
{{- end}}
begin
  process (clk, reset)
  begin
    if reset = '1' then
      state <= {{.InitialState}};
      next_state <= {{.InitialState}};
{{range .Signals}}      {{.Name}} <= {{.Default}};
{{end -}}
    elsif rising_edge(clk) then
      -- hold by default; the case below overrides the variables a
      -- location's flow or transition updates (spec §5: every read in
      -- this tick sees the entry valuation, never another signal's
      -- already-computed update).
{{range .Signals}}      {{.Name}}_update <= {{.Name}};
{{end -}}
      next_state <= state;
{{.ProcessBody}}
      state <= next_state;
{{range .Signals}}      {{.Name}} <= {{.Name}}_update;
{{end -}}
    end if;
  end process;
end architecture rtl;
`)
