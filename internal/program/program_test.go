package program

import (
	"testing"

	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hantype"
)

func TestParseShapes(t *testing.T) {
	src := "x = a + 1\n" +
		"if (x > 0) {\n" +
		"  y = x * 2\n" +
		"  return y\n" +
		"} else if (x == 0) {\n" +
		"  return 0\n" +
		"} else {\n" +
		"  return -1\n" +
		"}\n"

	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// Assignment, If, ElseIf, Else: each conditional clause is its own Line.
	if len(prog.Lines) != 4 {
		t.Fatalf("got %d top-level lines, want 4", len(prog.Lines))
	}
	if prog.Lines[0].Kind != LineAssignment || prog.Lines[0].Target != "x" {
		t.Errorf("line 0 = %+v, want Assignment to x", prog.Lines[0])
	}
	ifLine := prog.Lines[1]
	if ifLine.Kind != LineIf {
		t.Fatalf("line 1 kind = %v, want If", ifLine.Kind)
	}
	if len(ifLine.Body.Lines) != 2 {
		t.Fatalf("if body has %d lines, want 2", len(ifLine.Body.Lines))
	}
	if prog.Lines[2].Kind != LineElseIf {
		t.Errorf("line 2 kind = %v, want ElseIf", prog.Lines[2].Kind)
	}
	if prog.Lines[3].Kind != LineElse {
		t.Errorf("line 3 kind = %v, want Else", prog.Lines[3].Kind)
	}
}

func TestParseUnbalancedBraces(t *testing.T) {
	_, err := Parse("if (a) {\n  return a\n")
	if err == nil {
		t.Fatal("expected ErrUnbalancedBraces, got nil")
	}
}

func TestParseNestedBraceDepth(t *testing.T) {
	src := "if (a) {\n" +
		"  if (b) {\n" +
		"    return 1\n" +
		"  }\n" +
		"  return 2\n" +
		"}\n"
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	outer := prog.Lines[0]
	if len(outer.Body.Lines) != 2 {
		t.Fatalf("outer if body has %d lines, want 2 (nested if + return)", len(outer.Body.Lines))
	}
	if outer.Body.Lines[0].Kind != LineIf {
		t.Fatalf("outer body line 0 kind = %v, want If", outer.Body.Lines[0].Kind)
	}
}

func TestCollectVariablesHoistsFromNestedScope(t *testing.T) {
	src := "if (flag) {\n" +
		"  return inner\n" +
		"}\n" +
		"return outer\n"
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := prog.CollectVariables()
	want := []string{"flag", "outer", "inner"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCollectVariableTypesDetectsConflict(t *testing.T) {
	src := "x = a\n" +
		"x = done\n"
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	externals := exprlang.VarTypes{"a": hantype.Real, "done": hantype.Boolean}
	_, err = CollectVariableTypes(prog, externals, nil)
	if err == nil {
		t.Fatal("expected ErrTypeConflict, got nil")
	}
}

func TestCollectVariableTypesInfersAssignment(t *testing.T) {
	src := "x = a + 1\n"
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	externals := exprlang.VarTypes{"a": hantype.Real}
	types, err := CollectVariableTypes(prog, externals, nil)
	if err != nil {
		t.Fatalf("CollectVariableTypes: %v", err)
	}
	if types["x"] != hantype.Real {
		t.Errorf("types[x] = %v, want REAL", types["x"])
	}
}

func TestReturnTypeConflict(t *testing.T) {
	src := "if (flag) {\n" +
		"  return a\n" +
		"} else {\n" +
		"  return done\n" +
		"}\n"
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	types := exprlang.VarTypes{"flag": hantype.Boolean, "a": hantype.Real, "done": hantype.Boolean}
	_, err = prog.ReturnType(types, nil)
	if err == nil {
		t.Fatal("expected ErrReturnTypeConflict, got nil")
	}
}

func TestReturnTypeUnified(t *testing.T) {
	src := "if (flag) {\n" +
		"  return a\n" +
		"} else {\n" +
		"  return b\n" +
		"}\n"
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	types := exprlang.VarTypes{"flag": hantype.Boolean, "a": hantype.Real, "b": hantype.Real}
	rt, err := prog.ReturnType(types, nil)
	if err != nil {
		t.Fatalf("ReturnType: %v", err)
	}
	if rt == nil || *rt != hantype.Real {
		t.Errorf("ReturnType = %v, want REAL", rt)
	}
}

func TestReturnTypeAbsentIsNil(t *testing.T) {
	prog, err := Parse("x = 1\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rt, err := prog.ReturnType(exprlang.VarTypes{}, nil)
	if err != nil {
		t.Fatalf("ReturnType: %v", err)
	}
	if rt != nil {
		t.Errorf("ReturnType = %v, want nil (no return statement)", rt)
	}
}
