package exprlang

import (
	"testing"
)

func TestLexerTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "arithmetic",
			input:    "x + 1.5 * y",
			expected: []TokenType{TokIdent, TokPlus, TokNumber, TokStar, TokIdent, TokEOF},
		},
		{
			name:     "comparison and logic",
			input:    "a >= 2 && b != false",
			expected: []TokenType{TokIdent, TokGe, TokNumber, TokAndAnd, TokIdent, TokNe, TokFalse, TokEOF},
		},
		{
			name:     "qualified name and call",
			input:    "sqrt(inst.x)",
			expected: []TokenType{TokIdent, TokLParen, TokIdent, TokRParen, TokEOF},
		},
		{
			name:     "exponent literal",
			input:    "1.5e-3",
			expected: []TokenType{TokNumber, TokEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := NewLexer(tt.input)
			var got []TokenType
			for {
				tok, err := lex.NextToken()
				if err != nil {
					t.Fatalf("NextToken: %v", err)
				}
				got = append(got, tok.Type)
				if tok.Type == TokEOF {
					break
				}
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(tt.expected), tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"add mul", "1 + 2 * 3", "1 + 2 * 3"},
		{"paren forces order", "(1 + 2) * 3", "(1 + 2) * 3"},
		{"pow right assoc", "2 ^ 3 ^ 2", "2 ^ 3 ^ 2"},
		{"pow left needs parens", "(2 ^ 3) ^ 2", "(2 ^ 3) ^ 2"},
		{"sub right needs parens", "1 - (2 - 3)", "1 - (2 - 3)"},
		{"sub chain no parens needed", "1 - 2 - 3", "1 - 2 - 3"},
		{"and chain flattens", "a && b && c", "a && b && c"},
		{"or and precedence", "a || b && c", "a || b && c"},
		{"or and precedence parens", "(a || b) && c", "(a || b) && c"},
		{"not binds tight", "!a && b", "!a && b"},
		{"unary minus", "-x + 1", "-x + 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got := node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"1 +",
		"(1 + 2",
		"1 2",
		"1 $ 2",
	}
	for _, in := range tests {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", in)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	exprs := []string{
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"a == b",
		"a && b && c",
		"a || (b && c)",
		"sqrt(x) + pow(y, 2)",
		"-x ^ 2",
		"2 ^ 3 ^ 2",
		"!done && count >= 3",
	}
	for _, in := range exprs {
		t.Run(in, func(t *testing.T) {
			first, err := Parse(in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", in, err)
			}
			text := first.String()
			second, err := Parse(text)
			if err != nil {
				t.Fatalf("Parse(serialize(%q))=%q: %v", in, text, err)
			}
			if !Equal(first, second) {
				t.Errorf("round-trip mismatch: %q -> %q -> %q not structurally equal", in, text, second.String())
			}
		})
	}
}
