package program

import (
	"strings"

	"github.com/Goldenbeak21/modular-code-generation/internal/diagnostics"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
)

// Parse parses a Program body from raw text (spec §4.2). It operates line
// by line: a line matching `if (COND) {`, `else if (COND) {`, or `else {`
// opens a brace-delimited nested body, whose extent is found by scanning
// forward counting brace depth (each '{' increments, each '}' decrements)
// until depth returns to zero; reaching end-of-text first is
// ErrUnbalancedBraces. Any other non-blank line is tried in order as
// `return EXPR`, `IDENT = EXPR`, then a bare EXPR statement.
func Parse(text string) (*Program, error) {
	p, end, err := parseAt(text, 0)
	if err != nil {
		return nil, err
	}
	_ = end
	return p, nil
}

func parseAt(text string, start int) (*Program, int, error) {
	prog := &Program{}
	pos := start
	for pos < len(text) {
		lineEnd := strings.IndexByte(text[pos:], '\n')
		var rawLine string
		var nextPos int
		if lineEnd < 0 {
			rawLine = text[pos:]
			nextPos = len(text)
		} else {
			rawLine = text[pos : pos+lineEnd]
			nextPos = pos + lineEnd + 1
		}
		trimmed := strings.TrimSpace(rawLine)
		if trimmed == "" {
			pos = nextPos
			continue
		}

		if kind, cond, ok := matchHeader(trimmed); ok {
			bodyStart := nextPos
			bodyEnd, err := findMatchingBrace(text, bodyStart)
			if err != nil {
				return nil, 0, err
			}
			bodyText := text[bodyStart:bodyEnd]
			nested, _, err := parseAt(bodyText, 0)
			if err != nil {
				return nil, 0, err
			}
			var condExpr exprlang.Node
			if cond != "" {
				condExpr, err = exprlang.Parse(cond)
				if err != nil {
					return nil, 0, err
				}
			}
			prog.Lines = append(prog.Lines, &Line{Kind: kind, Expr: condExpr, Body: nested})

			// Resume right after the matching '}'. Whatever follows it on
			// that same physical line — nothing, or a chained
			// "else if (...) {" / "else {" — is read as the next line by
			// the next iteration, so both "}\nelse {" and "} else {" styles
			// parse the same way.
			pos = bodyEnd + 1
			continue
		}

		if rest, ok := cutPrefix(trimmed, "return"); ok {
			expr, err := exprlang.Parse(strings.TrimSpace(rest))
			if err != nil {
				return nil, 0, err
			}
			prog.Lines = append(prog.Lines, &Line{Kind: LineReturn, Expr: expr})
			pos = nextPos
			continue
		}

		if name, rhs, ok := splitAssignment(trimmed); ok {
			expr, err := exprlang.Parse(rhs)
			if err != nil {
				return nil, 0, err
			}
			prog.Lines = append(prog.Lines, &Line{Kind: LineAssignment, Target: name, Expr: expr})
			pos = nextPos
			continue
		}

		expr, err := exprlang.Parse(trimmed)
		if err != nil {
			return nil, 0, err
		}
		prog.Lines = append(prog.Lines, &Line{Kind: LineStatement, Expr: expr})
		pos = nextPos
	}
	return prog, pos, nil
}

// matchHeader recognizes an if/else-if/else header line, returning the
// condition text (empty for else) when it ends a brace-opening clause.
func matchHeader(line string) (LineKind, string, bool) {
	if !strings.HasSuffix(line, "{") {
		return 0, "", false
	}
	head := strings.TrimSpace(strings.TrimSuffix(line, "{"))
	if rest, ok := cutPrefix(head, "else if"); ok {
		cond, ok := unwrapParens(strings.TrimSpace(rest))
		if !ok {
			return 0, "", false
		}
		return LineElseIf, cond, true
	}
	if strings.TrimSpace(head) == "else" {
		return LineElse, "", true
	}
	if rest, ok := cutPrefix(head, "if"); ok {
		cond, ok := unwrapParens(strings.TrimSpace(rest))
		if !ok {
			return 0, "", false
		}
		return LineIf, cond, true
	}
	return 0, "", false
}

func unwrapParens(s string) (string, bool) {
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return "", false
	}
	return s[1 : len(s)-1], true
}

// cutPrefix trims a keyword prefix, requiring a word boundary after it.
func cutPrefix(s, keyword string) (string, bool) {
	if !strings.HasPrefix(s, keyword) {
		return "", false
	}
	rest := s[len(keyword):]
	if rest != "" && !strings.HasPrefix(rest, " ") && !strings.HasPrefix(rest, "(") {
		return "", false
	}
	return rest, true
}

// splitAssignment finds the first '=' that is not part of '==', '!=', '<=',
// or '>=', splitting the line into a target identifier and an expression.
func splitAssignment(line string) (name, rhs string, ok bool) {
	for i := 0; i < len(line); i++ {
		if line[i] != '=' {
			continue
		}
		if i+1 < len(line) && line[i+1] == '=' {
			i++
			continue
		}
		if i > 0 && (line[i-1] == '!' || line[i-1] == '<' || line[i-1] == '>' || line[i-1] == '=') {
			continue
		}
		candidate := strings.TrimSpace(line[:i])
		if !isIdentifier(candidate) {
			return "", "", false
		}
		return candidate, strings.TrimSpace(line[i+1:]), true
	}
	return "", "", false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isAlpha {
			return false
		}
		if i > 0 && !isAlpha && !isDigit && r != '.' {
			return false
		}
	}
	return true
}

// findMatchingBrace scans text from start, counting an already-open brace
// depth of 1, and returns the index of the '}' that closes it.
func findMatchingBrace(text string, start int) (int, error) {
	depth := 1
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, diagnostics.New(diagnostics.ErrUnbalancedBraces, "", "unterminated brace body starting at offset %d", start)
}
