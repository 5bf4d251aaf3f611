package exprlang

// SetParameter returns a new tree with every Variable node named `name`
// replaced by a clone of `value` (spec §4.1). Structural equality is by
// name only, matching a leaf Variable node — it does not look inside
// dot-qualified paths.
func SetParameter(expr Node, name string, value Node) Node {
	switch n := expr.(type) {
	case *Literal:
		lit := *n
		return &lit
	case *Variable:
		if n.Name == name {
			return Clone(value)
		}
		v := *n
		return &v
	case *Unary:
		return &Unary{Op: n.Op, X: SetParameter(n.X, name, value)}
	case *Binary:
		return &Binary{Op: n.Op, L: SetParameter(n.L, name, value), R: SetParameter(n.R, name, value)}
	case *NAry:
		args := make([]Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = SetParameter(a, name, value)
		}
		return &NAry{Op: n.Op, Args: args}
	case *Call:
		args := make([]Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = SetParameter(a, name, value)
		}
		return &Call{Name: n.Name, Args: args}
	case *Builtin:
		args := make([]Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = SetParameter(a, name, value)
		}
		return &Builtin{Op: n.Op, Args: args}
	}
	return expr
}

// Clone deep-copies a formula tree.
func Clone(expr Node) Node {
	switch n := expr.(type) {
	case *Literal:
		v := *n
		return &v
	case *Variable:
		v := *n
		return &v
	case *Unary:
		return &Unary{Op: n.Op, X: Clone(n.X)}
	case *Binary:
		return &Binary{Op: n.Op, L: Clone(n.L), R: Clone(n.R)}
	case *NAry:
		args := make([]Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = Clone(a)
		}
		return &NAry{Op: n.Op, Args: args}
	case *Call:
		args := make([]Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = Clone(a)
		}
		return &Call{Name: n.Name, Args: args}
	case *Builtin:
		args := make([]Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = Clone(a)
		}
		return &Builtin{Op: n.Op, Args: args}
	}
	return expr
}

// CollectVariables returns the free Variable names referenced by expr, in
// order of first occurrence, deduplicated.
func CollectVariables(expr Node) []string {
	seen := map[string]bool{}
	var order []string
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *Variable:
			if !seen[v.Name] {
				seen[v.Name] = true
				order = append(order, v.Name)
			}
		case *Unary:
			walk(v.X)
		case *Binary:
			walk(v.L)
			walk(v.R)
		case *NAry:
			for _, a := range v.Args {
				walk(a)
			}
		case *Call:
			for _, a := range v.Args {
				walk(a)
			}
		case *Builtin:
			for _, a := range v.Args {
				walk(a)
			}
		}
	}
	walk(expr)
	return order
}

// Equal reports whether two formula trees are structurally equal (used by
// the round-trip property test: parse(serialize(f)) ≡ f).
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Literal:
		y, ok := b.(*Literal)
		return ok && x.IsBool == y.IsBool && x.Bool == y.Bool && x.Num == y.Num
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.Name == y.Name
	case *Unary:
		y, ok := b.(*Unary)
		return ok && x.Op == y.Op && Equal(x.X, y.X)
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && Equal(x.L, y.L) && Equal(x.R, y.R)
	case *NAry:
		y, ok := b.(*NAry)
		if !ok || x.Op != y.Op || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *Call:
		y, ok := b.(*Call)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *Builtin:
		y, ok := b.(*Builtin)
		if !ok || x.Op != y.Op || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}
