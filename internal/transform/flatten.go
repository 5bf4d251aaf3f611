package transform

import (
	"strings"

	"github.com/Goldenbeak21/modular-code-generation/internal/diagnostics"
	"github.com/Goldenbeak21/modular-code-generation/internal/exprlang"
	"github.com/Goldenbeak21/modular-code-generation/internal/hybrid"
)

// Flatten implements spec §4.5 step 3: a recursive Network is collapsed
// into one with only leaf Automaton Definitions, inner Instances lifted
// with dotted names ("outer.inner"), and mappings composed transitively so
// observable I/O is preserved. Lifted Automaton Definitions are re-keyed
// "instName$innerDefName", so they never collide across two instantiations
// of the same nested network template.
func Flatten(net *hybrid.Network) (*hybrid.Network, error) {
	var diag diagnostics.List
	out := flattenNetwork(net, &diag)
	if err := diag.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type childWiring struct {
	flat            *hybrid.Network
	defRename       map[string]string
	outputSources   map[string]exprlang.Node // bare own-output-port name -> source formula (in child's native namespace)
	inputDest       map[string][2]string      // bare own-input-port name -> (subInstance, subPort) pure pass-through
}

func flattenNetwork(net *hybrid.Network, diag *diagnostics.List) *hybrid.Network {
	out := &hybrid.Network{
		Name:          net.Name,
		Variables:     net.Variables,
		Definitions:   make(map[string]hybrid.Member, len(net.Definitions)),
		Instances:     make(map[string]*hybrid.Instance, len(net.Instances)),
		CodegenConfig: net.CodegenConfig,
	}

	flatChildren := make(map[string]*hybrid.Network, len(net.Definitions))
	for defName, member := range net.Definitions {
		switch {
		case member.Automaton != nil:
			out.Definitions[defName] = member
		case member.Nested != nil:
			flatChildren[defName] = flattenNetwork(member.Nested, diag)
		}
	}

	wiring := make(map[string]*childWiring, len(net.Instances))
	for instName, inst := range net.Instances {
		member, ok := net.Definitions[inst.DefinitionName]
		if !ok {
			continue // reported by Network.Validate
		}
		if member.Automaton != nil {
			out.Instances[instName] = inst
			continue
		}
		flatChild := flatChildren[inst.DefinitionName]
		w := &childWiring{flat: flatChild, defRename: map[string]string{}, outputSources: map[string]exprlang.Node{}, inputDest: map[string][2]string{}}
		wiring[instName] = w

		for innerDefName, innerMember := range flatChild.Definitions {
			newName := instName + "$" + innerDefName
			w.defRename[innerDefName] = newName
			out.Definitions[newName] = innerMember
		}
		for innerInstName, innerInst := range flatChild.Instances {
			dotted := instName + "." + innerInstName
			out.Instances[dotted] = &hybrid.Instance{
				Name:           dotted,
				DefinitionName: w.defRename[innerInst.DefinitionName],
				Parameters:     innerInst.Parameters,
			}
		}
		for _, m := range flatChild.Mappings {
			if m.DestInstance == "" {
				w.outputSources[m.DestPort] = m.Source
				continue
			}
			if v, ok := m.Source.(*exprlang.Variable); ok && !strings.Contains(v.Name, ".") {
				w.inputDest[v.Name] = [2]string{m.DestInstance, m.DestPort}
			}
		}
	}

	for _, m := range net.Mappings {
		newSrc, err := rewriteSource(m.Source, wiring)
		if err != nil {
			diag.Add(err.(*diagnostics.Error))
			continue
		}
		newDestInstance, newDestPort, err := rewriteDest(m.DestInstance, m.DestPort, wiring)
		if err != nil {
			diag.Add(err.(*diagnostics.Error))
			continue
		}
		out.Mappings = append(out.Mappings, hybrid.Mapping{DestInstance: newDestInstance, DestPort: newDestPort, Source: newSrc})
	}

	return out
}

// rewriteDest resolves an outer mapping destination "destInstance.destPort"
// (or, for a multi-level path, "destInstance.sub.port") against the lifted
// instance tree.
func rewriteDest(destInstance, destPort string, wiring map[string]*childWiring) (string, string, error) {
	w, nested := wiring[destInstance]
	if !nested {
		return destInstance, destPort, nil
	}
	if idx := strings.IndexByte(destPort, '.'); idx >= 0 {
		return destInstance + "." + destPort[:idx], destPort[idx+1:], nil
	}
	if resolved, ok := w.inputDest[destPort]; ok {
		return destInstance + "." + resolved[0], resolved[1], nil
	}
	return "", "", diagnostics.New(diagnostics.ErrUnresolvedMapping, destInstance+"."+destPort,
		"nested network input port is not a pure pass-through to one sub-instance; composing it during flattening is not supported")
}

// rewriteSource walks a Formula looking for references into a just-lifted
// nested instance ("instName.port") and splices in that port's wiring.
func rewriteSource(expr exprlang.Node, wiring map[string]*childWiring) (exprlang.Node, error) {
	switch n := expr.(type) {
	case *exprlang.Literal:
		v := *n
		return &v, nil
	case *exprlang.Variable:
		for instName, w := range wiring {
			prefix := instName + "."
			if !strings.HasPrefix(n.Name, prefix) {
				continue
			}
			rest := n.Name[len(prefix):]
			if strings.Contains(rest, ".") {
				return &exprlang.Variable{Name: prefix + rest}, nil
			}
			src, ok := w.outputSources[rest]
			if !ok {
				return nil, diagnostics.New(diagnostics.ErrUnresolvedMapping, n.Name, "nested network %q has no output mapping for port %q", instName, rest)
			}
			return spliceChildSource(src, instName, w)
		}
		v := *n
		return &v, nil
	case *exprlang.Unary:
		x, err := rewriteSource(n.X, wiring)
		if err != nil {
			return nil, err
		}
		return &exprlang.Unary{Op: n.Op, X: x}, nil
	case *exprlang.Binary:
		l, err := rewriteSource(n.L, wiring)
		if err != nil {
			return nil, err
		}
		r, err := rewriteSource(n.R, wiring)
		if err != nil {
			return nil, err
		}
		return &exprlang.Binary{Op: n.Op, L: l, R: r}, nil
	case *exprlang.NAry:
		args, err := rewriteSourceAll(n.Args, wiring)
		if err != nil {
			return nil, err
		}
		return &exprlang.NAry{Op: n.Op, Args: args}, nil
	case *exprlang.Call:
		args, err := rewriteSourceAll(n.Args, wiring)
		if err != nil {
			return nil, err
		}
		return &exprlang.Call{Name: n.Name, Args: args}, nil
	case *exprlang.Builtin:
		args, err := rewriteSourceAll(n.Args, wiring)
		if err != nil {
			return nil, err
		}
		return &exprlang.Builtin{Op: n.Op, Args: args}, nil
	}
	return expr, nil
}

func rewriteSourceAll(nodes []exprlang.Node, wiring map[string]*childWiring) ([]exprlang.Node, error) {
	out := make([]exprlang.Node, len(nodes))
	for i, n := range nodes {
		r, err := rewriteSource(n, wiring)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// spliceChildSource dot-prefixes every reference inside a nested network's
// own output formula (already expressed in that network's native,
// pre-lift namespace) with its instance name. A bare reference to one of
// the nested network's own input ports cannot be resolved purely
// structurally (it depends on whatever the outer network wired into that
// input), so it is reported rather than silently mis-wired.
func spliceChildSource(expr exprlang.Node, instName string, w *childWiring) (exprlang.Node, error) {
	switch n := expr.(type) {
	case *exprlang.Literal:
		v := *n
		return &v, nil
	case *exprlang.Variable:
		if strings.Contains(n.Name, ".") {
			return &exprlang.Variable{Name: instName + "." + n.Name}, nil
		}
		if _, isOwnPort := w.inputDest[n.Name]; isOwnPort {
			return nil, diagnostics.New(diagnostics.ErrUnresolvedMapping, instName+"."+n.Name,
				"nested network %q's output formula reads its own input port %q; composing that during flattening is not supported", instName, n.Name)
		}
		return &exprlang.Variable{Name: instName + "." + n.Name}, nil
	case *exprlang.Unary:
		x, err := spliceChildSource(n.X, instName, w)
		if err != nil {
			return nil, err
		}
		return &exprlang.Unary{Op: n.Op, X: x}, nil
	case *exprlang.Binary:
		l, err := spliceChildSource(n.L, instName, w)
		if err != nil {
			return nil, err
		}
		r, err := spliceChildSource(n.R, instName, w)
		if err != nil {
			return nil, err
		}
		return &exprlang.Binary{Op: n.Op, L: l, R: r}, nil
	case *exprlang.NAry:
		args, err := spliceChildSourceAll(n.Args, instName, w)
		if err != nil {
			return nil, err
		}
		return &exprlang.NAry{Op: n.Op, Args: args}, nil
	case *exprlang.Call:
		args, err := spliceChildSourceAll(n.Args, instName, w)
		if err != nil {
			return nil, err
		}
		return &exprlang.Call{Name: n.Name, Args: args}, nil
	case *exprlang.Builtin:
		args, err := spliceChildSourceAll(n.Args, instName, w)
		if err != nil {
			return nil, err
		}
		return &exprlang.Builtin{Op: n.Op, Args: args}, nil
	}
	return expr, nil
}

func spliceChildSourceAll(nodes []exprlang.Node, instName string, w *childWiring) ([]exprlang.Node, error) {
	out := make([]exprlang.Node, len(nodes))
	for i, n := range nodes {
		r, err := spliceChildSource(n, instName, w)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
