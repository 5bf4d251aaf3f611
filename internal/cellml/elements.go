// Package cellml imports a minimal CellML-like XML subset — <model>,
// <component>, <variable>, and <math> with MathML <apply> trees for ODEs
// — building the same internal/hybrid IR as the HAML importer (spec
// §4.4's "architecturally equivalent" third-party biomedical importer).
package cellml

import (
	"encoding/xml"
	"strings"
)

// element is a generic, tag-driven XML tree node. MathML encodes its
// operators as element names (<plus/>, <eq/>, ...) rather than attributes,
// so a struct-tag-based xml.Unmarshal cannot express the grammar directly;
// this package walks the token stream once into this generic shape and
// then interprets it by tag name (see lower.go).
type element struct {
	Tag      string
	Attrs    map[string]string
	Children []*element
	Text     string
}

func (e *element) attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// parseElement consumes tokens from dec until the end tag matching start,
// building the element tree rooted at start.
func parseElement(dec *xml.Decoder, start xml.StartElement) (*element, error) {
	e := &element{Tag: start.Name.Local, Attrs: map[string]string{}}
	for _, a := range start.Attr {
		e.Attrs[a.Name.Local] = a.Value
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			e.Children = append(e.Children, child)
		case xml.CharData:
			e.Text += string(t)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return e, nil
			}
		}
	}
}

// findChild returns the first direct child with the given tag.
func findChild(e *element, tag string) (*element, bool) {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c, true
		}
	}
	return nil, false
}

// allChildren returns every direct child with the given tag.
func allChildren(e *element, tag string) []*element {
	var out []*element
	for _, c := range e.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

func text(e *element) string { return strings.TrimSpace(e.Text) }
