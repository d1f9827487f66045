package find

import (
	"strings"

	"github.com/modforge/modforge/xmltree"
)

// Filter is one predicate over an element.
type Filter interface {
	Match(e *xmltree.Node) bool
	describe(b *strings.Builder)
}

// AttrFilter tests one attribute. A nil Value is a pure presence test.
type AttrFilter struct {
	Name  string
	Value *Matcher
}

// Selector matches an element by tag name, attributes and trimmed text
// content. Every nil field is a wildcard.
type Selector struct {
	Name  *Matcher
	Attrs []AttrFilter
	Text  *Matcher
}

func (s *Selector) Match(e *xmltree.Node) bool {
	if e.Type != xmltree.ElementType {
		return false
	}
	if s.Name != nil && !s.Name.MatchString(e.Name) {
		return false
	}
	for _, af := range s.Attrs {
		raw, ok := e.Attr(af.Name)
		if !ok {
			return false
		}
		if af.Value != nil && !af.Value.MatchValue(raw) {
			return false
		}
	}
	if s.Text != nil && !s.Text.MatchString(strings.TrimSpace(e.TextContent())) {
		return false
	}
	return true
}

func (s *Selector) describe(b *strings.Builder) {
	b.WriteString("selector(")
	sep := ""
	if s.Name != nil {
		b.WriteString("name=")
		b.WriteString(s.Name.String())
		sep = " "
	}
	for _, af := range s.Attrs {
		b.WriteString(sep)
		b.WriteString(af.Name)
		if af.Value != nil {
			b.WriteString("=")
			b.WriteString(af.Value.String())
		}
		sep = " "
	}
	if s.Text != nil {
		b.WriteString(sep)
		b.WriteString("text=")
		b.WriteString(s.Text.String())
	}
	b.WriteString(")")
}

// WithChild matches an element whose direct children include a match for
// the child selector.
type WithChild struct {
	Name  *Matcher
	Child Selector
}

func (w *WithChild) Match(e *xmltree.Node) bool {
	if e.Type != xmltree.ElementType {
		return false
	}
	if w.Name != nil && !w.Name.MatchString(e.Name) {
		return false
	}
	for c := range e.Children() {
		if w.Child.Match(c) {
			return true
		}
	}
	return false
}

func (w *WithChild) describe(b *strings.Builder) {
	b.WriteString("withChild(")
	if w.Name != nil {
		b.WriteString("name=")
		b.WriteString(w.Name.String())
		b.WriteString(" ")
	}
	w.Child.describe(b)
	b.WriteString(")")
}

// Composite combines sub-filters with AND or OR, optionally complemented,
// giving the four par operations AND, OR, NAND and NOR.
type Composite struct {
	And        bool
	Complement bool
	Filters    []Filter
}

func (c *Composite) Match(e *xmltree.Node) bool {
	var res bool
	if c.And {
		res = true
		for _, f := range c.Filters {
			if !f.Match(e) {
				res = false
				break
			}
		}
	} else {
		for _, f := range c.Filters {
			if f.Match(e) {
				res = true
				break
			}
		}
	}
	if c.Complement {
		return !res
	}
	return res
}

func (c *Composite) describe(b *strings.Builder) {
	switch {
	case c.And && c.Complement:
		b.WriteString("NAND(")
	case c.And:
		b.WriteString("AND(")
	case c.Complement:
		b.WriteString("NOR(")
	default:
		b.WriteString("OR(")
	}
	for i, f := range c.Filters {
		if i > 0 {
			b.WriteString(" ")
		}
		f.describe(b)
	}
	b.WriteString(")")
}
