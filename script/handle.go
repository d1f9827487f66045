// Package script exposes the document model to user-supplied procedural
// scripts through an embedded expression sandbox. Nodes surface as handle
// maps whose entries are closures over the underlying tree, so the same
// mutation rules apply on both the declarative and procedural paths.
package script

import (
	"errors"
	"fmt"
	"sort"

	"github.com/modforge/modforge/xmltree"
)

// ErrReadOnly reports a write attempt through a read-only handle. It is
// always fatal to the offending script.
var ErrReadOnly = errors.New("read-only violation")

// Handle is a script-side view of one node. Field access and indexing work
// the way scripts expect: h.kind, h.attrs["hull"], h.append(other).
// Calling attrs or rawattrs as a function fails inside the sandbox, since
// they are maps, not closures.
type Handle = map[string]any

type handleState struct {
	n        *xmltree.Node
	readonly bool
}

// NewHandle wraps a node for the sandbox.
func NewHandle(n *xmltree.Node) Handle {
	return makeHandle(handleState{n: n})
}

// ReadOnly wraps a node so every mutator fails with ErrReadOnly. The
// wrapper guards the interface boundary: child and clone handles stay
// read-only too, except clones, which the caller owns.
func ReadOnly(n *xmltree.Node) Handle {
	return makeHandle(handleState{n: n, readonly: true})
}

func (h handleState) wrap(n *xmltree.Node) any {
	if n == nil {
		return nil
	}
	return makeHandle(handleState{n: n, readonly: h.readonly})
}

func (h handleState) guard(op string) error {
	if h.readonly {
		return fmt.Errorf("%w: %s on a read-only node", ErrReadOnly, op)
	}
	return nil
}

// unwrapNodes extracts the tree nodes behind handle arguments.
func unwrapNodes(op string, args []any) ([]*xmltree.Node, error) {
	nodes := make([]*xmltree.Node, 0, len(args))
	for _, a := range args {
		m, ok := a.(Handle)
		if !ok {
			return nil, fmt.Errorf("%s expects node handles, got %T", op, a)
		}
		st, ok := m["__state"].(handleState)
		if !ok {
			return nil, fmt.Errorf("%s expects node handles", op)
		}
		if st.readonly {
			return nil, fmt.Errorf("%w: cannot insert a read-only node", ErrReadOnly)
		}
		nodes = append(nodes, st.n)
	}
	return nodes, nil
}

func makeHandle(h handleState) Handle {
	n := h.n
	m := Handle{
		"__state": h,
		"kind":    n.Type.String(),
		"name":    n.FullName(),
	}

	// The attribute views are maps so scripts can index them, but the node's
	// attribute list stays authoritative. Mutators refill the maps in place,
	// so reads through the same handle observe earlier writes.
	attrs := make(map[string]any, len(n.Attrs))
	rawattrs := make(map[string]any, len(n.Attrs))
	syncAttrs := func() {
		clear(attrs)
		clear(rawattrs)
		for _, a := range n.Attrs {
			attrs[a.Name] = xmltree.ParseValue(a.Value).Any()
			rawattrs[a.Name] = a.Value
		}
	}
	syncAttrs()
	m["attrs"] = attrs
	m["rawattrs"] = rawattrs

	m["as"] = func(kind string) any {
		if n.Type.String() == kind {
			return m
		}
		return nil
	}
	m["text"] = func() string {
		if n.Type == xmltree.ElementType {
			return n.TextContent()
		}
		return n.Text
	}
	m["parent"] = func() any { return h.wrap(n.Parent()) }
	m["nextSibling"] = func() any { return h.wrap(n.NextSibling()) }
	m["prevSibling"] = func() any { return h.wrap(n.PrevSibling()) }
	m["children"] = func() *Iter { return newIter(h, n.Children()) }
	m["childNodes"] = func() *Iter { return newIter(h, n.ChildNodes()) }
	m["string"] = func() string { return xmltree.NodeString(n) }

	// Clones are new trees owned by the script, so they are writable even
	// when the source handle is not.
	m["clone"] = func() any { return NewHandle(n.Clone()) }

	m["append"] = func(args ...any) (any, error) {
		return mutate(h, "append", args, n.Append)
	}
	m["prepend"] = func(args ...any) (any, error) {
		return mutate(h, "prepend", args, n.Prepend)
	}
	m["before"] = func(args ...any) (any, error) {
		return mutate(h, "before", args, n.InsertBefore)
	}
	m["after"] = func(args ...any) (any, error) {
		return mutate(h, "after", args, n.InsertAfter)
	}
	m["detach"] = func() (any, error) {
		if err := h.guard("detach"); err != nil {
			return nil, err
		}
		n.Detach()
		return nil, nil
	}
	m["setText"] = func(s string) (any, error) {
		if err := h.guard("setText"); err != nil {
			return nil, err
		}
		if n.Type == xmltree.ElementType {
			n.SetTextContent(s)
		} else {
			n.Text = s
		}
		return nil, nil
	}
	m["setAttr"] = func(name string, value any) (any, error) {
		if err := h.guard("setAttr"); err != nil {
			return nil, err
		}
		n.SetAttrValue(name, xmltree.FromAny(value))
		syncAttrs()
		return nil, nil
	}
	m["setAttrs"] = func(values map[string]any) (any, error) {
		if err := h.guard("setAttrs"); err != nil {
			return nil, err
		}
		// Sorted so newly created attributes land in a stable order.
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			n.SetAttrValue(name, xmltree.FromAny(values[name]))
		}
		syncAttrs()
		return nil, nil
	}
	m["removeAttr"] = func(name string) (any, error) {
		if err := h.guard("removeAttr"); err != nil {
			return nil, err
		}
		removed := n.RemoveAttr(name)
		syncAttrs()
		return removed, nil
	}
	return m
}

func mutate(h handleState, op string, args []any, insert func(...*xmltree.Node) error) (any, error) {
	if err := h.guard(op); err != nil {
		return nil, err
	}
	nodes, err := unwrapNodes(op, args)
	if err != nil {
		return nil, err
	}
	if err := insert(nodes...); err != nil {
		return nil, err
	}
	return nil, nil
}
