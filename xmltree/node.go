// Package xmltree is the mutable document model the patching engine works
// on. Nodes form a doubly linked sibling chain under an exclusive parent;
// navigation links never own. Structural rules (no dual parents, no cycles)
// are enforced at the insertion boundary and reported as ErrStructure.
package xmltree

import (
	"iter"
	"strings"
)

type Type int

const (
	DocumentType Type = iota
	ElementType
	TextType
	CommentType
	CDataType
	ProcInstType
)

func (t Type) String() string {
	switch t {
	case DocumentType:
		return "document"
	case ElementType:
		return "element"
	case TextType:
		return "text"
	case CommentType:
		return "comment"
	case CDataType:
		return "cdata"
	case ProcInstType:
		return "pi"
	}
	return "unknown"
}

type Node struct {
	Type Type

	// Prefix and Name are set for elements; Name doubles as the target of
	// a processing instruction.
	Prefix string
	Name   string

	// Text holds text, comment and cdata content, and the body of a
	// processing instruction.
	Text string

	Attrs []Attr

	parent      *Node
	prev, next  *Node
	first, last *Node
}

func NewElement(name string) *Node {
	prefix, local := SplitName(name)
	return &Node{Type: ElementType, Prefix: prefix, Name: local}
}

func NewText(s string) *Node {
	return &Node{Type: TextType, Text: s}
}

func NewComment(s string) *Node {
	return &Node{Type: CommentType, Text: s}
}

func NewCData(s string) *Node {
	return &Node{Type: CDataType, Text: s}
}

func NewProcInst(target, content string) *Node {
	return &Node{Type: ProcInstType, Name: target, Text: content}
}

// SplitName splits a possibly prefixed tag name at its first colon.
func SplitName(name string) (prefix, local string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// FullName renders the tag name with its prefix, if any.
func (n *Node) FullName() string {
	if n.Prefix == "" {
		return n.Name
	}
	return n.Prefix + ":" + n.Name
}

func (n *Node) Parent() *Node      { return n.parent }
func (n *Node) PrevSibling() *Node { return n.prev }
func (n *Node) NextSibling() *Node { return n.next }
func (n *Node) FirstChild() *Node  { return n.first }
func (n *Node) LastChild() *Node   { return n.last }

// ChildNodes iterates over all direct children in order. Each call returns
// a fresh sequence over the current state of the chain.
func (n *Node) ChildNodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for c := n.first; c != nil; {
			next := c.next
			if !yield(c) {
				return
			}
			c = next
		}
	}
}

// Children iterates over the direct element children only.
func (n *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for c := n.first; c != nil; {
			next := c.next
			if c.Type == ElementType && !yield(c) {
				return
			}
			c = next
		}
	}
}

// Descendants walks the subtree below n in document order, n excluded.
func (n *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var walk func(*Node) bool
		walk = func(p *Node) bool {
			for c := p.first; c != nil; c = c.next {
				if !yield(c) {
					return false
				}
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(n)
	}
}

// TextContent concatenates the direct text and cdata children.
func (n *Node) TextContent() string {
	var b strings.Builder
	for c := n.first; c != nil; c = c.next {
		if c.Type == TextType || c.Type == CDataType {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(s string) {
	for c := n.first; c != nil; {
		next := c.next
		c.clearLinks()
		c = next
	}
	n.first, n.last = nil, nil
	if s != "" {
		n.appendChild(NewText(s))
	}
}

func (n *Node) clearLinks() {
	n.parent, n.prev, n.next = nil, nil, nil
}

// Detach removes n from its parent and nulls its navigation links. The
// caller now owns the detached subtree exclusively. Detaching a parentless
// node is a no-op.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		p.first = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		p.last = n.prev
	}
	n.clearLinks()
}

func (n *Node) checkInsert(children ...*Node) error {
	if n.Type != ElementType && n.Type != DocumentType {
		return structuralf("cannot insert into a %s node", n.Type)
	}
	for _, c := range children {
		if c == nil {
			return structuralf("cannot insert a nil node")
		}
		if c.Type == DocumentType {
			return structuralf("cannot insert a document node")
		}
		if c.parent != nil {
			return structuralf("node <%s> already has a parent", c.FullName())
		}
		for a := n; a != nil; a = a.parent {
			if a == c {
				return structuralf("node <%s> cannot be inserted into its own subtree", c.FullName())
			}
		}
	}
	return nil
}

func (n *Node) appendChild(c *Node) {
	c.parent = n
	c.prev = n.last
	c.next = nil
	if n.last != nil {
		n.last.next = c
	} else {
		n.first = c
	}
	n.last = c
}

// Append adds children at the end of n's child chain.
func (n *Node) Append(children ...*Node) error {
	if err := n.checkInsert(children...); err != nil {
		return err
	}
	for _, c := range children {
		n.appendChild(c)
	}
	return nil
}

// Prepend adds children at the front of n's child chain, preserving their
// given order.
func (n *Node) Prepend(children ...*Node) error {
	if err := n.checkInsert(children...); err != nil {
		return err
	}
	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		c.parent = n
		c.next = n.first
		c.prev = nil
		if n.first != nil {
			n.first.prev = c
		} else {
			n.last = c
		}
		n.first = c
	}
	return nil
}

// InsertBefore places nodes immediately before n in its parent's chain.
func (n *Node) InsertBefore(nodes ...*Node) error {
	if n.parent == nil {
		return structuralf("cannot insert relative to a parentless node")
	}
	if err := n.parent.checkInsert(nodes...); err != nil {
		return err
	}
	for _, c := range nodes {
		c.parent = n.parent
		c.prev = n.prev
		c.next = n
		if n.prev != nil {
			n.prev.next = c
		} else {
			n.parent.first = c
		}
		n.prev = c
	}
	return nil
}

// InsertAfter places nodes immediately after n in its parent's chain,
// preserving their given order.
func (n *Node) InsertAfter(nodes ...*Node) error {
	if n.parent == nil {
		return structuralf("cannot insert relative to a parentless node")
	}
	if err := n.parent.checkInsert(nodes...); err != nil {
		return err
	}
	at := n
	for _, c := range nodes {
		c.parent = at.parent
		c.prev = at
		c.next = at.next
		if at.next != nil {
			at.next.prev = c
		} else {
			at.parent.last = c
		}
		at.next = c
		at = c
	}
	return nil
}

// Clone deep-copies the subtree rooted at n. The copy is detached.
func (n *Node) Clone() *Node {
	dst := &Node{
		Type:   n.Type,
		Prefix: n.Prefix,
		Name:   n.Name,
		Text:   n.Text,
	}
	if len(n.Attrs) > 0 {
		dst.Attrs = make([]Attr, len(n.Attrs))
		copy(dst.Attrs, n.Attrs)
	}
	for c := n.first; c != nil; c = c.next {
		dst.appendChild(c.Clone())
	}
	return dst
}

// Document owns one tree. The container node holds the root element along
// with any top-level comments, processing instructions and text the input
// carried.
type Document struct {
	Container *Node
}

func NewDocument() *Document {
	return &Document{Container: &Node{Type: DocumentType}}
}

// Root returns the first top-level element, or nil.
func (d *Document) Root() *Node {
	for c := d.Container.first; c != nil; c = c.next {
		if c.Type == ElementType {
			return c
		}
	}
	return nil
}
