package xmltree

// Attr is one raw attribute. The raw string store is the source of truth;
// typed views are projections computed on read (see value.go).
type Attr struct {
	Name  string
	Value string
}

// Attr returns the raw value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr writes a raw attribute value. An existing attribute is updated in
// place, keeping its position; a new one is appended.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes the named attribute, reporting whether it existed.
func (n *Node) RemoveAttr(name string) bool {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// AttrValue returns the typed projection of the named attribute.
func (n *Node) AttrValue(name string) (Value, bool) {
	raw, ok := n.Attr(name)
	if !ok {
		return Value{}, false
	}
	return ParseValue(raw), true
}

// SetAttrValue serializes a typed value into the raw store.
func (n *Node) SetAttrValue(name string, v Value) {
	n.SetAttr(name, v.String())
}
