package xmltree

import (
	"io"
	"strings"

	"github.com/modforge/modforge/token"
)

// Encode serializes the subtree rooted at n.
func Encode(w io.Writer, n *Node) error {
	sw := &stickyWriter{w: w}
	encodeNode(sw, n)
	return sw.err
}

// EncodeDocument serializes every top-level node of d.
func EncodeDocument(w io.Writer, d *Document) error {
	sw := &stickyWriter{w: w}
	for c := d.Container.FirstChild(); c != nil; c = c.NextSibling() {
		encodeNode(sw, c)
	}
	return sw.err
}

// NodeString renders one subtree as a string.
func NodeString(n *Node) string {
	var b strings.Builder
	_ = Encode(&b, n)
	return b.String()
}

// DocumentString renders a whole document as a string.
func DocumentString(d *Document) string {
	var b strings.Builder
	_ = EncodeDocument(&b, d)
	return b.String()
}

type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) str(v string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, v)
}

func encodeNode(w *stickyWriter, n *Node) {
	switch n.Type {
	case DocumentType:
		for c := n.first; c != nil; c = c.next {
			encodeNode(w, c)
		}
	case ElementType:
		w.str("<")
		w.str(n.FullName())
		for _, a := range n.Attrs {
			w.str(" ")
			w.str(a.Name)
			w.str(`="`)
			w.str(token.EscapeAttr(a.Value))
			w.str(`"`)
		}
		if n.first == nil {
			w.str("/>")
			return
		}
		w.str(">")
		for c := n.first; c != nil; c = c.next {
			encodeNode(w, c)
		}
		w.str("</")
		w.str(n.FullName())
		w.str(">")
	case TextType:
		w.str(token.EscapeText(n.Text))
	case CDataType:
		w.str("<![CDATA[")
		w.str(n.Text)
		w.str("]]>")
	case CommentType:
		w.str("<!--")
		w.str(n.Text)
		w.str("-->")
	case ProcInstType:
		w.str("<?")
		w.str(n.Name)
		if n.Text != "" {
			w.str(" ")
			w.str(n.Text)
		}
		w.str("?>")
	}
}
