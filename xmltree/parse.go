package xmltree

import (
	"github.com/modforge/modforge/debug"
	"github.com/modforge/modforge/token"
)

// ParseOptions control the leniencies of the event reader plus tree-level
// behavior the reader does not know about.
type ParseOptions struct {
	token.Options

	// StripComments drops comment nodes while building. Directive
	// documents are parsed this way so comments never count as payload.
	StripComments bool
}

// DefaultOptions matches the target application's own parser: unclosed
// elements close implicitly and stray closing tags are ignored, but free
// text outside the root is rejected.
func DefaultOptions() ParseOptions {
	return ParseOptions{Options: token.Options{
		AllowUnclosedTags:         true,
		AllowUnmatchedClosingTags: true,
	}}
}

// FragmentOptions additionally accepts top-level text, for payloads and
// directive documents that are not full documents.
func FragmentOptions() ParseOptions {
	o := DefaultOptions()
	o.AllowTopLevelText = true
	return o
}

// Parse builds a Document from one input. Recovery never reorders content:
// a closing tag always closes the innermost open element, so content after
// a mismatched close attaches to the nearest open ancestor.
func Parse(data []byte, opts ParseOptions) (*Document, error) {
	doc := NewDocument()
	if err := parseInto(doc.Container, data, opts); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFragment builds the top-level node list of a fragment. The returned
// nodes are detached and individually owned by the caller.
func ParseFragment(data []byte, opts ParseOptions) ([]*Node, error) {
	container := &Node{Type: DocumentType}
	if err := parseInto(container, data, opts); err != nil {
		return nil, err
	}
	var nodes []*Node
	for c := container.FirstChild(); c != nil; c = container.FirstChild() {
		c.Detach()
		nodes = append(nodes, c)
	}
	return nodes, nil
}

func parseInto(container *Node, data []byte, opts ParseOptions) error {
	r := token.NewReader(data, opts.Options)
	cur := container
	for {
		ev, err := r.Next()
		if err != nil {
			return err
		}
		if ev == nil {
			return nil
		}
		switch ev.Kind {
		case token.StartKind, token.EmptyKind:
			el := &Node{Type: ElementType, Prefix: ev.Prefix, Name: ev.Name}
			for _, a := range ev.Attrs {
				el.SetAttr(a.Name, a.Value())
			}
			cur.appendChild(el)
			if ev.Kind == token.StartKind {
				cur = el
			}
		case token.EndKind:
			if cur == container {
				if debug.Parse() {
					debug.Logf("ignoring stray closing tag </%s> at %s\n", ev.Name, ev.Span)
				}
				continue
			}
			if cur.Name != ev.Name || cur.Prefix != ev.Prefix {
				if debug.Parse() {
					debug.Logf("closing tag </%s> closes <%s> at %s\n", ev.Name, cur.FullName(), ev.Span)
				}
			}
			cur = cur.parent
		case token.TextKind:
			cur.appendChild(NewText(ev.Content()))
		case token.CDataKind:
			cur.appendChild(NewCData(ev.Content()))
		case token.CommentKind:
			if !opts.StripComments {
				cur.appendChild(NewComment(ev.Content()))
			}
		case token.ProcInstKind:
			cur.appendChild(NewProcInst(ev.Name, ev.Content()))
		case token.DoctypeKind:
			// Doctypes carry no content the engine acts on; drop them
			// like the reference builder does.
		}
	}
}
