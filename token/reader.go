// Package token provides the lenient event reader for the structured
// configuration markup understood by the target application. It matches the
// recovery behavior of the reference parser rather than strict markup rules:
// the tree builder above it implicitly closes unclosed elements, mismatched
// closing tags do not abort parsing, and comments end at the first closing
// delimiter no matter what they contain.
package token

import (
	"bytes"
	"strings"
)

type Kind int

const (
	StartKind Kind = iota
	EndKind
	EmptyKind
	TextKind
	CDataKind
	CommentKind
	DoctypeKind
	ProcInstKind
)

func (k Kind) String() string {
	switch k {
	case StartKind:
		return "Start"
	case EndKind:
		return "End"
	case EmptyKind:
		return "Empty"
	case TextKind:
		return "Text"
	case CDataKind:
		return "CData"
	case CommentKind:
		return "Comment"
	case DoctypeKind:
		return "Doctype"
	case ProcInstKind:
		return "ProcInst"
	}
	return "Unknown"
}

type Attr struct {
	Name     string
	RawValue string
	Span     Span
}

// Value resolves character references in the raw attribute value.
func (a Attr) Value() string {
	return Unescape(a.RawValue)
}

type Event struct {
	Kind   Kind
	Prefix string
	Name   string
	Attrs  []Attr
	Raw    string
	Span   Span
}

// Content returns the decoded content of a Text event, or the raw content
// of CData, Comment, Doctype and ProcInst events.
func (e *Event) Content() string {
	if e.Kind == TextKind {
		return Unescape(e.Raw)
	}
	return e.Raw
}

type Options struct {
	AllowTopLevelText         bool
	AllowUnclosedTags         bool
	AllowUnmatchedClosingTags bool
}

// Reader produces a stream of events from one input document. It holds no
// state shared with other readers; constructing one per input keeps parsing
// a pure function of the bytes.
type Reader struct {
	d      []byte
	doc    *PosDoc
	cur    int
	depth  int
	opts   Options
	failed bool
}

func NewReader(d []byte, opts Options) *Reader {
	return &Reader{d: d, doc: NewPosDoc(d), opts: opts}
}

func (r *Reader) Doc() *PosDoc {
	return r.doc
}

func (r *Reader) span(start, end int) Span {
	return Span{Start: start, End: end, D: r.doc}
}

func (r *Reader) errAt(kind ErrorKind, start, end int) *Error {
	r.failed = true
	return &Error{Kind: kind, Span: r.span(start, end)}
}

// Next returns the next event, or (nil, nil) at end of input.
func (r *Reader) Next() (*Event, error) {
	for {
		if r.failed {
			return nil, nil
		}
		if r.cur >= len(r.d) {
			if r.depth > 0 && !r.opts.AllowUnclosedTags {
				r.depth = 0
				return nil, r.errAt(UnclosedElementEOF, r.cur, r.cur)
			}
			return nil, nil
		}
		if r.d[r.cur] != '<' {
			ev, err := r.text()
			if ev == nil && err == nil {
				continue
			}
			return ev, err
		}
		ev, err := r.node()
		if ev == nil && err == nil {
			continue
		}
		return ev, err
	}
}

func (r *Reader) text() (*Event, error) {
	start := r.cur
	end := bytes.IndexByte(r.d[start:], '<')
	if end < 0 {
		end = len(r.d)
	} else {
		end += start
	}
	r.cur = end
	raw := string(r.d[start:end])
	if r.depth == 0 && !r.opts.AllowTopLevelText {
		if strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		return nil, r.errAt(TopLevelText, start, end)
	}
	return &Event{Kind: TextKind, Raw: raw, Span: r.span(start, end)}, nil
}

func (r *Reader) node() (*Event, error) {
	start := r.cur
	rest := r.d[start:]
	switch {
	case bytes.HasPrefix(rest, []byte("<!--")):
		return r.comment(start)
	case bytes.HasPrefix(rest, []byte("<![CDATA[")):
		return r.cdata(start)
	case hasPrefixFold(rest, "<!DOCTYPE"):
		return r.doctype(start)
	case bytes.HasPrefix(rest, []byte("<!")):
		end := bytes.IndexByte(rest, '>')
		if end < 0 {
			return nil, r.errAt(UnclosedUnknownSpecial, start, len(r.d))
		}
		r.cur = start + end + 1
		return nil, nil
	case bytes.HasPrefix(rest, []byte("<?")):
		return r.procInst(start)
	case bytes.HasPrefix(rest, []byte("</")):
		return r.endTag(start)
	default:
		return r.startTag(start)
	}
}

func (r *Reader) comment(start int) (*Event, error) {
	// The first occurrence of the terminator ends the comment, even when
	// the body contains `--` or a nested `<!--`.
	body := start + len("<!--")
	end := bytes.Index(r.d[body:], []byte("-->"))
	if end < 0 {
		return nil, r.errAt(UnclosedComment, start, len(r.d))
	}
	r.cur = body + end + len("-->")
	return &Event{
		Kind: CommentKind,
		Raw:  string(r.d[body : body+end]),
		Span: r.span(start, r.cur),
	}, nil
}

func (r *Reader) cdata(start int) (*Event, error) {
	body := start + len("<![CDATA[")
	end := bytes.Index(r.d[body:], []byte("]]>"))
	if end < 0 {
		return nil, r.errAt(UnclosedCData, start, len(r.d))
	}
	r.cur = body + end + len("]]>")
	return &Event{
		Kind: CDataKind,
		Raw:  string(r.d[body : body+end]),
		Span: r.span(start, r.cur),
	}, nil
}

func (r *Reader) doctype(start int) (*Event, error) {
	body := start + len("<!DOCTYPE")
	depth := 0
	for i := body; i < len(r.d); i++ {
		switch r.d[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '>':
			if depth <= 0 {
				r.cur = i + 1
				return &Event{
					Kind: DoctypeKind,
					Raw:  string(r.d[body:i]),
					Span: r.span(start, r.cur),
				}, nil
			}
		}
	}
	return nil, r.errAt(DoctypeEOF, start, len(r.d))
}

func (r *Reader) procInst(start int) (*Event, error) {
	body := start + len("<?")
	end := bytes.Index(r.d[body:], []byte("?>"))
	if end < 0 {
		return nil, r.errAt(UnclosedPITag, start, len(r.d))
	}
	r.cur = body + end + len("?>")
	content := string(r.d[body : body+end])
	target := content
	if i := strings.IndexAny(content, " \t\r\n"); i >= 0 {
		target = content[:i]
		content = strings.TrimLeft(content[i:], " \t\r\n")
	} else {
		content = ""
	}
	return &Event{
		Kind: ProcInstKind,
		Name: target,
		Raw:  content,
		Span: r.span(start, r.cur),
	}, nil
}

func (r *Reader) endTag(start int) (*Event, error) {
	i := start + len("</")
	prefix, name, i, err := r.prefixedName(i)
	if err != nil {
		return nil, err
	}
	i = skipSpace(r.d, i)
	if i >= len(r.d) || r.d[i] != '>' {
		return nil, r.errAt(UnclosedEndTag, i, i)
	}
	r.cur = i + 1
	if r.depth == 0 {
		if !r.opts.AllowUnmatchedClosingTags {
			return nil, r.errAt(UnmatchedEndTag, start, r.cur)
		}
	} else {
		r.depth--
	}
	return &Event{
		Kind:   EndKind,
		Prefix: prefix,
		Name:   name,
		Span:   r.span(start, r.cur),
	}, nil
}

func (r *Reader) startTag(start int) (*Event, error) {
	i := start + 1
	prefix, name, i, err := r.prefixedName(i)
	if err != nil {
		return nil, err
	}
	attrs, i, err := r.attributes(i)
	if err != nil {
		return nil, err
	}
	i = skipSpace(r.d, i)
	switch {
	case i < len(r.d) && r.d[i] == '>':
		r.cur = i + 1
		r.depth++
		return &Event{
			Kind:   StartKind,
			Prefix: prefix,
			Name:   name,
			Attrs:  attrs,
			Span:   r.span(start, r.cur),
		}, nil
	case i < len(r.d) && r.d[i] == '/':
		if i+1 >= len(r.d) || r.d[i+1] != '>' {
			return nil, r.errAt(UnclosedEmptyElementTag, i, i+1)
		}
		r.cur = i + 2
		return &Event{
			Kind:   EmptyKind,
			Prefix: prefix,
			Name:   name,
			Attrs:  attrs,
			Span:   r.span(start, r.cur),
		}, nil
	default:
		return nil, r.errAt(UnclosedElementTag, i, i)
	}
}

func (r *Reader) prefixedName(i int) (prefix, name string, next int, err error) {
	start := i
	for i < len(r.d) && isNameByte(r.d[i]) {
		i++
	}
	if i == start {
		return "", "", i, r.errAt(ExpectedElementName, i, i)
	}
	whole := string(r.d[start:i])
	if colon := strings.IndexByte(whole, ':'); colon >= 0 {
		return whole[:colon], whole[colon+1:], i, nil
	}
	return "", whole, i, nil
}

func (r *Reader) attributes(i int) ([]Attr, int, error) {
	var attrs []Attr
	for {
		i = skipSpace(r.d, i)
		if i >= len(r.d) || r.d[i] == '>' || r.d[i] == '/' {
			return attrs, i, nil
		}
		nameStart := i
		for i < len(r.d) && isNameByte(r.d[i]) {
			i++
		}
		name := string(r.d[nameStart:i])
		i = skipSpace(r.d, i)
		if i >= len(r.d) || r.d[i] != '=' {
			return nil, i, r.errAt(ExpectedAttributeEq, nameStart, i)
		}
		i = skipSpace(r.d, i+1)
		if i >= len(r.d) || (r.d[i] != '"' && r.d[i] != '\'') {
			return nil, i, r.errAt(ExpectedAttributeValue, i, i)
		}
		quote := r.d[i]
		i++
		valStart := i
		end := bytes.IndexByte(r.d[valStart:], quote)
		if end < 0 {
			return nil, i, r.errAt(UnclosedAttributeValue, valStart, len(r.d))
		}
		i = valStart + end + 1
		attrs = append(attrs, Attr{
			Name:     name,
			RawValue: string(r.d[valStart : valStart+end]),
			Span:     r.span(valStart, valStart+end),
		})
	}
}

func skipSpace(d []byte, i int) int {
	for i < len(d) && isSpace(d[i]) {
		i++
	}
	return i
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// The reference parser accepts nearly anything as a name byte, including
// leading digits, so keep the same shape here.
func isNameByte(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '/', '>', '<', '=', '"', '\'':
		return false
	}
	return true
}

func hasPrefixFold(d []byte, prefix string) bool {
	if len(d) < len(prefix) {
		return false
	}
	return strings.EqualFold(string(d[:len(prefix)]), prefix)
}
