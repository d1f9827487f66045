package token

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type flatEvent struct {
	Kind    Kind
	Prefix  string
	Name    string
	Content string
	Attrs   []flatAttr
}

type flatAttr struct {
	Name  string
	Value string
}

func drain(t *testing.T, d string, opts Options) ([]flatEvent, error) {
	t.Helper()
	r := NewReader([]byte(d), opts)
	var out []flatEvent
	for {
		ev, err := r.Next()
		if err != nil {
			return out, err
		}
		if ev == nil {
			return out, nil
		}
		fe := flatEvent{
			Kind:    ev.Kind,
			Prefix:  ev.Prefix,
			Name:    ev.Name,
			Content: ev.Content(),
		}
		for _, a := range ev.Attrs {
			fe.Attrs = append(fe.Attrs, flatAttr{Name: a.Name, Value: a.Value()})
		}
		out = append(out, fe)
	}
}

func TestReaderEvents(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		opts Options
		want []flatEvent
	}{
		{
			name: "element with text",
			in:   "<a>hi</a>",
			want: []flatEvent{
				{Kind: StartKind, Name: "a"},
				{Kind: TextKind, Content: "hi"},
				{Kind: EndKind, Name: "a"},
			},
		},
		{
			name: "empty element with attributes",
			in:   `<ship name="Kestrel" hull='30'/>`,
			want: []flatEvent{
				{Kind: EmptyKind, Name: "ship", Attrs: []flatAttr{
					{Name: "name", Value: "Kestrel"},
					{Name: "hull", Value: "30"},
				}},
			},
		},
		{
			name: "prefixed tag",
			in:   `<mod:findName name="x"></mod:findName>`,
			want: []flatEvent{
				{Kind: StartKind, Prefix: "mod", Name: "findName",
					Attrs: []flatAttr{{Name: "name", Value: "x"}}},
				{Kind: EndKind, Prefix: "mod", Name: "findName"},
			},
		},
		{
			name: "entities in text and attributes",
			in:   `<a v="&lt;&#65;&amp;">x &gt; y &unknown;</a>`,
			want: []flatEvent{
				{Kind: StartKind, Name: "a",
					Attrs: []flatAttr{{Name: "v", Value: "<A&"}}},
				{Kind: TextKind, Content: "x > y &unknown;"},
				{Kind: EndKind, Name: "a"},
			},
		},
		{
			name: "comment terminates at first delimiter",
			in:   "<a><!-- one <!-- two --></a>",
			want: []flatEvent{
				{Kind: StartKind, Name: "a"},
				{Kind: CommentKind, Content: " one <!-- two "},
				{Kind: EndKind, Name: "a"},
			},
		},
		{
			name: "cdata is not decoded",
			in:   "<a><![CDATA[1 < 2 && 3]]></a>",
			want: []flatEvent{
				{Kind: StartKind, Name: "a"},
				{Kind: CDataKind, Content: "1 < 2 && 3"},
				{Kind: EndKind, Name: "a"},
			},
		},
		{
			name: "doctype with internal subset",
			in:   `<!DOCTYPE r [<!ENTITY x "y">]><r/>`,
			want: []flatEvent{
				{Kind: DoctypeKind, Content: ` r [<!ENTITY x "y">]`},
				{Kind: EmptyKind, Name: "r"},
			},
		},
		{
			name: "processing instruction",
			in:   `<?xml version="1.0"?><r/>`,
			want: []flatEvent{
				{Kind: ProcInstKind, Name: "xml", Content: `version="1.0"`},
				{Kind: EmptyKind, Name: "r"},
			},
		},
		{
			name: "top level whitespace is skipped",
			in:   "\n  <r/>\n",
			want: []flatEvent{
				{Kind: EmptyKind, Name: "r"},
			},
		},
		{
			name: "top level text allowed",
			in:   "before<r/>",
			opts: Options{AllowTopLevelText: true},
			want: []flatEvent{
				{Kind: TextKind, Content: "before"},
				{Kind: EmptyKind, Name: "r"},
			},
		},
		{
			name: "unmatched closing tag allowed",
			in:   "<a></a></b><c/>",
			opts: Options{AllowUnmatchedClosingTags: true},
			want: []flatEvent{
				{Kind: StartKind, Name: "a"},
				{Kind: EndKind, Name: "a"},
				{Kind: EndKind, Name: "b"},
				{Kind: EmptyKind, Name: "c"},
			},
		},
		{
			name: "unclosed tags allowed",
			in:   "<a><b>text",
			opts: Options{AllowUnclosedTags: true},
			want: []flatEvent{
				{Kind: StartKind, Name: "a"},
				{Kind: StartKind, Name: "b"},
				{Kind: TextKind, Content: "text"},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := drain(t, tc.in, tc.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d := cmp.Diff(tc.want, got); d != "" {
				t.Errorf("events mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestReaderErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		opts Options
		kind ErrorKind
	}{
		{name: "top level text", in: "oops<r/>", kind: TopLevelText},
		{name: "unclosed element at eof", in: "<a><b></b>", kind: UnclosedElementEOF},
		{name: "unmatched end tag", in: "<a></a></b>", kind: UnmatchedEndTag},
		{name: "unclosed comment", in: "<a><!-- no end", kind: UnclosedComment},
		{name: "unclosed cdata", in: "<a><![CDATA[x", kind: UnclosedCData},
		{name: "unclosed pi", in: "<?xml version", kind: UnclosedPITag},
		{name: "doctype at eof", in: "<!DOCTYPE r [", kind: DoctypeEOF},
		{name: "missing element name", in: "<>", kind: ExpectedElementName},
		{name: "attribute without value", in: "<a b></a>", kind: ExpectedAttributeEq},
		{name: "unquoted attribute value", in: "<a b=c></a>", kind: ExpectedAttributeValue},
		{name: "unclosed attribute value", in: `<a b="c></a>`, kind: UnclosedAttributeValue},
		{name: "unclosed empty tag", in: "<a/", kind: UnclosedEmptyElementTag},
		{name: "unclosed end tag", in: "<a></a", kind: UnclosedEndTag},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := drain(t, tc.in, tc.opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrParse) {
				t.Fatalf("error %v is not ErrParse", err)
			}
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("error %v is not a *token.Error", err)
			}
			if perr.Kind != tc.kind {
				t.Errorf("got kind %v, want %v", perr.Kind, tc.kind)
			}
		})
	}
}

func TestReaderStopsAfterError(t *testing.T) {
	r := NewReader([]byte("oops<r/>"), Options{})
	if _, err := r.Next(); err == nil {
		t.Fatal("expected error")
	}
	ev, err := r.Next()
	if ev != nil || err != nil {
		t.Fatalf("reader continued after error: ev=%v err=%v", ev, err)
	}
}

func TestPosReporting(t *testing.T) {
	in := "<a>\n  <b>\noops"
	r := NewReader([]byte(in), Options{AllowTopLevelText: true})
	var err error
	for {
		var ev *Event
		ev, err = r.Next()
		if ev == nil || err != nil {
			break
		}
	}
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("want *token.Error, got %v", err)
	}
	if perr.Kind != UnclosedElementEOF {
		t.Fatalf("got kind %v, want UnclosedElementEOF", perr.Kind)
	}
	pos := perr.Span.Pos()
	if l, c := pos.Line(), pos.Col(); l != 2 || c != 4 {
		t.Errorf("got line %d col %d, want 2 4", l, c)
	}
}

func TestZeroValuePosString(t *testing.T) {
	var p Pos
	if got := p.String(); got != "offset 0" {
		t.Errorf("zero Pos: %q", got)
	}
	var s Span
	if got := s.String(); got != "offset 0" {
		t.Errorf("zero Span: %q", got)
	}
}
