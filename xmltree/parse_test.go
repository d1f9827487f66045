package xmltree

import (
	"errors"
	"testing"

	"github.com/modforge/modforge/token"
)

func mustParse(t *testing.T, in string, opts ParseOptions) *Document {
	t.Helper()
	doc, err := Parse([]byte(in), opts)
	if err != nil {
		t.Fatalf("Parse(%q): %v", in, err)
	}
	return doc
}

func TestParseRoundTrip(t *testing.T) {
	for _, in := range []string{
		`<root/>`,
		`<root><a x="1"/><b>text</b></root>`,
		`<root>mixed <b>bold</b> tail</root>`,
		`<?xml version="1.0"?><root><![CDATA[1 < 2]]></root>`,
		`<root><!-- note --><empty/></root>`,
		`<root a="&lt;&amp;&quot;">x &lt; y</root>`,
		`<mod:findName name="x"><mod-append><a/></mod-append></mod:findName>`,
	} {
		doc := mustParse(t, in, DefaultOptions())
		if got := DocumentString(doc); got != in {
			t.Errorf("round trip:\n in  %q\n out %q", in, got)
		}
	}
}

func TestParseRecovery(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		want string
	}{
		{
			name: "unclosed elements close at eof",
			in:   `<root><a><b>text`,
			want: `<root><a><b>text</b></a></root>`,
		},
		{
			name: "mismatched close pops innermost",
			in:   `<root><a>x</b><c/></root>`,
			want: `<root><a>x</a><c/></root>`,
		},
		{
			name: "stray top level close ignored",
			in:   `<root><a/></root></extra>`,
			want: `<root><a/></root>`,
		},
		{
			name: "comment swallows embedded markers",
			in:   `<root><!-- a <!-- b --><c/></root>`,
			want: `<root><!-- a <!-- b --><c/></root>`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			doc := mustParse(t, tc.in, DefaultOptions())
			if got := DocumentString(doc); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseStrictTopLevelText(t *testing.T) {
	opts := DefaultOptions()
	_, err := Parse([]byte(`stray<root/>`), opts)
	if !errors.Is(err, token.ErrParse) {
		t.Fatalf("want ErrParse, got %v", err)
	}
	var perr *token.Error
	if !errors.As(err, &perr) || perr.Kind != token.TopLevelText {
		t.Fatalf("want TopLevelText, got %v", err)
	}
}

func TestParseStripComments(t *testing.T) {
	opts := DefaultOptions()
	opts.StripComments = true
	doc := mustParse(t, `<root><!-- gone --><a/></root>`, opts)
	if got := DocumentString(doc); got != `<root><a/></root>` {
		t.Errorf("got %q", got)
	}
}

func TestParseFragment(t *testing.T) {
	nodes, err := ParseFragment([]byte(`lead<a/><b>x</b>tail`), FragmentOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 4 {
		t.Fatalf("got %d nodes", len(nodes))
	}
	for i, n := range nodes {
		if n.Parent() != nil {
			t.Errorf("node %d still parented", i)
		}
	}
	if nodes[0].Type != TextType || nodes[1].FullName() != "a" ||
		nodes[2].FullName() != "b" || nodes[3].Text != "tail" {
		t.Errorf("unexpected fragment shape: %v %v %v %v",
			nodes[0].Type, nodes[1].Type, nodes[2].Type, nodes[3].Type)
	}
}

func TestRootSkipsNonElements(t *testing.T) {
	doc := mustParse(t, `<?xml version="1.0"?><!-- c --><root><a/></root>`, DefaultOptions())
	root := doc.Root()
	if root == nil || root.FullName() != "root" {
		t.Fatalf("Root() = %v", root)
	}
}
