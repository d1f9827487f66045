package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/modforge/modforge/xmltree"
)

func runtimeFor(t *testing.T, base string) (*Runtime, *xmltree.Node) {
	t.Helper()
	doc, err := xmltree.Parse([]byte(base), xmltree.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	root := doc.Root()
	return New(root), root
}

func TestReadSurface(t *testing.T) {
	r, _ := runtimeFor(t, `<root><ship name="Kestrel" hull="30"/>text<drone/></root>`)
	for _, tc := range []struct {
		name string
		code string
		want any
	}{
		{"kind", `document.kind`, "element"},
		{"attr coercion", `document.children().Next().attrs["hull"]`, int64(30)},
		{"raw attr", `document.children().Next().rawattrs["hull"]`, "30"},
		{"children skip text", `document.children().Len()`, 2},
		{"childNodes include text", `document.childNodes().Len()`, 3},
		{"as matching kind", `document.as("element").name`, "root"},
		{"as other kind", `document.as("text")`, nil},
		{"text content", `document.children().Next().as("element") != nil ? document.text() : ""`, "text"},
		{"navigation", `document.children().Next().nextSibling().kind`, "text"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Run(tc.code, nil)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tc.want, tc.want)
			}
		})
	}
}

func TestSinglePassIterators(t *testing.T) {
	r, _ := runtimeFor(t, `<root><a/><b/></root>`)
	got, err := r.Run(`
		let it = document.children();
		[it.Next().name, it.Next().name, it.Next()]
	`, nil)
	if err != nil {
		t.Fatal(err)
	}
	vals, ok := got.([]any)
	if !ok || len(vals) != 3 {
		t.Fatalf("got %v", got)
	}
	if vals[0] != "a" || vals[1] != "b" || vals[2] != nil {
		t.Errorf("iterator sequence: %v", vals)
	}

	// A fresh producing call yields an independent sequence.
	got, err = r.Run(`
		let first = document.children();
		let drained = first.Rest();
		[len(drained), document.children().Len(), first.HasNext()]
	`, nil)
	if err != nil {
		t.Fatal(err)
	}
	vals = got.([]any)
	if vals[0] != 2 || vals[1] != 2 || vals[2] != false {
		t.Errorf("fresh iterator semantics: %v", vals)
	}
}

func TestMutation(t *testing.T) {
	r, root := runtimeFor(t, `<root><old/></root>`)
	_, err := r.Run(`
		let w = element("weapon");
		let ignored = w.setAttr("power", 2.5);
		document.append(w)
	`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := xmltree.NodeString(root); got != `<root><old/><weapon power="2.5"/></root>` {
		t.Errorf("got %s", got)
	}

	_, err = r.Run(`document.children().Next().detach()`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := xmltree.NodeString(root); got != `<root><weapon power="2.5"/></root>` {
		t.Errorf("after detach: %s", got)
	}

	_, err = r.Run(`parse("<a/><b/>")[0].setText("hi")`, nil)
	if err != nil {
		t.Fatal(err)
	}
}

func TestAttrViewsFollowWrites(t *testing.T) {
	r, _ := runtimeFor(t, `<root stale="1"/>`)
	got, err := r.Run(`
		let a = document.setAttr("hull", 45);
		let b = document.setAttrs({shields: 2});
		let c = document.removeAttr("stale");
		[document.attrs["hull"], document.rawattrs["hull"],
		 document.attrs["shields"], "stale" in document.attrs]
	`, nil)
	if err != nil {
		t.Fatal(err)
	}
	vals := got.([]any)
	if vals[0] != int64(45) || vals[1] != "45" {
		t.Errorf("hull after setAttr: %v / %v", vals[0], vals[1])
	}
	if vals[2] != int64(2) {
		t.Errorf("shields after setAttrs: %v", vals[2])
	}
	if vals[3] != false {
		t.Error("stale still visible after removeAttr")
	}
}

func TestFloatWritesAreCanonical(t *testing.T) {
	r, root := runtimeFor(t, `<root><e/></root>`)
	_, err := r.Run(`
		let e = document.children().Next();
		e.setAttrs({tiny: 0.00000000000000000000008, big: 623453000000000000000000000000000.0, flag: false})
	`, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := `<root><e big="6.23453e32" flag="false" tiny="8e-23"/></root>`
	if got := xmltree.NodeString(root); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestReadOnly(t *testing.T) {
	r, root := runtimeFor(t, `<root><a k="v"/></root>`)
	for _, code := range []string{
		`readonly(document).setAttr("x", 1)`,
		`readonly(document).children().Next().detach()`,
		`readonly(document).setText("x")`,
		`document.append(readonly(document.children().Next()).clone().as("element") != nil ? readonly(element("y")) : nil)`,
	} {
		_, err := r.Run(code, nil)
		if !errors.Is(err, ErrReadOnly) {
			t.Errorf("%s: want ErrReadOnly, got %v", code, err)
		}
	}
	// Reads still work through the proxy, and the tree is untouched.
	got, err := r.Run(`readonly(document).children().Next().attrs["k"]`, nil)
	if err != nil || got != "v" {
		t.Fatalf("read through proxy: %v, %v", got, err)
	}
	if s := xmltree.NodeString(root); s != `<root><a k="v"/></root>` {
		t.Errorf("tree mutated: %s", s)
	}
}

func TestEval(t *testing.T) {
	r, _ := runtimeFor(t, `<root/>`)
	got, err := r.Run(`eval("x + y", {"env": {"x": 2, "y": 3}})`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("eval result = %v", got)
	}

	// Without an env the nested script still sees the document surface.
	got, err = r.Run(`eval("document.kind")`, nil)
	if err != nil || got != "element" {
		t.Fatalf("eval without env: %v, %v", got, err)
	}

	_, err = r.Run(`eval("1 +", {"path": "bad.script"})`, nil)
	if err == nil || !strings.Contains(err.Error(), "bad.script") {
		t.Errorf("eval error context: %v", err)
	}
}

func TestAssertEqual(t *testing.T) {
	r, _ := runtimeFor(t, `<root/>`)
	if _, err := r.Run(`assert_equal({"a": [1, 2]}, {"a": [1, 2.0]})`, nil); err != nil {
		t.Errorf("numeric cross-kind assert: %v", err)
	}
	if _, err := r.Run(`assert_equal(document, document)`, nil); err != nil {
		t.Errorf("handle identity assert: %v", err)
	}
	_, err := r.Run(`assert_equal([1], [2])`, nil)
	if err == nil || !strings.Contains(err.Error(), "assertion failed") {
		t.Errorf("failing assert: %v", err)
	}
}

func TestPrettyCycles(t *testing.T) {
	a := map[string]any{"name": "a"}
	a["self"] = a
	out := Pretty(a)
	if !strings.Contains(out, "<cycle>") {
		t.Errorf("cycle not detected: %s", out)
	}

	b := map[string]any{"name": "a"}
	b["self"] = b
	if !DeepEqual(a, b) {
		t.Error("equivalent cyclic graphs compare unequal")
	}
	b["name"] = "b"
	if DeepEqual(a, b) {
		t.Error("different cyclic graphs compare equal")
	}
}

func TestPrettyDeterministic(t *testing.T) {
	v := map[string]any{"b": 2, "a": 1, "c": []any{true, "x", 1.5}}
	first := Pretty(v)
	for range 5 {
		if got := Pretty(v); got != first {
			t.Fatalf("nondeterministic output:\n%s\n%s", first, got)
		}
	}
	if !strings.Contains(first, `"x"`) || !strings.Contains(first, "1.5") {
		t.Errorf("unexpected rendering: %s", first)
	}
}
