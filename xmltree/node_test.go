package xmltree

import (
	"errors"
	"testing"
)

func names(t *testing.T, n *Node, all bool) []string {
	t.Helper()
	var out []string
	seq := n.Children()
	if all {
		seq = n.ChildNodes()
	}
	for c := range seq {
		if c.Type == ElementType {
			out = append(out, c.FullName())
		} else {
			out = append(out, c.Type.String())
		}
	}
	return out
}

func eqStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInsertOrdering(t *testing.T) {
	root := NewElement("root")
	if err := root.Append(NewElement("orig1"), NewText("t"), NewElement("orig2")); err != nil {
		t.Fatal(err)
	}
	if err := root.Prepend(NewElement("a"), NewElement("b")); err != nil {
		t.Fatal(err)
	}
	if err := root.Append(NewElement("c"), NewElement("d")); err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "orig1", "text", "orig2", "c", "d"}
	if got := names(t, root, true); !eqStrings(got, want) {
		t.Errorf("childNodes = %v, want %v", got, want)
	}

	b := root.FirstChild().NextSibling()
	if b.FullName() != "b" {
		t.Fatalf("second child is %q", b.FullName())
	}
	if b.PrevSibling().FullName() != "a" || b.NextSibling().FullName() != "orig1" {
		t.Error("sibling links inconsistent around b")
	}
	if root.LastChild().FullName() != "d" {
		t.Errorf("last child is %q", root.LastChild().FullName())
	}
}

func TestInsertBeforeAfter(t *testing.T) {
	root := NewElement("root")
	mid := NewElement("mid")
	if err := root.Append(mid); err != nil {
		t.Fatal(err)
	}
	if err := mid.InsertBefore(NewElement("x"), NewElement("y")); err != nil {
		t.Fatal(err)
	}
	if err := mid.InsertAfter(NewElement("p"), NewElement("q")); err != nil {
		t.Fatal(err)
	}
	want := []string{"x", "y", "mid", "p", "q"}
	if got := names(t, root, false); !eqStrings(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
}

func TestChildrenSkipsText(t *testing.T) {
	root := NewElement("root")
	if err := root.Append(NewText("a"), NewElement("e1"), NewText("b"), NewElement("e2"), NewComment("c")); err != nil {
		t.Fatal(err)
	}
	all, elems, text := 0, 0, 0
	for c := range root.ChildNodes() {
		all++
		if c.Type == TextType {
			text++
		}
	}
	for range root.Children() {
		elems++
	}
	if elems != 2 || all != 5 || text != 2 {
		t.Errorf("elems=%d all=%d text=%d", elems, all, text)
	}
}

func TestDualParentRejected(t *testing.T) {
	a, b := NewElement("a"), NewElement("b")
	child := NewElement("child")
	if err := a.Append(child); err != nil {
		t.Fatal(err)
	}
	err := b.Append(child)
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("want ErrStructure, got %v", err)
	}
	child.Detach()
	if err := b.Append(child); err != nil {
		t.Fatalf("append after detach: %v", err)
	}
	if a.FirstChild() != nil {
		t.Error("detach left a child behind")
	}
}

func TestCycleRejected(t *testing.T) {
	root := NewElement("root")
	inner := NewElement("inner")
	if err := root.Append(inner); err != nil {
		t.Fatal(err)
	}
	// Inserting an ancestor below its own descendant must fail without
	// touching either tree.
	root.Detach()
	err := inner.Append(root)
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("want ErrStructure, got %v", err)
	}
	if inner.FirstChild() != nil || root.Parent() != nil {
		t.Error("failed insert modified the tree")
	}
	if err := inner.Append(inner); !errors.Is(err, ErrStructure) {
		t.Errorf("self insert: want ErrStructure, got %v", err)
	}
}

func TestCloneIsDetachedDeepCopy(t *testing.T) {
	root := NewElement("root")
	child := NewElement("child")
	child.SetAttr("k", "v")
	if err := root.Append(child); err != nil {
		t.Fatal(err)
	}
	if err := child.Append(NewText("hi")); err != nil {
		t.Fatal(err)
	}

	cp := root.Clone()
	if cp.Parent() != nil || cp.PrevSibling() != nil {
		t.Error("clone is not detached")
	}
	cp.FirstChild().SetAttr("k", "changed")
	cp.FirstChild().SetTextContent("bye")
	if v, _ := child.Attr("k"); v != "v" {
		t.Error("clone shares attribute storage with original")
	}
	if child.TextContent() != "hi" {
		t.Error("clone shares children with original")
	}
}

func TestTextContent(t *testing.T) {
	root := NewElement("root")
	if err := root.Append(NewText("a"), NewCData("b"), NewElement("skip"), NewText("c")); err != nil {
		t.Fatal(err)
	}
	if got := root.TextContent(); got != "abc" {
		t.Errorf("TextContent = %q", got)
	}
	root.SetTextContent("only")
	if got := names(t, root, true); !eqStrings(got, []string{"text"}) {
		t.Errorf("after SetTextContent children = %v", got)
	}
}
