package patch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/modforge/modforge/xmltree"
)

// wrapper strips and restores the synthetic root tag some base documents
// carry. The target application wraps certain files in a tag like <FTL>
// that its own parser ignores; patching removes the wrapper and the XML
// declaration, works on a synthetic root, and re-emits the wrapper only
// when the input had one.
type wrapper struct {
	tag string
	re  *regexp.Regexp
}

func newWrapper(tag string) *wrapper {
	if tag == "" {
		return nil
	}
	re := regexp.MustCompile(`(<[?]xml [^>]*?[?]>\n*)|(</?` + regexp.QuoteMeta(tag) + `>)`)
	return &wrapper{tag: tag, re: re}
}

// strip removes the declaration and wrapper tags, reporting whether a
// wrapper tag was present.
func (w *wrapper) strip(text string) (string, bool) {
	if w == nil {
		return text, false
	}
	had := false
	out := w.re.ReplaceAllStringFunc(text, func(m string) string {
		if strings.HasPrefix(m, "<"+w.tag) || strings.HasPrefix(m, "</"+w.tag) {
			had = true
		}
		return ""
	})
	return out, had
}

// parse wraps stripped text in a synthetic root and builds the tree.
func (w *wrapper) parse(text string) (*xmltree.Document, error) {
	tag := "wrapper"
	if w != nil {
		tag = w.tag
	}
	wrapped := "<" + tag + ">" + text + "</" + tag + ">"
	return xmltree.Parse([]byte(wrapped), xmltree.DefaultOptions())
}

// render serializes a patched document, keeping the wrapper only when the
// original input carried one.
func (w *wrapper) render(doc *xmltree.Document, hadWrapper bool) (string, error) {
	root := doc.Root()
	if root == nil {
		return "", fmt.Errorf("document lost its root element")
	}
	if hadWrapper {
		return xmltree.NodeString(root), nil
	}
	var b strings.Builder
	for c := range root.ChildNodes() {
		if err := xmltree.Encode(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
