// Package diag renders errors for humans. Parse failures that carry a
// source span come out as an annotated excerpt with a caret under the
// offending bytes; everything else falls back to a one line message.
package diag

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/modforge/modforge/token"
)

type Printer struct {
	w      io.Writer
	colors *Colors
}

// New builds a Printer for w, colorizing only when w is a terminal.
func New(w io.Writer) *Printer {
	colors := NoColors()
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		colors = NewColors()
	}
	return &Printer{w: w, colors: colors}
}

func NewWithColors(w io.Writer, colors *Colors) *Printer {
	return &Printer{w: w, colors: colors}
}

// Print writes one diagnostic for err. path names the input the error
// came from and may be empty. Line and column are reported 1-based.
func (p *Printer) Print(path string, err error) {
	var terr *token.Error
	if !errors.As(err, &terr) || terr.Span.D == nil {
		if path != "" {
			fmt.Fprintf(p.w, "%s %s: %v\n", p.colors.Label("error:"), p.colors.Path("%s", path), err)
			return
		}
		fmt.Fprintf(p.w, "%s %v\n", p.colors.Label("error:"), err)
		return
	}

	line, col := terr.Span.Pos().LineCol()
	loc := fmt.Sprintf("%d:%d", line+1, col+1)
	if path != "" {
		loc = path + ":" + loc
	}
	fmt.Fprintf(p.w, "%s %s: %s\n", p.colors.Label("error:"), p.colors.Path("%s", loc), terr.Kind.Message())

	src := terr.Span.D.LineText(line)
	gutter := fmt.Sprintf("%4d | ", line+1)
	fmt.Fprintf(p.w, "%s%s\n", p.colors.Gutter("%s", gutter), p.colors.Source("%s", src))
	fmt.Fprintf(p.w, "%s%s\n",
		p.colors.Gutter("%s", strings.Repeat(" ", len(gutter)-2)+"| "),
		p.colors.Caret("%s", caretLine(src, col, terr.Span.End-terr.Span.Start)))
}

// caretLine pads up to col with the source's own tabs so the marker
// lines up in a terminal, then underlines the span within this line.
func caretLine(src string, col, width int) string {
	var b strings.Builder
	for i, r := range src {
		if i >= col {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	if width < 1 {
		width = 1
	}
	if rest := len(src) - col; rest > 0 && width > rest {
		width = rest
	}
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}
