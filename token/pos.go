package token

import (
	"fmt"
	"sort"
	"strconv"
)

// PosDoc maps byte offsets in one input document to line/column pairs.
// It is built once per Reader and shared by every Pos it hands out.
type PosDoc struct {
	d []byte
	n []int
}

func NewPosDoc(d []byte) *PosDoc {
	p := &PosDoc{d: d}
	for i, b := range d {
		if b == '\n' {
			p.n = append(p.n, i)
		}
	}
	return p
}

func (p *PosDoc) LineCol(off int) (int, int) {
	N := len(p.n)
	di := sort.Search(N, func(i int) bool {
		return p.n[i] >= off
	})
	switch di {
	case 0:
		return 0, off
	default:
		return di, off - p.n[di-1] - 1
	}
}

// LineText returns one 0-based line of the document without its
// trailing newline. Out of range lines come back empty.
func (p *PosDoc) LineText(line int) string {
	if line < 0 || line > len(p.n) {
		return ""
	}
	start := 0
	if line > 0 {
		start = p.n[line-1] + 1
	}
	end := len(p.d)
	if line < len(p.n) {
		end = p.n[line]
	}
	return string(p.d[start:end])
}

func (p *PosDoc) Pos(i int) *Pos {
	return &Pos{I: i, D: p}
}

// Pos is a byte offset into a PosDoc. Line and column are derived lazily
// so events stay cheap on the happy path.
type Pos struct {
	I int
	D *PosDoc
}

func (p *Pos) LineCol() (int, int) {
	return p.D.LineCol(p.I)
}

func (p *Pos) Line() int {
	l, _ := p.LineCol()
	return l
}

func (p *Pos) Col() int {
	_, c := p.LineCol()
	return c
}

func (p *Pos) String() string {
	if p.D == nil {
		return fmt.Sprintf("offset %d", p.I)
	}
	sample := "?"
	if len(p.D.d) > 0 {
		sample = string(p.D.d[max(0, p.I-5):min(p.I+5, len(p.D.d))])
	}
	sample = strconv.Quote(sample)
	sample = sample[1 : len(sample)-1]
	return fmt.Sprintf("`...%s...` at offset %d (line=%d, col=%d)", sample, p.I, p.Line(), p.Col())
}

// Span is a half-open byte range within a PosDoc.
type Span struct {
	Start, End int
	D          *PosDoc
}

func (s Span) Pos() *Pos {
	return &Pos{I: s.Start, D: s.D}
}

func (s Span) String() string {
	return s.Pos().String()
}
