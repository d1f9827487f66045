package find

import (
	"errors"
	"fmt"
	"strings"

	"github.com/modforge/modforge/debug"
	"github.com/modforge/modforge/xmltree"
)

// ErrCardinality reports a query that matched an unexpected number of
// nodes. The query itself never returns it; callers ask Check after
// deciding their failure policy.
var ErrCardinality = errors.New("selector cardinality violation")

type Cardinality int

const (
	// Any accepts every match count, including zero.
	Any Cardinality = iota
	// Some requires at least one match.
	Some
	// ExactlyOne requires a single match.
	ExactlyOne
)

// Query is a complete find expression: a filter, a result window and a
// match-count expectation.
type Query struct {
	Filter  Filter
	Reverse bool
	Start   int
	Limit   int // -1 means unlimited
	Expect  Cardinality
}

// Apply evaluates the query against the subtree below context, context
// itself excluded. Matches come back in document order; Reverse flips the
// order before the Start/Limit window is cut.
func (q *Query) Apply(context *xmltree.Node) []*xmltree.Node {
	var matches []*xmltree.Node
	for n := range context.Descendants() {
		if n.Type == xmltree.ElementType && q.Filter.Match(n) {
			matches = append(matches, n)
		}
	}
	if q.Reverse {
		for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
			matches[i], matches[j] = matches[j], matches[i]
		}
	}
	if q.Start > 0 {
		if q.Start >= len(matches) {
			matches = nil
		} else {
			matches = matches[q.Start:]
		}
	}
	if q.Limit >= 0 && q.Limit < len(matches) {
		matches = matches[:q.Limit]
	}
	if debug.Find() {
		debug.Logf("find %s matched %d under <%s>\n", q.Describe(), len(matches), context.FullName())
	}
	return matches
}

// Check validates a match count against the query's expectation.
func (q *Query) Check(matched int) error {
	switch q.Expect {
	case Some:
		if matched == 0 {
			return fmt.Errorf("%w: %s matched nothing", ErrCardinality, q.Describe())
		}
	case ExactlyOne:
		if matched != 1 {
			return fmt.Errorf("%w: %s matched %d elements, expected one", ErrCardinality, q.Describe(), matched)
		}
	}
	return nil
}

// Describe renders the query for diagnostics.
func (q *Query) Describe() string {
	var b strings.Builder
	q.Filter.describe(&b)
	if q.Reverse {
		b.WriteString(" reverse")
	}
	if q.Start > 0 {
		fmt.Fprintf(&b, " start=%d", q.Start)
	}
	if q.Limit >= 0 {
		fmt.Fprintf(&b, " limit=%d", q.Limit)
	}
	return b.String()
}
