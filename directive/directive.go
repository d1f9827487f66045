// Package directive parses mod directive documents into an operation list
// and applies them to a document tree. A directive document is a fragment
// in the mod: namespace; everything outside that namespace is literal
// content appended to the patch context.
package directive

import (
	"errors"
	"fmt"

	"github.com/modforge/modforge/find"
	"github.com/modforge/modforge/xmltree"
)

// ErrUnknownTag reports a tag the interpreter does not recognize inside a
// directive document, where only known tags are valid.
var ErrUnknownTag = errors.New("unknown directive tag")

// ErrDirective wraps any directive parse failure that is not a markup
// error, such as a missing required attribute.
var ErrDirective = errors.New("invalid directive")

// State tracks one directive through its lifecycle. A directive starts
// Pending, becomes Located once its query ran, and ends Applied, Failed or
// Skipped.
type State int

const (
	Pending State = iota
	Located
	Applied
	Failed
	Skipped
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Located:
		return "located"
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// Policy is a directive's failure policy. The default is fatal: a query
// that matches nothing fails the enclosing patch. Silent directives skip
// instead, and a custom message replaces the generic diagnostic.
type Policy struct {
	Silent  bool
	Message string
}

func (p Policy) fail(q *find.Query) error {
	if p.Message != "" {
		return fmt.Errorf("%w: %s", find.ErrCardinality, p.Message)
	}
	return q.Check(0)
}

// Script is one parsed directive document: an ordered mix of find
// directives and literal content nodes.
type Script struct {
	Nodes []ScriptNode
}

type ScriptNode interface {
	scriptNode()
}

// Find is a find directive: locate elements under the current context and
// run commands against each match.
type Find struct {
	Query    *find.Query
	Policy   Policy
	Tag      string // originating tag name, for diagnostics
	Commands []Command
}

func (*Find) scriptNode() {}

// Content is a literal node appended to the patch context.
type Content struct {
	Node *xmltree.Node
}

func (Content) scriptNode() {}

// Command is one operation run against a matched element.
type Command interface {
	command()
}

// FindCommand nests a find, scoped to the matched element.
type FindCommand struct {
	Find *Find
}

// SetAttributes writes raw attributes on the matched element.
type SetAttributes struct {
	Attrs []xmltree.Attr
}

// RemoveAttributes deletes attributes by name.
type RemoveAttributes struct {
	Names []string
}

// SetValue replaces the matched element's text content, keeping element
// children in place.
type SetValue struct {
	Value string
}

// RemoveTag marks the matched element for removal at cleanup time. Later
// directives in the same run can still observe the marked element.
type RemoveTag struct{}

// InsertByFind inserts elements before the first and after the last match
// of a nested find. When nothing matches and AddAnyway is set, the before
// payload lands at the front of the context and the after payload at the
// end.
type InsertByFind struct {
	Find      *Find
	AddAnyway bool
	Before    []*xmltree.Node
	After     []*xmltree.Node
}

// Prepend inserts a payload element as the first child of the match.
type Prepend struct {
	Node *xmltree.Node
}

// Append inserts a payload element as the last child of the match.
type Append struct {
	Node *xmltree.Node
}

// Overwrite replaces the match's first child element of the same name, or
// appends when there is none.
type Overwrite struct {
	Node *xmltree.Node
}

func (FindCommand) command()      {}
func (SetAttributes) command()    {}
func (RemoveAttributes) command() {}
func (SetValue) command()         {}
func (RemoveTag) command()        {}
func (InsertByFind) command()     {}
func (Prepend) command()          {}
func (Append) command()           {}
func (Overwrite) command()        {}
