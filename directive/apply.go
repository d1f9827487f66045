package directive

import (
	"fmt"

	"github.com/modforge/modforge/debug"
	"github.com/modforge/modforge/xmltree"
)

// removeMarker tags elements scheduled for removal. They stay visible to
// later directives in the same run and disappear during cleanup.
const removeMarker = "\x00remove"

// Apply runs the script against a patch context, normally the root element
// of a base document. Directives run in order against the current state of
// the tree, so later directives observe earlier mutations. The context is
// cleaned afterwards: marker-tagged elements, comments and leftover mod
// prefixes are removed.
func (s *Script) Apply(context *xmltree.Node) error {
	for _, n := range s.Nodes {
		switch node := n.(type) {
		case *Find:
			if _, err := node.apply(context); err != nil {
				return err
			}
		case Content:
			cp := node.Node.Clone()
			if err := context.Append(cp); err != nil {
				return err
			}
		}
	}
	cleanup(context)
	return nil
}

// apply drives one directive through its states. The query runs against
// the live tree; an empty result either fails or skips depending on the
// directive's policy.
func (f *Find) apply(context *xmltree.Node) (State, error) {
	matches := f.Query.Apply(context)
	state := Located
	if debug.Patch() {
		debug.Logf("mod:%s %s: %d matches\n", f.Tag, state, len(matches))
	}
	if len(matches) == 0 {
		if f.Policy.Silent {
			return Skipped, nil
		}
		return Failed, fmt.Errorf("mod:%s: %w", f.Tag, f.Policy.fail(f.Query))
	}
	for _, m := range matches {
		if err := runCommands(m, f.Commands); err != nil {
			return Failed, err
		}
	}
	return Applied, nil
}

func runCommands(context *xmltree.Node, commands []Command) error {
	for _, c := range commands {
		if err := runCommand(context, c); err != nil {
			return err
		}
	}
	return nil
}

func runCommand(context *xmltree.Node, c Command) error {
	switch cmd := c.(type) {
	case FindCommand:
		_, err := cmd.Find.apply(context)
		return err
	case SetAttributes:
		for _, a := range cmd.Attrs {
			context.SetAttr(a.Name, a.Value)
		}
	case RemoveAttributes:
		for _, name := range cmd.Names {
			context.RemoveAttr(name)
		}
	case SetValue:
		return setValue(context, cmd.Value)
	case RemoveTag:
		context.Prefix = removeMarker
	case InsertByFind:
		return insertByFind(context, cmd)
	case Prepend:
		return context.Prepend(cmd.Node.Clone())
	case Append:
		return context.Append(cmd.Node.Clone())
	case Overwrite:
		return overwrite(context, cmd.Node)
	}
	return nil
}

// setValue drops text and cdata children and appends the new value,
// leaving element children where they are.
func setValue(context *xmltree.Node, value string) error {
	for c := range context.ChildNodes() {
		if c.Type == xmltree.TextType || c.Type == xmltree.CDataType {
			c.Detach()
		}
	}
	return context.Append(xmltree.NewText(value))
}

func insertByFind(context *xmltree.Node, cmd InsertByFind) error {
	matches := cmd.Find.Query.Apply(context)
	if len(matches) == 0 {
		if !cmd.AddAnyway {
			// No fallback requested: the nested find's own policy
			// decides between failing and a silent no-op.
			if cmd.Find.Policy.Silent {
				return nil
			}
			return fmt.Errorf("mod:insertByFind: %w", cmd.Find.Policy.fail(cmd.Find.Query))
		}
		for i := len(cmd.Before) - 1; i >= 0; i-- {
			if err := context.Prepend(cmd.Before[i].Clone()); err != nil {
				return err
			}
		}
		for _, n := range cmd.After {
			if err := context.Append(n.Clone()); err != nil {
				return err
			}
		}
		return nil
	}
	first, last := matches[0], matches[len(matches)-1]
	for _, n := range cmd.Before {
		if err := first.InsertBefore(n.Clone()); err != nil {
			return err
		}
	}
	for _, n := range cmd.After {
		if err := last.InsertAfter(n.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func overwrite(context *xmltree.Node, payload *xmltree.Node) error {
	cp := payload.Clone()
	for c := range context.Children() {
		if c.Name == cp.Name && c.Prefix == "" {
			if err := c.InsertBefore(cp); err != nil {
				return err
			}
			c.Detach()
			return nil
		}
	}
	return context.Append(cp)
}

// cleanup strips directive leftovers from the final tree: elements marked
// by removeTag, all comments, and mod payload prefixes.
func cleanup(el *xmltree.Node) {
	if payloadPrefixes[el.Prefix] {
		el.Prefix = ""
	}
	for c := range el.ChildNodes() {
		switch {
		case c.Type == xmltree.ElementType && c.Prefix == removeMarker:
			c.Detach()
		case c.Type == xmltree.CommentType:
			c.Detach()
		case c.Type == xmltree.ElementType:
			cleanup(c)
		}
	}
}
