package directive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/modforge/modforge/find"
	"github.com/modforge/modforge/xmltree"
)

var findTags = map[string]bool{
	"findName":          true,
	"findLike":          true,
	"findWithChildLike": true,
	"findComposite":     true,
}

// Parse reads one directive document. Comments are stripped before
// interpretation so they never count as payload, and top-level text is
// legal since the document is a fragment.
func Parse(data []byte) (*Script, error) {
	opts := xmltree.FragmentOptions()
	opts.StripComments = true
	nodes, err := xmltree.ParseFragment(data, opts)
	if err != nil {
		return nil, err
	}
	script := &Script{}
	for _, n := range nodes {
		if n.Type == xmltree.ElementType && n.Prefix == "mod" {
			f, err := parseFind(n)
			if err != nil {
				return nil, err
			}
			script.Nodes = append(script.Nodes, f)
			continue
		}
		if n.Type == xmltree.ElementType {
			cleanPayload(n)
		}
		script.Nodes = append(script.Nodes, Content{Node: n})
	}
	return script, nil
}

func parseFind(el *xmltree.Node) (*Find, error) {
	if !findTags[el.Name] {
		return nil, fmt.Errorf("%w: mod:%s", ErrUnknownTag, el.Name)
	}

	reverse, err := boolAttr(el, "reverse", el.Name == "findName")
	if err != nil {
		return nil, err
	}
	start, err := intAttr(el, "start", 0)
	if err != nil {
		return nil, err
	}
	if start < 0 {
		return nil, fmt.Errorf("%w: mod:%s start must be non-negative", ErrDirective, el.Name)
	}
	defaultLimit := -1
	if el.Name == "findName" {
		defaultLimit = 1
	}
	limit, err := intAttr(el, "limit", defaultLimit)
	if err != nil {
		return nil, err
	}
	if limit < -1 {
		return nil, fmt.Errorf("%w: mod:%s limit must be >= -1", ErrDirective, el.Name)
	}
	policy := parsePolicy(el)
	isRegex, err := boolAttr(el, "regex", false)
	if err != nil {
		return nil, err
	}

	var filter find.Filter
	switch el.Name {
	case "findName":
		nameRaw, ok := el.Attr("name")
		if !ok {
			return nil, fmt.Errorf("%w: mod:findName requires a name attribute", ErrDirective)
		}
		name, err := find.NewMatcher(nameRaw, isRegex)
		if err != nil {
			return nil, fmt.Errorf("%w: mod:findName name: %v", ErrDirective, err)
		}
		typ, err := typeMatcher(el, "type", isRegex)
		if err != nil {
			return nil, err
		}
		filter = &find.Selector{
			Name:  typ,
			Attrs: []find.AttrFilter{{Name: "name", Value: name}},
		}
	case "findLike":
		typ, err := typeMatcher(el, "type", isRegex)
		if err != nil {
			return nil, err
		}
		sel, err := parseSelector(el, isRegex)
		if err != nil {
			return nil, err
		}
		sel.Name = typ
		filter = sel
	case "findWithChildLike":
		typ, err := typeMatcher(el, "type", isRegex)
		if err != nil {
			return nil, err
		}
		childType, err := typeMatcher(el, "child-type", isRegex)
		if err != nil {
			return nil, err
		}
		sel, err := parseSelector(el, isRegex)
		if err != nil {
			return nil, err
		}
		sel.Name = childType
		filter = &find.WithChild{Name: typ, Child: *sel}
	case "findComposite":
		filter, err = parseComposite(el)
		if err != nil {
			return nil, err
		}
	}

	f := &Find{
		Query: &find.Query{
			Filter:  filter,
			Reverse: reverse,
			Start:   start,
			Limit:   limit,
			Expect:  find.Some,
		},
		Policy: policy,
		Tag:    el.Name,
	}
	// Only the child tag the find's own filter consumed is tolerated when
	// walking commands. A selector under findName or a par outside
	// findComposite would be silently dead, so it is rejected instead.
	consumed := ""
	switch el.Name {
	case "findLike", "findWithChildLike":
		consumed = "selector"
	case "findComposite":
		consumed = "par"
	}
	f.Commands, err = parseCommands(el, consumed)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// parsePolicy reads the panic attribute. Absent or "true" keeps the fatal
// default, "false" opts into silent skipping, and any other value is used
// as a custom failure message.
func parsePolicy(el *xmltree.Node) Policy {
	raw, ok := el.Attr("panic")
	if !ok {
		return Policy{}
	}
	switch raw {
	case "true":
		return Policy{}
	case "false":
		return Policy{Silent: true}
	default:
		return Policy{Message: raw}
	}
}

func parseSelector(el *xmltree.Node, isRegex bool) (*find.Selector, error) {
	sel := &find.Selector{}
	for c := range el.Children() {
		if c.Prefix != "mod" || c.Name != "selector" {
			continue
		}
		for _, a := range c.Attrs {
			af := find.AttrFilter{Name: a.Name}
			if a.Value != "" {
				m, err := find.NewMatcher(a.Value, isRegex)
				if err != nil {
					return nil, fmt.Errorf("%w: selector attribute %s: %v", ErrDirective, a.Name, err)
				}
				af.Value = m
			}
			sel.Attrs = append(sel.Attrs, af)
		}
		if text := strings.TrimSpace(c.TextContent()); text != "" {
			m, err := find.NewMatcher(text, isRegex)
			if err != nil {
				return nil, fmt.Errorf("%w: selector value filter: %v", ErrDirective, err)
			}
			sel.Text = m
		}
		break
	}
	return sel, nil
}

func parseComposite(el *xmltree.Node) (find.Filter, error) {
	for c := range el.Children() {
		if c.Prefix == "mod" && c.Name == "par" {
			return parsePar(c)
		}
	}
	return nil, fmt.Errorf("%w: mod:findComposite is missing a par child", ErrDirective)
}

func parsePar(el *xmltree.Node) (find.Filter, error) {
	op, ok := el.Attr("op")
	if !ok {
		return nil, fmt.Errorf("%w: mod:par is missing an op attribute", ErrDirective)
	}
	comp := &find.Composite{}
	switch op {
	case "AND":
		comp.And = true
	case "OR":
	case "NAND":
		comp.And = true
		comp.Complement = true
	case "NOR":
		comp.Complement = true
	default:
		return nil, fmt.Errorf("%w: invalid par operation %q", ErrDirective, op)
	}
	for c := range el.Children() {
		if c.Prefix != "mod" {
			return nil, fmt.Errorf("%w: <%s> inside mod:par", ErrUnknownTag, c.FullName())
		}
		if c.Name == "par" {
			sub, err := parsePar(c)
			if err != nil {
				return nil, err
			}
			comp.Filters = append(comp.Filters, sub)
			continue
		}
		sub, err := parseFind(c)
		if err != nil {
			return nil, err
		}
		comp.Filters = append(comp.Filters, sub.Query.Filter)
	}
	return comp, nil
}

// parseCommands walks el's children into commands. consumed names the one
// child tag already claimed by the enclosing find's filter, or "" for finds
// that claim none.
func parseCommands(el *xmltree.Node, consumed string) ([]Command, error) {
	var commands []Command
	for c := range el.Children() {
		switch c.Prefix {
		case "mod":
			if findTags[c.Name] {
				f, err := parseFind(c)
				if err != nil {
					return nil, err
				}
				commands = append(commands, FindCommand{Find: f})
				continue
			}
			if c.Name == consumed {
				// Already claimed by the enclosing find's filter.
				continue
			}
			switch c.Name {
			case "setAttributes":
				commands = append(commands, SetAttributes{Attrs: append([]xmltree.Attr(nil), c.Attrs...)})
			case "removeAttributes":
				names := make([]string, len(c.Attrs))
				for i, a := range c.Attrs {
					names[i] = a.Name
				}
				commands = append(commands, RemoveAttributes{Names: names})
			case "setValue":
				commands = append(commands, SetValue{Value: strings.TrimSpace(c.TextContent())})
			case "removeTag":
				commands = append(commands, RemoveTag{})
			case "insertByFind":
				cmd, err := parseInsertByFind(c)
				if err != nil {
					return nil, err
				}
				commands = append(commands, cmd)
			default:
				return nil, fmt.Errorf("%w: mod:%s", ErrUnknownTag, c.Name)
			}
		case "mod-prepend":
			commands = append(commands, Prepend{Node: payload(c)})
		case "mod-append":
			commands = append(commands, Append{Node: payload(c)})
		case "mod-overwrite":
			commands = append(commands, Overwrite{Node: payload(c)})
		default:
			return nil, fmt.Errorf("%w: <%s> inside mod:%s", ErrUnknownTag, c.FullName(), el.Name)
		}
	}
	return commands, nil
}

func parseInsertByFind(el *xmltree.Node) (Command, error) {
	addAnyway, err := boolAttr(el, "addAnyway", true)
	if err != nil {
		return nil, err
	}
	cmd := InsertByFind{AddAnyway: addAnyway}
	for c := range el.Children() {
		switch {
		case c.Prefix == "mod" && findTags[c.Name]:
			f, err := parseFind(c)
			if err != nil {
				return nil, err
			}
			cmd.Find = f
		case c.Prefix == "mod-before":
			cmd.Before = append(cmd.Before, payload(c))
		case c.Prefix == "mod-after":
			cmd.After = append(cmd.After, payload(c))
		default:
			return nil, fmt.Errorf("%w: <%s> inside mod:insertByFind", ErrUnknownTag, c.FullName())
		}
	}
	if cmd.Find == nil {
		return nil, fmt.Errorf("%w: mod:insertByFind is missing a find tag", ErrDirective)
	}
	if len(cmd.Before) == 0 && len(cmd.After) == 0 {
		return nil, fmt.Errorf("%w: mod:insertByFind requires at least one mod-before or mod-after tag", ErrDirective)
	}
	return cmd, nil
}

// payload detaches a payload element and strips its wrapper prefix along
// with any mod prefixes further down.
func payload(el *xmltree.Node) *xmltree.Node {
	el.Detach()
	el.Prefix = ""
	cleanPayload(el)
	return el
}

var payloadPrefixes = map[string]bool{
	"mod":           true,
	"mod-append":    true,
	"mod-prepend":   true,
	"mod-overwrite": true,
	"mod-before":    true,
	"mod-after":     true,
}

func cleanPayload(el *xmltree.Node) {
	if payloadPrefixes[el.Prefix] {
		el.Prefix = ""
	}
	for c := range el.Children() {
		cleanPayload(c)
	}
}

func boolAttr(el *xmltree.Node, name string, def bool) (bool, error) {
	raw, ok := el.Attr(name)
	if !ok {
		return def, nil
	}
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: mod:%s %s attribute must be a boolean, got %q", ErrDirective, el.Name, name, raw)
}

func intAttr(el *xmltree.Node, name string, def int) (int, error) {
	raw, ok := el.Attr(name)
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: mod:%s %s attribute must be an integer, got %q", ErrDirective, el.Name, name, raw)
	}
	return v, nil
}

func typeMatcher(el *xmltree.Node, attr string, isRegex bool) (*find.Matcher, error) {
	raw, ok := el.Attr(attr)
	if !ok {
		return nil, nil
	}
	if raw == "" {
		return nil, fmt.Errorf("%w: mod:%s %s attribute cannot be empty", ErrDirective, el.Name, attr)
	}
	m, err := find.NewMatcher(raw, isRegex)
	if err != nil {
		return nil, fmt.Errorf("%w: mod:%s %s: %v", ErrDirective, el.Name, attr, err)
	}
	return m, nil
}
