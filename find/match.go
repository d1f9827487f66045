// Package find implements the node selector language used to locate
// mutation targets. A selector is a predicate tree over tag names,
// attributes and text content, evaluated against the descendants of a
// context element in document order, with an optional result window.
package find

import (
	"fmt"
	"regexp"

	"github.com/modforge/modforge/xmltree"
)

// Matcher matches one string, either exactly or against an anchored
// regular expression.
type Matcher struct {
	fixed string
	re    *regexp.Regexp
}

func Fixed(s string) *Matcher {
	return &Matcher{fixed: s}
}

func Regex(pattern string) (*Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex filter: %w", err)
	}
	return &Matcher{re: re}, nil
}

// NewMatcher builds a fixed or regex matcher depending on the regex flag,
// mirroring how directive documents opt into regex matching per find tag.
func NewMatcher(pattern string, isRegex bool) (*Matcher, error) {
	if isRegex {
		return Regex(pattern)
	}
	return Fixed(pattern), nil
}

// MatchString reports whether s matches. A regex must cover the whole
// string, not a substring.
func (m *Matcher) MatchString(s string) bool {
	if m.re != nil {
		loc := m.re.FindStringIndex(s)
		return loc != nil && loc[0] == 0 && loc[1] == len(s)
	}
	return s == m.fixed
}

// MatchValue matches an attribute value. Fixed patterns compare through
// the typed coercion so the pattern 10 matches an attribute written as
// "10"; regexes always see the raw string.
func (m *Matcher) MatchValue(raw string) bool {
	if m.re != nil {
		return m.MatchString(raw)
	}
	return xmltree.ParseValue(m.fixed).Equal(xmltree.ParseValue(raw))
}

func (m *Matcher) String() string {
	if m.re != nil {
		return "/" + m.re.String() + "/"
	}
	return fmt.Sprintf("%q", m.fixed)
}
