package token

import (
	"strconv"
	"strings"
)

// Unescape resolves character references in text or attribute content.
// Unknown or malformed references are passed through verbatim, matching
// the reference parser's recovery behavior.
func Unescape(s string) string {
	amp := strings.IndexByte(s, '&')
	if amp < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:amp])
	s = s[amp:]
	for len(s) > 0 {
		if s[0] != '&' {
			next := strings.IndexByte(s, '&')
			if next < 0 {
				b.WriteString(s)
				break
			}
			b.WriteString(s[:next])
			s = s[next:]
			continue
		}
		semi := strings.IndexByte(s, ';')
		if semi < 0 {
			b.WriteString(s)
			break
		}
		if r, ok := resolveRef(s[1:semi]); ok {
			b.WriteString(r)
		} else {
			b.WriteString(s[:semi+1])
		}
		s = s[semi+1:]
	}
	return b.String()
}

func resolveRef(name string) (string, bool) {
	switch name {
	case "lt":
		return "<", true
	case "gt":
		return ">", true
	case "amp":
		return "&", true
	case "apos":
		return "'", true
	case "quot":
		return "\"", true
	}
	if len(name) > 1 && name[0] == '#' {
		digits := name[1:]
		base := 10
		if digits[0] == 'x' || digits[0] == 'X' {
			digits = digits[1:]
			base = 16
		}
		n, err := strconv.ParseUint(digits, base, 32)
		if err != nil {
			return "", false
		}
		return string(rune(n)), true
	}
	return "", false
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;", "'", "&apos;")
)

func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
