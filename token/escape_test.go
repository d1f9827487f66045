package token

import "testing"

func TestUnescape(t *testing.T) {
	for _, tc := range []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"&lt;&gt;&amp;&apos;&quot;", `<>&'"`},
		{"&#65;&#x41;&#x2603;", "AA☃"},
		{"&unknown; &;", "&unknown; &;"},
		{"trailing &amp", "trailing &amp"},
		{"&#xzz; &#-1;", "&#xzz; &#-1;"},
		{"a&amp;b&amp;c", "a&b&c"},
	} {
		if got := Unescape(tc.in); got != tc.want {
			t.Errorf("Unescape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscape(t *testing.T) {
	if got := EscapeText(`a<b & "c"`); got != `a&lt;b &amp; "c"` {
		t.Errorf("EscapeText: %q", got)
	}
	if got := EscapeAttr(`a<b & "c"`); got != `a&lt;b &amp; &quot;c&quot;` {
		t.Errorf("EscapeAttr: %q", got)
	}
}
