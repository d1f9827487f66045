package debug

import (
	"strings"
	"testing"
)

func TestExpandArgs(t *testing.T) {
	got := expandArgs([]any{
		map[string]any{"hull": 45, "name": "Kestrel"},
		[]any{1, 2},
		"plain",
		7,
	})
	m, ok := got[0].(string)
	if !ok {
		t.Fatalf("map not rendered: %T", got[0])
	}
	for _, want := range []string{`"hull": 45`, `"name": "Kestrel"`} {
		if !strings.Contains(m, want) {
			t.Errorf("rendered map %q missing %q", m, want)
		}
	}
	if s, ok := got[1].(string); !ok || !strings.Contains(s, "1") {
		t.Errorf("slice not rendered: %v", got[1])
	}
	if got[2] != "plain" || got[3] != 7 {
		t.Errorf("scalars changed: %v %v", got[2], got[3])
	}
}

func TestExpandArgsUnmarshalable(t *testing.T) {
	got := expandArgs([]any{map[string]any{"f": func() {}}})
	if _, ok := got[0].(string); !ok {
		t.Errorf("fallback rendering missing: %T", got[0])
	}
}
