package script

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/modforge/modforge/xmltree"
)

// Pretty renders a script value for debugging. Maps print with sorted
// keys so acyclic structures render deterministically, and already-visited
// containers print as a cycle marker instead of recursing forever.
func Pretty(v any) string {
	var b strings.Builder
	prettyVal(&b, v, map[uintptr]bool{}, 0)
	return b.String()
}

func prettyVal(b *strings.Builder, v any, seen map[uintptr]bool, depth int) {
	switch t := v.(type) {
	case nil:
		b.WriteString("nil")
		return
	case string:
		b.WriteString(strconv.Quote(t))
		return
	case bool:
		b.WriteString(strconv.FormatBool(t))
		return
	case int:
		b.WriteString(strconv.Itoa(t))
		return
	case int64:
		b.WriteString(strconv.FormatInt(t, 10))
		return
	case float64:
		b.WriteString(xmltree.FormatFloat(t))
		return
	case *Iter:
		fmt.Fprintf(b, "<iter %d/%d>", t.pos, len(t.items))
		return
	case Handle:
		if st, ok := t["__state"].(handleState); ok {
			b.WriteString(xmltree.NodeString(st.n))
			return
		}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		ptr := rv.Pointer()
		if seen[ptr] {
			b.WriteString("<cycle>")
			return
		}
		seen[ptr] = true
		defer delete(seen, ptr)

		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		for _, k := range rv.MapKeys() {
			ks := fmt.Sprint(k.Interface())
			keys = append(keys, ks)
			byKey[ks] = rv.MapIndex(k)
		}
		sort.Strings(keys)
		b.WriteString("{")
		indent(b, depth+1)
		for i, k := range keys {
			if i > 0 {
				b.WriteString(",")
				indent(b, depth+1)
			}
			fmt.Fprintf(b, "%s: ", k)
			prettyVal(b, byKey[k].Interface(), seen, depth+1)
		}
		indent(b, depth)
		b.WriteString("}")
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice {
			ptr := rv.Pointer()
			if seen[ptr] {
				b.WriteString("<cycle>")
				return
			}
			seen[ptr] = true
			defer delete(seen, ptr)
		}
		b.WriteString("[")
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			prettyVal(b, rv.Index(i).Interface(), seen, depth+1)
		}
		b.WriteString("]")
	case reflect.Func:
		b.WriteString("<function>")
	default:
		fmt.Fprint(b, v)
	}
}

func indent(b *strings.Builder, depth int) {
	b.WriteString("\n")
	for range depth {
		b.WriteString("  ")
	}
}

// DeepEqual compares two script values structurally. Handles compare by
// node identity, numbers compare across int and float, and cyclic graphs
// terminate by treating an already-visited pair as equal.
func DeepEqual(a, b any) bool {
	return deepEqual(a, b, map[[2]uintptr]bool{})
}

func deepEqual(a, b any, seen map[[2]uintptr]bool) bool {
	if ha, ok := a.(Handle); ok {
		sa, aok := ha["__state"].(handleState)
		hb, ok := b.(Handle)
		if aok && ok {
			if sb, bok := hb["__state"].(handleState); bok {
				return sa.n == sb.n
			}
		}
	}
	if na, aok := toFloat(a); aok {
		if nb, bok := toFloat(b); bok {
			return na == nb
		}
		return false
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !ra.IsValid() || !rb.IsValid() {
		return ra.IsValid() == rb.IsValid()
	}
	if ra.Kind() != rb.Kind() {
		return false
	}
	switch ra.Kind() {
	case reflect.Map:
		pair := [2]uintptr{ra.Pointer(), rb.Pointer()}
		if seen[pair] {
			return true
		}
		seen[pair] = true
		if ra.Len() != rb.Len() {
			return false
		}
		for _, k := range ra.MapKeys() {
			bv := rb.MapIndex(k)
			if !bv.IsValid() {
				return false
			}
			if !deepEqual(ra.MapIndex(k).Interface(), bv.Interface(), seen) {
				return false
			}
		}
		return true
	case reflect.Slice, reflect.Array:
		if ra.Kind() == reflect.Slice {
			pair := [2]uintptr{ra.Pointer(), rb.Pointer()}
			if seen[pair] {
				return true
			}
			seen[pair] = true
		}
		if ra.Len() != rb.Len() {
			return false
		}
		for i := 0; i < ra.Len(); i++ {
			if !deepEqual(ra.Index(i).Interface(), rb.Index(i).Interface(), seen) {
				return false
			}
		}
		return true
	case reflect.Func:
		return ra.Pointer() == rb.Pointer()
	default:
		return a == b
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}
