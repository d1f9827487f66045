package debug

import (
	"encoding/json"
	"fmt"
	"os"
)

func Logf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg, expandArgs(args)...)
}

// expandArgs renders structured arguments as indented JSON so a %s verb
// produces something readable. Scalars pass through untouched.
func expandArgs(args []any) []any {
	for i := range args {
		a := args[i]
		switch a.(type) {
		case map[string]any, []any, json.Number:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case bool, string, float64, int:

		default:
		}
	}
	return args
}
