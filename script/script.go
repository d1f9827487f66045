package script

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/modforge/modforge/debug"
	"github.com/modforge/modforge/xmltree"
)

// Runtime runs scripts against one patch context. Script evaluation is
// synchronous; the runtime never shares a live tree across documents.
type Runtime struct {
	context *xmltree.Node
}

func New(context *xmltree.Node) *Runtime {
	return &Runtime{context: context}
}

// Check compiles a script body without running it, for validation.
func Check(code string) error {
	if _, err := expr.Compile(code, expr.AllowUndefinedVariables()); err != nil {
		return fmt.Errorf("script compile: %w", err)
	}
	return nil
}

// Run compiles and executes one script body. The script sees the patch
// context as `document` plus the document-manipulation builtins; extra is
// merged on top and may shadow anything. The single result value of the
// script is returned, or nil when it produces none.
func (r *Runtime) Run(code string, extra map[string]any) (any, error) {
	env := r.baseEnv()
	for k, v := range extra {
		env[k] = v
	}
	if debug.Script() {
		debug.Logf("running script (%d bytes) against <%s>\n", len(code), r.context.FullName())
		if len(extra) > 0 {
			debug.Logf("script env: %s\n", extra)
		}
	}
	prg, err := expr.Compile(code, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("script compile: %w", err)
	}
	res, err := expr.Run(prg, env)
	if err != nil {
		return nil, fmt.Errorf("script run: %w", err)
	}
	return res, nil
}

func (r *Runtime) baseEnv() map[string]any {
	env := map[string]any{
		"document": NewHandle(r.context),
		"element": func(name string) Handle {
			return NewHandle(xmltree.NewElement(name))
		},
		"textNode": func(text string) Handle {
			return NewHandle(xmltree.NewText(text))
		},
		"parse": func(code string) (any, error) {
			nodes, err := xmltree.ParseFragment([]byte(code), xmltree.FragmentOptions())
			if err != nil {
				return nil, err
			}
			handles := make([]any, len(nodes))
			for i, n := range nodes {
				handles[i] = NewHandle(n)
			}
			return handles, nil
		},
		"readonly": func(h Handle) (any, error) {
			st, ok := h["__state"].(handleState)
			if !ok {
				return nil, fmt.Errorf("readonly expects a node handle")
			}
			return ReadOnly(st.n), nil
		},
		"pretty_string": func(v any) string {
			return Pretty(v)
		},
		"assert_equal": func(a, b any) (any, error) {
			if !DeepEqual(a, b) {
				return nil, fmt.Errorf("assertion failed: %s != %s", Pretty(a), Pretty(b))
			}
			return true, nil
		},
	}
	env["eval"] = func(args ...any) (any, error) {
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("eval expects (code) or (code, opts)")
		}
		code, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("eval code must be a string, got %T", args[0])
		}
		var callerEnv map[string]any
		name := "eval"
		if len(args) == 2 {
			opts, ok := args[1].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("eval opts must be a map, got %T", args[1])
			}
			if e, ok := opts["env"]; ok {
				callerEnv, ok = e.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("eval env must be a map, got %T", e)
				}
			}
			if p, ok := opts["path"].(string); ok {
				name = p
			}
		}
		res, err := r.Run(code, callerEnv)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return res, nil
	}
	return env
}
