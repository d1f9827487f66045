package patch

import (
	"context"
	"fmt"
	"io/fs"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/modforge/modforge/debug"
	"github.com/modforge/modforge/directive"
	"github.com/modforge/modforge/script"
)

// Error carries the mod and file context of a failed patch operation.
type Error struct {
	Mod  string
	File string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("mod %s: %s: %v", e.Mod, e.File, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Options struct {
	// WrapperTag names the synthetic root tag of the target application,
	// such as "FTL". Empty disables wrapper handling.
	WrapperTag string
	// Workers bounds cross-document parallelism. Zero means one worker
	// per available CPU.
	Workers int
}

type fileKind int

const (
	kindAppend fileKind = iota
	kindRawAppend
	kindRawClobber
	kindScript
)

var fileSuffixes = []struct {
	suffix string
	kind   fileKind
}{
	{".xml.append", kindAppend},
	{".append.xml", kindAppend},
	{".xml.rawappend", kindRawAppend},
	{".rawappend.xml", kindRawAppend},
	{".xml.rawclobber", kindRawClobber},
	{".rawclobber.xml", kindRawClobber},
	{".append.script", kindScript},
}

// targetFor resolves a mod file name to the base document it patches.
func targetFor(name string) (target string, kind fileKind, ok bool) {
	for _, s := range fileSuffixes {
		if stem, found := strings.CutSuffix(name, s.suffix); found {
			return stem + ".xml", s.kind, true
		}
	}
	return "", 0, false
}

type task struct {
	mod  *Mod
	file string
	kind fileKind
}

// Apply patches the base documents with every mod in load order and
// returns the patched text per base path. On failure the returned map
// still holds each document's last successfully patched state alongside
// the error, so the caller decides whether a partial result is usable.
func Apply(ctx context.Context, bases map[string][]byte, mods []*Mod, opts Options) (map[string][]byte, error) {
	byLower := make(map[string]string, len(bases))
	for path := range bases {
		byLower[strings.ToLower(path)] = path
	}

	tasks := make(map[string][]task)
	for _, m := range mods {
		files, err := modFiles(m)
		if err != nil {
			return nil, &Error{Mod: m.Title(), File: ".", Err: err}
		}
		for _, f := range files {
			target, kind, ok := targetFor(f)
			if !ok {
				continue
			}
			base, ok := byLower[strings.ToLower(target)]
			if !ok {
				if debug.Patch() {
					debug.Logf("ignoring %s from %s: no base document %s\n", f, m.Title(), target)
				}
				continue
			}
			tasks[base] = append(tasks[base], task{mod: m, file: f, kind: kind})
		}
	}

	w := newWrapper(opts.WrapperTag)
	results := make(map[string][]byte, len(bases))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	limit := opts.Workers
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for path, data := range bases {
		g.Go(func() error {
			text, err := patchDocument(ctx, w, data, tasks[path])
			mu.Lock()
			results[path] = text
			mu.Unlock()
			return err
		})
	}
	err := g.Wait()
	return results, err
}

// modFiles lists a mod's files in a stable order.
func modFiles(m *Mod) ([]string, error) {
	var files []string
	err := fs.WalkDir(m.FS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// patchDocument runs one document's tasks strictly in order. Each task
// observes the text produced by the previous one.
func patchDocument(ctx context.Context, w *wrapper, base []byte, tasks []task) ([]byte, error) {
	text := string(decodeText(base))
	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			return []byte(text), err
		}
		data, err := fs.ReadFile(t.mod.FS, t.file)
		if err != nil {
			return []byte(text), &Error{Mod: t.mod.Title(), File: t.file, Err: err}
		}
		patchText := string(decodeText(data))
		if debug.Patch() {
			debug.Logf("applying %s from %s\n", t.file, t.mod.Title())
		}
		switch t.kind {
		case kindAppend:
			text, err = applyAppend(w, text, patchText)
		case kindRawAppend:
			text = rawAppend(w, text, patchText)
		case kindRawClobber:
			text = patchText
		case kindScript:
			text, err = applyScript(w, text, patchText)
		}
		if err != nil {
			return []byte(text), &Error{Mod: t.mod.Title(), File: t.file, Err: err}
		}
	}
	return []byte(text), nil
}

// applyAppend parses the base document and a directive document and runs
// the directives against the base tree.
func applyAppend(w *wrapper, base, patch string) (string, error) {
	stripped, hadWrapper := w.strip(base)
	doc, err := w.parse(stripped)
	if err != nil {
		return base, err
	}
	root := doc.Root()
	if root == nil {
		return base, fmt.Errorf("base document has no root element")
	}
	s, err := directive.Parse([]byte(patch))
	if err != nil {
		return base, err
	}
	if err := s.Apply(root); err != nil {
		return base, err
	}
	return w.render(doc, hadWrapper)
}

// applyScript exposes the base tree to a procedural script.
func applyScript(w *wrapper, base, code string) (string, error) {
	stripped, hadWrapper := w.strip(base)
	doc, err := w.parse(stripped)
	if err != nil {
		return base, err
	}
	root := doc.Root()
	if root == nil {
		return base, fmt.Errorf("base document has no root element")
	}
	if _, err := script.New(root).Run(code, nil); err != nil {
		return base, err
	}
	return w.render(doc, hadWrapper)
}

const xmlDeclaration = "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n"

// rawAppend joins two documents textually, used when a mod ships content
// that no selector can scope. The marker comment keeps the boundary
// visible in the output.
func rawAppend(w *wrapper, lower, upper string) string {
	const separator = "\n\n<!-- Appended by modforge -->\n\n"
	lowerText, hadWrapper := w.strip(lower)
	upperText, _ := w.strip(upper)

	var b strings.Builder
	b.WriteString(xmlDeclaration)
	if hadWrapper {
		b.WriteString("<" + w.tag + ">\n")
	}
	b.WriteString(lowerText)
	b.WriteString(separator)
	b.WriteString(upperText)
	b.WriteString("\n")
	if hadWrapper {
		b.WriteString("</" + w.tag + ">\n")
	}
	return b.String()
}
