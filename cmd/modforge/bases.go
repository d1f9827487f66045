package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// loadBases reads every .xml document under dir, keyed by its
// slash-separated path relative to dir.
func loadBases(dir string) (map[string][]byte, error) {
	bases := map[string][]byte{}
	root := os.DirFS(dir)
	err := fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".xml") {
			return nil
		}
		data, err := fs.ReadFile(root, path)
		if err != nil {
			return err
		}
		bases[path] = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error reading base documents from %s: %w", dir, err)
	}
	if len(bases) == 0 {
		return nil, fmt.Errorf("no .xml documents under %s", dir)
	}
	return bases, nil
}

// writeResults writes patched documents under dir, creating
// subdirectories as needed.
func writeResults(dir string, results map[string][]byte) error {
	for path, data := range results {
		dst := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return err
		}
	}
	return nil
}

func sortedPaths(m map[string][]byte) []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
