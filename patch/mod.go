// Package patch applies an ordered list of mods to a set of named base
// documents. Within one document the run is strictly sequential in mod
// load order; distinct documents share no state and are patched in
// parallel.
package patch

import (
	"archive/zip"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Metadata is the optional mod.yaml manifest at the root of a mod source.
type Metadata struct {
	Title       string `yaml:"title"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// Mod is one ordered bundle of directive documents and scripts. The core
// only consumes (path, bytes) pairs from the filesystem; directory, zip or
// any other fs.FS implementation works the same way.
type Mod struct {
	Name string
	FS   fs.FS
	Meta *Metadata

	closer func() error
}

// Title returns the manifest title when there is one, the source name
// otherwise.
func (m *Mod) Title() string {
	if m.Meta != nil && m.Meta.Title != "" {
		return m.Meta.Title
	}
	return m.Name
}

func (m *Mod) Close() error {
	if m.closer != nil {
		return m.closer()
	}
	return nil
}

// NewMod wraps an fs.FS as a mod source and reads its manifest if present.
func NewMod(name string, fsys fs.FS) *Mod {
	return &Mod{Name: name, FS: fsys, Meta: readMetadata(fsys)}
}

// DirMod opens a mod rooted at a directory.
func DirMod(path string) (*Mod, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("mod source %s is not a directory", path)
	}
	return NewMod(filepath.Base(path), os.DirFS(path)), nil
}

// ZipMod opens a mod packaged as a zip archive.
func ZipMod(path string) (*Mod, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open mod archive %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m := NewMod(name, r)
	m.closer = r.Close
	return m, nil
}

// OpenMod picks the source kind from the path: directories load directly,
// anything else is treated as a zip archive.
func OpenMod(path string) (*Mod, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return DirMod(path)
	}
	return ZipMod(path)
}

func readMetadata(fsys fs.FS) *Metadata {
	data, err := fs.ReadFile(fsys, "mod.yaml")
	if err != nil {
		return nil
	}
	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil
	}
	return &meta
}
