package patch

import (
	"io/fs"

	"github.com/modforge/modforge/directive"
	"github.com/modforge/modforge/script"
)

// Files lists a mod's patch files in apply order, skipping anything
// that no suffix rule claims.
func Files(m *Mod) ([]string, error) {
	files, err := modFiles(m)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range files {
		if _, _, ok := targetFor(f); ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// Validate checks every patch file of a mod without applying anything:
// directive documents must parse and scripts must compile. It returns one
// error per broken file.
func Validate(m *Mod) []error {
	files, err := modFiles(m)
	if err != nil {
		return []error{&Error{Mod: m.Title(), File: ".", Err: err}}
	}
	var errs []error
	for _, f := range files {
		_, kind, ok := targetFor(f)
		if !ok {
			continue
		}
		data, err := fs.ReadFile(m.FS, f)
		if err != nil {
			errs = append(errs, &Error{Mod: m.Title(), File: f, Err: err})
			continue
		}
		text := decodeText(data)
		switch kind {
		case kindAppend:
			if _, err := directive.Parse(text); err != nil {
				errs = append(errs, &Error{Mod: m.Title(), File: f, Err: err})
			}
		case kindScript:
			if err := script.Check(string(text)); err != nil {
				errs = append(errs, &Error{Mod: m.Title(), File: f, Err: err})
			}
		}
	}
	return errs
}
