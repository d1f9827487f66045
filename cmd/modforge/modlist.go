package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Modlist is a YAML file selecting and ordering the mods for a run:
//
//	mods:
//	  - path: mods/base-rework
//	  - path: mods/extras.zip
//	    enabled: false
type Modlist struct {
	Mods []ModEntry `yaml:"mods"`
}

type ModEntry struct {
	Path    string `yaml:"path"`
	Enabled *bool  `yaml:"enabled"`
}

func LoadModlist(path string) (*Modlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ml Modlist
	if err := yaml.Unmarshal(data, &ml); err != nil {
		return nil, fmt.Errorf("error decoding modlist %s: %w", path, err)
	}
	return &ml, nil
}

// Paths returns the enabled mod paths in list order. An entry without
// an enabled field counts as enabled.
func (ml *Modlist) Paths() []string {
	var out []string
	for _, e := range ml.Mods {
		if e.Enabled == nil || *e.Enabled {
			out = append(out, e.Path)
		}
	}
	return out
}

// resolveMods combines a modlist file, when given, with mod paths from
// the command line. Listed mods apply first.
func resolveMods(modlist string, args []string) ([]string, error) {
	if modlist == "" {
		return args, nil
	}
	ml, err := LoadModlist(modlist)
	if err != nil {
		return nil, err
	}
	return append(ml.Paths(), args...), nil
}
