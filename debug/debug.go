package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Parse  bool
	Find   bool
	Patch  bool
	Script bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("MODFORGE_DEBUG_PARSE")
	d.Find = boolEnv("MODFORGE_DEBUG_FIND")
	d.Patch = boolEnv("MODFORGE_DEBUG_PATCH")
	d.Script = boolEnv("MODFORGE_DEBUG_SCRIPT")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Find() bool {
	return d.Find
}
func Patch() bool {
	return d.Patch
}
func Script() bool {
	return d.Script
}
