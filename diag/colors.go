package diag

import (
	"fmt"

	"github.com/fatih/color"
)

// Colors maps the parts of a rendered diagnostic to sprintf-style
// colorizers.
type Colors struct {
	Label  func(string, ...any) string
	Path   func(string, ...any) string
	Gutter func(string, ...any) string
	Source func(string, ...any) string
	Caret  func(string, ...any) string
}

func NewColors() *Colors {
	return &Colors{
		Label:  color.RedString,
		Path:   color.New(color.Bold).Sprintf,
		Gutter: color.RGB(128, 168, 196).SprintfFunc(),
		Source: fmt.Sprintf,
		Caret:  color.RGB(255, 0, 196).SprintfFunc(),
	}
}

func NoColors() *Colors {
	return &Colors{
		Label:  fmt.Sprintf,
		Path:   fmt.Sprintf,
		Gutter: fmt.Sprintf,
		Source: fmt.Sprintf,
		Caret:  fmt.Sprintf,
	}
}
