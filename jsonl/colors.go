package jsonl

import (
	"strings"

	"github.com/fatih/color"
)

type painter func(string, ...any) string

// Colors holds the painters used for colored terminal output. The zero
// value paints nothing.
type Colors struct {
	key     painter
	str     painter
	number  painter
	boolean painter
	punct   painter
}

func NewColors() *Colors {
	c := &Colors{
		key:     color.RGB(128, 168, 196).SprintfFunc(),
		str:     color.RGB(8, 196, 16).SprintfFunc(),
		number:  color.RGB(128, 216, 236).SprintfFunc(),
		boolean: color.CyanString,
		punct:   color.RGB(196, 128, 128).SprintfFunc(),
	}
	c.key = escapePct(c.key)
	c.str = escapePct(c.str)
	c.number = escapePct(c.number)
	c.boolean = escapePct(c.boolean)
	c.punct = escapePct(c.punct)
	return c
}

// escapePct keeps literal percent signs out of the Sprintf-style
// painters.
func escapePct(f painter) painter {
	return func(v string, _ ...any) string {
		return f(strings.Replace(v, "%", "%%", -1))
	}
}
