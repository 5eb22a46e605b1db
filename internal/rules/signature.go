package rules

import (
	"fmt"
	"strings"
)

// Signature declares the patterns a registered rule implements: the target
// function, a constraint on the return class, one constraint per argument,
// and an optional width restriction.
type Signature struct {
	Target Target
	Ret    Constraint
	Args   []Constraint

	// Width restricts the rule to one batch width. Zero admits any width.
	Width int
}

// NewSignature builds a signature admitting any width.
func NewSignature(target Target, ret Constraint, args ...Constraint) Signature {
	return Signature{Target: target, Ret: ret, Args: args}
}

// WithWidth returns a copy restricted to the given batch width.
func (s Signature) WithWidth(width int) Signature {
	s.Width = width
	return s
}

// Admits reports whether the signature admits a concrete call pattern at
// the given batch width.
func (s Signature) Admits(p Pattern, width int) bool {
	if s.Target.ID() != p.Target.ID() {
		return false
	}
	if s.Width != 0 && s.Width != width {
		return false
	}
	if len(s.Args) != len(p.Args) {
		return false
	}
	if !s.Ret.Admits(p.Ret) {
		return false
	}
	for i, c := range s.Args {
		if !c.Admits(p.Args[i]) {
			return false
		}
	}
	return true
}

// Wildcards counts the wildcarded positions (return plus arguments).
// Fewer wildcards means a more specific signature.
func (s Signature) Wildcards() int {
	n := 0
	if s.Ret.Wildcard() {
		n++
	}
	for _, c := range s.Args {
		if c.Wildcard() {
			n++
		}
	}
	return n
}

// Equal reports whether two signatures declare identical constraints.
func (s Signature) Equal(o Signature) bool {
	if s.Target.ID() != o.Target.ID() || s.Width != o.Width || !s.Ret.Equal(o.Ret) {
		return false
	}
	if len(s.Args) != len(o.Args) {
		return false
	}
	for i, c := range s.Args {
		if !c.Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// String formats the signature like "f(Duplicated, Any) -> Active [width=2]".
func (s Signature) String() string {
	parts := make([]string, len(s.Args))
	for i, c := range s.Args {
		parts[i] = c.String()
	}
	out := fmt.Sprintf("%s(%s) -> %s", s.Target.Name(), strings.Join(parts, ", "), s.Ret)
	if s.Width != 0 {
		out += fmt.Sprintf(" [width=%d]", s.Width)
	}
	return out
}
