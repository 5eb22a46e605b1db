package rules

import (
	"fmt"
	"strings"

	"github.com/tangent-ml/tangent/internal/activity"
)

// Pattern is a call site's resolved activity pattern: which function is
// called, the requested return class, and the concrete class of each
// argument in order. The return class is chosen by the caller; registered
// rules only supply implementations for patterns, never select them.
type Pattern struct {
	Target Target
	Ret    activity.Kind
	Args   []activity.Kind
}

// PatternOf builds a pattern from a target, return class, and argument classes.
func PatternOf(target Target, ret activity.Kind, args ...activity.Kind) Pattern {
	return Pattern{Target: target, Ret: ret, Args: args}
}

// String formats the pattern like "f(Duplicated, Const) -> Active".
func (p Pattern) String() string {
	parts := make([]string, len(p.Args))
	for i, k := range p.Args {
		parts[i] = k.String()
	}
	return fmt.Sprintf("%s(%s) -> %s", p.Target.Name(), strings.Join(parts, ", "), p.Ret)
}
