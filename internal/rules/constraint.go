package rules

import (
	"strings"

	"github.com/tangent-ml/tangent/internal/activity"
)

// Constraint restricts the activity classes a signature position admits.
// A constraint is either a single concrete class or a union of several;
// a union position is a wildcard for dispatch-specificity purposes.
type Constraint struct {
	mask uint8 // bit per activity.Kind
}

// Exact returns a constraint admitting only k.
func Exact(k activity.Kind) Constraint {
	return Constraint{mask: 1 << uint(k)}
}

// AnyOf returns a constraint admitting any of the given classes.
// With no arguments it admits every class.
func AnyOf(kinds ...activity.Kind) Constraint {
	if len(kinds) == 0 {
		return Any()
	}
	var mask uint8
	for _, k := range kinds {
		mask |= 1 << uint(k)
	}
	return Constraint{mask: mask}
}

// Any returns the full wildcard constraint.
func Any() Constraint {
	return Constraint{mask: 1<<uint(activity.KindCount) - 1}
}

// Admits reports whether the constraint admits class k.
func (c Constraint) Admits(k activity.Kind) bool {
	return c.mask&(1<<uint(k)) != 0
}

// Wildcard reports whether the constraint admits more than one class.
func (c Constraint) Wildcard() bool {
	return c.mask&(c.mask-1) != 0
}

// Equal reports whether two constraints admit the same classes.
func (c Constraint) Equal(o Constraint) bool {
	return c.mask == o.mask
}

// String lists the admitted classes, e.g. "Duplicated|Const".
func (c Constraint) String() string {
	var parts []string
	for k := activity.Kind(0); k < activity.KindCount; k++ {
		if c.Admits(k) {
			parts = append(parts, k.String())
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	if len(parts) == int(activity.KindCount) {
		return "Any"
	}
	return strings.Join(parts, "|")
}
