package rules

import (
	"errors"
	"fmt"
)

// ErrNoCustomRule signals that no registered rule admits a call pattern.
// It is a control signal, not a failure: the caller falls back to automatic
// transformation of the target function.
var ErrNoCustomRule = errors.New("no custom rule registered for call pattern")

// DuplicateRuleError reports registration of a signature identical to one
// already registered for the same protocol. Registration aborts immediately.
type DuplicateRuleError struct {
	Sig      Signature
	Protocol Protocol
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("duplicate %s rule for signature %s", e.Protocol, e.Sig)
}

// AmbiguousRuleError reports that two admitting signatures tie on
// specificity for a call pattern. Dispatch aborts; it is never silently
// downgraded to a fallback.
type AmbiguousRuleError struct {
	Pattern Pattern
	First   Signature
	Second  Signature
}

func (e *AmbiguousRuleError) Error() string {
	return fmt.Sprintf("ambiguous rules for %s: %s and %s are equally specific", e.Pattern, e.First, e.Second)
}
