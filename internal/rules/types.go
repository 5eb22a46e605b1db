package rules

import (
	"github.com/tangent-ml/tangent/internal/activity"
	"github.com/tangent-ml/tangent/internal/shadow"
	"github.com/tangent-ml/tangent/internal/tensor"
)

// Forward is a user-supplied forward-mode rule. It is invoked exactly once
// per matched call, may mutate input shadows in place, and must return an
// activity of the requested return class:
//   - Duplicated: primal and derivative together.
//   - DuplicatedNoNeed: derivative only; the primal may be omitted.
//   - Const: primal only.
//   - Batch variants: as above, with one derivative per direction.
type Forward func(cfg Config, ret activity.Kind, args []activity.Activity) (activity.Activity, error)

// AugmentedPrimal is the forward-sweep half of a reverse-mode rule. It runs
// with the original arguments, in ordinary evaluation order, and produces an
// AugmentedReturn. The primal must be computed only when cfg.NeedsPrimal.
type AugmentedPrimal func(cfg Config, ret activity.Kind, args []activity.Activity) (AugmentedReturn, error)

// Reverse is the backward-sweep half of a reverse-mode rule. It consumes the
// output derivative and the tape persisted by the matching AugmentedPrimal,
// and accumulates (never overwrites) derivative contributions into the
// argument shadows. Shadow mutation is its only effect.
type Reverse func(cfg Config, ret activity.Kind, args []activity.Activity, grad ReturnGradient, tape any) error

// AugmentedReturn is produced by an AugmentedPrimal invocation.
//
// Primal is nil unless the caller requested it (cfg.NeedsPrimal) and the
// return class materializes a primal. Shadow is nil unless the return class
// is Duplicated or BatchDuplicated, whose output shadow downstream consumers
// accumulate into. Tape is an opaque carry value the engine threads,
// unmodified, into the matching Reverse invocation; only the rule pair that
// produced it knows its shape.
type AugmentedReturn struct {
	Primal *tensor.Tensor
	Shadow *shadow.Slot
	Tape   any
}

// ReturnGradient carries the derivative of a call's return value into its
// Reverse phase. Active returns pass a plain value; Duplicated returns pass
// the output's shadow slot.
type ReturnGradient struct {
	value  *tensor.Tensor
	shadow *shadow.Slot
}

// ValueGradient wraps a by-value derivative (Active returns).
func ValueGradient(v *tensor.Tensor) ReturnGradient {
	return ReturnGradient{value: v}
}

// ShadowGradient wraps an output shadow slot (Duplicated returns).
func ShadowGradient(s *shadow.Slot) ReturnGradient {
	return ReturnGradient{shadow: s}
}

// Value returns the by-value derivative, or nil.
func (g ReturnGradient) Value() *tensor.Tensor { return g.value }

// Shadow returns the output shadow slot, or nil.
func (g ReturnGradient) Shadow() *shadow.Slot { return g.shadow }

// Protocol identifies which differentiation protocol a rule implements.
type Protocol int

// Supported protocols.
const (
	// ProtocolForward rules compute primal and derivative in one pass.
	ProtocolForward Protocol = iota
	// ProtocolReverse rules are an augmented-primal/reverse pair bridged
	// by a tape.
	ProtocolReverse
)

// String returns the protocol name.
func (p Protocol) String() string {
	switch p {
	case ProtocolForward:
		return "forward"
	case ProtocolReverse:
		return "reverse"
	default:
		return "unknown"
	}
}
