package engine

import (
	"github.com/google/uuid"

	"github.com/tangent-ml/tangent/internal/activity"
	"github.com/tangent-ml/tangent/internal/rules"
	"github.com/tangent-ml/tangent/internal/shadow"
)

// Call is the engine's execution record for one reverse-mode call instance.
// It owns the tape produced by the augmented-primal phase until the reverse
// phase consumes it.
type Call struct {
	id      uuid.UUID
	sig     rules.Signature
	pattern rules.Pattern
	cfg     rules.Config
	args    []activity.Activity

	reverse   rules.Reverse
	outShadow *shadow.Slot
	tape      any
	consumed  bool
}

// ID returns the call record's identity.
func (c *Call) ID() uuid.UUID { return c.id }

// Pattern returns the call's activity pattern.
func (c *Call) Pattern() rules.Pattern { return c.pattern }

// OutputShadow returns the output shadow produced by the augmented-primal
// phase, or nil when the return class carries none.
func (c *Call) OutputShadow() *shadow.Slot { return c.outShadow }

// Consumed reports whether the reverse phase has run.
func (c *Call) Consumed() bool { return c.consumed }
