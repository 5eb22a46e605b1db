package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tangent-ml/tangent/internal/rules"
)

// ContractViolationError reports a rule whose result disagrees with its
// declared return class. Fatal to the differentiation request; never
// silently coerced.
type ContractViolationError struct {
	Sig    rules.Signature
	Reason string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("contract violation in rule %s: %s", e.Sig, e.Reason)
}

// ProtocolViolationError reports a breach of the two-phase reverse protocol:
// a reverse phase without its augmented-primal counterpart, or a tape
// consumed twice. It indicates an engine scheduling bug, not a recoverable
// user error.
type ProtocolViolationError struct {
	Call   uuid.UUID
	Reason string
}

func (e *ProtocolViolationError) Error() string {
	if e.Call == uuid.Nil {
		return fmt.Sprintf("protocol violation: %s", e.Reason)
	}
	return fmt.Sprintf("protocol violation in call %s: %s", e.Call, e.Reason)
}
