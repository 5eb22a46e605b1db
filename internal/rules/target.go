package rules

import "github.com/google/uuid"

// Target identifies the function a rule differentiates. Identity comes from
// the generated id, not the name: two targets created with the same name are
// distinct functions, and rules registered against one never apply to the
// other.
type Target struct {
	name string
	id   uuid.UUID
}

// NewTarget creates a fresh function identity with a display name.
func NewTarget(name string) Target {
	return Target{name: name, id: uuid.New()}
}

// Name returns the display name.
func (t Target) Name() string { return t.name }

// ID returns the identity key.
func (t Target) ID() uuid.UUID { return t.id }

// String returns the display name.
func (t Target) String() string { return t.name }
