// Package rules stores custom differentiation rules and selects the one
// matching a call site's resolved activity pattern.
//
// Rules are keyed by (target function identity, return constraint, ordered
// argument constraints, width). A constraint is a concrete activity class or
// a union of several; unions act as wildcards during dispatch. Selection
// mirrors multiple dispatch in an explicit table: among all admitting
// signatures the one with the fewest wildcarded positions wins, ties are an
// error, and rule bodies are never inspected.
package rules

import (
	"sync"

	"github.com/google/uuid"
)

// Entry is one registered rule: a signature plus the implementation for one
// protocol. Reverse entries hold both halves of the augmented-primal/reverse
// pair; an entry missing a half is never admitted to dispatch.
type Entry struct {
	sig      Signature
	protocol Protocol

	forward   Forward
	augmented AugmentedPrimal
	reverse   Reverse
}

// Signature returns the entry's declared signature.
func (e *Entry) Signature() Signature { return e.sig }

// Protocol returns the protocol the entry implements.
func (e *Entry) Protocol() Protocol { return e.protocol }

// Forward returns the forward implementation, or nil.
func (e *Entry) Forward() Forward { return e.forward }

// Augmented returns the augmented-primal implementation, or nil.
func (e *Entry) Augmented() AugmentedPrimal { return e.augmented }

// Reverse returns the reverse implementation, or nil.
func (e *Entry) Reverse() Reverse { return e.reverse }

// complete reports whether the entry can be dispatched to.
func (e *Entry) complete() bool {
	if e.protocol == ProtocolForward {
		return e.forward != nil
	}
	return e.augmented != nil && e.reverse != nil
}

// Registry stores custom rules keyed by target identity.
type Registry struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[uuid.UUID][]*Entry)}
}

// RegisterForward stores a forward-mode rule for the signature.
func (r *Registry) RegisterForward(sig Signature, impl Forward) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(sig, ProtocolForward) != nil {
		return &DuplicateRuleError{Sig: sig, Protocol: ProtocolForward}
	}
	r.entries[sig.Target.ID()] = append(r.entries[sig.Target.ID()], &Entry{
		sig:      sig,
		protocol: ProtocolForward,
		forward:  impl,
	})
	return nil
}

// RegisterAugmentedPrimal stores the forward-sweep half of a reverse-mode
// rule. The signature becomes dispatchable once RegisterReverse supplies the
// matching backward-sweep half.
func (r *Registry) RegisterAugmentedPrimal(sig Signature, impl AugmentedPrimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e := r.find(sig, ProtocolReverse); e != nil {
		if e.augmented != nil {
			return &DuplicateRuleError{Sig: sig, Protocol: ProtocolReverse}
		}
		e.augmented = impl
		return nil
	}
	r.entries[sig.Target.ID()] = append(r.entries[sig.Target.ID()], &Entry{
		sig:       sig,
		protocol:  ProtocolReverse,
		augmented: impl,
	})
	return nil
}

// RegisterReverse stores the backward-sweep half of a reverse-mode rule.
func (r *Registry) RegisterReverse(sig Signature, impl Reverse) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e := r.find(sig, ProtocolReverse); e != nil {
		if e.reverse != nil {
			return &DuplicateRuleError{Sig: sig, Protocol: ProtocolReverse}
		}
		e.reverse = impl
		return nil
	}
	r.entries[sig.Target.ID()] = append(r.entries[sig.Target.ID()], &Entry{
		sig:      sig,
		protocol: ProtocolReverse,
		reverse:  impl,
	})
	return nil
}

// Lookup returns every complete entry whose signature admits the pattern at
// the given width, for one protocol.
func (r *Registry) Lookup(p Pattern, width int, proto Protocol) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Entry
	for _, e := range r.entries[p.Target.ID()] {
		if e.protocol != proto || !e.complete() {
			continue
		}
		if e.sig.Admits(p, width) {
			out = append(out, e)
		}
	}
	return out
}

// Rules lists the registered signatures for a target, for introspection.
func (r *Registry) Rules(target Target) []Signature {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.entries[target.ID()]
	sigs := make([]Signature, 0, len(entries))
	for _, e := range entries {
		sigs = append(sigs, e.sig)
	}
	return sigs
}

// find locates the entry with an identical signature for a protocol.
// Caller holds the lock.
func (r *Registry) find(sig Signature, proto Protocol) *Entry {
	for _, e := range r.entries[sig.Target.ID()] {
		if e.protocol == proto && e.sig.Equal(sig) {
			return e
		}
	}
	return nil
}
