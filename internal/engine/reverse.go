package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tangent-ml/tangent/internal/activity"
	"github.com/tangent-ml/tangent/internal/rules"
)

// Augment runs the augmented-primal phase for one call during the forward
// sweep. The returned Call owns the rule's tape; hand it to RunReverse (or
// let ReverseSweep drive it) strictly after every downstream call has run
// its own reverse phase.
func (e *Engine) Augment(p rules.Pattern, cfg rules.Config, args []activity.Activity) (*Call, rules.AugmentedReturn, error) {
	if err := validateCall(p, cfg, args); err != nil {
		return nil, rules.AugmentedReturn{}, err
	}

	entry, err := e.dispatcher.Select(p, cfg.Width, rules.ProtocolReverse)
	if err != nil {
		if err == rules.ErrNoCustomRule && e.fallback != nil {
			return e.augmentFallback(p, cfg, args)
		}
		return nil, rules.AugmentedReturn{}, err
	}

	aug, err := entry.Augmented()(cfg, p.Ret, args)
	if err != nil {
		return nil, rules.AugmentedReturn{}, fmt.Errorf("augmented-primal rule %s: %w", entry.Signature(), err)
	}
	if cerr := checkAugmentedReturn(entry.Signature(), p.Ret, cfg, aug); cerr != nil {
		return nil, rules.AugmentedReturn{}, cerr
	}

	call := e.record(entry.Signature(), p, cfg, args, entry.Reverse(), aug)
	return call, aug, nil
}

// augmentFallback delegates the forward-sweep phase to the
// automatic-transformation collaborator and records its continuation.
func (e *Engine) augmentFallback(p rules.Pattern, cfg rules.Config, args []activity.Activity) (*Call, rules.AugmentedReturn, error) {
	aug, rev, err := e.fallback.Augment(p, cfg, args)
	if err != nil {
		return nil, rules.AugmentedReturn{}, err
	}
	sig := rules.Signature{Target: p.Target}
	if cerr := checkAugmentedReturn(sig, p.Ret, cfg, aug); cerr != nil {
		return nil, rules.AugmentedReturn{}, cerr
	}
	call := e.record(sig, p, cfg, args, rev, aug)
	return call, aug, nil
}

func (e *Engine) record(sig rules.Signature, p rules.Pattern, cfg rules.Config, args []activity.Activity, rev rules.Reverse, aug rules.AugmentedReturn) *Call {
	call := &Call{
		id:        uuid.New(),
		sig:       sig,
		pattern:   p,
		cfg:       cfg,
		args:      args,
		reverse:   rev,
		outShadow: aug.Shadow,
		tape:      aug.Tape,
	}
	e.calls = append(e.calls, call)
	return call
}

// RunReverse runs the reverse phase for one call, consuming its tape.
// grad carries the return value's derivative: by value for Active returns,
// as the output shadow for Duplicated returns. Each tape is consumed exactly
// once; a second invocation is a ProtocolViolationError.
func (e *Engine) RunReverse(c *Call, grad rules.ReturnGradient) error {
	if c == nil || c.reverse == nil {
		return &ProtocolViolationError{Reason: "reverse invoked without a completed augmented-primal phase"}
	}
	if c.consumed {
		return &ProtocolViolationError{Call: c.id, Reason: "tape already consumed"}
	}
	if err := checkReturnGradient(c.pattern.Ret, grad); err != nil {
		return err
	}

	// Take ownership of the tape before invoking the rule so a reentrant
	// or repeated invocation can never observe it again.
	tape := c.tape
	c.tape = nil
	c.consumed = true

	if err := c.reverse(c.cfg, c.pattern.Ret, c.args, grad, tape); err != nil {
		return fmt.Errorf("reverse rule %s: %w", c.sig, err)
	}
	return nil
}

// ReverseSweep runs the reverse phases of every recorded call in reverse
// forward-sweep order. final seeds the last call's return derivative; each
// earlier call consumes its own output shadow, into which downstream reverse
// phases have already accumulated. Calls whose return class carries no
// shadow (other than the final one) must be driven through RunReverse
// directly, since their derivative travels by value.
//
// Shadows hold partial sums until the sweep returns; read them only after
// it completes.
func (e *Engine) ReverseSweep(final rules.ReturnGradient) error {
	for i := len(e.calls) - 1; i >= 0; i-- {
		c := e.calls[i]
		grad := final
		if i != len(e.calls)-1 {
			if c.outShadow == nil {
				return fmt.Errorf("call %s (%s) has no output shadow; drive its reverse phase directly", c.id, c.pattern)
			}
			grad = rules.ShadowGradient(c.outShadow)
		}
		if err := e.RunReverse(c, grad); err != nil {
			return err
		}
	}
	return nil
}

// Calls returns the number of recorded call instances.
func (e *Engine) Calls() int {
	return len(e.calls)
}

// Reset discards all call records, abandoning any unconsumed tapes.
// Use between differentiation requests.
func (e *Engine) Reset() {
	e.calls = e.calls[:0]
}

// checkReturnGradient validates the gradient's transport against the
// return class.
func checkReturnGradient(ret activity.Kind, grad rules.ReturnGradient) error {
	switch {
	case ret == activity.KindActive && grad.Value() == nil:
		return &ProtocolViolationError{Reason: "Active return requires a by-value gradient"}
	case ret.HasShadow() && grad.Shadow() == nil:
		return &ProtocolViolationError{Reason: fmt.Sprintf("%s return requires an output shadow gradient", ret)}
	}
	return nil
}
