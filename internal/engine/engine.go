// Package engine executes custom differentiation rules.
//
// A differentiation request enters with a resolved activity pattern and a
// call-site config. The engine dispatches against the rule registry and runs
// the selected implementation:
//   - Forward rules run once, producing primal and derivative per the
//     requested return class.
//   - Reverse rules run in two phases per call instance: an augmented-primal
//     phase during the forward sweep that persists an opaque tape in the
//     engine's call record, and a reverse phase during the backward sweep
//     that consumes the tape exactly once and accumulates into argument
//     shadows.
//
// A request is single-threaded: one sequential forward sweep, then one
// sequential backward sweep in reverse data-flow order. The only bridge
// between the sweeps is the tape. When no rule admits the pattern the engine
// delegates to the automatic-transformation Fallback, or surfaces
// rules.ErrNoCustomRule when none is installed.
package engine

import (
	"fmt"

	"github.com/tangent-ml/tangent/internal/activity"
	"github.com/tangent-ml/tangent/internal/rules"
)

// Fallback is the automatic-transformation collaborator. The engine invokes
// it when dispatch reports no custom rule for a pattern; it differentiates
// the target function without user-supplied rules.
type Fallback interface {
	// Forward differentiates the call in forward mode.
	Forward(p rules.Pattern, cfg rules.Config, args []activity.Activity) (activity.Activity, error)

	// Augment runs the forward-sweep phase of reverse mode and returns the
	// reverse-sweep continuation alongside the augmented result.
	Augment(p rules.Pattern, cfg rules.Config, args []activity.Activity) (rules.AugmentedReturn, rules.Reverse, error)
}

// Engine dispatches differentiation requests to registered rules and owns
// the per-call execution records of an in-flight request.
type Engine struct {
	registry   *rules.Registry
	dispatcher *rules.Dispatcher
	fallback   Fallback
	calls      []*Call
}

// New creates an engine over the registry.
func New(registry *rules.Registry) *Engine {
	return &Engine{
		registry:   registry,
		dispatcher: rules.NewDispatcher(registry),
	}
}

// SetFallback installs the automatic-transformation collaborator.
func (e *Engine) SetFallback(f Fallback) {
	e.fallback = f
}

// Registry returns the engine's rule registry.
func (e *Engine) Registry() *rules.Registry {
	return e.registry
}

// Forward differentiates one call in forward mode. The selected rule runs
// exactly once; its result must match the requested return class or the
// call fails with a ContractViolationError.
func (e *Engine) Forward(p rules.Pattern, cfg rules.Config, args []activity.Activity) (activity.Activity, error) {
	if err := validateCall(p, cfg, args); err != nil {
		return nil, err
	}
	if p.Ret == activity.KindActive {
		return nil, fmt.Errorf("forward mode cannot request an Active return: %s", p)
	}

	entry, err := e.dispatcher.Select(p, cfg.Width, rules.ProtocolForward)
	if err != nil {
		if err == rules.ErrNoCustomRule && e.fallback != nil {
			res, ferr := e.fallback.Forward(p, cfg, args)
			if ferr != nil {
				return nil, ferr
			}
			if cerr := checkForwardResult(rules.Signature{Target: p.Target}, p.Ret, cfg, res); cerr != nil {
				return nil, cerr
			}
			return res, nil
		}
		return nil, err
	}

	res, err := entry.Forward()(cfg, p.Ret, args)
	if err != nil {
		return nil, fmt.Errorf("forward rule %s: %w", entry.Signature(), err)
	}
	if cerr := checkForwardResult(entry.Signature(), p.Ret, cfg, res); cerr != nil {
		return nil, cerr
	}
	return res, nil
}
