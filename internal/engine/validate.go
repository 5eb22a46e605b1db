package engine

import (
	"fmt"

	"github.com/tangent-ml/tangent/internal/activity"
	"github.com/tangent-ml/tangent/internal/rules"
	"github.com/tangent-ml/tangent/internal/tensor"
)

// validateCall checks the caller-supplied pattern, config, and arguments
// against each other before dispatch.
func validateCall(p rules.Pattern, cfg rules.Config, args []activity.Activity) error {
	if cfg.Width < 1 {
		return fmt.Errorf("invalid width %d (must be >= 1)", cfg.Width)
	}
	if len(args) != len(p.Args) {
		return fmt.Errorf("pattern %s declares %d arguments, got %d", p, len(p.Args), len(args))
	}
	for i, a := range args {
		if a == nil {
			return fmt.Errorf("argument %d of %s is nil", i, p)
		}
		if a.Kind() != p.Args[i] {
			return fmt.Errorf("argument %d of %s is %s, pattern declares %s", i, p, a.Kind(), p.Args[i])
		}
		if s := activity.ShadowOf(a); s != nil {
			wantWidth := 1
			if a.Kind().Batched() {
				wantWidth = cfg.Width
			}
			if s.Width() != wantWidth {
				return &tensor.ShapeMismatchError{
					Want:    tensor.Shape{wantWidth},
					Got:     tensor.Shape{s.Width()},
					Context: fmt.Sprintf("argument %d shadow width", i),
				}
			}
		}
	}
	return nil
}

// checkForwardResult enforces the forward return-shape policy. A result
// disagreeing with the requested return class is a contract violation,
// surfaced immediately rather than coerced.
func checkForwardResult(sig rules.Signature, want activity.Kind, cfg rules.Config, res activity.Activity) error {
	if res == nil {
		return &ContractViolationError{Sig: sig, Reason: "rule returned no result"}
	}
	if res.Kind() != want {
		return &ContractViolationError{
			Sig:    sig,
			Reason: fmt.Sprintf("rule returned %s, call requested %s", res.Kind(), want),
		}
	}
	if want.MaterializesPrimal() && res.Primal() == nil {
		return &ContractViolationError{Sig: sig, Reason: fmt.Sprintf("%s result is missing its primal", want)}
	}
	if s := activity.ShadowOf(res); s != nil {
		wantWidth := 1
		if want.Batched() {
			wantWidth = cfg.Width
		}
		if s.Width() != wantWidth {
			return &ContractViolationError{
				Sig:    sig,
				Reason: fmt.Sprintf("result shadow has width %d, call requested %d", s.Width(), wantWidth),
			}
		}
	}
	return nil
}

// checkAugmentedReturn enforces the augmented-primal placeholder policy:
// the primal slot is filled precisely when requested and materializable,
// the shadow slot precisely when the return class carries a mutable output
// shadow.
func checkAugmentedReturn(sig rules.Signature, ret activity.Kind, cfg rules.Config, aug rules.AugmentedReturn) error {
	wantPrimal := cfg.NeedsPrimal && ret.MaterializesPrimal()
	if wantPrimal && aug.Primal == nil {
		return &ContractViolationError{Sig: sig, Reason: "augmented primal is missing the requested primal"}
	}

	wantShadow := ret == activity.KindDuplicated || ret == activity.KindBatchDuplicated
	if wantShadow {
		if aug.Shadow == nil {
			return &ContractViolationError{Sig: sig, Reason: fmt.Sprintf("%s return is missing its output shadow", ret)}
		}
		wantWidth := 1
		if ret.Batched() {
			wantWidth = cfg.Width
		}
		if aug.Shadow.Width() != wantWidth {
			return &ContractViolationError{
				Sig:    sig,
				Reason: fmt.Sprintf("output shadow has width %d, call requested %d", aug.Shadow.Width(), wantWidth),
			}
		}
	} else if aug.Shadow != nil {
		return &ContractViolationError{Sig: sig, Reason: fmt.Sprintf("%s return must not carry an output shadow", ret)}
	}
	return nil
}
