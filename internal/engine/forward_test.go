package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangent-ml/tangent/internal/activity"
	"github.com/tangent-ml/tangent/internal/engine"
	"github.com/tangent-ml/tangent/internal/rules"
	"github.com/tangent-ml/tangent/internal/shadow"
	"github.com/tangent-ml/tangent/internal/tensor"
)

// Differentiating g(y, x) = f(y, x)^2 with f(y, x) = (y .= x.^2; sum(y)),
// x = [3, 1], seed dx = [1, 0]:
//
//	df = sum(2x .* dx) = 6
//	dg = 2 * f * df = 2 * 10 * 6 = 120
//	dy = 2x .* dx = [6, 0]
func TestForward_SquareSumThenSquare(t *testing.T) {
	reg := rules.NewRegistry()
	e := engine.New(reg)
	f := registerSquareSum(t, reg, nil)

	x := mustTensor(t, []float64{3, 1})
	dx := mustSlot(t, tensor.Shape{2})
	require.NoError(t, dx.Accumulate(mustTensor(t, []float64{1, 0})))

	y := fullTensor(t, 0, tensor.Shape{2})
	dy := mustSlot(t, tensor.Shape{2})

	args := []activity.Activity{
		mustDuplicated(t, y, dy),
		mustDuplicated(t, x, dx),
	}
	p := rules.PatternOf(f, activity.KindDuplicated, activity.KindDuplicated, activity.KindDuplicated)

	res, err := e.Forward(p, rules.DefaultConfig(), args)
	require.NoError(t, err)

	dup, ok := res.(*activity.Duplicated)
	require.True(t, ok)
	fPrimal := scalarOf(t, dup.Primal())
	fTangentT, err := dup.Shadow().Value()
	require.NoError(t, err)
	fTangent := scalarOf(t, fTangentT)

	assert.InDelta(t, 10.0, fPrimal, 1e-12)
	assert.InDelta(t, 6.0, fTangent, 1e-12)

	// g = f^2 composes outside the rule.
	dg := 2 * fPrimal * fTangent
	assert.InDelta(t, 120.0, dg, 1e-12)

	dyVal, err := dy.Value()
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 0}, dyVal.Data())
	assert.Equal(t, []float64{9, 1}, y.Data())
}

func TestForward_DuplicatedNoNeedSkipsPrimal(t *testing.T) {
	reg := rules.NewRegistry()
	e := engine.New(reg)
	f := registerSquareSum(t, reg, nil)

	x := mustTensor(t, []float64{3, 1})
	dx := mustSlot(t, tensor.Shape{2})
	require.NoError(t, dx.Accumulate(mustTensor(t, []float64{1, 0})))

	args := []activity.Activity{
		mustDuplicated(t, fullTensor(t, 0, tensor.Shape{2}), mustSlot(t, tensor.Shape{2})),
		mustDuplicated(t, x, dx),
	}
	p := rules.PatternOf(f, activity.KindDuplicatedNoNeed, activity.KindDuplicated, activity.KindDuplicated)

	res, err := e.Forward(p, rules.DefaultConfig(), args)
	require.NoError(t, err)

	noNeed, ok := res.(*activity.DuplicatedNoNeed)
	require.True(t, ok)
	assert.Nil(t, noNeed.Primal(), "primal must not be materialized")

	tangent, err := noNeed.Shadow().Value()
	require.NoError(t, err)
	assert.InDelta(t, 6.0, scalarOf(t, tangent), 1e-12)
}

// The forward derivative of a registered rule must agree with the
// finite-difference derivative of the function it claims to implement.
func TestForward_MatchesFiniteDifference(t *testing.T) {
	reg := rules.NewRegistry()
	e := engine.New(reg)
	cube := rules.NewTarget("cube")

	sig := rules.NewSignature(cube, rules.Exact(activity.KindDuplicated), rules.Exact(activity.KindDuplicated))
	require.NoError(t, reg.RegisterForward(sig, func(_ rules.Config, _ activity.Kind, args []activity.Activity) (activity.Activity, error) {
		x := args[0].(*activity.Duplicated)
		v, err := x.Primal().ScalarValue()
		if err != nil {
			return nil, err
		}
		dx, err := x.Shadow().Value()
		if err != nil {
			return nil, err
		}
		dv, err := dx.ScalarValue()
		if err != nil {
			return nil, err
		}

		dret, err := shadow.NewSlot(tensor.Shape{1})
		if err != nil {
			return nil, err
		}
		if err := dret.Accumulate(tensor.Scalar(3 * v * v * dv)); err != nil {
			return nil, err
		}
		return activity.NewDuplicated(tensor.Scalar(v*v*v), dret)
	}))

	point := 1.7
	dx := mustSlot(t, tensor.Shape{1})
	require.NoError(t, dx.Accumulate(tensor.Scalar(1)))
	args := []activity.Activity{mustDuplicated(t, tensor.Scalar(point), dx)}
	p := rules.PatternOf(cube, activity.KindDuplicated, activity.KindDuplicated)

	res, err := e.Forward(p, rules.DefaultConfig(), args)
	require.NoError(t, err)

	dv, err := res.(*activity.Duplicated).Shadow().Value()
	require.NoError(t, err)

	eps := 1e-6
	numerical := (math.Pow(point+eps, 3) - math.Pow(point-eps, 3)) / (2 * eps)
	assert.InDelta(t, numerical, scalarOf(t, dv), 1e-6)
}

func TestForward_ContractViolation(t *testing.T) {
	reg := rules.NewRegistry()
	e := engine.New(reg)
	f := rules.NewTarget("liar")

	sig := rules.NewSignature(f, rules.Any(), rules.Exact(activity.KindConst))
	require.NoError(t, reg.RegisterForward(sig, func(_ rules.Config, _ activity.Kind, args []activity.Activity) (activity.Activity, error) {
		// Returns Const regardless of the requested class.
		return activity.NewConst(args[0].Primal()), nil
	}))

	args := []activity.Activity{activity.NewConst(tensor.Scalar(2))}
	p := rules.PatternOf(f, activity.KindDuplicated, activity.KindConst)

	_, err := e.Forward(p, rules.DefaultConfig(), args)
	var violation *engine.ContractViolationError
	require.ErrorAs(t, err, &violation)
	assert.Contains(t, violation.Reason, "Const")
}

func TestForward_NoRuleWithoutFallback(t *testing.T) {
	reg := rules.NewRegistry()
	e := engine.New(reg)
	f := rules.NewTarget("f")

	args := []activity.Activity{activity.NewConst(tensor.Scalar(1))}
	_, err := e.Forward(rules.PatternOf(f, activity.KindConst, activity.KindConst), rules.DefaultConfig(), args)
	assert.ErrorIs(t, err, rules.ErrNoCustomRule)
}

type stubFallback struct {
	forwardCalls int
}

func (s *stubFallback) Forward(_ rules.Pattern, _ rules.Config, args []activity.Activity) (activity.Activity, error) {
	s.forwardCalls++
	return activity.NewConst(args[0].Primal()), nil
}

func (s *stubFallback) Augment(rules.Pattern, rules.Config, []activity.Activity) (rules.AugmentedReturn, rules.Reverse, error) {
	return rules.AugmentedReturn{}, nil, nil
}

func TestForward_FallsBackWhenNoRuleMatches(t *testing.T) {
	reg := rules.NewRegistry()
	e := engine.New(reg)
	fb := &stubFallback{}
	e.SetFallback(fb)
	f := rules.NewTarget("f")

	args := []activity.Activity{activity.NewConst(tensor.Scalar(1))}
	res, err := e.Forward(rules.PatternOf(f, activity.KindConst, activity.KindConst), rules.DefaultConfig(), args)
	require.NoError(t, err)
	assert.Equal(t, activity.KindConst, res.Kind())
	assert.Equal(t, 1, fb.forwardCalls)
}

// Dispatch errors other than ErrNoCustomRule must abort the request, not
// trigger the fallback.
func TestForward_AmbiguityIsNotDowngradedToFallback(t *testing.T) {
	reg := rules.NewRegistry()
	e := engine.New(reg)
	fb := &stubFallback{}
	e.SetFallback(fb)
	f := rules.NewTarget("f")

	a := rules.NewSignature(f, rules.Any(), rules.Exact(activity.KindConst))
	b := rules.NewSignature(f, rules.AnyOf(activity.KindConst, activity.KindDuplicated), rules.Exact(activity.KindConst))
	require.NoError(t, reg.RegisterForward(a, noopRuleForward))
	require.NoError(t, reg.RegisterForward(b, noopRuleForward))

	args := []activity.Activity{activity.NewConst(tensor.Scalar(1))}
	_, err := e.Forward(rules.PatternOf(f, activity.KindConst, activity.KindConst), rules.DefaultConfig(), args)

	var ambiguous *rules.AmbiguousRuleError
	require.ErrorAs(t, err, &ambiguous)
	assert.Zero(t, fb.forwardCalls)
}

func noopRuleForward(_ rules.Config, _ activity.Kind, _ []activity.Activity) (activity.Activity, error) {
	return nil, nil
}

// One batched sweep computes derivatives along several directions at once.
func TestForward_BatchDuplicated(t *testing.T) {
	reg := rules.NewRegistry()
	e := engine.New(reg)
	double := rules.NewTarget("double")

	sig := rules.NewSignature(double,
		rules.Exact(activity.KindBatchDuplicated),
		rules.Exact(activity.KindBatchDuplicated))
	require.NoError(t, reg.RegisterForward(sig, func(cfg rules.Config, _ activity.Kind, args []activity.Activity) (activity.Activity, error) {
		x := args[0].(*activity.BatchDuplicated)

		out := tensor.Scale(2, x.Primal())
		dret, err := shadow.NewBatchSlot(out.Shape(), cfg.Width)
		if err != nil {
			return nil, err
		}
		for d := 0; d < cfg.Width; d++ {
			dir, err := x.Shadow().Direction(d)
			if err != nil {
				return nil, err
			}
			if err := dret.AccumulateDirection(d, tensor.Scale(2, dir)); err != nil {
				return nil, err
			}
		}
		return activity.NewBatchDuplicated(out, dret)
	}))

	x := mustTensor(t, []float64{5, 7})
	dx, err := shadow.NewBatchSlot(tensor.Shape{2}, 2)
	require.NoError(t, err)
	require.NoError(t, dx.AccumulateDirection(0, mustTensor(t, []float64{1, 0})))
	require.NoError(t, dx.AccumulateDirection(1, mustTensor(t, []float64{0, 1})))

	batched, err := activity.NewBatchDuplicated(x, dx)
	require.NoError(t, err)

	cfg := rules.Config{Width: 2, NeedsPrimal: true}
	p := rules.PatternOf(double, activity.KindBatchDuplicated, activity.KindBatchDuplicated)
	res, err := e.Forward(p, cfg, []activity.Activity{batched})
	require.NoError(t, err)

	out := res.(*activity.BatchDuplicated)
	assert.Equal(t, []float64{10, 14}, out.Primal().Data())

	d0, err := out.Shadow().Direction(0)
	require.NoError(t, err)
	d1, err := out.Shadow().Direction(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0}, d0.Data())
	assert.Equal(t, []float64{0, 2}, d1.Data())
}

func TestForward_WidthMismatchRejectedBeforeDispatch(t *testing.T) {
	reg := rules.NewRegistry()
	e := engine.New(reg)
	f := rules.NewTarget("f")

	x := mustTensor(t, []float64{1, 2})
	dx, err := shadow.NewBatchSlot(tensor.Shape{2}, 3)
	require.NoError(t, err)
	batched, err := activity.NewBatchDuplicated(x, dx)
	require.NoError(t, err)

	cfg := rules.Config{Width: 2, NeedsPrimal: true}
	p := rules.PatternOf(f, activity.KindBatchDuplicated, activity.KindBatchDuplicated)
	_, err = e.Forward(p, cfg, []activity.Activity{batched})

	var mismatch *tensor.ShapeMismatchError
	assert.ErrorAs(t, err, &mismatch)
}
