package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tangent-ml/tangent/internal/activity"
	"github.com/tangent-ml/tangent/internal/rules"
	"github.com/tangent-ml/tangent/internal/shadow"
	"github.com/tangent-ml/tangent/internal/tensor"
)

func mustTensor(t *testing.T, data []float64) *tensor.Tensor {
	t.Helper()
	out, err := tensor.FromSlice(data, tensor.Shape{len(data)})
	require.NoError(t, err)
	return out
}

func mustSlot(t *testing.T, shape tensor.Shape) *shadow.Slot {
	t.Helper()
	s, err := shadow.NewSlot(shape)
	require.NoError(t, err)
	return s
}

func mustDuplicated(t *testing.T, primal *tensor.Tensor, s *shadow.Slot) *activity.Duplicated {
	t.Helper()
	d, err := activity.NewDuplicated(primal, s)
	require.NoError(t, err)
	return d
}

// fullTensor builds a tensor of the given shape with every element v.
func fullTensor(t *testing.T, v float64, shape tensor.Shape) *tensor.Tensor {
	t.Helper()
	out, err := tensor.New(shape)
	require.NoError(t, err)
	for i := range out.Data() {
		out.Data()[i] = v
	}
	return out
}

// scalarOf reads a 1-element tensor.
func scalarOf(t *testing.T, x *tensor.Tensor) float64 {
	t.Helper()
	v, err := x.ScalarValue()
	require.NoError(t, err)
	return v
}

// registerSquareSum registers both protocols for
//
//	f(y, x) = (y .= x.^2; sum(y))
//
// where y and x are Duplicated vectors. primalCalls, when non-nil, counts
// how often the augmented-primal half materializes the primal return.
func registerSquareSum(t *testing.T, reg *rules.Registry, primalCalls *int) rules.Target {
	t.Helper()
	f := rules.NewTarget("squareSum")

	fwdSig := rules.NewSignature(f,
		rules.AnyOf(activity.KindDuplicated, activity.KindDuplicatedNoNeed),
		rules.Exact(activity.KindDuplicated),
		rules.Exact(activity.KindDuplicated))
	require.NoError(t, reg.RegisterForward(fwdSig, func(_ rules.Config, ret activity.Kind, args []activity.Activity) (activity.Activity, error) {
		y := args[0].(*activity.Duplicated)
		x := args[1].(*activity.Duplicated)

		// y .= x^2
		xp, yp := x.Primal().Data(), y.Primal().Data()
		for i := range yp {
			yp[i] = xp[i] * xp[i]
		}

		// dy += 2x .* dx
		dx, err := x.Shadow().Value()
		if err != nil {
			return nil, err
		}
		contrib, err := tensor.Mul(tensor.Scale(2, x.Primal()), dx)
		if err != nil {
			return nil, err
		}
		if err := y.Shadow().Accumulate(contrib); err != nil {
			return nil, err
		}

		// d(sum(y)) = sum(dy)
		dy, err := y.Shadow().Value()
		if err != nil {
			return nil, err
		}
		dret, err := shadow.NewSlot(tensor.Shape{1})
		if err != nil {
			return nil, err
		}
		if err := dret.Accumulate(tensor.Scalar(tensor.Sum(dy))); err != nil {
			return nil, err
		}

		if ret == activity.KindDuplicatedNoNeed {
			return activity.NewDuplicatedNoNeed(nil, dret)
		}
		return activity.NewDuplicated(tensor.Scalar(tensor.Sum(y.Primal())), dret)
	}))

	revSig := rules.NewSignature(f,
		rules.Exact(activity.KindActive),
		rules.Exact(activity.KindDuplicated),
		rules.Exact(activity.KindDuplicated))
	require.NoError(t, reg.RegisterAugmentedPrimal(revSig, func(cfg rules.Config, _ activity.Kind, args []activity.Activity) (rules.AugmentedReturn, error) {
		y := args[0].(*activity.Duplicated)
		x := args[1].(*activity.Duplicated)

		xp, yp := x.Primal().Data(), y.Primal().Data()
		for i := range yp {
			yp[i] = xp[i] * xp[i]
		}

		// x may be overwritten between the sweeps; save it for the
		// reverse phase.
		aug := rules.AugmentedReturn{Tape: x.Primal().Clone()}
		if cfg.NeedsPrimal {
			if primalCalls != nil {
				*primalCalls++
			}
			aug.Primal = tensor.Scalar(tensor.Sum(y.Primal()))
		}
		return aug, nil
	}))
	require.NoError(t, reg.RegisterReverse(revSig, func(_ rules.Config, _ activity.Kind, args []activity.Activity, grad rules.ReturnGradient, tape any) error {
		y := args[0].(*activity.Duplicated)
		x := args[1].(*activity.Duplicated)
		saved := tape.(*tensor.Tensor)

		dret, err := grad.Value().ScalarValue()
		if err != nil {
			return err
		}

		// sum(y): every element of y receives dret.
		seed, err := tensor.New(y.Primal().Shape())
		if err != nil {
			return err
		}
		for i := range seed.Data() {
			seed.Data()[i] = dret
		}
		if err := y.Shadow().Accumulate(seed); err != nil {
			return err
		}

		// y .= x^2: dx += 2x .* dy.
		dy, err := y.Shadow().Value()
		if err != nil {
			return err
		}
		contrib, err := tensor.Mul(tensor.Scale(2, saved), dy)
		if err != nil {
			return err
		}
		return x.Shadow().Accumulate(contrib)
	}))

	return f
}

// registerSumScaled registers a reverse-mode rule for g(x) = c * sum(x)
// with an Active return.
func registerSumScaled(t *testing.T, reg *rules.Registry, name string, c float64) rules.Target {
	t.Helper()
	g := rules.NewTarget(name)
	sig := rules.NewSignature(g, rules.Exact(activity.KindActive), rules.Exact(activity.KindDuplicated))

	require.NoError(t, reg.RegisterAugmentedPrimal(sig, func(cfg rules.Config, _ activity.Kind, args []activity.Activity) (rules.AugmentedReturn, error) {
		x := args[0].(*activity.Duplicated)
		aug := rules.AugmentedReturn{}
		if cfg.NeedsPrimal {
			aug.Primal = tensor.Scalar(c * tensor.Sum(x.Primal()))
		}
		return aug, nil
	}))
	require.NoError(t, reg.RegisterReverse(sig, func(_ rules.Config, _ activity.Kind, args []activity.Activity, grad rules.ReturnGradient, _ any) error {
		x := args[0].(*activity.Duplicated)
		dret, err := grad.Value().ScalarValue()
		if err != nil {
			return err
		}
		seed, err := tensor.New(x.Primal().Shape())
		if err != nil {
			return err
		}
		for i := range seed.Data() {
			seed.Data()[i] = c * dret
		}
		return x.Shadow().Accumulate(seed)
	}))

	return g
}
