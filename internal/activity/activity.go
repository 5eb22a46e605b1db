// Package activity defines the differentiability annotations attached to the
// arguments and return value of a differentiated call.
//
// Every value entering dispatch carries exactly one Activity. The annotation
// decides what the callee owes the caller:
//   - Const values propagate no derivative obligations.
//   - Duplicated values pair the primal with a mutable shadow that the callee
//     reads (forward mode) or accumulates into (reverse mode).
//   - Active values are non-mutable scalars whose derivative travels by value
//     through the backward sweep; they never allocate a shadow.
//   - Batch variants carry a fixed-width batch of shadows so one sweep can
//     differentiate along several directions at once.
//
// The NoNeed variants additionally signal that the primal of the return value
// does not have to be materialized, letting rule authors skip recomputation
// the caller already possesses.
package activity

import (
	"github.com/tangent-ml/tangent/internal/shadow"
	"github.com/tangent-ml/tangent/internal/tensor"
)

// Kind identifies an activity class.
type Kind int

// Activity classes.
const (
	KindConst Kind = iota
	KindDuplicated
	KindDuplicatedNoNeed
	KindActive
	KindBatchDuplicated
	KindBatchDuplicatedNoNeed

	// KindCount is the number of activity classes.
	KindCount
)

// String returns the class name.
func (k Kind) String() string {
	switch k {
	case KindConst:
		return "Const"
	case KindDuplicated:
		return "Duplicated"
	case KindDuplicatedNoNeed:
		return "DuplicatedNoNeed"
	case KindActive:
		return "Active"
	case KindBatchDuplicated:
		return "BatchDuplicated"
	case KindBatchDuplicatedNoNeed:
		return "BatchDuplicatedNoNeed"
	default:
		return "Unknown"
	}
}

// HasShadow reports whether the class carries mutable shadow storage.
func (k Kind) HasShadow() bool {
	switch k {
	case KindDuplicated, KindDuplicatedNoNeed, KindBatchDuplicated, KindBatchDuplicatedNoNeed:
		return true
	default:
		return false
	}
}

// Batched reports whether the class carries a batch of shadows.
func (k Kind) Batched() bool {
	return k == KindBatchDuplicated || k == KindBatchDuplicatedNoNeed
}

// MaterializesPrimal reports whether a return value of this class must carry
// its primal. NoNeed and Active returns only owe their derivative contribution.
func (k Kind) MaterializesPrimal() bool {
	switch k {
	case KindConst, KindDuplicated, KindBatchDuplicated, KindActive:
		return true
	default:
		return false
	}
}

// Activity is an annotated value: an activity class plus the primal it wraps.
// Concrete types additionally expose shadow storage where the class calls
// for it.
type Activity interface {
	Kind() Kind
	// Primal returns the wrapped value. It is nil only on NoNeed results
	// whose primal was not materialized.
	Primal() *tensor.Tensor
}

// Kinds extracts the activity class of each element, in order.
// Useful for building call patterns from concrete argument lists.
func Kinds(args []Activity) []Kind {
	kinds := make([]Kind, len(args))
	for i, a := range args {
		kinds[i] = a.Kind()
	}
	return kinds
}

// ShadowOf returns the shadow storage of an activity, or nil for classes
// without one.
func ShadowOf(a Activity) *shadow.Slot {
	switch v := a.(type) {
	case *Duplicated:
		return v.Shadow()
	case *DuplicatedNoNeed:
		return v.Shadow()
	case *BatchDuplicated:
		return v.Shadow()
	case *BatchDuplicatedNoNeed:
		return v.Shadow()
	default:
		return nil
	}
}
