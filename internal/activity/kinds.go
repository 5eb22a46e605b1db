package activity

import (
	"github.com/tangent-ml/tangent/internal/shadow"
	"github.com/tangent-ml/tangent/internal/tensor"
)

// Const wraps a value that does not participate in differentiation.
type Const struct {
	primal *tensor.Tensor
}

// NewConst creates a Const activity.
func NewConst(primal *tensor.Tensor) *Const {
	return &Const{primal: primal}
}

// Kind returns KindConst.
func (c *Const) Kind() Kind { return KindConst }

// Primal returns the wrapped value.
func (c *Const) Primal() *tensor.Tensor { return c.primal }

// Duplicated pairs a primal with a single mutable shadow of identical shape.
type Duplicated struct {
	primal *tensor.Tensor
	shadow *shadow.Slot
}

// NewDuplicated creates a Duplicated activity. The shadow must be a
// single-direction slot with the primal's shape.
func NewDuplicated(primal *tensor.Tensor, s *shadow.Slot) (*Duplicated, error) {
	if err := checkShadow(primal, s, 1, false); err != nil {
		return nil, err
	}
	return &Duplicated{primal: primal, shadow: s}, nil
}

// Kind returns KindDuplicated.
func (d *Duplicated) Kind() Kind { return KindDuplicated }

// Primal returns the wrapped value.
func (d *Duplicated) Primal() *tensor.Tensor { return d.primal }

// Shadow returns the derivative slot.
func (d *Duplicated) Shadow() *shadow.Slot { return d.shadow }

// DuplicatedNoNeed is Duplicated for values whose primal need not be
// materialized; only the derivative contribution is owed. The primal may
// be nil on results.
type DuplicatedNoNeed struct {
	primal *tensor.Tensor
	shadow *shadow.Slot
}

// NewDuplicatedNoNeed creates a DuplicatedNoNeed activity.
// A nil primal is permitted; shapes are validated when it is present.
func NewDuplicatedNoNeed(primal *tensor.Tensor, s *shadow.Slot) (*DuplicatedNoNeed, error) {
	if err := checkShadow(primal, s, 1, true); err != nil {
		return nil, err
	}
	return &DuplicatedNoNeed{primal: primal, shadow: s}, nil
}

// Kind returns KindDuplicatedNoNeed.
func (d *DuplicatedNoNeed) Kind() Kind { return KindDuplicatedNoNeed }

// Primal returns the wrapped value, possibly nil.
func (d *DuplicatedNoNeed) Primal() *tensor.Tensor { return d.primal }

// Shadow returns the derivative slot.
func (d *DuplicatedNoNeed) Shadow() *shadow.Slot { return d.shadow }

// Active wraps a non-mutable scalar whose derivative is passed by value
// through the reverse sweep. It never allocates a shadow.
type Active struct {
	primal *tensor.Tensor
}

// NewActive creates an Active activity.
func NewActive(primal *tensor.Tensor) *Active {
	return &Active{primal: primal}
}

// Kind returns KindActive.
func (a *Active) Kind() Kind { return KindActive }

// Primal returns the wrapped value.
func (a *Active) Primal() *tensor.Tensor { return a.primal }

// BatchDuplicated pairs a primal with a fixed-width batch of shadows, one
// per simultaneous differentiation direction.
type BatchDuplicated struct {
	primal *tensor.Tensor
	shadow *shadow.Slot
}

// NewBatchDuplicated creates a BatchDuplicated activity from a batch slot.
func NewBatchDuplicated(primal *tensor.Tensor, s *shadow.Slot) (*BatchDuplicated, error) {
	if err := checkShadow(primal, s, 0, false); err != nil {
		return nil, err
	}
	return &BatchDuplicated{primal: primal, shadow: s}, nil
}

// Kind returns KindBatchDuplicated.
func (b *BatchDuplicated) Kind() Kind { return KindBatchDuplicated }

// Primal returns the wrapped value.
func (b *BatchDuplicated) Primal() *tensor.Tensor { return b.primal }

// Shadow returns the batch derivative slot.
func (b *BatchDuplicated) Shadow() *shadow.Slot { return b.shadow }

// BatchDuplicatedNoNeed is BatchDuplicated without the obligation to
// materialize the primal.
type BatchDuplicatedNoNeed struct {
	primal *tensor.Tensor
	shadow *shadow.Slot
}

// NewBatchDuplicatedNoNeed creates a BatchDuplicatedNoNeed activity.
func NewBatchDuplicatedNoNeed(primal *tensor.Tensor, s *shadow.Slot) (*BatchDuplicatedNoNeed, error) {
	if err := checkShadow(primal, s, 0, true); err != nil {
		return nil, err
	}
	return &BatchDuplicatedNoNeed{primal: primal, shadow: s}, nil
}

// Kind returns KindBatchDuplicatedNoNeed.
func (b *BatchDuplicatedNoNeed) Kind() Kind { return KindBatchDuplicatedNoNeed }

// Primal returns the wrapped value, possibly nil.
func (b *BatchDuplicatedNoNeed) Primal() *tensor.Tensor { return b.primal }

// Shadow returns the batch derivative slot.
func (b *BatchDuplicatedNoNeed) Shadow() *shadow.Slot { return b.shadow }

// checkShadow validates a primal/shadow pairing. wantWidth 0 admits any
// width (batch classes); primalOptional admits a nil primal (NoNeed classes).
func checkShadow(primal *tensor.Tensor, s *shadow.Slot, wantWidth int, primalOptional bool) error {
	if s == nil {
		return &tensor.ShapeMismatchError{Context: "activity construction: nil shadow"}
	}
	if primal == nil {
		if primalOptional {
			return nil
		}
		return &tensor.ShapeMismatchError{Want: s.Shape(), Context: "activity construction: nil primal"}
	}
	if !primal.Shape().Equal(s.Shape()) {
		return &tensor.ShapeMismatchError{Want: primal.Shape(), Got: s.Shape(), Context: "activity construction"}
	}
	if wantWidth != 0 && s.Width() != wantWidth {
		return &tensor.ShapeMismatchError{Want: tensor.Shape{wantWidth}, Got: tensor.Shape{s.Width()}, Context: "activity construction: shadow width"}
	}
	return nil
}
