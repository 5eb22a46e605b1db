// Package shadow implements derivative storage with an accumulate-only contract.
//
// A Slot holds the derivative of one value. Several call sites may contribute
// to the same slot during a backward sweep, so the only mutation it offers is
// "add this contribution": s += d. There is no setter. Plain assignment into
// shared derivative storage silently drops contributions from other
// data-flow paths, so the operation is kept off the API surface entirely.
//
// A slot created with NewBatchSlot carries width independent derivative
// directions over the same shape, so one sweep can differentiate along
// several seed directions at once.
package shadow

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/tangent-ml/tangent/internal/parallel"
	"github.com/tangent-ml/tangent/internal/tensor"
)

// Slot is an accumulate-only derivative buffer.
type Slot struct {
	shape tensor.Shape
	dirs  [][]float64 // one buffer per derivative direction
	cfg   parallel.Config
}

// NewSlot creates a zeroed single-direction slot with the given shape.
func NewSlot(shape tensor.Shape) (*Slot, error) {
	return NewBatchSlot(shape, 1)
}

// NewBatchSlot creates a zeroed slot carrying width derivative directions.
func NewBatchSlot(shape tensor.Shape, width int) (*Slot, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shadow shape: %w", err)
	}
	if width < 1 {
		return nil, fmt.Errorf("invalid shadow width %d (must be >= 1)", width)
	}
	dirs := make([][]float64, width)
	for d := range dirs {
		dirs[d] = make([]float64, shape.NumElements())
	}
	return &Slot{
		shape: shape.Clone(),
		dirs:  dirs,
		cfg:   parallel.DefaultConfig(),
	}, nil
}

// Shape returns the slot's shape.
func (s *Slot) Shape() tensor.Shape {
	return s.shape
}

// Width returns the number of derivative directions.
func (s *Slot) Width() int {
	return len(s.dirs)
}

// Accumulate adds d into a single-direction slot: s += d.
func (s *Slot) Accumulate(d *tensor.Tensor) error {
	if len(s.dirs) != 1 {
		return fmt.Errorf("accumulate on batch slot of width %d requires a direction", len(s.dirs))
	}
	return s.AccumulateDirection(0, d)
}

// AccumulateDirection adds d into direction dir: s[dir] += d.
func (s *Slot) AccumulateDirection(dir int, d *tensor.Tensor) error {
	if dir < 0 || dir >= len(s.dirs) {
		return fmt.Errorf("direction %d out of range for width %d", dir, len(s.dirs))
	}
	if !s.shape.Equal(d.Shape()) {
		return &tensor.ShapeMismatchError{Want: s.shape, Got: d.Shape(), Context: "shadow accumulate"}
	}
	floats.Add(s.dirs[dir], d.Data())
	return nil
}

// AccumulateScaled adds alpha*d into direction dir without materializing
// the scaled contribution.
func (s *Slot) AccumulateScaled(dir int, alpha float64, d *tensor.Tensor) error {
	if dir < 0 || dir >= len(s.dirs) {
		return fmt.Errorf("direction %d out of range for width %d", dir, len(s.dirs))
	}
	if !s.shape.Equal(d.Shape()) {
		return &tensor.ShapeMismatchError{Want: s.shape, Got: d.Shape(), Context: "shadow accumulate"}
	}
	floats.AddScaled(s.dirs[dir], alpha, d.Data())
	return nil
}

// AccumulateBatch adds one contribution per direction: s[d] += ds[d].
func (s *Slot) AccumulateBatch(ds []*tensor.Tensor) error {
	if len(ds) != len(s.dirs) {
		return fmt.Errorf("got %d contributions for width %d", len(ds), len(s.dirs))
	}
	for _, d := range ds {
		if !s.shape.Equal(d.Shape()) {
			return &tensor.ShapeMismatchError{Want: s.shape, Got: d.Shape(), Context: "shadow accumulate"}
		}
	}
	n := s.shape.NumElements()
	parallel.ForDirections(len(s.dirs), n, func(d, i int) {
		s.dirs[d][i] += ds[d].Data()[i]
	}, s.cfg)
	return nil
}

// Value returns a copy of a single-direction slot's contents.
func (s *Slot) Value() (*tensor.Tensor, error) {
	if len(s.dirs) != 1 {
		return nil, fmt.Errorf("value of batch slot of width %d requires a direction", len(s.dirs))
	}
	return s.Direction(0)
}

// Direction returns a copy of one direction's contents.
// Copies keep the accumulate-only contract: callers cannot write through
// the returned tensor.
func (s *Slot) Direction(dir int) (*tensor.Tensor, error) {
	if dir < 0 || dir >= len(s.dirs) {
		return nil, fmt.Errorf("direction %d out of range for width %d", dir, len(s.dirs))
	}
	return tensor.FromSlice(s.dirs[dir], s.shape)
}
