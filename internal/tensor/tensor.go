// Package tensor provides the dense numeric buffers that hold primal values
// and derivative contributions.
//
// The differentiation rule machinery only assumes values support addition and
// scalar multiplication; everything here is a float64 buffer with a shape.
// Element-wise kernels are delegated to gonum's floats package.
package tensor

import "fmt"

// Tensor is a dense row-major float64 buffer with a shape.
type Tensor struct {
	shape Shape
	data  []float64
}

// New creates a zero-initialized tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Tensor{
		shape: shape.Clone(),
		data:  make([]float64, shape.NumElements()),
	}, nil
}

// FromSlice creates a tensor backed by a copy of data.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t := &Tensor{
		shape: shape.Clone(),
		data:  make([]float64, len(data)),
	}
	copy(t.data, data)
	return t, nil
}

// Scalar creates a 1-element tensor holding v.
// Scalars travel through the engine as Shape{1} tensors.
func Scalar(v float64) *Tensor {
	return &Tensor{shape: Shape{1}, data: []float64{v}}
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns the underlying float64 slice.
// Mutations are visible to every holder of the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	c := &Tensor{
		shape: t.shape.Clone(),
		data:  make([]float64, len(t.data)),
	}
	copy(c.data, t.data)
	return c
}

// ScalarValue returns the single element of a 1-element tensor.
func (t *Tensor) ScalarValue() (float64, error) {
	if len(t.data) != 1 {
		return 0, fmt.Errorf("scalar value requested from tensor of shape %v", t.shape)
	}
	return t.data[0], nil
}
