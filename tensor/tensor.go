// Copyright 2026 Tangent ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense numeric buffers that hold primal values
// and derivative contributions.
package tensor

import "github.com/tangent-ml/tangent/internal/tensor"

// Shape represents the dimensions of a value.
type Shape = tensor.Shape

// Tensor is a dense row-major float64 buffer with a shape.
type Tensor = tensor.Tensor

// ShapeMismatchError reports a primal/derivative shape disagreement.
type ShapeMismatchError = tensor.ShapeMismatchError

// New creates a zero-initialized tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	return tensor.New(shape)
}

// FromSlice creates a tensor backed by a copy of data.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Scalar creates a 1-element tensor holding v.
func Scalar(v float64) *Tensor {
	return tensor.Scalar(v)
}

// Add returns a + b element-wise.
func Add(a, b *Tensor) (*Tensor, error) {
	return tensor.Add(a, b)
}

// Mul returns a * b element-wise.
func Mul(a, b *Tensor) (*Tensor, error) {
	return tensor.Mul(a, b)
}

// Scale returns alpha * a.
func Scale(alpha float64, a *Tensor) *Tensor {
	return tensor.Scale(alpha, a)
}

// Sum returns the sum of all elements.
func Sum(a *Tensor) float64 {
	return tensor.Sum(a)
}
