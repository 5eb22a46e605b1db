package tensor

import "gonum.org/v1/gonum/floats"

// Add returns a + b element-wise.
func Add(a, b *Tensor) (*Tensor, error) {
	if !a.shape.Equal(b.shape) {
		return nil, &ShapeMismatchError{Want: a.shape, Got: b.shape, Context: "add"}
	}
	c := a.Clone()
	floats.Add(c.data, b.data)
	return c, nil
}

// Mul returns a * b element-wise.
func Mul(a, b *Tensor) (*Tensor, error) {
	if !a.shape.Equal(b.shape) {
		return nil, &ShapeMismatchError{Want: a.shape, Got: b.shape, Context: "mul"}
	}
	c := a.Clone()
	floats.Mul(c.data, b.data)
	return c, nil
}

// Scale returns alpha * a.
func Scale(alpha float64, a *Tensor) *Tensor {
	c := a.Clone()
	floats.Scale(alpha, c.data)
	return c
}

// Sum returns the sum of all elements.
func Sum(a *Tensor) float64 {
	return floats.Sum(a.data)
}
