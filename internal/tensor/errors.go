package tensor

import "fmt"

// ShapeMismatchError reports a primal/derivative shape disagreement.
// It is an input-validation failure: the offending value never enters
// the differentiation machinery.
type ShapeMismatchError struct {
	Want    Shape
	Got     Shape
	Context string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch in %s: want %v, got %v", e.Context, e.Want, e.Got)
}
