// Copyright 2026 Tangent ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package shadow provides accumulate-only derivative storage.
//
// Shadow slots are shared across every call site contributing to the same
// value, so the only mutation offered is accumulation: s += d.
package shadow

import (
	"github.com/tangent-ml/tangent/internal/shadow"
	"github.com/tangent-ml/tangent/internal/tensor"
)

// Slot is an accumulate-only derivative buffer.
type Slot = shadow.Slot

// NewSlot creates a zeroed single-direction slot with the given shape.
func NewSlot(shape tensor.Shape) (*Slot, error) {
	return shadow.NewSlot(shape)
}

// NewBatchSlot creates a zeroed slot carrying width derivative directions.
func NewBatchSlot(shape tensor.Shape, width int) (*Slot, error) {
	return shadow.NewBatchSlot(shape, width)
}
