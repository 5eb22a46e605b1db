// Copyright 2026 Tangent ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package activity exposes the differentiability annotations attached to the
// arguments and return value of a differentiated call.
//
// Example:
//
//	x, _ := tensor.FromSlice([]float64{3, 1}, tensor.Shape{2})
//	dx, _ := shadow.NewSlot(x.Shape())
//	arg, _ := activity.NewDuplicated(x, dx)
package activity

import (
	"github.com/tangent-ml/tangent/internal/activity"
	"github.com/tangent-ml/tangent/internal/shadow"
	"github.com/tangent-ml/tangent/internal/tensor"
)

// Kind identifies an activity class.
type Kind = activity.Kind

// Activity classes.
const (
	KindConst                 = activity.KindConst
	KindDuplicated            = activity.KindDuplicated
	KindDuplicatedNoNeed      = activity.KindDuplicatedNoNeed
	KindActive                = activity.KindActive
	KindBatchDuplicated       = activity.KindBatchDuplicated
	KindBatchDuplicatedNoNeed = activity.KindBatchDuplicatedNoNeed
)

// Activity is an annotated value: an activity class plus the primal it wraps.
type Activity = activity.Activity

// Concrete activity types.
type (
	Const                 = activity.Const
	Duplicated            = activity.Duplicated
	DuplicatedNoNeed      = activity.DuplicatedNoNeed
	Active                = activity.Active
	BatchDuplicated       = activity.BatchDuplicated
	BatchDuplicatedNoNeed = activity.BatchDuplicatedNoNeed
)

// NewConst creates a Const activity.
func NewConst(primal *tensor.Tensor) *Const {
	return activity.NewConst(primal)
}

// NewDuplicated creates a Duplicated activity.
func NewDuplicated(primal *tensor.Tensor, s *shadow.Slot) (*Duplicated, error) {
	return activity.NewDuplicated(primal, s)
}

// NewDuplicatedNoNeed creates a DuplicatedNoNeed activity.
func NewDuplicatedNoNeed(primal *tensor.Tensor, s *shadow.Slot) (*DuplicatedNoNeed, error) {
	return activity.NewDuplicatedNoNeed(primal, s)
}

// NewActive creates an Active activity.
func NewActive(primal *tensor.Tensor) *Active {
	return activity.NewActive(primal)
}

// NewBatchDuplicated creates a BatchDuplicated activity.
func NewBatchDuplicated(primal *tensor.Tensor, s *shadow.Slot) (*BatchDuplicated, error) {
	return activity.NewBatchDuplicated(primal, s)
}

// NewBatchDuplicatedNoNeed creates a BatchDuplicatedNoNeed activity.
func NewBatchDuplicatedNoNeed(primal *tensor.Tensor, s *shadow.Slot) (*BatchDuplicatedNoNeed, error) {
	return activity.NewBatchDuplicatedNoNeed(primal, s)
}

// Kinds extracts the activity class of each element, in order.
func Kinds(args []Activity) []Kind {
	return activity.Kinds(args)
}

// ShadowOf returns the shadow storage of an activity, or nil for classes
// without one.
func ShadowOf(a Activity) *shadow.Slot {
	return activity.ShadowOf(a)
}
