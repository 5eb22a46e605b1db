// Copyright 2026 Tangent ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package rules is the registration surface for custom differentiation rules.
//
// A rule supplies hand-written derivatives for one target function under a
// declared activity-pattern signature. Forward rules implement one-pass
// forward mode; reverse rules are registered in two halves, an
// augmented-primal for the forward sweep and a reverse for the backward
// sweep, bridged by an opaque tape.
//
// Example:
//
//	reg := rules.NewRegistry()
//	f := rules.NewTarget("f")
//	sig := rules.NewSignature(f,
//	    rules.AnyOf(activity.KindDuplicated, activity.KindDuplicatedNoNeed),
//	    rules.Exact(activity.KindDuplicated))
//	err := reg.RegisterForward(sig, myForwardRule)
package rules

import (
	"github.com/tangent-ml/tangent/internal/activity"
	"github.com/tangent-ml/tangent/internal/rules"
)

// Registry stores custom rules keyed by target identity.
type Registry = rules.Registry

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return rules.NewRegistry()
}

// Dispatcher selects the rule implementing a concrete call pattern.
type Dispatcher = rules.Dispatcher

// NewDispatcher creates a dispatcher over the registry.
func NewDispatcher(r *Registry) *Dispatcher {
	return rules.NewDispatcher(r)
}

// Target identifies the function a rule differentiates.
type Target = rules.Target

// NewTarget creates a fresh function identity with a display name.
func NewTarget(name string) Target {
	return rules.NewTarget(name)
}

// Signature declares the patterns a registered rule implements.
type Signature = rules.Signature

// NewSignature builds a signature admitting any width.
func NewSignature(target Target, ret Constraint, args ...Constraint) Signature {
	return rules.NewSignature(target, ret, args...)
}

// Constraint restricts the activity classes a signature position admits.
type Constraint = rules.Constraint

// Exact returns a constraint admitting only k.
func Exact(k activity.Kind) Constraint {
	return rules.Exact(k)
}

// AnyOf returns a constraint admitting any of the given classes.
func AnyOf(kinds ...activity.Kind) Constraint {
	return rules.AnyOf(kinds...)
}

// Any returns the full wildcard constraint.
func Any() Constraint {
	return rules.Any()
}

// Pattern is a call site's resolved activity pattern.
type Pattern = rules.Pattern

// PatternOf builds a pattern from a target, return class, and argument classes.
func PatternOf(target Target, ret activity.Kind, args ...activity.Kind) Pattern {
	return rules.PatternOf(target, ret, args...)
}

// Config is call-site metadata independent of the activity pattern.
type Config = rules.Config

// DefaultConfig returns a non-batched config that requests the primal.
func DefaultConfig() Config {
	return rules.DefaultConfig()
}

// Rule implementation types.
type (
	Forward         = rules.Forward
	AugmentedPrimal = rules.AugmentedPrimal
	Reverse         = rules.Reverse
)

// AugmentedReturn is produced by an AugmentedPrimal invocation.
type AugmentedReturn = rules.AugmentedReturn

// ReturnGradient carries the derivative of a call's return value into its
// Reverse phase.
type ReturnGradient = rules.ReturnGradient

// ValueGradient wraps a by-value derivative (Active returns).
var ValueGradient = rules.ValueGradient

// ShadowGradient wraps an output shadow slot (Duplicated returns).
var ShadowGradient = rules.ShadowGradient

// Protocol identifies which differentiation protocol a rule implements.
type Protocol = rules.Protocol

// Supported protocols.
const (
	ProtocolForward = rules.ProtocolForward
	ProtocolReverse = rules.ProtocolReverse
)

// ErrNoCustomRule signals that no registered rule admits a call pattern.
var ErrNoCustomRule = rules.ErrNoCustomRule

// Registration and dispatch errors.
type (
	DuplicateRuleError = rules.DuplicateRuleError
	AmbiguousRuleError = rules.AmbiguousRuleError
)
