// Copyright 2026 Tangent ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package engine executes custom differentiation rules.
//
// Example:
//
//	reg := rules.NewRegistry()
//	// ... register rules ...
//	e := engine.New(reg)
//
//	call, aug, err := e.Augment(pattern, rules.DefaultConfig(), args)
//	// ... forward sweep continues, then reverse sweep ...
//	err = e.RunReverse(call, rules.ValueGradient(seed))
package engine

import (
	"github.com/tangent-ml/tangent/internal/engine"
	"github.com/tangent-ml/tangent/internal/rules"
)

// Engine dispatches differentiation requests to registered rules.
type Engine = engine.Engine

// New creates an engine over the registry.
func New(registry *rules.Registry) *Engine {
	return engine.New(registry)
}

// Call is the engine's execution record for one reverse-mode call instance.
type Call = engine.Call

// Fallback is the automatic-transformation collaborator invoked when no
// custom rule admits a pattern.
type Fallback = engine.Fallback

// Execution errors.
type (
	ContractViolationError = engine.ContractViolationError
	ProtocolViolationError = engine.ProtocolViolationError
)
