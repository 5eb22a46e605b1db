package rules

// Dispatcher selects the rule implementing a concrete call pattern.
// Selection is a pure function of the pattern, the function identity, and
// the batch width; rule bodies are never inspected.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over the registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Select returns the most specific registered entry admitting the pattern:
// the one with the fewest wildcarded positions. No admitting entry yields
// ErrNoCustomRule, signaling fallback to automatic transformation. A
// specificity tie yields an AmbiguousRuleError and aborts the request.
func (d *Dispatcher) Select(p Pattern, width int, proto Protocol) (*Entry, error) {
	matches := d.registry.Lookup(p, width, proto)
	if len(matches) == 0 {
		return nil, ErrNoCustomRule
	}

	best := matches[0]
	bestWildcards := best.sig.Wildcards()
	tied := false
	for _, e := range matches[1:] {
		switch w := e.sig.Wildcards(); {
		case w < bestWildcards:
			best, bestWildcards, tied = e, w, false
		case w == bestWildcards:
			tied = true
		}
	}
	if tied {
		// Re-scan for the other signature at the winning specificity.
		for _, e := range matches {
			if e != best && e.sig.Wildcards() == bestWildcards {
				return nil, &AmbiguousRuleError{Pattern: p, First: best.sig, Second: e.sig}
			}
		}
	}
	return best, nil
}
