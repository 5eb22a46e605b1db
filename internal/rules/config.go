package rules

// Config is call-site metadata independent of the activity pattern.
type Config struct {
	// Width is the number of simultaneous differentiation directions.
	// Width 1 means non-batched.
	Width int

	// NeedsPrimal reports whether the caller consumes the primal return
	// value. Augmented-primal rules must skip primal computation when it
	// is false; computing it anyway silently wastes work.
	NeedsPrimal bool
}

// DefaultConfig returns a non-batched config that requests the primal.
func DefaultConfig() Config {
	return Config{Width: 1, NeedsPrimal: true}
}
