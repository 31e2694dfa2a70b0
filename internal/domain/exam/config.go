package exam

import "time"

// Limits is the per-module question and time budget.
type Limits struct {
	Questions int
	Duration  time.Duration
}

// DefaultLimits mirrors the classic 15-questions-in-15-minutes exam module.
var DefaultLimits = Limits{Questions: 15, Duration: 15 * time.Minute}

// Config maps module names to their budgets. Modules absent from the map
// use Default; a zero-valued Default falls back to DefaultLimits.
type Config struct {
	Default Limits
	Modules map[string]Limits
}

func (c Config) limitsFor(name string) Limits {
	if l, ok := c.Modules[name]; ok {
		return l
	}
	if c.Default != (Limits{}) {
		return c.Default
	}
	return DefaultLimits
}
