package validator

import (
	"time"

	"github.com/aretw0/introspection"
)

// State exposes the validator configuration and its last run for observability.
type State struct {
	Pattern      string      `json:"pattern"`
	Ignore       []string    `json:"ignore,omitempty"`
	MinSize      int64       `json:"min_size"`
	Workers      int         `json:"workers"`
	Rules        bool        `json:"rules"`
	CacheEntries int         `json:"cache_entries"`
	Runs         int         `json:"runs"`
	LastRoot     string      `json:"last_root,omitempty"`
	LastRun      *RunSummary `json:"last_run,omitempty"`
}

// RunSummary condenses a report to its counters.
type RunSummary struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
}

// State implements introspection.Introspectable.
func (v *Validator) State() any {
	v.mu.RLock()
	defer v.mu.RUnlock()

	s := State{
		Pattern:      v.collector.Pattern,
		Ignore:       v.collector.Ignore,
		MinSize:      v.minSize,
		Workers:      v.workers,
		Rules:        v.rules != nil,
		CacheEntries: v.cache.len(),
		Runs:         v.runs,
		LastRoot:     v.lastRoot,
	}
	if r := v.lastReport; r != nil {
		s.LastRun = &RunSummary{
			ID:        r.ID,
			StartedAt: r.StartedAt,
			Duration:  r.Duration,
			Total:     r.Total,
			Passed:    r.Passed,
			Failed:    r.Failed,
		}
	}
	return s
}

// ComponentType implements introspection.Component.
func (v *Validator) ComponentType() string {
	return "validator"
}

var _ introspection.Introspectable = (*Validator)(nil)
var _ introspection.Component = (*Validator)(nil)
