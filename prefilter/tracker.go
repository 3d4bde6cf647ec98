package prefilter

// Tracker wraps a Prefilter and retires it when it stops paying off.
//
// A prefilter only saves work when it rejects lines. On input where nearly
// every line holds a candidate, the scan is pure overhead on top of the
// NFA. The tracker counts checks and rejects and, past a warmup period,
// disables the prefilter when the reject rate stays below a minimum.
// Once disabled, Find reports every position as a candidate.
//
// A Tracker is not safe for concurrent use. Create one per search.
//
// Example usage:
//
//	tr := prefilter.NewTracker(pf)
//	for line := start; line < n; line++ {
//	    col := tr.Find(text(line), 0)
//	    if col < 0 {
//	        continue // rejected
//	    }
//	    // run the NFA on line from col
//	}
type Tracker struct {
	inner Prefilter

	checks  uint64
	rejects uint64

	checkInterval  uint64
	minRejectRate  float64
	warmupPeriod   uint64
	lastCheckpoint uint64

	active bool
}

// TrackerConfig holds configuration for the effectiveness tracker.
type TrackerConfig struct {
	// CheckInterval is how often to check effectiveness, in calls to Find.
	// Default: 64
	CheckInterval uint64

	// MinRejectRate is the minimum share of calls that must reject.
	// Below it the prefilter is disabled.
	// Default: 0.1 (10%)
	MinRejectRate float64

	// WarmupPeriod is the number of calls before the first check.
	// Default: 128
	WarmupPeriod uint64
}

// DefaultTrackerConfig returns the default tracker configuration.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		CheckInterval: 64,
		MinRejectRate: 0.1,
		WarmupPeriod:  128,
	}
}

// NewTracker creates a tracker with the default config. Returns nil if inner
// is nil.
func NewTracker(inner Prefilter) *Tracker {
	return NewTrackerWithConfig(inner, DefaultTrackerConfig())
}

// NewTrackerWithConfig creates a tracker with a custom config. Returns nil if
// inner is nil.
func NewTrackerWithConfig(inner Prefilter, config TrackerConfig) *Tracker {
	if inner == nil {
		return nil
	}
	return &Tracker{
		inner:         inner,
		checkInterval: config.CheckInterval,
		minRejectRate: config.MinRejectRate,
		warmupPeriod:  config.WarmupPeriod,
		active:        true,
	}
}

// Find returns the inner prefilter's answer while active, and start once
// the prefilter has been disabled.
func (t *Tracker) Find(haystack []byte, start int) int {
	if !t.active {
		return start
	}
	pos := t.inner.Find(haystack, start)
	t.checks++
	if pos < 0 {
		t.rejects++
	}
	t.checkEffectiveness()
	return pos
}

// IsActive reports whether the prefilter is still consulted.
func (t *Tracker) IsActive() bool {
	return t.active
}

// IsPrefix delegates to the inner prefilter.
func (t *Tracker) IsPrefix() bool {
	return t.inner.IsPrefix()
}

// Stats returns (checks, rejects, reject rate, active).
func (t *Tracker) Stats() (checks, rejects uint64, rate float64, active bool) {
	checks = t.checks
	rejects = t.rejects
	if checks > 0 {
		rate = float64(rejects) / float64(checks)
	}
	active = t.active
	return
}

// Reset clears statistics and re-enables the prefilter.
func (t *Tracker) Reset() {
	t.checks = 0
	t.rejects = 0
	t.lastCheckpoint = 0
	t.active = true
}

// Inner returns the underlying prefilter.
func (t *Tracker) Inner() Prefilter {
	return t.inner
}

func (t *Tracker) checkEffectiveness() {
	if t.checks < t.warmupPeriod {
		return
	}
	if t.checks-t.lastCheckpoint < t.checkInterval {
		return
	}
	t.lastCheckpoint = t.checks

	if float64(t.rejects)/float64(t.checks) < t.minRejectRate {
		t.active = false
	}
}
