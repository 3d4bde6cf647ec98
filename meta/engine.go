package meta

import (
	"log/slog"
	"sync/atomic"

	"github.com/coregx/vimre/charclass"
	"github.com/coregx/vimre/nfa"
	"github.com/coregx/vimre/prefilter"
	"github.com/coregx/vimre/syntax"
)

// Engine is a compiled pattern together with everything needed to search
// with it.
//
// The Engine:
//  1. Parses the pattern and compiles the NFA program
//  2. Resolves case sensitivity (config, smart case, \c and \C)
//  3. Selects the strategy and builds the prefilter
//  4. Runs searches with pooled match contexts
//
// Thread safety: the program, the prefilter and the option tables are
// immutable after compilation. Per-search mutable state comes from a
// sync.Pool, so one Engine serves concurrent searches.
//
// Example:
//
//	engine, err := meta.Compile(`\<\(foo\|bar\)\d\+`, meta.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	out, err := engine.Exec(lines, 0, 0, meta.ExecOptions{})
type Engine struct {
	// Statistics (useful for debugging and tuning)
	// IMPORTANT: stats MUST be first field for proper 8-byte alignment on 32-bit platforms.
	// This ensures atomic operations on uint64 fields work correctly.
	stats Stats

	prog       *nfa.Program
	pikevm     *nfa.PikeVM
	prefilter  prefilter.Prefilter
	strategy   Strategy
	config     Config
	tables     *charclass.Tables
	ignoreCase bool
	lookbehind bool
	statePool  *searchStatePool
	logger     *slog.Logger
}

// Stats tracks execution statistics for performance analysis.
type Stats struct {
	// Searches counts Exec and Search calls.
	Searches uint64

	// LinesScanned counts lines the PikeVM ran on.
	LinesScanned uint64

	// PrefilterRejects counts lines the prefilter skipped.
	PrefilterRejects uint64

	// Matches counts successful searches.
	Matches uint64

	// Cancellations counts searches stopped by their canceller.
	Cancellations uint64

	// Degraded counts matches where a look-around hit the depth limit.
	Degraded uint64
}

// ExecOptions are the per-call inputs that do not come from the config.
type ExecOptions struct {
	// Cancel is polled at every text position. May be nil.
	Cancel nfa.Canceller

	// External supplies \z1..\z9 for patterns compiled with
	// ExternalAllowUse. May be nil.
	External nfa.ExternalRefs

	// MaxCol stops trying start positions at this byte offset of the
	// first line. 0 means no limit.
	MaxCol int
}

// Compile parses and compiles pattern.
//
// A syntax error is returned as *syntax.Error, an invalid config as
// *ConfigError.
func Compile(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	tables, err := config.tables()
	if err != nil {
		return nil, &ConfigError{Field: "Is*", Message: err.Error(), Err: err}
	}

	p, err := syntax.Parse(pattern, config.flags())
	if err != nil {
		return nil, err
	}
	prog, err := nfa.Compile(p)
	if err != nil {
		return nil, err
	}

	ic := config.ignoreCase(pattern)
	if forced, ok := prog.CaseOverride(); ok {
		ic = forced
	}
	strategy, pf := SelectStrategy(prog, p, config, ic)

	e := &Engine{
		prog:       prog,
		pikevm:     nfa.NewPikeVM(prog),
		prefilter:  pf,
		strategy:   strategy,
		config:     config,
		tables:     tables,
		ignoreCase: ic,
		lookbehind: p.HasLookbehind,
		statePool:  newSearchStatePool(prog),
		logger:     config.Logger,
	}
	if e.logger != nil {
		attrs := []any{
			"pattern", pattern,
			"strategy", strategy,
			"states", prog.States(),
			"groups", prog.Groups(),
			"ignore_case", ic,
		}
		if pf != nil {
			attrs = append(attrs, "prefilter", pf.String())
		}
		e.logger.Debug("compiled pattern", attrs...)
	}
	return e, nil
}

// Program returns the compiled NFA program.
func (e *Engine) Program() *nfa.Program { return e.prog }

// Strategy returns the execution strategy selected for this engine.
func (e *Engine) Strategy() Strategy { return e.strategy }

// Prefilter returns the line prefilter, or nil.
func (e *Engine) Prefilter() prefilter.Prefilter { return e.prefilter }

// IgnoreCase reports the resolved case sensitivity.
func (e *Engine) IgnoreCase() bool { return e.ignoreCase }

// Config returns the configuration the engine was compiled with.
func (e *Engine) Config() Config { return e.config }

// Stats returns a snapshot of the execution statistics.
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:         atomic.LoadUint64(&e.stats.Searches),
		LinesScanned:     atomic.LoadUint64(&e.stats.LinesScanned),
		PrefilterRejects: atomic.LoadUint64(&e.stats.PrefilterRejects),
		Matches:          atomic.LoadUint64(&e.stats.Matches),
		Cancellations:    atomic.LoadUint64(&e.stats.Cancellations),
		Degraded:         atomic.LoadUint64(&e.stats.Degraded),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	atomic.StoreUint64(&e.stats.Searches, 0)
	atomic.StoreUint64(&e.stats.LinesScanned, 0)
	atomic.StoreUint64(&e.stats.PrefilterRejects, 0)
	atomic.StoreUint64(&e.stats.Matches, 0)
	atomic.StoreUint64(&e.stats.Cancellations, 0)
	atomic.StoreUint64(&e.stats.Degraded, 0)
}

func (e *Engine) execOptions(opts ExecOptions) nfa.ExecOptions {
	return nfa.ExecOptions{
		Cancel:       opts.Cancel,
		External:     opts.External,
		IgnoreCase:   e.ignoreCase,
		Tables:       e.tables,
		TabStop:      e.config.TabStop,
		MaxLookDepth: e.config.MaxLookDepth,
		MaxThreads:   e.config.MaxThreads,
		MaxCol:       opts.MaxCol,
	}
}

// Exec finds the first match that starts on line at or after col. In
// multi-line mode the match may continue on later lines.
func (e *Engine) Exec(in nfa.Input, line, col int, opts ExecOptions) (nfa.Outcome, error) {
	atomic.AddUint64(&e.stats.Searches, 1)
	state := e.statePool.get()
	defer e.statePool.put(state)
	return e.execLine(state, in, line, col, opts, nil)
}

// Search finds the first match starting at line, col or on any later
// line. It returns the line the match starts on.
func (e *Engine) Search(in nfa.Input, line, col int, opts ExecOptions) (int, nfa.Outcome, error) {
	atomic.AddUint64(&e.stats.Searches, 1)
	state := e.statePool.get()
	defer e.statePool.put(state)

	var tracker *prefilter.Tracker
	if e.prefilter != nil {
		tracker = prefilter.NewTracker(e.prefilter)
	}
	last := max(in.LineCount()-1, 0)
	for lnum := line; lnum <= last; lnum++ {
		if opts.Cancel != nil && opts.Cancel.Cancelled() {
			atomic.AddUint64(&e.stats.Cancellations, 1)
			return lnum, nfa.Outcome{Status: nfa.Cancelled}, nil
		}
		out, err := e.execLine(state, in, lnum, col, opts, tracker)
		if err != nil || out.Status != nfa.NoMatch {
			return lnum, out, err
		}
		col = 0
		opts.MaxCol = 0
	}
	return last, nfa.Outcome{Status: nfa.NoMatch}, nil
}

// execLine runs one line, consulting the prefilter first. tracker may be
// nil, in which case the prefilter is always used.
func (e *Engine) execLine(state *SearchState, in nfa.Input, line, col int, opts ExecOptions, tracker *prefilter.Tracker) (nfa.Outcome, error) {
	if e.prefilter != nil {
		text, _ := in.Line(line)
		from := col
		if e.lookbehind && !e.prefilter.IsPrefix() {
			// A look-behind may hold the required literal before col.
			from = 0
		}
		var at int
		if tracker != nil {
			at = tracker.Find([]byte(text), from)
		} else {
			at = e.prefilter.Find([]byte(text), from)
		}
		if at < 0 {
			atomic.AddUint64(&e.stats.PrefilterRejects, 1)
			return nfa.Outcome{Status: nfa.NoMatch}, nil
		}
		if e.prefilter.IsPrefix() && (tracker == nil || tracker.IsActive()) {
			if opts.MaxCol > 0 && at >= opts.MaxCol {
				return nfa.Outcome{Status: nfa.NoMatch}, nil
			}
			col = at
		}
	}

	atomic.AddUint64(&e.stats.LinesScanned, 1)
	out, err := e.pikevm.Exec(state.ctx, in, line, col, e.execOptions(opts))
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("match failed", "pattern", e.prog.Pattern(), "line", line, "error", err)
		}
		return out, err
	}
	switch out.Status {
	case nfa.Matched:
		atomic.AddUint64(&e.stats.Matches, 1)
	case nfa.Cancelled:
		atomic.AddUint64(&e.stats.Cancellations, 1)
	}
	if out.Degraded {
		atomic.AddUint64(&e.stats.Degraded, 1)
		if e.logger != nil {
			e.logger.Debug("look-around depth limit reached",
				"pattern", e.prog.Pattern(), "line", line, "limit", e.config.MaxLookDepth)
		}
	}
	return out, nil
}
