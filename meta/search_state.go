package meta

import (
	"sync"

	"github.com/coregx/vimre/nfa"
)

// SearchState holds per-search mutable state for thread-safe concurrent searches.
// This struct should be obtained from a sync.Pool to enable safe concurrent usage
// of the same compiled Engine from multiple goroutines.
//
// Usage pattern:
//
//	state := engine.statePool.get()
//	defer engine.statePool.put(state)
//	// use state for search operations
//
// Thread safety: Each goroutine must use its own SearchState instance.
// The SearchState itself is NOT thread-safe - it must not be shared between goroutines.
type SearchState struct {
	// ctx holds the thread lists, capture arenas and list stamps of the
	// PikeVM, one frame per look-around depth.
	ctx *nfa.MatchContext
}

// newSearchState creates a new SearchState bound to prog.
func newSearchState(prog *nfa.Program) *SearchState {
	return &SearchState{ctx: nfa.NewMatchContext(prog)}
}

// searchStatePool manages a pool of SearchState instances for thread-safe reuse.
// This follows the stdlib regexp pattern of using sync.Pool for concurrent safety.
type searchStatePool struct {
	pool sync.Pool
	prog *nfa.Program
}

// newSearchStatePool creates a pool of states for prog.
func newSearchStatePool(prog *nfa.Program) *searchStatePool {
	p := &searchStatePool{prog: prog}
	p.pool = sync.Pool{
		New: func() any {
			return newSearchState(p.prog)
		},
	}
	return p
}

// get retrieves a SearchState from the pool, creating one if necessary.
func (p *searchStatePool) get() *SearchState {
	return p.pool.Get().(*SearchState)
}

// put returns a SearchState to the pool for reuse. The match context keeps
// its buffers; Exec clears what it needs at the start of every call.
func (p *searchStatePool) put(state *SearchState) {
	if state == nil {
		return
	}
	p.pool.Put(state)
}
