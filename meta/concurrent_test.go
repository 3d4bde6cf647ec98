package meta

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/coregx/vimre/nfa"
)

// TestConcurrentSearch tests that one Engine serves concurrent searches.
// Every strategy shares the program and prefilter and takes its match
// context from the pool.
func TestConcurrentSearch(t *testing.T) {
	tests := []struct {
		pattern string
		in      lines
		line    int
		start   int
	}{
		{"needle", lines{"hay", "hay needle"}, 1, 4},
		{`foo\|bar`, lines{"xx", "a bar"}, 1, 2},
		{`\w\+ERROR\d`, lines{"ok", "ok", "xERROR1"}, 2, 0},
		{`\(\w\+\) \1`, lines{"one two two"}, 0, 4},
		{`\(foo\)\@<=bar`, lines{"bar foobar"}, 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			engine := mustCompile(t, tt.pattern, DefaultConfig())

			const goroutines = 16
			const iterations = 100
			var wg sync.WaitGroup
			var failures atomic.Int64

			for g := 0; g < goroutines; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < iterations; i++ {
						line, out, err := engine.Search(tt.in, 0, 0, ExecOptions{})
						if err != nil || out.Status != nfa.Matched ||
							line != tt.line || out.Captures[0].Col != tt.start {
							failures.Add(1)
						}
					}
				}()
			}
			wg.Wait()

			if n := failures.Load(); n > 0 {
				t.Errorf("%d of %d concurrent searches returned a wrong result", n, goroutines*iterations)
			}
			if got := engine.Stats().Searches; got != goroutines*iterations {
				t.Errorf("Searches = %d, want %d", got, goroutines*iterations)
			}
		})
	}
}
