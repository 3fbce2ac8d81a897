// Package parallel provides bounded fan-out for independent work items.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls fan-out behavior.
type Config struct {
	Workers int // concurrent goroutines; <= 1 forces serial execution
	MinWork int // item count below which execution stays serial
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.GOMAXPROCS(0),
		MinWork: 16,
	}
}

// For runs f(i) for i in [0, n), fanning out across workers when n reaches
// the configured minimum. f must be safe to call concurrently; completion
// order is unspecified, so callers combine per-index results after For
// returns.
func For(n int, config Config, f func(i int)) {
	if n < config.MinWork || config.Workers <= 1 {
		for i := range n {
			f(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(config.Workers)
	for i := range n {
		g.Go(func() error {
			f(i)
			return nil
		})
	}
	_ = g.Wait() // workers do not return errors, Wait only joins
}
