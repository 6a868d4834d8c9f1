// Package loadout implements the asynchronous loadout optimizer contract
// from spec.md §5: a single background job that searches candidate
// equipment swaps for ones meeting minimum mobility/EHP thresholds, with
// launch/join/running semantics — joinable, never cancellable, one
// outstanding job at a time.
package loadout

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rogueforge/simcore/pkg/simerr"
)

// Candidate is one proposed equipment swap under consideration.
type Candidate struct {
	SlotIndex int
	DefIndex  int
}

// ScoreFunc evaluates the mobility and EHP a candidate swap would produce,
// supplied by the caller since scoring depends on the live stat cache and
// equipment model this package does not itself own.
type ScoreFunc func(Candidate) (mobility, ehp float64)

// Optimizer runs at most one background search at a time.
type Optimizer struct {
	running atomic.Bool
	mu      sync.Mutex
	result  chan int
}

// New returns an idle Optimizer.
func New() *Optimizer {
	return &Optimizer{}
}

// Running reports whether a search is currently in flight.
func (o *Optimizer) Running() bool { return o.running.Load() }

// Launch starts a background search over candidates for swaps meeting
// both minMobility and minEHP, scored via score. It fails immediately with
// ErrValidationFailed if a search is already running, per spec.md §5's
// "launch(min_mobility, min_ehp) fails if running".
func (o *Optimizer) Launch(minMobility, minEHP float64, candidates []Candidate, score ScoreFunc) error {
	if !o.running.CompareAndSwap(false, true) {
		return fmt.Errorf("loadout: launch: a search is already running: %w", simerr.ErrValidationFailed)
	}
	o.mu.Lock()
	o.result = make(chan int, 1)
	resultCh := o.result
	o.mu.Unlock()

	go func() {
		defer o.running.Store(false)
		improvements := 0
		for _, c := range candidates {
			mobility, ehp := score(c)
			if mobility >= minMobility && ehp >= minEHP {
				improvements++
			}
		}
		resultCh <- improvements
	}()
	return nil
}

// Join blocks until the outstanding search completes and returns how many
// candidates met both thresholds, per spec.md §5's "join() blocks until
// completion and returns improvement count". Join is not cancellable;
// callers that also need non-blocking status should poll Running first.
func (o *Optimizer) Join() (int, error) {
	o.mu.Lock()
	resultCh := o.result
	o.mu.Unlock()
	if resultCh == nil {
		return 0, fmt.Errorf("loadout: join: no search has ever been launched: %w", simerr.ErrInvalidArgument)
	}
	return <-resultCh, nil
}
