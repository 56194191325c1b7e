// Package dispatch runs fire-and-forget work without letting one failure
// cancel or fail the rest, and keeps the outcome of every dispatch.
package dispatch

import (
	"golang.org/x/sync/errgroup"
	"sync"
	"time"
)

type Outcome struct {
	Name     string
	Err      error
	Duration time.Duration
}

func (o Outcome) OK() bool { return o.Err == nil }

// Group is safe for use by one producer goroutine. Go blocks only while limit
// dispatches are already in flight.
type Group struct {
	g        errgroup.Group
	mu       sync.Mutex
	outcomes []Outcome
}

func New(limit int) *Group {
	d := &Group{}
	if limit > 0 {
		d.g.SetLimit(limit)
	}
	return d
}

func (d *Group) Go(name string, fn func() error) {
	d.g.Go(func() error {
		start := time.Now()
		err := fn()
		d.record(Outcome{Name: name, Err: err, Duration: time.Since(start)})
		return nil
	})
}

// Wait returns once every dispatch has finished, in completion order.
func (d *Group) Wait() []Outcome {
	_ = d.g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outcomes
}

func (d *Group) record(o Outcome) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outcomes = append(d.outcomes, o)
}

// Failed filters outcomes down to the ones that returned an error.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}
