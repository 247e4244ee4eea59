package watcher

import (
	"context"
	"sort"
	"time"
)

// Debouncer coalesces changes that arrive less than delay apart into one
// batch holding the latest change per path.
type Debouncer struct {
	delay time.Duration
	in    chan Change
	out   chan []Change
}

// NewDebouncer creates a debouncer. Call Run to start it.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay: delay,
		in:    make(chan Change, 64),
		out:   make(chan []Change, 1),
	}
}

// Push queues c and reports false if the queue is full.
func (d *Debouncer) Push(c Change) bool {
	select {
	case d.in <- c:
		return true
	default:
		return false
	}
}

// Batches delivers coalesced batches sorted by path.
func (d *Debouncer) Batches() <-chan []Change {
	return d.out
}

// Run coalesces pushed changes until ctx is done. While the previous batch
// has not been taken, new changes keep merging into the pending one.
func (d *Debouncer) Run(ctx context.Context) {
	pending := make(map[string]Change)

	timer := time.NewTimer(d.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-d.in:
			pending[c.Path] = c
			timer.Reset(d.delay)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			select {
			case d.out <- sortedChanges(pending):
				clear(pending)
			default:
				timer.Reset(d.delay)
			}
		}
	}
}

func sortedChanges(pending map[string]Change) []Change {
	batch := make([]Change, 0, len(pending))
	for _, c := range pending {
		batch = append(batch, c)
	}
	sort.Slice(batch, func(i, j int) bool {
		return batch[i].Path < batch[j].Path
	})
	return batch
}
