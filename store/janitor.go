package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/bep/debounce"
)

// Janitor sweeps the outputs dir on a schedule. Poke requests an extra sweep
// that is coalesced with other pokes arriving within the debounce window.
type Janitor struct {
	local    *Local
	maxAge   time.Duration
	interval time.Duration
	now      func() time.Time
	debounce func(func())
	observe  func(removed int)
}

func NewJanitor(local *Local, maxAge, interval, quiet time.Duration) *Janitor {
	return &Janitor{
		local:    local,
		maxAge:   maxAge,
		interval: interval,
		now:      time.Now,
		debounce: debounce.New(quiet),
	}
}

// Observe registers fn to be called with the result of every sweep. It must
// be called before Run or Poke.
func (j *Janitor) Observe(fn func(removed int)) {
	j.observe = fn
}

func (j *Janitor) Sweep() int {
	n, err := j.local.Sweep(j.now(), j.maxAge)
	if err != nil {
		slog.Warn("output sweep failed", "err", err)
	}
	if j.observe != nil {
		j.observe(n)
	}
	return n
}

func (j *Janitor) Poke() {
	j.debounce(func() { j.Sweep() })
}

// Run sweeps once immediately, then every interval until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	j.Sweep()
	if j.interval <= 0 {
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep()
		}
	}
}
