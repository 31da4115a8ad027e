package fetch

import (
	"math/rand"
	"time"
)

// Throttle spaces consecutive plan fetches: a fixed base delay plus up
// to Jitter of random extra, so the request pattern stays irregular.
// Rate limiting here is deliberate evasion behavior, not politeness.
type Throttle struct {
	Base   time.Duration
	Jitter time.Duration

	sleep func(time.Duration)
}

// NewThrottle builds a throttle backed by time.Sleep.
func NewThrottle(base, jitter time.Duration) *Throttle {
	return &Throttle{Base: base, Jitter: jitter, sleep: time.Sleep}
}

// Wait blocks for the base delay plus random jitter.
func (t *Throttle) Wait() {
	d := t.Base
	if t.Jitter > 0 {
		d += time.Duration(rand.Int63n(int64(t.Jitter)))
	}
	t.sleep(d)
}
