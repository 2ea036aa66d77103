package epoch

import (
	"context"
	"time"
)

// Epoch runs f on every tick of interval and whenever true is sent on C.
// Sending false stops the routine. A zero interval disables the ticker.
type Epoch struct {
	f        func()
	c        chan bool
	interval time.Duration
}

func NewEpoch(f func(), interval time.Duration) *Epoch {
	return &Epoch{
		f:        f,
		c:        make(chan bool),
		interval: interval,
	}
}

func (e *Epoch) C() chan<- bool {
	return e.c
}

func (e *Epoch) StartEpochRoutine(ctx context.Context) {
	var tick <-chan time.Time
	if e.interval > 0 {
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			e.f()
		case flg := <-e.c:
			if !flg {
				return
			}
			e.f()
		}
	}
}
