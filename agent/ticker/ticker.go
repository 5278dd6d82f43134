// SPDX-License-Identifier: GPL-3.0-or-later

package ticker

import "time"

// Ticker holds a channel that delivers clock ticks at intervals.
// Ticks are aligned to interval boundaries so that all jobs driven by one
// ticker see the same clock value for the same wall-clock second.
type Ticker struct {
	C        <-chan int
	done     chan struct{}
	clock    int
	interval time.Duration
}

// New returns a started Ticker that sends an increasing clock value
// with a period specified by the interval argument.
func New(interval time.Duration) *Ticker {
	t := &Ticker{
		interval: interval,
		done:     make(chan struct{}, 1),
	}
	t.start()
	return t
}

func (t *Ticker) start() {
	ch := make(chan int)
	t.C = ch

	go func() {
		for {
			now := time.Now()
			next := now.Truncate(t.interval).Add(t.interval)
			time.Sleep(next.Sub(now))

			select {
			case <-t.done:
				close(ch)
				return
			case ch <- t.clock:
				t.clock++
			default:
			}
		}
	}()
}

// Stop turns off the ticker. After Stop no more ticks will be sent.
func (t *Ticker) Stop() {
	t.done <- struct{}{}
}
