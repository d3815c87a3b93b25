// This file is part of nugopher.
//
// nugopher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// nugopher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with nugopher.  If not, see <https://www.gnu.org/licenses/>.

// Package limiter provides a rough and ready way of limiting events to a fixed
// rate.
//
// A new Limiter is created with a context and a rate in events per second.
// The ticking goroutine ends when the context is cancelled:
//
//	lim := limiter.NewLimiter(ctx, 59.94)
//
// Operations can then be stalled with the Wait() function. For example:
//
//	for lim.Wait(ctx) == nil {
//		retrace()
//	}
package limiter

import (
	"context"
	"sync/atomic"
	"time"
)

// Limiter will trigger at the specified rate.
type Limiter struct {
	// the duration of one period stored as nanoseconds
	period atomic.Int64

	tick chan struct{}
}

// NewLimiter is the preferred method of initialisation for Limiter type.
func NewLimiter(ctx context.Context, rate float64) *Limiter {
	lim := &Limiter{
		tick: make(chan struct{}),
	}
	lim.SetLimit(rate)

	go func() {
		adjusted := lim.Period()
		t := time.Now()
		for {
			select {
			case lim.tick <- struct{}{}:
			case <-ctx.Done():
				return
			}

			// sleep for the adjusted period. the adjustment corrects for the
			// time taken by the receiver and for any oversleeping
			if adjusted > 0 {
				select {
				case <-time.After(adjusted):
				case <-ctx.Done():
					return
				}
			}

			nt := time.Now()
			period := lim.Period()
			adjusted -= nt.Sub(t) - period

			// do not let the adjustment run away if the receiver has stalled
			// for a long time
			if adjusted < -period {
				adjusted = -period
			} else if adjusted > period*2 {
				adjusted = period
			}
			t = nt
		}
	}()

	return lim
}

// SetLimit changes the rate at which the Limiter triggers. A rate of zero or
// less is ignored.
func (lim *Limiter) SetLimit(rate float64) {
	if rate <= 0 {
		return
	}
	lim.period.Store(int64(float64(time.Second) / rate))
}

// Period returns the current period between triggers.
func (lim *Limiter) Period() time.Duration {
	return time.Duration(lim.period.Load())
}

// C returns the channel that is triggered at the limit rate.
func (lim *Limiter) C() <-chan struct{} {
	return lim.tick
}

// Wait will block until the next trigger or until the context is done.
func (lim *Limiter) Wait(ctx context.Context) error {
	select {
	case <-lim.tick:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HasWaited will return true if time has already elapsed and false if it is
// still yet to happen.
func (lim *Limiter) HasWaited() bool {
	select {
	case <-lim.tick:
		return true
	default:
		return false
	}
}
