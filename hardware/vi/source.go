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

package vi

import (
	"context"
	"sync/atomic"

	"github.com/jetsetilly/nugopher/hardware/mesgq"
	"github.com/jetsetilly/nugopher/performance/limiter"
)

// Source is implemented by the timing sources.
type Source interface {
	// PreReset sends the pre-reset notice. It blocks until the notice has been
	// queued or the context is done.
	PreReset(ctx context.Context) error

	// Retraces returns the number of retrace messages sent.
	Retraces() uint64

	// Dropped returns the number of retrace messages dropped because the
	// destination queue was full.
	Dropped() uint64
}

// counts is embedded by the sources.
type counts struct {
	out      *mesgq.Queue
	retraces atomic.Uint64
	dropped  atomic.Uint64
}

func (c *counts) retrace() bool {
	if err := c.out.SendNB(mesgq.Message{Kind: Retrace}); err != nil {
		c.dropped.Add(1)
		return false
	}
	c.retraces.Add(1)
	return true
}

// PreReset implements the Source interface.
func (c *counts) PreReset(ctx context.Context) error {
	return c.out.Send(ctx, mesgq.Message{Kind: PreReset})
}

// Retraces implements the Source interface.
func (c *counts) Retraces() uint64 {
	return c.retraces.Load()
}

// Dropped implements the Source interface.
func (c *counts) Dropped() uint64 {
	return c.dropped.Load()
}

// Ticker sends retrace messages in real time.
type Ticker struct {
	counts
	mode      Mode
	numFields int
	fields    atomic.Uint64
}

// NewTicker is the preferred method of initialisation for the Ticker type.
// Retraces are sent to the out queue once every numFields fields.
func NewTicker(mode Mode, numFields int, out *mesgq.Queue) *Ticker {
	if numFields < 1 {
		numFields = 1
	}
	return &Ticker{
		counts:    counts{out: out},
		mode:      mode,
		numFields: numFields,
	}
}

// Start the ticker. The ticker runs in its own goroutine until the context
// is done.
func (t *Ticker) Start(ctx context.Context) {
	lim := limiter.NewLimiter(ctx, t.mode.RefreshRate())
	go func() {
		for lim.Wait(ctx) == nil {
			f := t.fields.Add(1)
			if f%uint64(t.numFields) == 0 {
				t.retrace()
			}
		}
	}()
}

// Fields returns the number of video fields that have elapsed.
func (t *Ticker) Fields() uint64 {
	return t.fields.Load()
}

// Manual sends retrace messages on request.
type Manual struct {
	counts
}

// NewManual is the preferred method of initialisation for the Manual type.
func NewManual(out *mesgq.Queue) *Manual {
	return &Manual{
		counts: counts{out: out},
	}
}

// Retrace sends a single retrace message without blocking. Returns false if
// the message was dropped.
func (m *Manual) Retrace() bool {
	return m.retrace()
}
