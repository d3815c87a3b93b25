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

package scheduler

import (
	"context"

	"github.com/jetsetilly/nugopher/assert"
	"github.com/jetsetilly/nugopher/hardware/mesgq"
	"github.com/jetsetilly/nugopher/logger"
)

// dispatch is the goroutine that handles the timing messages and the
// control requests.
func (sch *Scheduler) dispatch(ctx context.Context) {
	defer sch.wg.Done()

	sch.dispatchID.Store(assert.GetGoRoutineID())
	sch.clients.owner.Claim()

	for {
		select {
		case <-ctx.Done():
			return

		case m := <-sch.events.C():
			switch m.Kind {
			case MsgRetrace:
				sch.retrace()
			case MsgPreReset:
				sch.preResetNotice()
			default:
				logger.Logf(sch.env, "scheduler", "unexpected event: %v", m)
			}

		case m := <-sch.control.C():
			switch m.Kind {
			case msgControl:
				m.Payload.(func())()
			case msgSwap:
				sch.pendingSwaps = append(sch.pendingSwaps, m.Payload.(swapRequest))
			default:
				logger.Logf(sch.env, "scheduler", "unexpected control message: %v", m)
			}
		}
	}
}

func (sch *Scheduler) retrace() {
	n := sch.retraceCount.Add(1)

	if f, ok := sch.idle.Get(); ok {
		f(n)
	}

	// one completed frame is displayed per retrace, oldest first
	if len(sch.pendingSwaps) > 0 {
		r := sch.pendingSwaps[0]
		sch.pendingSwaps = sch.pendingSwaps[1:]
		sch.frames.display(r)
		if f, ok := sch.swap.Get(); ok {
			f(r.fb)
		}

		// the graphics consumer may be waiting for the swap before it can
		// select a new frame buffer
		_ = sch.gfx.requests.SendNB(mesgq.Message{Kind: msgWake})
	}

	if sch.preReset.Load() && !sch.preResetFired {
		sch.drainTicks++
		if sch.drainTicks >= sch.cfg.DrainWindow {
			sch.firePreReset()
		}
	}

	_, missed := sch.clients.Broadcast(ClientRetrace, mesgq.Message{Kind: MsgRetrace, Payload: n})
	if missed > 0 {
		logger.Logf(sch.env, "scheduler", "retrace missed by %d client(s)", missed)
	}
}

func (sch *Scheduler) preResetNotice() {
	if sch.preReset.Load() {
		return
	}
	sch.preReset.Store(true)
	sch.inhibit.Store(true)
	logger.Log(sch.env, "scheduler", "pre-reset: task admission stopped")

	_, missed := sch.clients.Broadcast(ClientPreReset, mesgq.Message{Kind: MsgPreReset, Payload: sch.retraceCount.Load()})
	if missed > 0 {
		logger.Logf(sch.env, "scheduler", "pre-reset missed by %d client(s)", missed)
	}

	if sch.cfg.DrainWindow == 0 {
		sch.firePreReset()
	}
}

func (sch *Scheduler) firePreReset() {
	sch.preResetFired = true
	if f, ok := sch.preResetFunc.Get(); ok {
		f()
	}
}
