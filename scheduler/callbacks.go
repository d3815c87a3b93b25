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

import "sync/atomic"

// Slot holds a single callback function. Setting a new function replaces the
// previous one. The slot is safe for concurrent use.
type Slot[F any] struct {
	f atomic.Pointer[F]
}

// Set the function in the slot.
func (s *Slot[F]) Set(f F) {
	s.f.Store(&f)
}

// Clear the slot. A cleared slot is unregistered.
func (s *Slot[F]) Clear() {
	s.f.Store(nil)
}

// Get the function in the slot. The boolean is false if the slot is
// unregistered.
func (s *Slot[F]) Get() (F, bool) {
	p := s.f.Load()
	if p == nil {
		var zero F
		return zero, false
	}
	return *p, true
}

// Registered returns true if the slot holds a function.
func (s *Slot[F]) Registered() bool {
	return s.f.Load() != nil
}

// IdleFunc is called by the dispatch goroutine on every retrace, with the
// retrace count.
type IdleFunc func(retrace uint32)

// PreResetFunc is called once by the dispatch goroutine, when the pre-reset
// drain window has passed.
type PreResetFunc func()

// TaskEndFunc is called by a consumer goroutine when a task is Done and
// before the completion message is posted.
type TaskEndFunc func(t *Task)

// SwapFunc is called by the dispatch goroutine when a frame buffer has been
// swapped onto the display.
type SwapFunc func(fb *FrameBuffer)
