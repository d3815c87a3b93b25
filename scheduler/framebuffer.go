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
	"fmt"
	"slices"
	"sync/atomic"
)

// FrameBuffer is one image in the frame buffer ring. Pixels are stored as
// 16bit RGBA5551 values in row order.
type FrameBuffer struct {
	Index  int
	Width  int
	Height int
	Pixels []uint16
}

func (fb *FrameBuffer) String() string {
	return fmt.Sprintf("framebuffer %d (%dx%d)", fb.Index, fb.Width, fb.Height)
}

// FrameBuffers is the ring of frame buffers shared by the graphics consumer
// and the dispatch goroutine. The graphics consumer chooses the buffer to
// draw into and the dispatch goroutine chooses the buffer to display.
type FrameBuffers struct {
	buffers []*FrameBuffer

	// index of the displayed frame buffer. -1 if nothing has been displayed
	displayed atomic.Int32

	// sequence number of the swap request that was last displayed. swap
	// requests are numbered from one by the graphics consumer
	shown atomic.Uint64

	// index of the most recently selected frame buffer. only used by the
	// graphics consumer
	last int
}

// NewFrameBuffers is the preferred method of initialisation for the
// FrameBuffers type.
func NewFrameBuffers(num int, width int, height int) *FrameBuffers {
	if num < 1 {
		num = 1
	}
	f := &FrameBuffers{
		buffers: make([]*FrameBuffer, num),
		last:    -1,
	}
	for i := range f.buffers {
		f.buffers[i] = &FrameBuffer{
			Index:  i,
			Width:  width,
			Height: height,
			Pixels: make([]uint16, width*height),
		}
	}
	f.displayed.Store(-1)
	return f
}

// Num returns the number of frame buffers in the ring.
func (f *FrameBuffers) Num() int {
	return len(f.buffers)
}

// Get the frame buffer at index.
func (f *FrameBuffers) Get(idx int) *FrameBuffer {
	if idx < 0 || idx >= len(f.buffers) {
		return nil
	}
	return f.buffers[idx]
}

// Displayed returns the frame buffer that is on the display. Returns nil if
// no frame buffer has been displayed yet.
func (f *FrameBuffers) Displayed() *FrameBuffer {
	return f.Get(int(f.displayed.Load()))
}

func (f *FrameBuffers) display(r swapRequest) {
	f.displayed.Store(int32(r.fb.Index))
	f.shown.Store(r.seq)
}

// swapRequest is a completed frame waiting to be displayed.
type swapRequest struct {
	fb  *FrameBuffer
	seq uint64
}

// selectFree returns the next frame buffer to draw into. The displayed frame
// buffer and the frame buffers waiting to be displayed are never selected.
// One frame buffer is always left for the display, so with two frame buffers
// a new frame waits for the previous frame to be swapped and with three
// frame buffers one further frame can be drawn ahead.
//
// With a single frame buffer there is no choice and the displayed buffer is
// reused once nothing is waiting to be displayed.
//
// Returns nil if there is no free frame buffer.
func (f *FrameBuffers) selectFree(waiting []swapRequest) *FrameBuffer {
	if len(f.buffers) == 1 {
		if len(waiting) > 0 {
			return nil
		}
		f.last = 0
		return f.buffers[0]
	}

	if len(waiting)+1 >= len(f.buffers) {
		return nil
	}

	displayed := int(f.displayed.Load())

	for i := 1; i <= len(f.buffers); i++ {
		idx := (f.last + i) % len(f.buffers)
		if idx == displayed || slices.ContainsFunc(waiting, func(r swapRequest) bool {
			return r.fb.Index == idx
		}) {
			continue
		}
		f.last = idx
		return f.buffers[idx]
	}

	return nil
}
