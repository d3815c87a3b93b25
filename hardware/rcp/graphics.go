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

package rcp

import (
	"time"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/scheduler"
)

// NoFrameBuffer is the fault of a graphics task that was not given a frame
// buffer.
const NoFrameBuffer = "rcp: graphics: task has no frame buffer"

// NewGraphics creates the graphics unit. The unit draws a GfxList by filling
// the frame buffer with a pattern made from the digest of the commands.
func NewGraphics(env *environment.Environment, latency time.Duration) *Unit {
	u := newUnit(env, "graphics", latency)
	u.exec = func(t *scheduler.Task) error {
		l, ok := t.List.(GfxList)
		if !ok {
			return curated.Errorf(WrongList, u.name, t.List)
		}
		if t.FrameBuffer == nil {
			return curated.Errorf(NoFrameBuffer)
		}
		if l.Err != nil {
			return nil
		}
		Stamp(t.FrameBuffer, l)
		return nil
	}
	return u
}

// Stamp fills the frame buffer with a pattern made from the digest of the
// command list. Frame buffers stamped with the same list are identical.
func Stamp(fb *scheduler.FrameBuffer, l GfxList) {
	d := l.Digest()
	for i := range fb.Pixels {
		a := d[i%len(d)]
		b := d[(i+1)%len(d)]
		fb.Pixels[i] = uint16(a)<<8 | uint16(b)
	}
}
