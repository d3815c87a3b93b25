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

package system

import (
	"context"
	"io"

	"github.com/jetsetilly/nugopher/gfx"
	"github.com/jetsetilly/nugopher/hardware/rcp"
	"github.com/jetsetilly/nugopher/peripherals"
	"github.com/jetsetilly/nugopher/peripherals/controller"
	"github.com/jetsetilly/nugopher/peripherals/rumble"
)

// the first command of every demo command list
const demoSync = 0xe7000000

// DemoFrame builds the graphics command list for one frame of the demo.
func DemoFrame(frame int, d controller.Data) rcp.GfxList {
	return rcp.GfxList{
		Commands: []uint32{
			demoSync,
			uint32(frame),
			uint32(d.Button)<<16 | uint32(uint8(d.StickX))<<8 | uint32(uint8(d.StickY)),
		},
	}
}

// Demo runs the demo application for the number of frames, or until the
// context is done if frames is zero. Every frame draws a command list built
// from the state of the first controller. The A button drives the rumble
// paks. The debug console is written to out every second if out is not nil.
func (s *System) Demo(ctx context.Context, frames int, out io.Writer) error {
	rate := max(1, s.Scheduler.FrameRate())

	for port, a := range s.opts.Accessories {
		if a == peripherals.RumblePak {
			if err := s.Rumble.SetMode(port, rumble.Enable); err != nil {
				return err
			}
		}
	}

	_ = s.Console.SetScroll(0, false)

	for frame := 0; frames == 0 || frame < frames; frame++ {
		if err := s.Gfx.RetraceWait(ctx, 1); err != nil {
			return err
		}

		if s.Input.Quitting() {
			return nil
		}

		d := s.Controller.DataGet(0)

		if _, err := s.Gfx.TaskStart(ctx, DemoFrame(frame, d), gfx.SwapBuffer); err != nil {
			return err
		}

		if d.Trigger&controller.ButtonA == controller.ButtonA {
			for port, a := range s.opts.Accessories {
				if a == peripherals.RumblePak {
					_ = s.Rumble.Start(port, 0x80, uint16(rate/2))
				}
			}
		}

		_ = s.Console.TextPos(0, 0, 0)
		_ = s.Console.Printf(0, "frame %8d  pending %d\n", frame, s.Gfx.Pending())
		_ = s.Console.Printf(0, "buttons %04x  stick %4d %4d\n", d.Button, d.StickX, d.StickY)
		_ = s.Console.Printf(0, "video %.12s", s.VideoDigest.Hash())

		if out != nil && frame%rate == 0 {
			if err := s.Console.Disp(out, false); err != nil {
				return err
			}
		}
	}

	return s.Gfx.TaskAllEndWait(ctx)
}
