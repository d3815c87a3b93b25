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

package system_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/peripherals"
	"github.com/jetsetilly/nugopher/peripherals/controller"
	"github.com/jetsetilly/nugopher/system"
	"github.com/jetsetilly/nugopher/test"
)

func newSystem(t *testing.T, ctx context.Context, opts system.Options) *system.System {
	t.Helper()

	env, err := environment.NewEnvironment("test", nil)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, env.Prefs.GfxLatency.Set(0))
	test.DemandSuccess(t, env.Prefs.AudioLatency.Set(0))
	test.DemandSuccess(t, env.Prefs.Logging.Set(false))

	opts.Manual = true
	s, err := system.NewSystem(ctx, env, opts)
	test.DemandSuccess(t, err)
	return s
}

func TestDemo(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := system.Options{
		Wav: filepath.Join(t.TempDir(), "out.wav"),
	}
	opts.Accessories[1] = peripherals.MemoryPak
	opts.Accessories[2] = peripherals.RumblePak

	s := newSystem(t, ctx, opts)
	test.ExpectEquality(t, s.State(), system.Initialising)
	test.DemandSuccess(t, s.Start(ctx))
	test.ExpectEquality(t, s.State(), system.Running)
	test.ExpectFailure(t, s.Start(ctx))

	s.Pads.Press(0, controller.ButtonA|controller.ButtonStart)

	out := &strings.Builder{}
	done := make(chan error, 1)
	go func() {
		done <- s.Demo(ctx, 5, out)
	}()

	test.Within(t, 2*time.Second, func() bool {
		s.Retrace()
		select {
		case err := <-done:
			test.ExpectSuccess(t, err)
			return true
		default:
			return false
		}
	})

	test.ExpectEquality(t, s.VideoDigest.Frames() > 0, true)
	test.ExpectEquality(t, strings.HasPrefix(out.String(), "frame"), true)

	w, err := s.Console.Window(0)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, strings.HasPrefix(w.Text(1), "buttons 9000"), true)

	test.ExpectSuccess(t, s.Shutdown(ctx))
	test.ExpectEquality(t, s.State(), system.Ending)
	test.ExpectFailure(t, s.Shutdown(ctx))
}

func TestDemoFrame(t *testing.T) {
	l := system.DemoFrame(3, controller.Data{Button: controller.ButtonB, StickX: -1, StickY: 2})
	test.ExpectEquality(t, len(l.Commands), 3)
	test.ExpectEquality(t, l.Commands[1], uint32(3))
	test.ExpectEquality(t, l.Commands[2], uint32(0x4000ff02))
}

func TestQuit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newSystem(t, ctx, system.Options{})
	test.DemandSuccess(t, s.Start(ctx))

	s.Input.Quit = true

	done := make(chan error, 1)
	go func() {
		done <- s.Demo(ctx, 0, nil)
	}()

	test.Within(t, time.Second, func() bool {
		s.Retrace()
		select {
		case err := <-done:
			test.ExpectSuccess(t, err)
			return true
		default:
			return false
		}
	})
}
