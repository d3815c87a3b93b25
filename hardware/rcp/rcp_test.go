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

package rcp_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/hardware/rcp"
	"github.com/jetsetilly/nugopher/scheduler"
	"github.com/jetsetilly/nugopher/test"
)

func run(t *testing.T, u *rcp.Unit, task *scheduler.Task) error {
	t.Helper()
	done := make(chan scheduler.Completion, 1)
	u.Run(task, done)
	select {
	case c := <-done:
		return c.Fault
	case <-time.After(time.Second):
		t.Fatalf("unit did not complete task")
	}
	return nil
}

func TestGraphics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u := rcp.NewGraphics(nil, time.Millisecond)

	fbs := scheduler.NewFrameBuffers(2, 8, 4)
	l := rcp.GfxList{Commands: []uint32{0xe7000000, 0x01020304}}
	task := &scheduler.Task{List: l, FrameBuffer: fbs.Get(0)}

	err := run(t, u, task)
	test.ExpectSuccess(t, curated.Is(err, rcp.Stopped))

	u.Start(ctx)
	test.ExpectSuccess(t, run(t, u, task))

	rcp.Stamp(fbs.Get(1), l)
	test.ExpectSuccess(t, slices.Equal(fbs.Get(0).Pixels, fbs.Get(1).Pixels))
	test.ExpectInequality(t, fbs.Get(0).Pixels[0], 0)

	// a faulty list does not draw into the frame buffer
	clear(fbs.Get(0).Pixels)
	faulty := rcp.GfxList{Commands: l.Commands, Err: errors.New("bad display list")}
	err = run(t, u, &scheduler.Task{List: faulty, FrameBuffer: fbs.Get(0)})
	test.ExpectEquality(t, err.Error(), "bad display list")
	test.ExpectEquality(t, fbs.Get(0).Pixels[0], 0)

	err = run(t, u, &scheduler.Task{List: rcp.AudioList{}, FrameBuffer: fbs.Get(0)})
	test.ExpectSuccess(t, curated.Is(err, rcp.WrongList))

	err = run(t, u, &scheduler.Task{List: l})
	test.ExpectSuccess(t, curated.Is(err, rcp.NoFrameBuffer))

	st := u.Stats()
	test.ExpectEquality(t, st.Tasks, uint64(4))
	test.ExpectEquality(t, st.Faults, uint64(3))
	test.ExpectSuccess(t, st.Busy >= 4*time.Millisecond)
}

type sink struct {
	samples []int16
}

func (s *sink) SetAudio(samples []int16) error {
	s.samples = append(s.samples, samples...)
	return nil
}

func TestAudio(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &sink{}
	u := rcp.NewAudio(nil, 0, s)
	u.Start(ctx)

	test.ExpectSuccess(t, run(t, u, &scheduler.Task{List: rcp.AudioList{Samples: []int16{1, -1, 2, -2}}}))
	test.ExpectSuccess(t, run(t, u, &scheduler.Task{List: rcp.AudioList{Samples: []int16{3, -3}}}))
	test.ExpectSuccess(t, slices.Equal(s.samples, []int16{1, -1, 2, -2, 3, -3}))

	err := run(t, u, &scheduler.Task{List: rcp.GfxList{}})
	test.ExpectSuccess(t, curated.Is(err, rcp.WrongList))
}

func TestWithScheduler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gfx := rcp.NewGraphics(nil, 0)
	audio := rcp.NewAudio(nil, 0, nil)
	gfx.Start(ctx)
	audio.Start(ctx)

	sch, err := scheduler.NewScheduler(nil, scheduler.Config{}, scheduler.Units{
		Graphics: gfx,
		Audio:    audio,
	})
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, sch.Start(ctx))


	done := make(chan struct{})
	sch.SetGfxTaskEndFunc(func(task *scheduler.Task) {
		close(done)
	})

	task := &scheduler.Task{List: rcp.GfxList{Commands: []uint32{1}}}
	test.DemandSuccess(t, sch.SubmitGraphics(ctx, task))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("graphics task did not complete")
	}
	test.ExpectSuccess(t, task.Fault)
	test.ExpectInequality(t, task.FrameBuffer, (*scheduler.FrameBuffer)(nil))
}
