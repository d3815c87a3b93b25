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

// Package audiomgr submits PCM command lists to the audio domain of the
// scheduler, one list per frame, and waits for each to complete on its own
// queue before submitting the next.
//
// PCM data is decoded from WAV or MP3 files with LoadPCM().
package audiomgr

import (
	"context"
	"sync/atomic"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/hardware/mesgq"
	"github.com/jetsetilly/nugopher/hardware/rcp"
	"github.com/jetsetilly/nugopher/logger"
	"github.com/jetsetilly/nugopher/scheduler"
)

// Sentinel error patterns returned by Play().
const (
	NoData    = "audiomgr: no sample data"
	TaskFault = "audiomgr: frame %d: %v"
)

// Manager is the audio manager.
type Manager struct {
	env   *environment.Environment
	sch   *scheduler.Scheduler
	queue *mesgq.Queue

	frames atomic.Uint64
	faults atomic.Uint64
}

// NewManager is the preferred method of initialisation for the Manager type.
func NewManager(env *environment.Environment, sch *scheduler.Scheduler) *Manager {
	return &Manager{
		env:   env,
		sch:   sch,
		queue: mesgq.NewQueue("audio", sch.Config().TaskTableSize),
	}
}

// FrameSize returns the number of stereo sample pairs played in one frame at
// the sample rate.
func (m *Manager) FrameSize(sampleRate int) int {
	n := sampleRate / max(1, m.sch.FrameRate())
	return max(1, n)
}

// Play submits the PCM data one frame at a time. Play returns when the last
// frame has completed, the context is done, or a frame faults.
func (m *Manager) Play(ctx context.Context, p PCM) error {
	if p.Len() == 0 {
		return curated.Errorf(NoData)
	}

	size := m.FrameSize(p.SampleRate) * 2

	for frame := 0; frame*size < len(p.Samples); frame++ {
		start := frame * size
		end := min(start+size, len(p.Samples))

		t := &scheduler.Task{
			List: rcp.AudioList{
				Samples:    p.Samples[start:end],
				SampleRate: p.SampleRate,
			},
			Done: m.queue,
		}

		if err := m.sch.SubmitAudio(ctx, t); err != nil {
			return err
		}

		if err := m.wait(ctx); err != nil {
			m.faults.Add(1)
			logger.Logf(m.env, logTag, "frame %d: %v", frame, err)
			return curated.Errorf(TaskFault, frame, err)
		}

		m.frames.Add(1)
	}

	return nil
}

// wait for the task end message of the task in flight.
func (m *Manager) wait(ctx context.Context) error {
	for {
		msg, err := m.queue.Recv(ctx)
		if err != nil {
			return err
		}
		if msg.Kind != scheduler.MsgTaskEnd {
			continue
		}
		if e, ok := msg.Payload.(scheduler.TaskEnd); ok {
			return e.Fault
		}
		return nil
	}
}

// Frames returns the number of frames played.
func (m *Manager) Frames() uint64 {
	return m.frames.Load()
}

// Faults returns the number of frames that faulted.
func (m *Manager) Faults() uint64 {
	return m.faults.Load()
}
