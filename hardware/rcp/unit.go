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
	"context"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/logger"
	"github.com/jetsetilly/nugopher/scheduler"
)

// Sentinel error patterns for task faults raised by the units.
const (
	Busy      = "rcp: %s: unit is busy"
	Stopped   = "rcp: %s: unit is not running"
	WrongList = "rcp: %s: cannot run command list of type %T"
)

type job struct {
	task *scheduler.Task
	done chan<- scheduler.Completion
}

// Stats for a unit.
type Stats struct {
	Tasks  uint64
	Faults uint64
	Busy   time.Duration
}

// Unit is an execution unit. It must be started with Start() before the
// scheduler gives it any tasks.
type Unit struct {
	env     *environment.Environment
	name    string
	latency time.Duration
	exec    func(t *scheduler.Task) error

	jobs    chan job
	running atomic.Bool

	tasks  atomic.Uint64
	faults atomic.Uint64
	busy   atomic.Int64
}

func newUnit(env *environment.Environment, name string, latency time.Duration) *Unit {
	return &Unit{
		env:     env,
		name:    name,
		latency: latency,
		jobs:    make(chan job, 1),
	}
}

func (u *Unit) String() string {
	return u.name
}

// Start the unit's goroutine. The goroutine ends when the context is done.
func (u *Unit) Start(ctx context.Context) {
	u.running.Store(true)
	go func() {
		defer u.running.Store(false)
		for {
			select {
			case <-ctx.Done():
				return
			case j := <-u.jobs:
				u.execute(ctx, j)
			}
		}
	}()
}

func (u *Unit) execute(ctx context.Context, j job) {
	start := time.Now()

	fault := u.exec(j.task)
	if f, ok := j.task.List.(Faulty); ok && fault == nil {
		fault = f.Fault()
	}

	if u.latency > 0 {
		t := time.NewTimer(u.latency)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			fault = curated.Errorf(Stopped, u.name)
		}
	}

	u.tasks.Add(1)
	if fault != nil {
		u.faults.Add(1)
		logger.Logf(u.env, "rcp", "%s: %v", u.name, fault)
	}
	u.busy.Add(int64(time.Since(start)))

	j.done <- scheduler.Completion{Fault: fault}
}

// Run implements the scheduler.Unit interface.
func (u *Unit) Run(t *scheduler.Task, done chan<- scheduler.Completion) {
	if !u.running.Load() {
		done <- scheduler.Completion{Fault: curated.Errorf(Stopped, u.name)}
		return
	}
	select {
	case u.jobs <- job{task: t, done: done}:
	default:
		done <- scheduler.Completion{Fault: curated.Errorf(Busy, u.name)}
	}
}

// Stats returns the statistics for the unit.
func (u *Unit) Stats() Stats {
	return Stats{
		Tasks:  u.tasks.Load(),
		Faults: u.faults.Load(),
		Busy:   time.Duration(u.busy.Load()),
	}
}
