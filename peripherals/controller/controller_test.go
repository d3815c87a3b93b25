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

package controller_test

import (
	"context"
	"testing"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/hardware/mesgq"
	"github.com/jetsetilly/nugopher/peripherals"
	"github.com/jetsetilly/nugopher/peripherals/controller"
	"github.com/jetsetilly/nugopher/scheduler"
	"github.com/jetsetilly/nugopher/simgr"
	"github.com/jetsetilly/nugopher/test"
)

func TestRetraceRead(t *testing.T) {
	dsp := simgr.NewDispatcher(nil, 0)
	pads := controller.NewPads(0, 2)
	m, err := controller.NewManager(nil, dsp, pads)
	test.DemandSuccess(t, err)

	var reads int
	m.SetReadFunc(func(data [peripherals.MaxControllers]controller.Data) {
		reads++
	})

	pads.Press(0, controller.ButtonA|controller.ButtonStart)
	pads.Stick(0, 80, -80)
	dsp.Poll(1, false)

	d := m.DataGet(0)
	test.ExpectEquality(t, d.Button, controller.ButtonA|controller.ButtonStart)
	test.ExpectEquality(t, d.Trigger, controller.ButtonA|controller.ButtonStart)
	test.ExpectEquality(t, d.StickX, int8(80))
	test.ExpectEquality(t, d.StickY, int8(-80))
	test.ExpectSuccess(t, d.Err)
	test.ExpectSuccess(t, curated.Is(m.DataGet(1).Err, controller.NotConnected))
	test.ExpectSuccess(t, curated.Is(m.DataGet(4).Err, peripherals.InvalidPort))
	test.ExpectEquality(t, reads, 1)

	// button still held so the trigger is only the newly pressed button
	pads.Press(0, controller.ButtonB)
	dsp.Poll(2, false)
	d = m.DataGet(0)
	test.ExpectEquality(t, d.Trigger, controller.ButtonB)

	// locked data is not updated on retrace
	m.DataLock()
	pads.Release(0, controller.ButtonA)
	dsp.Poll(3, false)
	test.ExpectEquality(t, m.DataGet(0).Button&controller.ButtonA, controller.ButtonA)
	m.DataUnlock()
	dsp.Poll(4, false)
	test.ExpectEquality(t, m.DataGet(0).Button&controller.ButtonA, uint16(0))

	m.SetReadFunc(nil)
	dsp.Poll(5, false)
	test.ExpectEquality(t, reads, 3)

	m.Remove()
	test.ExpectFailure(t, dsp.Registered(simgr.MajorController))
}

type clients struct{}

func (clients) AddClient(q *mesgq.Queue, kind scheduler.ClientKind) (scheduler.ClientID, error) {
	return 1, nil
}

func (clients) RemoveClient(id scheduler.ClientID) error {
	return nil
}

func TestCommands(t *testing.T) {
	dsp := simgr.NewDispatcher(nil, 0)
	pads := controller.NewPads(1, 3)
	m, err := controller.NewManager(nil, dsp, pads)
	test.DemandSuccess(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	test.DemandSuccess(t, dsp.Start(ctx, clients{}))

	pattern, err := m.QueryRead(ctx)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pattern, uint8(0b1010))

	pads.Press(3, controller.ButtonZ)
	data, err := m.ReadData(ctx)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, data[3].Button, controller.ButtonZ)
	test.ExpectEquality(t, m.DataGet(3).Button, controller.ButtonZ)

	test.ExpectSuccess(t, m.ReadDataNW())
}
