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

package controller

import (
	"context"
	"sync"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/peripherals"
	"github.com/jetsetilly/nugopher/scheduler"
	"github.com/jetsetilly/nugopher/simgr"
)

// Minor numbers of the controller manager's commands.
const (
	MinorRetrace = simgr.MinorRetrace
	MinorRead    = uint8(0x01)
	MinorReadNW  = uint8(0x02)
	MinorQuery   = uint8(0x03)
)

// Codes of the controller manager's commands.
var (
	ReadCode   = simgr.Code{Major: simgr.MajorController, Minor: MinorRead}
	ReadNWCode = simgr.Code{Major: simgr.MajorController, Minor: MinorReadNW}
	QueryCode  = simgr.Code{Major: simgr.MajorController, Minor: MinorQuery}
)

// NotConnected is the error in the Data of a port with no pad.
const NotConnected = "controller: no pad in port %d"

// Data is the result of reading one controller port.
type Data struct {
	Button uint16
	StickX int8
	StickY int8

	// buttons pressed since the previous read
	Trigger uint16

	// NotConnected if there is no pad in the port
	Err error
}

// ReadFunc is called by the manager after every read, with the data of all
// four ports.
type ReadFunc func(data [peripherals.MaxControllers]Data)

// Manager is the controller pad manager.
type Manager struct {
	env  *environment.Environment
	dsp  *simgr.Dispatcher
	list *simgr.CallbackList
	src  PadSource

	crit   sync.Mutex
	data   [peripherals.MaxControllers]Data
	locked bool

	readFunc scheduler.Slot[ReadFunc]
}

// NewManager creates the controller manager and registers it with the
// dispatcher.
func NewManager(env *environment.Environment, dsp *simgr.Dispatcher, src PadSource) (*Manager, error) {
	m := &Manager{
		env: env,
		dsp: dsp,
		src: src,
	}
	m.list = &simgr.CallbackList{
		Major: simgr.MajorController,
		Handlers: []simgr.Handler{
			m.retrace,
			m.read,
			m.readNW,
			m.query,
		},
	}
	if err := dsp.Register(m.list); err != nil {
		return nil, err
	}
	return m, nil
}

// Remove the manager from the dispatcher.
func (m *Manager) Remove() {
	m.dsp.Unregister(m.list)
}

// sample reads all the ports and stores the result. Returns a copy of the
// stored data.
func (m *Manager) sample() [peripherals.MaxControllers]Data {
	m.crit.Lock()
	for port := range m.data {
		s, ok := m.src.Pad(port)
		if !ok {
			m.data[port] = Data{Err: curated.Errorf(NotConnected, port)}
			continue
		}
		prev := m.data[port].Button
		m.data[port] = Data{
			Button:  s.Button,
			StickX:  s.StickX,
			StickY:  s.StickY,
			Trigger: s.Button &^ prev,
		}
	}
	data := m.data
	m.crit.Unlock()

	if f, ok := m.readFunc.Get(); ok {
		f(data)
	}

	return data
}

func (m *Manager) retrace(cmd *simgr.Command) (simgr.Result, error) {
	if cmd.PreReset {
		return simgr.Continue, nil
	}
	m.crit.Lock()
	locked := m.locked
	m.crit.Unlock()
	if !locked {
		m.sample()
	}
	return simgr.Continue, nil
}

func (m *Manager) read(cmd *simgr.Command) (simgr.Result, error) {
	data := m.sample()
	if p, ok := cmd.Data.(*[peripherals.MaxControllers]Data); ok {
		*p = data
	}
	return simgr.Continue, nil
}

func (m *Manager) readNW(cmd *simgr.Command) (simgr.Result, error) {
	m.sample()
	return simgr.Continue, nil
}

func (m *Manager) query(cmd *simgr.Command) (simgr.Result, error) {
	var pattern uint8
	for port := range peripherals.MaxControllers {
		if _, ok := m.src.Pad(port); ok {
			pattern |= 1 << port
		}
	}
	if p, ok := cmd.Data.(*uint8); ok {
		*p = pattern
	}
	return simgr.Continue, nil
}

// ReadData reads the controllers and waits for the result.
func (m *Manager) ReadData(ctx context.Context) ([peripherals.MaxControllers]Data, error) {
	var data [peripherals.MaxControllers]Data
	err := m.dsp.Send(ctx, ReadCode, &data)
	return data, err
}

// ReadDataNW requests a read of the controllers without waiting. The result
// is collected with DataGet().
func (m *Manager) ReadDataNW() error {
	return m.dsp.SendNB(ReadNWCode, nil)
}

// QueryRead returns a bit pattern of the ports with a connected pad.
func (m *Manager) QueryRead(ctx context.Context) (uint8, error) {
	var pattern uint8
	err := m.dsp.Send(ctx, QueryCode, &pattern)
	return pattern, err
}

// DataGet returns the most recent data for the port.
func (m *Manager) DataGet(port int) Data {
	if err := peripherals.CheckPort("controller", port); err != nil {
		return Data{Err: err}
	}
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.data[port]
}

// DataLock stops the automatic read on retrace. Explicit reads still happen.
func (m *Manager) DataLock() {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.locked = true
}

// DataUnlock restarts the automatic read on retrace.
func (m *Manager) DataUnlock() {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.locked = false
}

// SetReadFunc sets the function called after every read. A nil function
// unregisters the callback.
func (m *Manager) SetReadFunc(f ReadFunc) {
	if f == nil {
		m.readFunc.Clear()
		return
	}
	m.readFunc.Set(f)
}
