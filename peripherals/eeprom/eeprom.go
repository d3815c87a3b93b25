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

// Package eeprom is the manager for the EEPROM fitted to some cartridges.
// The EEPROM is 4K bits (64 blocks) or 16K bits (256 blocks) and is read and
// written in blocks of eight bytes.
//
// Changes are written to disk by the poll step on the retrace following the
// change and by the poll step for the pre-reset notice.
package eeprom

import (
	"context"
	"sync"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/peripherals"
	"github.com/jetsetilly/nugopher/simgr"
)

// Minor numbers of the EEPROM manager's commands.
const (
	MinorRetrace = simgr.MinorRetrace
	MinorCheck   = uint8(0x01)
	MinorRead    = uint8(0x02)
	MinorWrite   = uint8(0x03)
)

// Codes of the EEPROM manager's commands.
var (
	CheckCode = simgr.Code{Major: simgr.MajorEeprom, Minor: MinorCheck}
	ReadCode  = simgr.Code{Major: simgr.MajorEeprom, Minor: MinorRead}
	WriteCode = simgr.Code{Major: simgr.MajorEeprom, Minor: MinorWrite}
)

// the controller port the EEPROM is addressed through
const port = 4

type access struct {
	block int
	buf   []uint8
}

// Manager is the EEPROM manager.
type Manager struct {
	env  *environment.Environment
	dsp  *simgr.Dispatcher
	list *simgr.CallbackList
	typ  Type

	crit sync.Mutex
	mem  *memory
}

// NewManager creates the EEPROM manager and registers it with the
// dispatcher. The path is the name of the file the EEPROM is persisted to,
// relative to the resources directory. An empty path disables persistence.
func NewManager(env *environment.Environment, dsp *simgr.Dispatcher, typ Type, path string) (*Manager, error) {
	m := &Manager{
		env: env,
		dsp: dsp,
		typ: typ,
	}
	if typ != None {
		m.mem = newMemory(env, typ, path)
	}
	m.list = &simgr.CallbackList{
		Major: simgr.MajorEeprom,
		Handlers: []simgr.Handler{
			m.retrace,
			m.check,
			m.read,
			m.write,
		},
	}
	if err := dsp.Register(m.list); err != nil {
		return nil, err
	}
	return m, nil
}

// Remove the manager from the dispatcher. Unsaved changes are written to
// disk.
func (m *Manager) Remove() {
	m.dsp.Unregister(m.list)
	m.flush()
}

func (m *Manager) flush() {
	m.crit.Lock()
	defer m.crit.Unlock()
	if m.mem != nil && m.mem.dirty() {
		m.mem.write()
	}
}

func (m *Manager) retrace(_ *simgr.Command) (simgr.Result, error) {
	m.flush()
	return simgr.Continue, nil
}

func (m *Manager) check(cmd *simgr.Command) (simgr.Result, error) {
	if m.typ == None {
		return simgr.Continue, curated.Errorf(peripherals.NoDevice, "eeprom", port)
	}
	if p, ok := cmd.Data.(*Type); ok {
		*p = m.typ
	}
	return simgr.Continue, nil
}

func (m *Manager) validate(cmd *simgr.Command) (access, error) {
	a, ok := cmd.Data.(access)
	if !ok {
		return a, curated.Errorf(peripherals.BadArgument, "eeprom", cmd.Data)
	}
	if m.typ == None {
		return a, curated.Errorf(peripherals.NoDevice, "eeprom", port)
	}
	if len(a.buf)%BlockSize != 0 {
		return a, curated.Errorf(peripherals.BadArgument, "eeprom", "buffer is not a whole number of blocks")
	}
	if a.block < 0 || a.block+len(a.buf)/BlockSize > m.typ.Blocks() {
		return a, curated.Errorf(peripherals.BadArgument, "eeprom", "block out of range")
	}
	return a, nil
}

func (m *Manager) read(cmd *simgr.Command) (simgr.Result, error) {
	a, err := m.validate(cmd)
	if err != nil {
		return simgr.Continue, err
	}
	m.crit.Lock()
	defer m.crit.Unlock()
	copy(a.buf, m.mem.Data[a.block*BlockSize:])
	return simgr.Continue, nil
}

func (m *Manager) write(cmd *simgr.Command) (simgr.Result, error) {
	a, err := m.validate(cmd)
	if err != nil {
		return simgr.Continue, err
	}
	m.crit.Lock()
	defer m.crit.Unlock()
	copy(m.mem.Data[a.block*BlockSize:], a.buf)
	return simgr.Continue, nil
}

// Check returns the type of the EEPROM. Returns the peripherals.NoDevice
// error if there is no EEPROM.
func (m *Manager) Check(ctx context.Context) (Type, error) {
	var t Type
	err := m.dsp.Send(ctx, CheckCode, &t)
	return t, err
}

// Read len(buf)/BlockSize blocks starting at block.
func (m *Manager) Read(ctx context.Context, block int, buf []uint8) error {
	return m.dsp.Send(ctx, ReadCode, access{block: block, buf: buf})
}

// Write len(buf)/BlockSize blocks starting at block.
func (m *Manager) Write(ctx context.Context, block int, buf []uint8) error {
	return m.dsp.Send(ctx, WriteCode, access{block: block, buf: buf})
}
