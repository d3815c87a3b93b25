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

// Package gbpak is the manager for the Game Boy pak, the controller
// accessory that connects a Game Boy cartridge to a controller port.
//
// The cartridge is read and written through the Game Boy address space. The
// memory bank controller of the cartridge is programmed by writing to the ROM
// area, for which RegWrite() is provided. The pak must be powered on with
// Power() before the cartridge can be accessed.
package gbpak

import (
	"context"
	"sync"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/logger"
	"github.com/jetsetilly/nugopher/peripherals"
	"github.com/jetsetilly/nugopher/simgr"
)

// Minor numbers of the Game Boy pak manager's commands.
const (
	MinorRetrace        = simgr.MinorRetrace
	MinorOpen           = uint8(0x01)
	MinorStatus         = uint8(0x02)
	MinorPower          = uint8(0x03)
	MinorReadID         = uint8(0x04)
	MinorReadWrite      = uint8(0x05)
	MinorCheckConnector = uint8(0x06)
)

// Sentinel error patterns returned by the Game Boy pak manager.
const (
	NoCartridge    = "gbpak: port %d: no cartridge"
	Pulled         = "gbpak: port %d: cartridge has been pulled"
	PowerOff       = "gbpak: port %d: power is off"
	ContactFailure = "gbpak: port %d: cartridge connector failure"
)

// Bits in the status of the pak.
const (
	StatusPower  uint8 = 0x01
	StatusPulled uint8 = 0x40
	StatusCartOn uint8 = 0x80
)

// BlockSize is the unit of access. The address and the length of the buffer
// given to ReadWrite() must be multiples of BlockSize.
const BlockSize = 32

// Direction of ReadWrite().
type Direction int

// List of valid Direction values.
const (
	Read Direction = iota
	Write
)

// Handle to a Game Boy pak.
type Handle struct {
	Port int
}

type port struct {
	cart   *Cartridge
	power  bool
	pulled bool
}

func (p *port) status() uint8 {
	var s uint8
	if p.power {
		s |= StatusPower
	}
	if p.pulled {
		s |= StatusPulled
	}
	if p.cart != nil {
		s |= StatusCartOn
	}
	return s
}

type power struct {
	handle *Handle
	on     bool
}

type status struct {
	handle *Handle
	status uint8
}

type readID struct {
	handle *Handle
	id     ID
	status uint8
}

type readWrite struct {
	handle *Handle
	dir    Direction
	addr   uint16
	buf    []uint8
}

// Manager is the Game Boy pak manager.
type Manager struct {
	env   *environment.Environment
	dsp   *simgr.Dispatcher
	list  *simgr.CallbackList
	slots *peripherals.Slots

	crit  sync.Mutex
	ports [peripherals.MaxControllers]port
}

// NewManager creates the Game Boy pak manager and registers it with the
// dispatcher.
func NewManager(env *environment.Environment, dsp *simgr.Dispatcher, slots *peripherals.Slots) (*Manager, error) {
	m := &Manager{
		env:   env,
		dsp:   dsp,
		slots: slots,
	}
	m.list = &simgr.CallbackList{
		Major: simgr.MajorGbPak,
		Handlers: []simgr.Handler{
			m.retrace,
			m.open,
			m.status,
			m.power,
			m.readID,
			m.readWrite,
			m.checkConnector,
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

// Insert a cartridge into the pak in the port.
func (m *Manager) Insert(p int, cart *Cartridge) error {
	if err := peripherals.CheckPort("gbpak", p); err != nil {
		return err
	}
	if cart == nil {
		return curated.Errorf(peripherals.BadArgument, "gbpak", "nil cartridge")
	}
	m.crit.Lock()
	defer m.crit.Unlock()
	m.ports[p].cart = cart
	logger.Logf(m.env, "gbpak", "port %d: inserted %s", p, cart.name)
	return nil
}

// Pull the cartridge out of the pak in the port. The pulled status remains
// until the pak is opened again.
func (m *Manager) Pull(p int) error {
	if err := peripherals.CheckPort("gbpak", p); err != nil {
		return err
	}
	m.crit.Lock()
	defer m.crit.Unlock()
	if m.ports[p].cart != nil {
		m.ports[p].cart = nil
		m.ports[p].pulled = true
	}
	return nil
}

func (m *Manager) retrace(_ *simgr.Command) (simgr.Result, error) {
	m.crit.Lock()
	defer m.crit.Unlock()

	// a pak that is removed from the controller powers off
	for p := range m.ports {
		if m.ports[p].power && m.slots.Accessory(p) != peripherals.GameBoyPak {
			m.ports[p].power = false
			logger.Logf(m.env, "gbpak", "port %d: pak removed", p)
		}
	}
	return simgr.Continue, nil
}

// port returns the state of the port of the handle. must be called with the
// critical section locked.
func (m *Manager) port(h *Handle) (*port, error) {
	if h == nil {
		return nil, curated.Errorf(peripherals.BadArgument, "gbpak", "nil handle")
	}
	if err := peripherals.CheckPort("gbpak", h.Port); err != nil {
		return nil, err
	}
	if m.slots.Accessory(h.Port) != peripherals.GameBoyPak {
		return nil, curated.Errorf(peripherals.NoDevice, "gbpak", h.Port)
	}
	return &m.ports[h.Port], nil
}

// cartridge returns the cartridge for the handle. the pak must be powered on.
// must be called with the critical section locked.
func (m *Manager) cartridge(h *Handle) (*port, error) {
	p, err := m.port(h)
	if err != nil {
		return nil, err
	}
	if p.pulled {
		return p, curated.Errorf(Pulled, h.Port)
	}
	if p.cart == nil {
		return p, curated.Errorf(NoCartridge, h.Port)
	}
	if !p.power {
		return p, curated.Errorf(PowerOff, h.Port)
	}
	return p, nil
}

func (m *Manager) open(cmd *simgr.Command) (simgr.Result, error) {
	h, ok := cmd.Data.(*Handle)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "gbpak", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	p, err := m.port(h)
	if err != nil {
		return simgr.Continue, err
	}
	p.pulled = false
	p.power = false
	if p.cart == nil {
		return simgr.Continue, curated.Errorf(NoCartridge, h.Port)
	}
	return simgr.Continue, nil
}

func (m *Manager) status(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(*status)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "gbpak", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	p, err := m.port(a.handle)
	if err != nil {
		return simgr.Continue, err
	}
	a.status = p.status()
	if p.pulled {
		return simgr.Continue, curated.Errorf(Pulled, a.handle.Port)
	}
	return simgr.Continue, nil
}

func (m *Manager) power(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(power)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "gbpak", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	p, err := m.port(a.handle)
	if err != nil {
		return simgr.Continue, err
	}
	if a.on && p.cart == nil {
		return simgr.Continue, curated.Errorf(NoCartridge, a.handle.Port)
	}
	p.power = a.on
	return simgr.Continue, nil
}

func (m *Manager) readID(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(*readID)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "gbpak", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	p, err := m.cartridge(a.handle)
	if p != nil {
		a.status = p.status()
	}
	if err != nil {
		return simgr.Continue, err
	}
	if !p.cart.connected() {
		return simgr.Continue, curated.Errorf(ContactFailure, a.handle.Port)
	}
	a.id = p.cart.ID()
	return simgr.Continue, nil
}

func (m *Manager) readWrite(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(readWrite)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "gbpak", cmd.Data)
	}
	if a.addr%BlockSize != 0 || len(a.buf)%BlockSize != 0 || int(a.addr)+len(a.buf) > 0x10000 {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "gbpak", "access is not a whole number of blocks")
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	p, err := m.cartridge(a.handle)
	if err != nil {
		return simgr.Continue, err
	}

	switch a.dir {
	case Read:
		for i := range a.buf {
			a.buf[i] = p.cart.read(a.addr + uint16(i))
		}
	case Write:
		for i, v := range a.buf {
			p.cart.write(a.addr+uint16(i), v)
		}
	}
	return simgr.Continue, nil
}

func (m *Manager) checkConnector(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(*status)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "gbpak", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	p, err := m.cartridge(a.handle)
	if p != nil {
		a.status = p.status()
	}
	if err != nil {
		return simgr.Continue, err
	}
	if !p.cart.connected() {
		return simgr.Continue, curated.Errorf(ContactFailure, a.handle.Port)
	}
	return simgr.Continue, nil
}

func code(minor uint8) simgr.Code {
	return simgr.Code{Major: simgr.MajorGbPak, Minor: minor}
}

// Open the Game Boy pak in the port. The pak is powered off and the pulled
// status is cleared.
func (m *Manager) Open(ctx context.Context, p int) (*Handle, error) {
	h := &Handle{Port: p}
	if err := m.dsp.Send(ctx, code(MinorOpen), h); err != nil {
		return nil, err
	}
	return h, nil
}

// Status returns the status bits of the pak.
func (m *Manager) Status(ctx context.Context, h *Handle) (uint8, error) {
	a := &status{handle: h}
	err := m.dsp.Send(ctx, code(MinorStatus), a)
	return a.status, err
}

// Power the pak on or off.
func (m *Manager) Power(ctx context.Context, h *Handle, on bool) error {
	return m.dsp.Send(ctx, code(MinorPower), power{handle: h, on: on})
}

// ReadID returns the cartridge header and the status bits of the pak.
func (m *Manager) ReadID(ctx context.Context, h *Handle) (ID, uint8, error) {
	a := &readID{handle: h}
	err := m.dsp.Send(ctx, code(MinorReadID), a)
	return a.id, a.status, err
}

// ReadWrite reads from or writes to the cartridge address space.
func (m *Manager) ReadWrite(ctx context.Context, h *Handle, dir Direction, addr uint16, buf []uint8) error {
	return m.dsp.Send(ctx, code(MinorReadWrite), readWrite{handle: h, dir: dir, addr: addr, buf: buf})
}

// Read from the cartridge address space.
func (m *Manager) Read(ctx context.Context, h *Handle, addr uint16, buf []uint8) error {
	return m.ReadWrite(ctx, h, Read, addr, buf)
}

// Write to the cartridge address space.
func (m *Manager) Write(ctx context.Context, h *Handle, addr uint16, buf []uint8) error {
	return m.ReadWrite(ctx, h, Write, addr, buf)
}

// RegWrite writes a value to a memory bank controller register. The address
// is rounded down to a block boundary.
func (m *Manager) RegWrite(ctx context.Context, h *Handle, addr uint16, v uint8) error {
	buf := make([]uint8, BlockSize)
	for i := range buf {
		buf[i] = v
	}
	return m.ReadWrite(ctx, h, Write, addr&^(BlockSize-1), buf)
}

// CheckConnector returns an error if the cartridge cannot be read correctly
// through the connector.
func (m *Manager) CheckConnector(ctx context.Context, h *Handle) (uint8, error) {
	a := &status{handle: h}
	err := m.dsp.Send(ctx, code(MinorCheckConnector), a)
	return a.status, err
}
