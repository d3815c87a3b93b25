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
	"sync"

	"github.com/jetsetilly/nugopher/peripherals"
)

// Button bits in the Button field of Status and Data.
const (
	ButtonCRight uint16 = 0x0001
	ButtonCLeft  uint16 = 0x0002
	ButtonCDown  uint16 = 0x0004
	ButtonCUp    uint16 = 0x0008
	ButtonR      uint16 = 0x0010
	ButtonL      uint16 = 0x0020
	ButtonRight  uint16 = 0x0100
	ButtonLeft   uint16 = 0x0200
	ButtonDown   uint16 = 0x0400
	ButtonUp     uint16 = 0x0800
	ButtonStart  uint16 = 0x1000
	ButtonZ      uint16 = 0x2000
	ButtonB      uint16 = 0x4000
	ButtonA      uint16 = 0x8000
)

// Status is the state of a controller pad as read from the port.
type Status struct {
	Button uint16
	StickX int8
	StickY int8
}

// PadSource is implemented by anything that can supply the state of the
// controller pads.
type PadSource interface {
	// Pad returns the status of the pad in the port. The boolean is false if
	// no pad is connected
	Pad(port int) (Status, bool)
}

// Pads is a PadSource whose state is set directly. It is safe for concurrent
// use.
type Pads struct {
	crit      sync.Mutex
	status    [peripherals.MaxControllers]Status
	connected [peripherals.MaxControllers]bool
}

// NewPads returns a Pads instance with pads connected to the ports listed.
func NewPads(ports ...int) *Pads {
	p := &Pads{}
	for _, port := range ports {
		p.Connect(port, true)
	}
	return p
}

func valid(port int) bool {
	return port >= 0 && port < peripherals.MaxControllers
}

// Connect or disconnect the pad in the port.
func (p *Pads) Connect(port int, connected bool) {
	if !valid(port) {
		return
	}
	p.crit.Lock()
	defer p.crit.Unlock()
	p.connected[port] = connected
	if !connected {
		p.status[port] = Status{}
	}
}

// Set the status of the pad in the port.
func (p *Pads) Set(port int, s Status) {
	if !valid(port) {
		return
	}
	p.crit.Lock()
	defer p.crit.Unlock()
	p.status[port] = s
}

// Press the buttons on the pad in the port.
func (p *Pads) Press(port int, button uint16) {
	if !valid(port) {
		return
	}
	p.crit.Lock()
	defer p.crit.Unlock()
	p.status[port].Button |= button
}

// Release the buttons on the pad in the port.
func (p *Pads) Release(port int, button uint16) {
	if !valid(port) {
		return
	}
	p.crit.Lock()
	defer p.crit.Unlock()
	p.status[port].Button &^= button
}

// Stick sets the position of the analogue stick on the pad in the port.
func (p *Pads) Stick(port int, x int8, y int8) {
	if !valid(port) {
		return
	}
	p.crit.Lock()
	defer p.crit.Unlock()
	p.status[port].StickX = x
	p.status[port].StickY = y
}

// Pad implements the PadSource interface.
func (p *Pads) Pad(port int) (Status, bool) {
	if !valid(port) {
		return Status{}, false
	}
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.status[port], p.connected[port]
}
