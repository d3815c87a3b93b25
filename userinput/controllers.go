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

package userinput

import (
	"sync"

	"github.com/jetsetilly/nugopher/peripherals/controller"
)

// DefaultHold is the number of retraces a key press is held for.
const DefaultHold = 10

// Controllers keeps track of the buttons held by key presses.
type Controllers struct {
	pads   *controller.Pads
	port   int
	keymap Keymap
	hold   int

	crit  sync.Mutex
	held  map[uint16]int
	stick int
	x, y  int8

	// whether or not the last key was mapped to the pad
	LastKeyHandled bool

	// is true if the interrupt key has been pressed
	Quit bool
}

// NewControllers is the preferred method of initialisation for the
// Controllers type. Key presses are sent to the pad in the port.
func NewControllers(pads *controller.Pads, port int, keymap Keymap, hold int) *Controllers {
	if keymap == nil {
		keymap = DefaultKeymap
	}
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Controllers{
		pads:   pads,
		port:   port,
		keymap: keymap,
		hold:   hold,
		held:   make(map[uint16]int),
	}
}

// Keyboard handles a key press.
func (c *Controllers) Keyboard(ev EventKeyboard) {
	c.crit.Lock()
	defer c.crit.Unlock()

	c.LastKeyHandled = true

	switch ev.Key {
	case KeyNameInterrupt:
		c.Quit = true
		return
	case KeyNameUp:
		c.setStick(0, StickDeflection)
		return
	case KeyNameDown:
		c.setStick(0, -StickDeflection)
		return
	case KeyNameLeft:
		c.setStick(-StickDeflection, 0)
		return
	case KeyNameRight:
		c.setStick(StickDeflection, 0)
		return
	}

	b, ok := c.keymap[ev.Key]
	if !ok {
		c.LastKeyHandled = false
		return
	}
	c.held[b] = c.hold
	c.pads.Press(c.port, b)
}

func (c *Controllers) setStick(x, y int8) {
	c.x = x
	c.y = y
	c.stick = c.hold
	c.pads.Stick(c.port, x, y)
}

// Tick is called once per retrace. Buttons that have been held for long
// enough are released and the stick is centred.
func (c *Controllers) Tick() {
	c.crit.Lock()
	defer c.crit.Unlock()

	for b, n := range c.held {
		n--
		if n <= 0 {
			delete(c.held, b)
			c.pads.Release(c.port, b)
			continue
		}
		c.held[b] = n
	}

	if c.stick > 0 {
		c.stick--
		if c.stick == 0 {
			c.x = 0
			c.y = 0
			c.pads.Stick(c.port, 0, 0)
		}
	}
}

// Quitting returns true if the interrupt key has been pressed.
func (c *Controllers) Quitting() bool {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.Quit
}
