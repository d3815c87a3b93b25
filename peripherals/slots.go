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

package peripherals

import "sync"

// Slots records the accessory plugged into each controller. It is shared by
// the managers that need to know what is plugged in and by whatever decides
// what is plugged in (the command line, the terminal input, tests).
type Slots struct {
	crit  sync.Mutex
	slots [MaxControllers]Accessory
}

// Insert an accessory into the controller at port. Invalid ports are
// ignored.
func (s *Slots) Insert(port int, a Accessory) {
	if port < 0 || port >= MaxControllers {
		return
	}
	s.crit.Lock()
	defer s.crit.Unlock()
	s.slots[port] = a
}

// Accessory returns the accessory in the controller at port.
func (s *Slots) Accessory(port int) Accessory {
	if port < 0 || port >= MaxControllers {
		return NoAccessory
	}
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.slots[port]
}
