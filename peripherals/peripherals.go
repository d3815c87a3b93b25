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

// Package peripherals contains the peripheral managers of the serial
// interface. Each manager registers a simgr.CallbackList with the dispatcher
// at its own major number and is driven by commands sent through the
// dispatcher and by the per-retrace poll step.
//
// The managers are in the sub-packages:
//
//	controller	controller pads (major 0x01)
//	pak		controller memory paks (major 0x02)
//	rumble		rumble paks (major 0x03)
//	eeprom		cartridge EEPROM (major 0x04)
//	gbpak		Game Boy paks (major 0x05)
//	voice		voice recognition unit (major 0x06)
//
// This package holds the definitions shared by the managers.
package peripherals

import "github.com/jetsetilly/nugopher/curated"

// MaxControllers is the number of controller ports.
const MaxControllers = 4

// Sentinel error patterns shared by the peripheral managers.
const (
	NoDevice    = "%s: no device in port %d"
	InvalidPort = "%s: invalid port (%d)"
	BadArgument = "%s: bad argument: %v"
)

// CheckPort returns an error if the port is not a valid controller port.
func CheckPort(tag string, port int) error {
	if port < 0 || port >= MaxControllers {
		return curated.Errorf(InvalidPort, tag, port)
	}
	return nil
}

// Accessory is the type of device plugged into a controller's accessory slot.
type Accessory int

// List of valid Accessory values.
const (
	NoAccessory Accessory = iota
	MemoryPak
	RumblePak
	GameBoyPak
)

func (a Accessory) String() string {
	switch a {
	case NoAccessory:
		return "none"
	case MemoryPak:
		return "memory pak"
	case RumblePak:
		return "rumble pak"
	case GameBoyPak:
		return "game boy pak"
	}
	return "unknown"
}
