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
	"github.com/jetsetilly/nugopher/peripherals/controller"
)

// EventKeyboard is a key press from the terminal. The key is a printable
// character or one of the KeyName values.
type EventKeyboard struct {
	Key string
}

// Keymap maps key names to pad buttons.
type Keymap map[string]uint16

// DefaultKeymap is the keymap used when NewControllers() is given a nil
// keymap.
var DefaultKeymap = Keymap{
	"z":           controller.ButtonA,
	"x":           controller.ButtonB,
	"c":           controller.ButtonZ,
	"q":           controller.ButtonL,
	"e":           controller.ButtonR,
	KeyNameReturn: controller.ButtonStart,

	"w": controller.ButtonUp,
	"s": controller.ButtonDown,
	"a": controller.ButtonLeft,
	"d": controller.ButtonRight,

	"i": controller.ButtonCUp,
	"k": controller.ButtonCDown,
	"j": controller.ButtonCLeft,
	"l": controller.ButtonCRight,
}

// StickDeflection is the stick position given to a cursor key.
const StickDeflection = 80
