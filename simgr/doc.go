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

// Package simgr is the serial interface manager. It receives commands for the
// peripheral managers (controllers, memory paks, rumble paks, EEPROM, Game
// Boy paks and voice recognition) on a single queue and routes each command
// to the manager that registered for it.
//
// Commands are addressed with a Code. The major number selects a
// CallbackList and the minor number selects a Handler in that list:
//
//	list := &simgr.CallbackList{
//		Major: simgr.MajorEeprom,
//		Handlers: []simgr.Handler{retrace, check, read, write},
//	}
//	err := mgr.Register(list)
//
// The Dispatcher is a retrace client of the scheduler. On every retrace it
// calls the first handler (minor zero) of every registered list. This is the
// poll step and is how the managers do their per-frame work.
//
// Commands are sent with Send(), which waits for the handler to finish, or
// with SendNB(), which does not. A command for which no handler exists fails
// with the NoRoute error.
package simgr
