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

// Package controller is the controller pad manager. On every retrace the
// manager reads the state of the four controller ports from a PadSource and
// keeps the result for the application to collect with DataGet().
//
// The automatic read can be paused with DataLock() while the application
// reads the data in several steps. A read can also be requested explicitly
// with ReadData(), which waits for the result, or ReadDataNW(), which does
// not.
package controller
