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

// Package statsview is an optional package that will built only when the
// statsview build constraint is present. Without it, Launch() does nothing
// and Available() returns false.
//
// It provides a HTTP server running locally offering runtime statistics of
// the scheduler goroutines. Underlying funcionality provided by
// "github.com/go-echarts/statsview"
//
// After launch, graphical statistics will be viewable at:
//
//	localhost:12664/debug/statsview
//
// And standard Go pprof statistics available at:
//
//	localhost:12664/debug/pprof/
package statsview

// DefaultAddress is the address used by Launch() when the address argument
// is empty.
const DefaultAddress = "localhost:12664"

const url = "/debug/statsview"
