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

package random

import (
	"math/rand"
	"time"
)

// the base seed for all random numbers
var baseSeed int64

// initialise base seed
func init() {
	baseSeed = int64(time.Now().Nanosecond())
}

// Counter returns the current retrace count.
type Counter interface {
	Retraces() uint32
}

// Random is a random number generator that is sensitive to the retrace
// count.
type Random struct {
	counter Counter

	// use zero seed rather than the random base seed
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom(counter Counter) *Random {
	return &Random{
		counter: counter,
	}
}

// new RNG from the standard library
func (rnd *Random) rand() *rand.Rand {
	var n int64
	if rnd.counter != nil {
		n = int64(rnd.counter.Retraces())
	}
	if rnd.ZeroSeed {
		return rand.New(rand.NewSource(n))
	}
	return rand.New(rand.NewSource(baseSeed + n))
}

// Intn returns a number in the range [0, n).
func (rnd *Random) Intn(n int) int {
	return rnd.rand().Intn(n)
}

// Uint32 returns a non-zero number.
func (rnd *Random) Uint32() uint32 {
	r := rnd.rand()
	for {
		if v := r.Uint32(); v != 0 {
			return v
		}
	}
}
