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

package assert

import (
	"fmt"
	"sync/atomic"
)

// Owner records the goroutine that is allowed to mutate a structure. The
// first goroutine to call Check() becomes the owner unless Claim() has been
// called explicitly.
//
// Checks are only performed when the program is built with the "assertions"
// build tag. Otherwise Check() returns immediately.
type Owner struct {
	name string
	id   atomic.Uint64
}

// NewOwner is the preferred method of initialisation for the Owner type. The
// name is used in the panic message.
func NewOwner(name string) *Owner {
	return &Owner{name: name}
}

// Claim ownership for the calling goroutine.
func (o *Owner) Claim() {
	if !Enabled {
		return
	}
	o.id.Store(GetGoRoutineID())
}

// Release ownership. The next call to Check() will set the owner.
func (o *Owner) Release() {
	o.id.Store(0)
}

// Check panics if the calling goroutine is not the owner.
func (o *Owner) Check() {
	if !Enabled {
		return
	}
	id := GetGoRoutineID()
	if o.id.CompareAndSwap(0, id) {
		return
	}
	if owner := o.id.Load(); owner != id {
		panic(fmt.Sprintf("assert: %s: owned by goroutine %d but accessed from goroutine %d", o.name, owner, id))
	}
}
