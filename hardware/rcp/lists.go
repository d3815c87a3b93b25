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

package rcp

import (
	"crypto/sha1"
	"encoding/binary"
)

// Faulty is implemented by command lists that cause the task to fault.
type Faulty interface {
	Fault() error
}

// GfxList is the command list for the graphics unit.
type GfxList struct {
	Commands []uint32

	// if not nil, the task faults with this error
	Err error
}

// Fault implements the Faulty interface.
func (l GfxList) Fault() error {
	return l.Err
}

// Digest returns the SHA1 digest of the commands.
func (l GfxList) Digest() [sha1.Size]byte {
	b := make([]byte, len(l.Commands)*4)
	for i, c := range l.Commands {
		binary.BigEndian.PutUint32(b[i*4:], c)
	}
	return sha1.Sum(b)
}

// AudioList is the command list for the audio unit. Samples are interleaved
// stereo.
type AudioList struct {
	Samples    []int16
	SampleRate int

	// if not nil, the task faults with this error
	Err error
}

// Fault implements the Faulty interface.
func (l AudioList) Fault() error {
	return l.Err
}
