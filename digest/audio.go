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

package digest

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"sync"
)

// the length of the buffer used to collect samples. samples are added after
// the previous digest value
const audioBufferLength = 1024 + audioBufferStart

// the start of the sample data in the buffer
const audioBufferStart = sha1.Size

// Audio implements the rcp.AudioSink interface.
type Audio struct {
	crit     sync.Mutex
	digest   [sha1.Size]byte
	buffer   []uint8
	bufferCt int
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio() *Audio {
	return &Audio{
		buffer:   make([]uint8, audioBufferLength),
		bufferCt: audioBufferStart,
	}
}

// Hash implements the Digest interface. Samples that have not been flushed
// are not part of the hash.
func (dig *Audio) Hash() string {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *Audio) ResetDigest() {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	clear(dig.digest[:])
	dig.bufferCt = audioBufferStart
}

// SetAudio implements the rcp.AudioSink interface.
func (dig *Audio) SetAudio(samples []int16) error {
	dig.crit.Lock()
	defer dig.crit.Unlock()

	for _, s := range samples {
		binary.BigEndian.PutUint16(dig.buffer[dig.bufferCt:], uint16(s))
		dig.bufferCt += 2
		if dig.bufferCt >= audioBufferLength {
			dig.flush()
		}
	}
	return nil
}

// FlushAudio adds any buffered samples to the digest.
func (dig *Audio) FlushAudio() {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	if dig.bufferCt > audioBufferStart {
		dig.flush()
	}
}

func (dig *Audio) flush() {
	copy(dig.buffer, dig.digest[:])
	dig.digest = sha1.Sum(dig.buffer[:dig.bufferCt])
	dig.bufferCt = audioBufferStart
}
