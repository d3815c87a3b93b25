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

	"github.com/jetsetilly/nugopher/scheduler"
)

// Video produces a hash of every frame buffer swapped onto the display. The
// hash of each frame is chained to the hash of the previous frame.
type Video struct {
	crit   sync.Mutex
	digest [sha1.Size]byte
	pixels []byte
	frames int
}

// NewVideo is the preferred method of initialisation for the Video type.
func NewVideo() *Video {
	return &Video{}
}

// Hash implements the Digest interface.
func (dig *Video) Hash() string {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *Video) ResetDigest() {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	clear(dig.digest[:])
	dig.frames = 0
}

// Frames returns the number of frames in the digest.
func (dig *Video) Frames() int {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	return dig.frames
}

// Swapped adds the frame buffer to the digest. It has the signature of a
// scheduler.SwapFunc.
func (dig *Video) Swapped(fb *scheduler.FrameBuffer) {
	dig.crit.Lock()
	defer dig.crit.Unlock()

	// the previous digest is at the head of the pixel data
	l := len(dig.digest) + len(fb.Pixels)*2
	if len(dig.pixels) != l {
		dig.pixels = make([]byte, l)
	}
	n := copy(dig.pixels, dig.digest[:])
	for i, p := range fb.Pixels {
		binary.BigEndian.PutUint16(dig.pixels[n+i*2:], p)
	}

	dig.digest = sha1.Sum(dig.pixels)
	dig.frames++
}
