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

package pak

import (
	"bytes"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/logger"
	"github.com/jetsetilly/nugopher/resources"
)

// Geometry of a controller pak.
const (
	PageSize  = 256
	Pages     = 123
	BlockSize = 32
	MaxNotes  = 16
	NameLen   = 16
	ExtLen    = 4
)

// Note is one file in a controller pak. Name and Ext are in N64 character
// codes.
type Note struct {
	CompanyCode uint16 `cbor:"company"`
	GameCode    uint32 `cbor:"game"`
	Name        []uint8 `cbor:"name"`
	Ext         []uint8 `cbor:"ext"`
	Data        []uint8 `cbor:"data"`
}

func (n *Note) pages() int {
	return len(n.Data) / PageSize
}

func (n *Note) matches(company uint16, game uint32, name []uint8, ext []uint8) bool {
	return n.CompanyCode == company && n.GameCode == game &&
		bytes.Equal(n.Name, name) && bytes.Equal(n.Ext, ext)
}

// Image is the content of a controller pak. An ID of zero means the ID area
// of the pak is damaged.
type Image struct {
	ID    uint32  `cbor:"id"`
	Notes []*Note `cbor:"notes"`
}

func newImage(id uint32) *Image {
	return &Image{
		ID:    id,
		Notes: make([]*Note, MaxNotes),
	}
}

// normalise makes sure the note table is the correct size.
func (img *Image) normalise() {
	if len(img.Notes) > MaxNotes {
		img.Notes = img.Notes[:MaxNotes]
	}
	for len(img.Notes) < MaxNotes {
		img.Notes = append(img.Notes, nil)
	}
}

func (img *Image) freePages() int {
	used := 0
	for _, n := range img.Notes {
		if n != nil {
			used += n.pages()
		}
	}
	return Pages - used
}

func (img *Image) used() int {
	c := 0
	for _, n := range img.Notes {
		if n != nil {
			c++
		}
	}
	return c
}

// find returns the index of the note or -1 if it is not found.
func (img *Image) find(company uint16, game uint32, name []uint8, ext []uint8) int {
	for i, n := range img.Notes {
		if n != nil && n.matches(company, game, name, ext) {
			return i
		}
	}
	return -1
}

// store persists the images of the controller paks.
type store struct {
	env *environment.Environment
	dir string
}

func (s store) filename(port int) (string, error) {
	return resources.JoinPath(s.dir, portFile(port))
}

// load the image for the port. returns nil if there is no image on disk.
func (s store) load(port int) *Image {
	if s.dir == "" {
		return nil
	}

	fn, err := s.filename(port)
	if err != nil {
		logger.Logf(s.env, "pak", "could not load pak image: %v", err)
		return nil
	}

	d, err := os.ReadFile(fn)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Logf(s.env, "pak", "could not load pak image: %v", err)
		}
		return nil
	}

	img := &Image{}
	err = cbor.Unmarshal(d, img)
	if err != nil {
		logger.Logf(s.env, "pak", "could not load pak image: %v", err)
		return nil
	}
	img.normalise()

	logger.Logf(s.env, "pak", "pak image loaded from %s", fn)
	return img
}

func (s store) save(port int, img *Image) {
	if s.dir == "" {
		return
	}

	fn, err := s.filename(port)
	if err != nil {
		logger.Logf(s.env, "pak", "could not save pak image: %v", err)
		return
	}

	d, err := cbor.Marshal(img)
	if err != nil {
		logger.Logf(s.env, "pak", "could not save pak image: %v", err)
		return
	}

	err = os.WriteFile(fn, d, 0o600)
	if err != nil {
		logger.Logf(s.env, "pak", "could not save pak image: %v", err)
	}
}
