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
	"context"
	"errors"
	"io"
	"time"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/pkg/term"
)

// the read timeout of the terminal. the context is checked after every
// timeout
const readTimeout = 100 * time.Millisecond

// Terminal is the input terminal in cbreak mode.
type Terminal struct {
	t *term.Term
}

// OpenTerminal opens the terminal device in cbreak mode. The device is
// normally /dev/tty.
func OpenTerminal(device string) (*Terminal, error) {
	t, err := term.Open(device, term.CBreakMode)
	if err != nil {
		return nil, curated.Errorf("userinput: %v", err)
	}
	if err := t.SetReadTimeout(readTimeout); err != nil {
		_ = t.Restore()
		_ = t.Close()
		return nil, curated.Errorf("userinput: %v", err)
	}
	return &Terminal{t: t}, nil
}

// Read implements the io.Reader interface. A read that times out returns no
// data and no error.
func (t *Terminal) Read(b []byte) (int, error) {
	n, err := t.t.Read(b)
	if n == 0 && errors.Is(err, io.EOF) {
		return 0, nil
	}
	return n, err
}

// Close restores the terminal to its original mode and closes it.
func (t *Terminal) Close() error {
	if err := t.t.Restore(); err != nil {
		_ = t.t.Close()
		return curated.Errorf("userinput: %v", err)
	}
	return t.t.Close()
}

// Feed reads key presses from the reader and sends them to the controllers.
// A read that returns no data ends any partial escape sequence. Feed returns
// when the reader is exhausted, the context is done, or the interrupt key is
// pressed.
func Feed(ctx context.Context, r io.Reader, c *Controllers) error {
	var dec Decoder
	b := make([]byte, 16)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.Read(b)
		for _, v := range b[:n] {
			if key, ok := dec.Decode(v); ok {
				c.Keyboard(EventKeyboard{Key: key})
				if c.Quitting() {
					return nil
				}
			}
		}

		if n == 0 {
			if key, ok := dec.Flush(); ok {
				c.Keyboard(EventKeyboard{Key: key})
			}
		}

		if c.Quitting() {
			return nil
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				if key, ok := dec.Flush(); ok {
					c.Keyboard(EventKeyboard{Key: key})
				}
				return nil
			}
			return curated.Errorf("userinput: %v", err)
		}
	}
}
