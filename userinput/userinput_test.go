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

package userinput_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jetsetilly/nugopher/peripherals/controller"
	"github.com/jetsetilly/nugopher/test"
	"github.com/jetsetilly/nugopher/userinput"
)

func TestDecoder(t *testing.T) {
	var dec userinput.Decoder
	var keys []string

	for _, b := range []byte("a\033[A\033[D\r\033\033[Bx\t") {
		if k, ok := dec.Decode(b); ok {
			keys = append(keys, k)
		}
	}

	expected := []string{"a", "Up", "Left", "Return", "Escape", "Down", "x", "Tab"}
	test.ExpectEquality(t, len(keys), len(expected))
	for i := range expected {
		test.ExpectEquality(t, keys[i], expected[i], i)
	}

	_, ok := dec.Decode(27)
	test.ExpectFailure(t, ok)
	k, ok := dec.Flush()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, k, "Escape")
}

func TestHold(t *testing.T) {
	pads := controller.NewPads(0)
	c := userinput.NewControllers(pads, 0, nil, 2)

	c.Keyboard(userinput.EventKeyboard{Key: "z"})
	test.ExpectSuccess(t, c.LastKeyHandled)
	c.Keyboard(userinput.EventKeyboard{Key: userinput.KeyNameLeft})

	s, ok := pads.Pad(0)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, s.Button, controller.ButtonA)
	test.ExpectEquality(t, s.StickX, int8(-userinput.StickDeflection))

	c.Tick()
	s, _ = pads.Pad(0)
	test.ExpectEquality(t, s.Button, controller.ButtonA)

	c.Tick()
	s, _ = pads.Pad(0)
	test.ExpectEquality(t, s.Button, uint16(0))
	test.ExpectEquality(t, s.StickX, int8(0))

	c.Keyboard(userinput.EventKeyboard{Key: "?"})
	test.ExpectFailure(t, c.LastKeyHandled)
}

func TestFeed(t *testing.T) {
	pads := controller.NewPads(1)
	c := userinput.NewControllers(pads, 1, nil, 0)

	err := userinput.Feed(context.Background(), strings.NewReader("zx\rw"), c)
	test.ExpectSuccess(t, err)

	s, _ := pads.Pad(1)
	test.ExpectEquality(t, s.Button, controller.ButtonA|controller.ButtonB|controller.ButtonStart|controller.ButtonUp)
	test.ExpectFailure(t, c.Quitting())

	// the interrupt key ends the feed before the rest of the input
	err = userinput.Feed(context.Background(), strings.NewReader("\x03c"), c)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, c.Quitting())
	s, _ = pads.Pad(1)
	test.ExpectEquality(t, s.Button&controller.ButtonZ, uint16(0))
}
