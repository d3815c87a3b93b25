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

package debugcon_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/debugcon"
	"github.com/jetsetilly/nugopher/test"
)

func TestCPuts(t *testing.T) {
	con := debugcon.NewConsole()

	test.ExpectSuccess(t, con.CPuts(0, "hello"))
	w, err := con.Window(0)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, w.PosX, 5)
	test.ExpectEquality(t, w.PosY, 0)
	test.ExpectEquality(t, w.Text(0), "hello")

	test.ExpectSuccess(t, con.Puts(0, " world"))
	test.ExpectSuccess(t, con.CPuts(0, "a\tb\rc"))
	w, _ = con.Window(0)
	test.ExpectEquality(t, w.Text(0), "hello world")
	test.ExpectEquality(t, w.Text(1), "c       b")
	test.ExpectEquality(t, w.PosX, 1)
	test.ExpectEquality(t, w.PosY, 1)

	test.ExpectSuccess(t, con.Clear(0))
	w, _ = con.Window(0)
	test.ExpectEquality(t, w.Text(0), "")
	test.ExpectEquality(t, w.PosX, 0)

	err = con.CPuts(debugcon.NumWindows, "x")
	test.ExpectSuccess(t, curated.Is(err, debugcon.InvalidWindow))
}

func TestWrapAndScroll(t *testing.T) {
	con := debugcon.NewConsole()
	test.ExpectSuccess(t, con.WindowSet(1, 2, 2, 4, 2))
	test.ExpectSuccess(t, con.WindowShow(1, true))

	// characters past the edge of the window move to the next line
	test.ExpectSuccess(t, con.CPuts(1, "abcdef"))
	w, _ := con.Window(1)
	test.ExpectEquality(t, w.Text(0), "abcd")
	test.ExpectEquality(t, w.Text(1), "ef")

	// the window scrolls when the bottom line is full
	test.ExpectSuccess(t, con.CPuts(1, "ghij"))
	w, _ = con.Window(1)
	test.ExpectEquality(t, w.Text(0), "efgh")
	test.ExpectEquality(t, w.Text(1), "ij")

	// without scrolling the cursor returns to the top line
	test.ExpectSuccess(t, con.SetScroll(1, false))
	test.ExpectSuccess(t, con.CPuts(1, "\nkl"))
	w, _ = con.Window(1)
	test.ExpectEquality(t, w.Text(0), "klgh")
	test.ExpectEquality(t, w.PosY, 0)
}

func TestDisp(t *testing.T) {
	con := debugcon.NewConsole()
	test.ExpectSuccess(t, con.Puts(0, "background"))
	test.ExpectSuccess(t, con.WindowSet(2, 4, 0, 4, 1))
	test.ExpectSuccess(t, con.WindowShow(2, true))
	test.ExpectSuccess(t, con.CPuts(2, "XYZ"))

	s := strings.Builder{}
	test.ExpectSuccess(t, con.Disp(&s, false))
	lines := strings.Split(s.String(), "\n")
	test.ExpectEquality(t, len(lines), debugcon.Rows+1)
	test.ExpectEquality(t, lines[0], "backXYZ nd")
	test.ExpectEquality(t, lines[1], "")

	test.ExpectSuccess(t, con.TextColor(0, debugcon.LightRed))
	test.ExpectSuccess(t, con.TextAttr(0, debugcon.Reverse))
	test.ExpectSuccess(t, con.CPuts(0, "!"))
	s.Reset()
	test.ExpectSuccess(t, con.Disp(&s, true))
	test.ExpectSuccess(t, strings.Contains(s.String(), "\033[91;7m!"))
}
