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

// Package debugcon is the debug console. There are NumWindows text windows,
// each with its own cursor, colour and scroll setting. Disp() composites the
// visible windows onto a grid of Columns by Rows characters and writes the
// result to an io.Writer.
//
// Windows are drawn in order so a higher numbered window covers a lower
// numbered one.
package debugcon

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jetsetilly/nugopher/curated"
)

// Size of the console and the number of windows.
const (
	Columns    = 40
	Rows       = 30
	NumWindows = 4
	TabWidth   = 8
)

// InvalidWindow is returned for a window number that is out of range.
const InvalidWindow = "debugcon: invalid window (%d)"

type cell struct {
	ch    byte
	color Color
	attr  Attr
}

// Window is the state of one console window.
type Window struct {
	Show   bool
	Scroll bool
	Color  Color
	Attr   Attr

	// cursor position inside the window
	PosX int
	PosY int

	// position and size of the window on the console
	X      int
	Y      int
	Width  int
	Height int

	text [Rows][Columns]cell
}

func newWindow() *Window {
	w := &Window{
		Scroll: true,
		Color:  White,
		Width:  Columns,
		Height: Rows,
	}
	w.clear()
	return w
}

func (w *Window) clear() {
	for y := range w.text {
		for x := range w.text[y] {
			w.text[y][x] = cell{ch: ' ', color: w.Color}
		}
	}
	w.PosX = 0
	w.PosY = 0
}

// Text returns the text of the window line, without trailing spaces.
func (w *Window) Text(line int) string {
	if line < 0 || line >= w.Height {
		return ""
	}
	b := make([]byte, w.Width)
	for x := range b {
		b[x] = w.text[line][x].ch
	}
	return strings.TrimRight(string(b), " ")
}

// put the character at the cursor and advance the cursor.
func (w *Window) put(c byte) {
	w.text[w.PosY][w.PosX] = cell{ch: c, color: w.Color, attr: w.Attr}
	w.inc()
}

// advance the cursor one position, moving to the next line at the edge of
// the window.
func (w *Window) inc() {
	w.PosX++
	if w.PosX >= w.Width {
		w.rtn()
	}
}

// move the cursor to the start of the next line. at the bottom of the window
// the text scrolls or the cursor returns to the top.
func (w *Window) rtn() {
	w.PosX = 0
	w.PosY++
	if w.PosY < w.Height {
		return
	}

	if !w.Scroll {
		w.PosY = 0
		return
	}

	w.PosY = w.Height - 1
	copy(w.text[:w.Height-1], w.text[1:w.Height])
	for x := range w.text[w.PosY] {
		w.text[w.PosY][x] = cell{ch: ' ', color: w.Color}
	}
}

// esc handles a control character.
func (w *Window) esc(c byte) {
	switch c {
	case '\n':
		w.rtn()
	case '\r':
		w.PosX = 0
	case '\t':
		n := TabWidth - w.PosX%TabWidth
		for range n {
			w.put(' ')
			if w.PosX == 0 {
				break
			}
		}
	case '\b':
		if w.PosX > 0 {
			w.PosX--
		}
	case '\f':
		w.clear()
	}
}

// Console is the set of debug console windows. Console functions are safe to
// call from any goroutine.
type Console struct {
	crit    sync.Mutex
	windows [NumWindows]*Window
}

// NewConsole is the preferred method of initialisation for the Console type.
// Window zero is shown and covers the whole console.
func NewConsole() *Console {
	con := &Console{}
	for i := range con.windows {
		con.windows[i] = newWindow()
	}
	con.windows[0].Show = true
	return con
}

// window calls f with the critical section locked.
func (con *Console) window(n int, f func(w *Window)) error {
	if n < 0 || n >= NumWindows {
		return curated.Errorf(InvalidWindow, n)
	}
	con.crit.Lock()
	defer con.crit.Unlock()
	f(con.windows[n])
	return nil
}

// Window returns a copy of the window state.
func (con *Console) Window(n int) (Window, error) {
	var c Window
	err := con.window(n, func(w *Window) {
		c = *w
	})
	return c, err
}

// WindowSet sets the position and size of the window.
func (con *Console) WindowSet(n int, x, y, width, height int) error {
	if err := con.WindowPos(n, x, y); err != nil {
		return err
	}
	return con.WindowSize(n, width, height)
}

// WindowPos sets the position of the window on the console.
func (con *Console) WindowPos(n int, x, y int) error {
	return con.window(n, func(w *Window) {
		w.X = min(max(0, x), Columns-1)
		w.Y = min(max(0, y), Rows-1)
	})
}

// WindowSize sets the size of the window. The cursor is moved inside the
// window if necessary.
func (con *Console) WindowSize(n int, width, height int) error {
	return con.window(n, func(w *Window) {
		w.Width = min(max(1, width), Columns)
		w.Height = min(max(1, height), Rows)
		w.PosX = min(w.PosX, w.Width-1)
		w.PosY = min(w.PosY, w.Height-1)
	})
}

// WindowShow shows or hides the window.
func (con *Console) WindowShow(n int, show bool) error {
	return con.window(n, func(w *Window) {
		w.Show = show
	})
}

// TextColor sets the colour of text written to the window.
func (con *Console) TextColor(n int, c Color) error {
	return con.window(n, func(w *Window) {
		w.Color = c & 0x0f
	})
}

// TextAttr sets the attribute of text written to the window.
func (con *Console) TextAttr(n int, a Attr) error {
	return con.window(n, func(w *Window) {
		w.Attr = a & (Blink | Reverse)
	})
}

// TextPos moves the cursor of the window.
func (con *Console) TextPos(n int, x, y int) error {
	return con.window(n, func(w *Window) {
		w.PosX = min(max(0, x), w.Width-1)
		w.PosY = min(max(0, y), w.Height-1)
	})
}

// SetScroll sets whether the window scrolls when the cursor moves past the
// bottom line. Without scrolling the cursor returns to the top line.
func (con *Console) SetScroll(n int, scroll bool) error {
	return con.window(n, func(w *Window) {
		w.Scroll = scroll
	})
}

// Clear the window and move the cursor to the top left.
func (con *Console) Clear(n int) error {
	return con.window(n, func(w *Window) {
		w.clear()
	})
}

// Putc writes one character to the window.
func (con *Console) Putc(n int, c byte) error {
	return con.window(n, func(w *Window) {
		if c < ' ' {
			w.esc(c)
		} else {
			w.put(c)
		}
	})
}

// CPuts writes the string to the window. The cursor is left after the last
// character.
func (con *Console) CPuts(n int, s string) error {
	return con.window(n, func(w *Window) {
		for i := 0; i < len(s); i++ {
			if s[i] < ' ' {
				w.esc(s[i])
			} else {
				w.put(s[i])
			}
		}
	})
}

// Puts writes the string to the window followed by a new line.
func (con *Console) Puts(n int, s string) error {
	return con.CPuts(n, s+"\n")
}

// Printf writes the formatted string to the window.
func (con *Console) Printf(n int, format string, args ...any) error {
	return con.CPuts(n, fmt.Sprintf(format, args...))
}

// Disp writes the console to the writer. With colour the text is written
// with ANSI colour sequences.
func (con *Console) Disp(out io.Writer, colour bool) error {
	var screen [Rows][Columns]cell
	for y := range screen {
		for x := range screen[y] {
			screen[y][x] = cell{ch: ' ', color: White}
		}
	}

	con.crit.Lock()
	for _, w := range con.windows {
		if !w.Show {
			continue
		}
		for y := 0; y < w.Height && w.Y+y < Rows; y++ {
			for x := 0; x < w.Width && w.X+x < Columns; x++ {
				screen[w.Y+y][w.X+x] = w.text[y][x]
			}
		}
	}
	con.crit.Unlock()

	s := strings.Builder{}
	for y := range screen {
		line := strings.Builder{}
		var last *cell
		for x := range screen[y] {
			c := &screen[y][x]
			if colour && (last == nil || last.color != c.color || last.attr != c.attr) {
				line.WriteString(normalPen)
				line.WriteString(pen(c.color, c.attr))
			}
			line.WriteByte(c.ch)
			last = c
		}
		if colour {
			line.WriteString(normalPen)
			s.WriteString(line.String())
		} else {
			s.WriteString(strings.TrimRight(line.String(), " "))
		}
		s.WriteByte('\n')
	}

	_, err := io.WriteString(out, s.String())
	return err
}
