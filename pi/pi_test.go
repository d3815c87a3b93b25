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

package pi_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/nugopher/cartridgeloader"
	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/pi"
	"github.com/jetsetilly/nugopher/test"
)

// rom creates a byte-swapped ROM image with a header title.
func rom(t *testing.T, size int) string {
	t.Helper()

	d := make([]byte, size)
	for i := range d {
		d[i] = byte(i >> 8)
	}
	copy(d, []byte{0x80, 0x37, 0x12, 0x40})
	copy(d[0x20:], "NUGOPHER TEST")
	copy(d[0x3b:], "NTST")

	// v64 byte order
	for i := 0; i+1 < len(d); i += 2 {
		d[i], d[i+1] = d[i+1], d[i]
	}

	fn := filepath.Join(t.TempDir(), "test.v64")
	test.DemandSuccess(t, os.WriteFile(fn, d, 0o644))
	return fn
}

func TestReadRom(t *testing.T) {
	ctx := context.Background()

	p, err := pi.NewPI(ctx, nil, cartridgeloader.NewLoader(rom(t, 0x10000), ""), "")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.Title(), "NUGOPHER TEST")
	test.ExpectEquality(t, p.GameCode(), "NTST")
	test.ExpectEquality(t, p.RomSize(), 0x10000)

	buf := make([]byte, 0x9000)
	test.ExpectSuccess(t, p.ReadRom(ctx, 0x4100, buf))
	test.ExpectEquality(t, buf[0], byte(0x41))
	test.ExpectEquality(t, buf[0x8fff], byte(0xd0))
	test.ExpectEquality(t, p.Blocks(), uint64(3))

	err = p.ReadRom(ctx, 0xff00, make([]byte, 0x200))
	test.ExpectSuccess(t, curated.Is(err, pi.OutOfRange))

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	test.ExpectFailure(t, p.ReadRom(cctx, 0, buf))
}

func TestNotROM(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sound.wav")
	test.DemandSuccess(t, os.WriteFile(fn, []byte("RIFF"), 0o644))
	_, err := pi.NewPI(context.Background(), nil, cartridgeloader.NewLoader(fn, ""), "")
	test.ExpectSuccess(t, curated.Is(err, pi.NotROM))
}

func TestSram(t *testing.T) {
	ctx := context.Background()
	fn := rom(t, 0x1000)
	sram := filepath.Join(t.TempDir(), "test.sram")

	p, err := pi.NewPI(ctx, nil, cartridgeloader.NewLoader(fn, ""), sram)
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, p.WriteSram(pi.SramBase+0x10, []byte{1, 2, 3, 4}))
	buf := make([]byte, 4)
	test.ExpectSuccess(t, p.ReadSram(pi.SramBase+0x11, buf))
	test.ExpectEquality(t, buf[0], byte(2))
	test.ExpectEquality(t, buf[2], byte(4))

	err = p.ReadSram(0x10, buf)
	test.ExpectSuccess(t, curated.Is(err, pi.OutOfRange))
	err = p.WriteSram(pi.SramBase+pi.SramSize-2, buf)
	test.ExpectSuccess(t, curated.Is(err, pi.OutOfRange))

	test.ExpectSuccess(t, p.Flush())

	// the sram is reloaded from disk
	p, err = pi.NewPI(ctx, nil, cartridgeloader.NewLoader(fn, ""), sram)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, p.ReadSram(pi.SramBase+0x10, buf))
	test.ExpectEquality(t, buf[3], byte(4))
}
