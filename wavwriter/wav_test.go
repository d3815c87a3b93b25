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

package wavwriter_test

import (
	"os"
	"path/filepath"
	"testing"

	gowav "github.com/youpy/go-wav"

	"github.com/jetsetilly/nugopher/test"
	"github.com/jetsetilly/nugopher/wavwriter"
)

func TestWavWriter(t *testing.T) {
	_, err := wavwriter.New(nil, "x.wav", 0)
	test.ExpectFailure(t, err)

	fn := filepath.Join(t.TempDir(), "out.wav")
	aw, err := wavwriter.New(nil, fn, 32000)
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, aw.SetAudio([]int16{100, -100, 200, -200, 300}))
	test.ExpectEquality(t, aw.Samples(), 2)
	test.ExpectSuccess(t, aw.EndMixing())

	f, err := os.Open(fn)
	test.DemandSuccess(t, err)
	defer f.Close()

	r := gowav.NewReader(f)
	format, err := r.Format()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, format.NumChannels, uint16(2))
	test.ExpectEquality(t, format.SampleRate, uint32(32000))
	test.ExpectEquality(t, format.BitsPerSample, uint16(16))

	samples, err := r.ReadSamples(2)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(samples), 2)
	test.ExpectEquality(t, samples[0].Values[0], 100)
	test.ExpectEquality(t, samples[1].Values[0], 200)
}
