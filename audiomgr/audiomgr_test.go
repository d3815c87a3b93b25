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

package audiomgr_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/nugopher/audiomgr"
	"github.com/jetsetilly/nugopher/cartridgeloader"
	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/hardware/rcp"
	"github.com/jetsetilly/nugopher/scheduler"
	"github.com/jetsetilly/nugopher/test"
)

// writeWAV creates a 16 bit wav file with the sample data.
func writeWAV(t *testing.T, chans int, rate int, data []int) string {
	t.Helper()

	fn := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(fn)
	test.DemandSuccess(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, chans, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: chans, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	test.DemandSuccess(t, enc.Write(buf))
	test.DemandSuccess(t, enc.Close())

	return fn
}

func load(t *testing.T, fn string) cartridgeloader.Loader {
	t.Helper()
	cl := cartridgeloader.NewLoader(fn, "")
	test.DemandSuccess(t, cl.Load(context.Background()))
	return cl
}

func TestLoadWAV(t *testing.T) {
	// mono data is copied to both channels
	fn := writeWAV(t, 1, 8000, []int{100, -100, 200, -200})
	p, err := audiomgr.LoadPCM(nil, load(t, fn))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.SampleRate, 8000)
	test.ExpectEquality(t, p.Len(), 4)
	test.ExpectEquality(t, p.Samples[0], int16(100))
	test.ExpectEquality(t, p.Samples[1], int16(100))
	test.ExpectEquality(t, p.Samples[6], int16(-200))
	test.ExpectEquality(t, p.Samples[7], int16(-200))

	fn = writeWAV(t, 2, 22050, []int{1, 2, 3, 4, 5, 6})
	p, err = audiomgr.LoadPCM(nil, load(t, fn))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.SampleRate, 22050)
	test.ExpectEquality(t, p.Len(), 3)
	test.ExpectEquality(t, p.Samples[4], int16(5))
	test.ExpectEquality(t, p.Samples[5], int16(6))
}

func TestLoadErrors(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "rom.z64")
	test.DemandSuccess(t, os.WriteFile(fn, []byte{0x80, 0x37, 0x12, 0x40, 0, 0, 0, 0}, 0o644))
	_, err := audiomgr.LoadPCM(nil, load(t, fn))
	test.ExpectSuccess(t, curated.Is(err, audiomgr.NotSoundData))

	fn = filepath.Join(t.TempDir(), "bad.wav")
	test.DemandSuccess(t, os.WriteFile(fn, []byte("not a wav file at all"), 0o644))
	_, err = audiomgr.LoadPCM(nil, load(t, fn))
	test.ExpectSuccess(t, curated.Is(err, audiomgr.DecodeError))
}

type sink struct {
	crit    sync.Mutex
	samples []int16
	calls   int
}

func (s *sink) SetAudio(samples []int16) error {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.samples = append(s.samples, samples...)
	s.calls++
	return nil
}

func TestPlay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &sink{}
	g := rcp.NewGraphics(nil, 0)
	a := rcp.NewAudio(nil, 0, out)
	g.Start(ctx)
	a.Start(ctx)

	sch, err := scheduler.NewScheduler(nil, scheduler.Config{}, scheduler.Units{
		Graphics: g,
		Audio:    a,
	})
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, sch.Start(ctx))

	m := audiomgr.NewManager(nil, sch)
	rate := sch.FrameRate() * 100
	frame := m.FrameSize(rate)

	p := audiomgr.PCM{
		SampleRate: rate,
		Samples:    make([]int16, (frame*2+frame/2)*2),
	}
	for i := range p.Samples {
		p.Samples[i] = int16(i)
	}

	test.ExpectSuccess(t, m.Play(ctx, p))
	test.ExpectEquality(t, m.Frames(), uint64(3))
	test.ExpectEquality(t, m.Faults(), uint64(0))

	out.crit.Lock()
	test.ExpectEquality(t, out.calls, 3)
	test.ExpectEquality(t, len(out.samples), len(p.Samples))
	test.ExpectEquality(t, out.samples[len(out.samples)-1], p.Samples[len(p.Samples)-1])
	out.crit.Unlock()

	err = m.Play(ctx, audiomgr.PCM{SampleRate: rate})
	test.ExpectSuccess(t, curated.Is(err, audiomgr.NoData))
}
