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

package audiomgr

import (
	"bytes"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jetsetilly/nugopher/cartridgeloader"
	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/logger"
)

// Sentinel error patterns returned by LoadPCM().
const (
	NotSoundData = "audiomgr: %s: not sound data"
	DecodeError  = "audiomgr: %s: %v"
)

const logTag = "audiomgr"

// PCM is 16 bit interleaved stereo sample data.
type PCM struct {
	Samples    []int16
	SampleRate int
}

// Len returns the number of stereo sample pairs.
func (p PCM) Len() int {
	return len(p.Samples) / 2
}

// Seconds returns the playing time of the data.
func (p PCM) Seconds() float64 {
	if p.SampleRate == 0 {
		return 0
	}
	return float64(p.Len()) / float64(p.SampleRate)
}

// LoadPCM decodes the WAV or MP3 data in the loader. The loader is loaded if
// it has not been already.
func LoadPCM(env *environment.Environment, cl cartridgeloader.Loader) (PCM, error) {
	if !cl.IsSoundData {
		return PCM{}, curated.Errorf(NotSoundData, cl.ShortName())
	}

	var p PCM
	var err error

	switch cl.Format {
	case cartridgeloader.FormatWAV:
		logger.Log(env, logTag, "loading from wav file")
		p, err = decodeWAV(bytes.NewReader(cl.Data))
	case cartridgeloader.FormatMP3:
		logger.Log(env, logTag, "loading from mp3 file")
		p, err = decodeMP3(bytes.NewReader(cl.Data))
	default:
		return PCM{}, curated.Errorf(NotSoundData, cl.ShortName())
	}
	if err != nil {
		return PCM{}, curated.Errorf(DecodeError, cl.ShortName(), err)
	}

	logger.Logf(env, logTag, "sample rate: %dHz", p.SampleRate)
	logger.Logf(env, logTag, "total time: %.02fs", p.Seconds())

	return p, nil
}

func decodeWAV(r io.ReadSeeker) (PCM, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return PCM{}, curated.Errorf("wav: not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return PCM{}, curated.Errorf("wav: %v", err)
	}

	return fromIntBuffer(buf, int(dec.SampleRate), int(dec.BitDepth)), nil
}

// fromIntBuffer converts the buffer to 16 bit stereo. Mono data is copied to
// both channels and channels beyond the second are dropped.
func fromIntBuffer(buf *audio.IntBuffer, sampleRate int, bitDepth int) PCM {
	chans := 1
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		chans = buf.Format.NumChannels
	}

	scale := func(v int) int16 {
		switch {
		case bitDepth == 8:
			// 8 bit wav data is unsigned
			return int16((v - 128) << 8)
		case bitDepth > 16:
			return int16(v >> (bitDepth - 16))
		}
		return int16(v)
	}

	p := PCM{
		SampleRate: sampleRate,
		Samples:    make([]int16, 0, len(buf.Data)/chans*2),
	}

	for i := 0; i+chans-1 < len(buf.Data); i += chans {
		l := scale(buf.Data[i])
		r := l
		if chans > 1 {
			r = scale(buf.Data[i+1])
		}
		p.Samples = append(p.Samples, l, r)
	}

	return p
}

// the mp3 decoder stream is always 16 bit little-endian stereo
func decodeMP3(r io.Reader) (PCM, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return PCM{}, curated.Errorf("mp3: %v", err)
	}

	p := PCM{
		SampleRate: dec.SampleRate(),
	}

	chunk := make([]byte, 4096)
	for {
		n, err := dec.Read(chunk)
		for i := 0; i+1 < n; i += 2 {
			p.Samples = append(p.Samples, int16(uint16(chunk[i])|uint16(chunk[i+1])<<8))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return PCM{}, curated.Errorf("mp3: %v", err)
		}
	}

	// a trailing half pair is dropped
	p.Samples = p.Samples[:len(p.Samples)&^1]

	return p, nil
}
