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

// Package preferences collates the preference values that configure the
// simulated machine and the scheduler. Values are set from the command line
// stack or from the boot configuration file (see the bootconfig package).
package preferences

import (
	"strings"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/prefs"
)

// InvalidValue is returned when a preference is set to a value outside of its
// permitted range.
const InvalidValue = "preferences: %s: %v is not valid"

// Preferences defines and collates all the preference values used by the
// machine.
type Preferences struct {
	grp *prefs.Group

	// NTSC, PAL or MPAL
	VideoMode prefs.String

	// the number of video fields per retrace message. 1 for 60/50 updates
	// per second, 2 for 30/25, etc.
	NumFields prefs.Int

	// number of frame buffers in the graphics ring
	FrameBuffers prefs.Int

	// dimensions of each frame buffer
	ScreenWidth  prefs.Int
	ScreenHeight prefs.Int

	// capacity of the scheduler's message queues
	QueueCapacity prefs.Int

	// maximum number of tasks held by one execution domain
	TaskTableSize prefs.Int

	// number of retraces between the pre-reset notice and the pre-reset
	// callback
	DrainWindow prefs.Int

	// simulated latency of the execution units, in microseconds
	GfxLatency   prefs.Int
	AudioLatency prefs.Int

	// sample rate of the audio unit output
	AudioSampleRate prefs.Int

	// entries are written to the central logger
	Logging prefs.Bool
}

func (p *Preferences) String() string {
	return p.grp.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{
		grp: prefs.NewGroup(),
	}
	p.VideoMode.MaxLen = 4

	p.VideoMode.SetHookPre(func(v prefs.Value) error {
		switch strings.ToUpper(v.(string)) {
		case "NTSC", "PAL", "MPAL":
			return nil
		}
		return curated.Errorf(InvalidValue, "video mode", v)
	})

	positive := func(name string) func(prefs.Value) error {
		return func(v prefs.Value) error {
			if v.(int) < 1 {
				return curated.Errorf(InvalidValue, name, v)
			}
			return nil
		}
	}
	p.NumFields.SetHookPre(positive("num fields"))
	p.FrameBuffers.SetHookPre(positive("frame buffers"))
	p.ScreenWidth.SetHookPre(positive("screen width"))
	p.ScreenHeight.SetHookPre(positive("screen height"))
	p.QueueCapacity.SetHookPre(positive("queue capacity"))
	p.TaskTableSize.SetHookPre(positive("task table size"))
	p.AudioSampleRate.SetHookPre(positive("audio sample rate"))

	for _, e := range []struct {
		key string
		p   interface {
			Set(prefs.Value) error
			Get() prefs.Value
			Reset() error
			String() string
		}
	}{
		{key: "video.mode", p: &p.VideoMode},
		{key: "video.numfields", p: &p.NumFields},
		{key: "video.framebuffers", p: &p.FrameBuffers},
		{key: "video.width", p: &p.ScreenWidth},
		{key: "video.height", p: &p.ScreenHeight},
		{key: "scheduler.queuecapacity", p: &p.QueueCapacity},
		{key: "scheduler.tasktable", p: &p.TaskTableSize},
		{key: "scheduler.drainwindow", p: &p.DrainWindow},
		{key: "rcp.gfxlatency", p: &p.GfxLatency},
		{key: "rcp.audiolatency", p: &p.AudioLatency},
		{key: "audio.samplerate", p: &p.AudioSampleRate},
		{key: "logging", p: &p.Logging},
	} {
		if err := p.grp.Add(e.key, e.p); err != nil {
			return nil, err
		}
	}

	p.SetDefaults()

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	_ = p.VideoMode.Set("NTSC")
	_ = p.NumFields.Set(1)
	_ = p.FrameBuffers.Set(3)
	_ = p.ScreenWidth.Set(320)
	_ = p.ScreenHeight.Set(240)
	_ = p.QueueCapacity.Set(8)
	_ = p.TaskTableSize.Set(10)
	_ = p.DrainWindow.Set(2)
	_ = p.GfxLatency.Set(2000)
	_ = p.AudioLatency.Set(500)
	_ = p.AudioSampleRate.Set(32000)
	_ = p.Logging.Set(true)
}

// Set the preference named by key. Keys are the dotted names used in the
// boot configuration file and on the command line.
func (p *Preferences) Set(key string, v prefs.Value) error {
	return p.grp.Set(key, v)
}

// Keys returns the list of preference keys.
func (p *Preferences) Keys() []string {
	return p.grp.Keys()
}

// ApplyCommandLine consumes preference values from the top of the command
// line stack.
func (p *Preferences) ApplyCommandLine() error {
	return p.grp.ApplyCommandLine()
}
