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

package rcp

import (
	"time"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/scheduler"
)

// AudioSink receives the samples played by the audio unit. Samples are
// interleaved stereo.
type AudioSink interface {
	SetAudio(samples []int16) error
}

// NewAudio creates the audio unit. The samples of an AudioList are forwarded
// to the sink, which can be nil.
func NewAudio(env *environment.Environment, latency time.Duration, sink AudioSink) *Unit {
	u := newUnit(env, "audio", latency)
	u.exec = func(t *scheduler.Task) error {
		l, ok := t.List.(AudioList)
		if !ok {
			return curated.Errorf(WrongList, u.name, t.List)
		}
		if l.Err != nil || sink == nil {
			return nil
		}
		if err := sink.SetAudio(l.Samples); err != nil {
			return curated.Errorf("rcp: audio: %v", err)
		}
		return nil
	}
	return u
}
