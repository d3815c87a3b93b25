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

package preferences_test

import (
	"testing"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/hardware/preferences"
	"github.com/jetsetilly/nugopher/prefs"
	"github.com/jetsetilly/nugopher/test"
)

func TestDefaults(t *testing.T) {
	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, p.VideoMode.Get().(string), "NTSC")
	test.ExpectEquality(t, p.NumFields.Get().(int), 1)
	test.ExpectEquality(t, p.QueueCapacity.Get().(int), 8)
	test.ExpectEquality(t, p.TaskTableSize.Get().(int), 10)
	test.ExpectEquality(t, p.Logging.Get().(bool), true)
}

func TestValidation(t *testing.T) {
	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)

	err = p.Set("video.mode", "SECAM")
	test.ExpectSuccess(t, curated.Is(err, preferences.InvalidValue))
	test.ExpectEquality(t, p.VideoMode.Get().(string), "NTSC")

	test.ExpectSuccess(t, p.Set("video.mode", "PAL"))
	test.ExpectEquality(t, p.VideoMode.Get().(string), "PAL")

	err = p.Set("scheduler.queuecapacity", 0)
	test.ExpectSuccess(t, curated.Is(err, preferences.InvalidValue))

	// drain window of zero is permitted
	test.ExpectSuccess(t, p.Set("scheduler.drainwindow", 0))
}

func TestCommandLine(t *testing.T) {
	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)

	prefs.PushCommandLineStack("video.numfields::2; video.framebuffers::2")
	defer prefs.PopCommandLineStack()

	test.ExpectSuccess(t, p.ApplyCommandLine())
	test.ExpectEquality(t, p.NumFields.Get().(int), 2)
	test.ExpectEquality(t, p.FrameBuffers.Get().(int), 2)
}
