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

package bootconfig_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/nugopher/bootconfig"
	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/hardware/preferences"
	"github.com/jetsetilly/nugopher/test"
)

const boot = `
video:
  mode: PAL
  framebuffers: 2
scheduler:
  drainwindow: 4
logging: false
`

func TestLoadReader(t *testing.T) {
	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)

	set, err := bootconfig.LoadReader(p, strings.NewReader(boot))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(set), 4)

	test.ExpectEquality(t, p.VideoMode.Get().(string), "PAL")
	test.ExpectEquality(t, p.FrameBuffers.Get().(int), 2)
	test.ExpectEquality(t, p.DrainWindow.Get().(int), 4)
	test.ExpectEquality(t, p.Logging.Get().(bool), false)

	// keys not in the file keep their default value
	test.ExpectEquality(t, p.TaskTableSize.Get().(int), 10)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("NUGOPHER_VIDEO_MODE", "MPAL")
	t.Setenv("NUGOPHER_SCHEDULER_TASKTABLE", "5")

	fn := filepath.Join(t.TempDir(), "boot.yaml")
	test.DemandSuccess(t, os.WriteFile(fn, []byte(boot), 0o644))

	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)

	_, err = bootconfig.Load(p, fn)
	test.DemandSuccess(t, err)

	// the environment overrides the file
	test.ExpectEquality(t, p.VideoMode.Get().(string), "MPAL")
	test.ExpectEquality(t, p.TaskTableSize.Get().(int), 5)
	test.ExpectEquality(t, p.FrameBuffers.Get().(int), 2)
}

func TestErrors(t *testing.T) {
	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)

	_, err = bootconfig.LoadReader(p, strings.NewReader("video:\n  mode: SECAM\n"))
	test.ExpectSuccess(t, curated.Is(err, bootconfig.ValueError))

	_, err = bootconfig.Load(p, filepath.Join(t.TempDir(), "missing.yaml"))
	test.ExpectSuccess(t, curated.Is(err, bootconfig.ReadError))
}
