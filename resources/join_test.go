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

package resources_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/nugopher/resources"
	"github.com/jetsetilly/nugopher/test"
)

func TestJoinPathAbsolute(t *testing.T) {
	dir := t.TempDir()

	p, err := resources.JoinPath(dir, "eeprom", "game.bin")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p, filepath.Join(dir, "eeprom", "game.bin"))

	// the directory is created but not the file
	info, err := os.Stat(filepath.Join(dir, "eeprom"))
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, info.IsDir())

	_, err = os.Stat(p)
	test.ExpectFailure(t, err)
}
