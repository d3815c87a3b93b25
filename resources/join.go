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

package resources

import (
	"os"
	"path/filepath"
	"strings"
)

// the name of the resource directory in the user's config directory and the
// name of the portable resource directory
const (
	baseName     = "nugopher"
	portablePath = "nugopher_resources"
)

// checkPortable returns true if the portable resource directory exists in
// the current working directory.
func checkPortable() bool {
	info, err := os.Stat(portablePath)
	return err == nil && info.IsDir()
}

// JoinPath prepends the supplied path with a with OS/build specific base
// path, if required. Absolute paths are never prepended.
//
// The function creates all folders necessary to reach the end of sub-path. It
// does not otherwise touch or create the file.
func JoinPath(path ...string) (string, error) {
	p := filepath.Join(path...)

	if !filepath.IsAbs(p) {
		var b string
		if checkPortable() {
			b = portablePath
		} else {
			var err error
			b, err = resourcePath()
			if err != nil {
				return "", err
			}
		}

		if !strings.HasPrefix(p, b) {
			p = filepath.Join(b, p)
		}
	}

	if _, err := os.Stat(p); err == nil {
		return p, nil
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return "", err
	}

	return p, nil
}
