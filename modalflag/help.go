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

package modalflag

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// help writes the flags and sub-modes of the current mode to Output.
func (md *Modes) help() {
	if md.Output == nil {
		return
	}

	var n int
	md.flags.VisitAll(func(_ *flag.Flag) { n++ })

	if n == 0 && len(md.subModes) == 0 {
		if len(md.path) > 0 {
			fmt.Fprintf(md.Output, "no help available for %s mode\n", md.Path())
		} else {
			fmt.Fprintln(md.Output, "no help available")
		}
		return
	}

	if len(md.path) > 0 {
		fmt.Fprintf(md.Output, "usage of %s mode:\n", md.Path())
	} else {
		fmt.Fprintln(md.Output, "usage:")
	}

	if n > 0 {
		md.flags.SetOutput(md.Output)
		md.flags.PrintDefaults()
		md.flags.SetOutput(io.Discard)
	}

	if len(md.subModes) > 0 {
		if n > 0 {
			fmt.Fprintln(md.Output)
		}
		fmt.Fprintf(md.Output, "  modes: %s (default %s)\n", strings.Join(md.subModes, ", "), md.subModes[0])
	}

	if md.additionalHelp != "" {
		fmt.Fprintf(md.Output, "\n%s\n", md.additionalHelp)
	}
}
