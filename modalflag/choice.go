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
	"fmt"
	"strings"
)

// Choice is a string flag restricted to a list of values. Comparisons are
// case insensitive and the value is always stored in upper case.
type Choice struct {
	value   string
	choices []string
}

func (c *Choice) String() string {
	if c == nil {
		return ""
	}
	return c.value
}

// Set implements the flag.Value interface.
func (c *Choice) Set(s string) error {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, v := range c.choices {
		if v == s {
			c.value = s
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(c.choices, ", "))
}

// Value returns the selected choice.
func (c *Choice) Value() string {
	return c.value
}

// AddChoice flag for the next call to Parse(). The value must be one of the
// choices. The list of choices is appended to the usage string.
func (md *Modes) AddChoice(name string, value string, choices []string, usage string) *Choice {
	c := &Choice{value: strings.ToUpper(value)}
	for _, v := range choices {
		c.choices = append(c.choices, strings.ToUpper(v))
	}
	md.flags.Var(c, name, fmt.Sprintf("%s: %s", usage, strings.Join(c.choices, ", ")))
	return c
}
