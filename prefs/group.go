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

package prefs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jetsetilly/nugopher/curated"
)

// Group collates preference values under dotted key names. It is the bridge
// between the typed values and the sources of values that only know about
// keys: the command line stack and the boot configuration file.
type Group struct {
	entries map[string]pref
}

// NewGroup is the preferred method of initialisation for the Group type.
func NewGroup() *Group {
	return &Group{
		entries: make(map[string]pref),
	}
}

// Add a preference value to the group. Keys must be unique.
func (g *Group) Add(key string, p pref) error {
	if _, ok := g.entries[key]; ok {
		return curated.Errorf(DuplicateKey, key)
	}
	g.entries[key] = p
	return nil
}

// Set the preference value for the key.
func (g *Group) Set(key string, v Value) error {
	p, ok := g.entries[key]
	if !ok {
		return curated.Errorf(UnknownKey, key)
	}
	return p.Set(v)
}

// Get the preference value for the key.
func (g *Group) Get(key string) (Value, bool) {
	p, ok := g.entries[key]
	if !ok {
		return nil, false
	}
	return p.Get(), true
}

// Keys returns the sorted list of keys in the group.
func (g *Group) Keys() []string {
	keys := make([]string, 0, len(g.entries))
	for k := range g.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ApplyCommandLine sets every value in the group that has an entry at the
// top of the command line stack. Entries are consumed as they are used.
func (g *Group) ApplyCommandLine() error {
	for _, k := range g.Keys() {
		if ok, v := GetCommandLinePref(k); ok {
			if err := g.entries[k].Set(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Reset all values in the group to their zero value.
func (g *Group) Reset() error {
	for _, k := range g.Keys() {
		if err := g.entries[k].Reset(); err != nil {
			return err
		}
	}
	return nil
}

func (g *Group) String() string {
	s := strings.Builder{}
	for _, k := range g.Keys() {
		s.WriteString(fmt.Sprintf("%s :: %s\n", k, g.entries[k]))
	}
	return s.String()
}
