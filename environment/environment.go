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

package environment

import (
	"github.com/jetsetilly/nugopher/hardware/preferences"
)

// Label is used to name the environment.
type Label string

// MainSystem is the label of the environment used by the running program.
// Other labels are used by tests and by the DUMP mode.
const MainSystem Label = ""

// Environment is used to provide context for a running system. Every
// component that logs or reads preferences is given the environment when it
// is created.
type Environment struct {
	Label Label

	// the system preferences
	Prefs *preferences.Preferences
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type.
//
// The prefs argument can be nil, in which case a new Preferences instance
// will be created. Providing a non-nil value allows the preferences to be
// configured before the environment is created (by the bootconfig package
// for example).
func NewEnvironment(label Label, prefs *preferences.Preferences) (*Environment, error) {
	env := &Environment{
		Label: label,
	}

	var err error

	if prefs == nil {
		prefs, err = preferences.NewPreferences()
		if err != nil {
			return nil, err
		}
	}

	env.Prefs = prefs

	return env, nil
}

// Normalise ensures the environment is in a known default state.
func (env *Environment) Normalise() {
	env.Prefs.SetDefaults()
}

// IsMainSystem returns true if the environment is intended for the main
// system in the program.
func (env *Environment) IsMainSystem() bool {
	return env.Label == MainSystem
}

// AllowLogging implements the logger.Permission interface.
func (env *Environment) AllowLogging() bool {
	if env == nil {
		return true
	}
	return env.Prefs.Logging.Get().(bool)
}
