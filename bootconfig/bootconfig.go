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

// Package bootconfig loads the boot configuration into the preferences. The
// configuration is a YAML file with the same keys as the preferences:
//
//	video:
//	  mode: PAL
//	  framebuffers: 2
//	scheduler:
//	  drainwindow: 4
//
// Any key can be overridden by an environment variable with the NUGOPHER_
// prefix and the dots of the key replaced by underscores. For example,
// NUGOPHER_VIDEO_MODE.
//
// Command line preferences are applied after the boot configuration.
package bootconfig

import (
	"io"
	"strings"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/hardware/preferences"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override the boot
// configuration.
const EnvPrefix = "NUGOPHER"

// Sentinel error patterns.
const (
	ReadError  = "bootconfig: %v"
	ValueError = "bootconfig: %s: %v"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load the boot configuration file into the preferences. An empty filename
// means only the environment is used. Returns the keys that were set.
func Load(p *preferences.Preferences, filename string) ([]string, error) {
	v := newViper()
	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, curated.Errorf(ReadError, err)
		}
	}
	return apply(v, p)
}

// LoadReader is the same as Load() except that the configuration is read
// from the reader.
func LoadReader(p *preferences.Preferences, r io.Reader) ([]string, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, curated.Errorf(ReadError, err)
	}
	return apply(v, p)
}

func apply(v *viper.Viper, p *preferences.Preferences) ([]string, error) {
	var set []string

	for _, key := range p.Keys() {
		if err := v.BindEnv(key); err != nil {
			return set, curated.Errorf(ValueError, key, err)
		}
		if !v.IsSet(key) {
			continue
		}
		if err := p.Set(key, v.Get(key)); err != nil {
			return set, curated.Errorf(ValueError, key, err)
		}
		set = append(set, key)
	}

	return set, nil
}
