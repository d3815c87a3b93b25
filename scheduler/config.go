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

package scheduler

import (
	"github.com/jetsetilly/nugopher/hardware/mesgq"
	"github.com/jetsetilly/nugopher/hardware/preferences"
	"github.com/jetsetilly/nugopher/hardware/vi"
)

// Config is fixed when the Scheduler is created.
type Config struct {
	Mode      vi.Mode
	NumFields int

	FrameBuffers int
	Width        int
	Height       int

	QueueCapacity int
	TaskTableSize int

	// number of retraces between the pre-reset notice and the pre-reset
	// callback
	DrainWindow int
}

// DefaultConfig returns the configuration used for any field of a Config
// that is left as zero.
func DefaultConfig() Config {
	return Config{
		Mode:          vi.NTSC,
		NumFields:     1,
		FrameBuffers:  3,
		Width:         320,
		Height:        240,
		QueueCapacity: mesgq.DefaultCapacity,
		TaskTableSize: 10,
		DrainWindow:   2,
	}
}

// NewConfig creates a Config from the preferences.
func NewConfig(p *preferences.Preferences) (Config, error) {
	mode, err := vi.ParseMode(p.VideoMode.Get().(string))
	if err != nil {
		return Config{}, err
	}
	return Config{
		Mode:          mode,
		NumFields:     p.NumFields.Get().(int),
		FrameBuffers:  p.FrameBuffers.Get().(int),
		Width:         p.ScreenWidth.Get().(int),
		Height:        p.ScreenHeight.Get().(int),
		QueueCapacity: p.QueueCapacity.Get().(int),
		TaskTableSize: p.TaskTableSize.Get().(int),
		DrainWindow:   p.DrainWindow.Get().(int),
	}, nil
}

// FrameRate returns the number of retraces per second.
func (c Config) FrameRate() int {
	return vi.FrameRate(c.Mode, c.NumFields)
}

func (c *Config) normalise() {
	d := DefaultConfig()
	if c.NumFields < 1 {
		c.NumFields = d.NumFields
	}
	if c.FrameBuffers < 1 {
		c.FrameBuffers = d.FrameBuffers
	}
	if c.Width < 1 || c.Height < 1 {
		c.Width = d.Width
		c.Height = d.Height
	}
	if c.QueueCapacity < 1 {
		c.QueueCapacity = d.QueueCapacity
	}
	if c.TaskTableSize < 1 {
		c.TaskTableSize = d.TaskTableSize
	}
	if c.DrainWindow < 0 {
		c.DrainWindow = 0
	}
}
