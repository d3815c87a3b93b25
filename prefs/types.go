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
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/jetsetilly/nugopher/curated"
)

// Sentinel error patterns raised by the prefs package.
const (
	CannotConvert = "prefs: cannot convert %T to %s"
	UnknownKey    = "prefs: unknown key (%s)"
	DuplicateKey  = "prefs: duplicate key (%s)"
)

// Value represents the actual Go preference value.
type Value interface{}

// types supported by the prefs system must implement the pref interface.
type pref interface {
	fmt.Stringer
	Set(value Value) error
	Get() Value
	Reset() error
}

// value is the storage and hook machinery shared by every prefs type. the
// convert function turns an incoming Value into the native type.
type value[T any] struct {
	name     string
	v        atomic.Value
	zero     T
	convert  func(Value) (T, bool)
	hookPre  func(value Value) error
	hookPost func(value Value) error
}

func (p *value[T]) load() T {
	ov := p.v.Load()
	if ov == nil {
		return p.zero
	}
	return ov.(T)
}

func (p *value[T]) set(v Value) error {
	nv, ok := p.convert(v)
	if !ok {
		return curated.Errorf(CannotConvert, v, p.name)
	}

	if p.hookPre != nil {
		if err := p.hookPre(nv); err != nil {
			return err
		}
	}

	p.v.Store(nv)

	if p.hookPost != nil {
		if err := p.hookPost(nv); err != nil {
			return err
		}
	}

	return nil
}

// SetHookPre sets the callback function to be called just before the prefs
// value is updated. Note that even if the value hasn't changed, the callback
// will be executed.
func (p *value[T]) SetHookPre(f func(value Value) error) {
	p.hookPre = f
}

// SetHookPost sets the callback function to be called just after the prefs
// value is updated. Note that even if the value hasn't changed, the callback
// will be executed.
func (p *value[T]) SetHookPost(f func(value Value) error) {
	p.hookPost = f
}

// Bool implements a boolean type in the prefs system.
type Bool struct {
	value[bool]
}

func (p *Bool) init() {
	if p.convert != nil {
		return
	}
	p.name = "prefs.Bool"
	p.convert = func(v Value) (bool, bool) {
		switch v := v.(type) {
		case bool:
			return v, true
		case string:
			return strings.ToLower(strings.TrimSpace(v)) == "true", true
		}
		return false, false
	}
}

func (p *Bool) String() string {
	return fmt.Sprintf("%v", p.load())
}

// Set new value to Bool type. New value must be of type bool or string. A
// string value of anything other than "true" (case insensitive) will set the
// value to false.
func (p *Bool) Set(v Value) error {
	p.init()
	return p.set(v)
}

// Get returns the raw pref value.
func (p *Bool) Get() Value {
	return p.load()
}

// Reset sets the boolean value to false.
func (p *Bool) Reset() error {
	return p.Set(false)
}

// String implements a string type in the prefs system.
type String struct {
	value[string]

	// maximum length of the string. a value of zero means no limit
	MaxLen int
}

func (p *String) init() {
	if p.convert != nil {
		return
	}
	p.name = "prefs.String"
	p.convert = func(v Value) (string, bool) {
		var s string
		switch v := v.(type) {
		case string:
			s = v
		case fmt.Stringer:
			s = v.String()
		default:
			return "", false
		}
		if p.MaxLen > 0 && len(s) > p.MaxLen {
			s = s[:p.MaxLen]
		}
		return s, true
	}
}

func (p *String) String() string {
	return p.load()
}

// Set new value to String type. New value must be of type string or a
// fmt.Stringer. The value is cropped if it exceeds MaxLen.
func (p *String) Set(v Value) error {
	p.init()
	return p.set(v)
}

// Get returns the raw pref value.
func (p *String) Get() Value {
	return p.load()
}

// Reset sets the string value to the empty string.
func (p *String) Reset() error {
	return p.Set("")
}

// Int implements an integer type in the prefs system.
type Int struct {
	value[int]
}

func (p *Int) init() {
	if p.convert != nil {
		return
	}
	p.name = "prefs.Int"
	p.convert = func(v Value) (int, bool) {
		switch v := v.(type) {
		case int:
			return v, true
		case int32:
			return int(v), true
		case int64:
			return int(v), true
		case float64:
			return int(v), true
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return 0, false
			}
			return n, true
		}
		return 0, false
	}
}

func (p *Int) String() string {
	return fmt.Sprintf("%d", p.load())
}

// Set new value to Int type. New value can be an int or string.
func (p *Int) Set(v Value) error {
	p.init()
	return p.set(v)
}

// Get returns the raw pref value.
func (p *Int) Get() Value {
	return p.load()
}

// Reset sets the int value to zero.
func (p *Int) Reset() error {
	return p.Set(0)
}

// Float implements a floating point type in the prefs system.
type Float struct {
	value[float64]
}

func (p *Float) init() {
	if p.convert != nil {
		return
	}
	p.name = "prefs.Float"
	p.convert = func(v Value) (float64, bool) {
		switch v := v.(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		case int:
			return float64(v), true
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return 0, false
			}
			return f, true
		}
		return 0, false
	}
}

func (p *Float) String() string {
	return fmt.Sprintf("%.3f", p.load())
}

// Set new value to Float type. New value can be a float64, an int or a
// string.
func (p *Float) Set(v Value) error {
	p.init()
	return p.set(v)
}

// Get returns the raw pref value.
func (p *Float) Get() Value {
	return p.load()
}

// Reset sets the float value to zero.
func (p *Float) Reset() error {
	return p.Set(0.0)
}
