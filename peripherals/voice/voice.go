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

// Package voice is the manager for the voice recognition unit. Words are
// added to a dictionary with SetWord() and can be excluded from recognition
// with MaskDictionary(). StartReadData() begins listening. The result is
// collected with GetReadData() once the Recognizer has heard an utterance.
//
// Listening is driven by the poll step on every retrace.
package voice

import (
	"context"
	"sync"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/logger"
	"github.com/jetsetilly/nugopher/peripherals"
	"github.com/jetsetilly/nugopher/simgr"
)

// Minor numbers of the voice manager's commands.
const (
	MinorRetrace         = simgr.MinorRetrace
	MinorOpen            = uint8(0x01)
	MinorClearDictionary = uint8(0x02)
	MinorSetWord         = uint8(0x03)
	MinorMaskDictionary  = uint8(0x04)
	MinorStartReadData   = uint8(0x05)
	MinorGetReadData     = uint8(0x06)
	MinorStopReadData    = uint8(0x07)
	MinorControlGain     = uint8(0x08)
)

// Sentinel error patterns returned by the voice manager.
const (
	NotOpen        = "voice: unit has not been opened"
	DictionaryFull = "voice: dictionary is full (%d words)"
	NotReading     = "voice: data is not being read"
	Busy           = "voice: recognition is in progress"
)

// MaxWords is the largest dictionary.
const MaxWords = 255

// Handle to the voice recognition unit.
type Handle struct {
	Port int
}

// Gain settings of the unit.
type Gain struct {
	Analog  int
	Digital int
}

type gain struct {
	handle *Handle
	gain   Gain
}

type word struct {
	handle *Handle
	word   string
}

type dictionary struct {
	handle *Handle
	words  int
}

type mask struct {
	handle  *Handle
	pattern []uint8
}

type readData struct {
	handle *Handle
	data   Data
}

// Manager is the voice recognition unit manager.
type Manager struct {
	env  *environment.Environment
	dsp  *simgr.Dispatcher
	list *simgr.CallbackList
	rec  Recognizer
	port int

	crit     sync.Mutex
	open     bool
	capacity int
	words    []string
	mask     []uint8
	reading  bool
	ready    *Data
	gain     Gain
}

// NewManager creates the voice manager and registers it with the dispatcher.
// The unit is connected to the controller port and listens with the
// Recognizer.
func NewManager(env *environment.Environment, dsp *simgr.Dispatcher, port int, rec Recognizer) (*Manager, error) {
	if err := peripherals.CheckPort("voice", port); err != nil {
		return nil, err
	}
	m := &Manager{
		env:  env,
		dsp:  dsp,
		rec:  rec,
		port: port,
	}
	m.list = &simgr.CallbackList{
		Major: simgr.MajorVoice,
		Handlers: []simgr.Handler{
			m.retrace,
			m.openHandler,
			m.clearDictionary,
			m.setWord,
			m.maskDictionary,
			m.startReadData,
			m.getReadData,
			m.stopReadData,
			m.controlGain,
		},
	}
	if err := dsp.Register(m.list); err != nil {
		return nil, err
	}
	return m, nil
}

// Remove the manager from the dispatcher.
func (m *Manager) Remove() {
	m.dsp.Unregister(m.list)
}

func (m *Manager) masked(i int) bool {
	if i/8 >= len(m.mask) {
		return false
	}
	return m.mask[i/8]&(1<<(i%8)) != 0
}

func (m *Manager) retrace(cmd *simgr.Command) (simgr.Result, error) {
	m.crit.Lock()
	defer m.crit.Unlock()

	if cmd.PreReset {
		if m.reading {
			m.reading = false
			m.rec.Reset()
		}
		return simgr.Continue, nil
	}

	if !m.reading || m.ready != nil {
		return simgr.Continue, nil
	}

	u, ok := m.rec.Listen()
	if !ok {
		return simgr.Continue, nil
	}

	d := match(u, m.words, m.masked)
	m.ready = &d
	logger.Logf(m.env, "voice", "heard %q", u.Heard)
	return simgr.Continue, nil
}

// check the handle. must be called with the critical section locked.
func (m *Manager) check(h *Handle) error {
	if h == nil {
		return curated.Errorf(peripherals.BadArgument, "voice", "nil handle")
	}
	if err := peripherals.CheckPort("voice", h.Port); err != nil {
		return err
	}
	if h.Port != m.port {
		return curated.Errorf(peripherals.NoDevice, "voice", h.Port)
	}
	if !m.open {
		return curated.Errorf(NotOpen)
	}
	return nil
}

func (m *Manager) openHandler(cmd *simgr.Command) (simgr.Result, error) {
	h, ok := cmd.Data.(*Handle)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "voice", cmd.Data)
	}
	if err := peripherals.CheckPort("voice", h.Port); err != nil {
		return simgr.Continue, err
	}
	if h.Port != m.port {
		return simgr.Continue, curated.Errorf(peripherals.NoDevice, "voice", h.Port)
	}

	m.crit.Lock()
	defer m.crit.Unlock()
	m.open = true
	m.reading = false
	m.ready = nil
	return simgr.Continue, nil
}

func (m *Manager) clearDictionary(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(dictionary)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "voice", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	if err := m.check(a.handle); err != nil {
		return simgr.Continue, err
	}
	if a.words < 1 || a.words > MaxWords {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "voice", a.words)
	}
	if m.reading {
		return simgr.Continue, curated.Errorf(Busy)
	}
	m.capacity = a.words
	m.words = m.words[:0]
	m.mask = nil
	return simgr.Continue, nil
}

func (m *Manager) setWord(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(word)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "voice", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	if err := m.check(a.handle); err != nil {
		return simgr.Continue, err
	}
	if a.word == "" {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "voice", "empty word")
	}
	if m.reading {
		return simgr.Continue, curated.Errorf(Busy)
	}
	if len(m.words) >= m.capacity {
		return simgr.Continue, curated.Errorf(DictionaryFull, m.capacity)
	}
	m.words = append(m.words, a.word)
	return simgr.Continue, nil
}

func (m *Manager) maskDictionary(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(mask)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "voice", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	if err := m.check(a.handle); err != nil {
		return simgr.Continue, err
	}
	if m.reading {
		return simgr.Continue, curated.Errorf(Busy)
	}
	m.mask = append([]uint8{}, a.pattern...)
	return simgr.Continue, nil
}

func (m *Manager) startReadData(cmd *simgr.Command) (simgr.Result, error) {
	h, ok := cmd.Data.(*Handle)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "voice", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	if err := m.check(h); err != nil {
		return simgr.Continue, err
	}
	if m.reading {
		return simgr.Continue, curated.Errorf(Busy)
	}
	m.reading = true
	m.ready = nil
	m.rec.Reset()
	return simgr.Continue, nil
}

func (m *Manager) getReadData(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(*readData)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "voice", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	if err := m.check(a.handle); err != nil {
		return simgr.Continue, err
	}
	if !m.reading {
		return simgr.Continue, curated.Errorf(NotReading)
	}
	if m.ready == nil {
		return simgr.Continue, curated.Errorf(Busy)
	}
	a.data = *m.ready
	m.reading = false
	m.ready = nil
	return simgr.Continue, nil
}

func (m *Manager) stopReadData(cmd *simgr.Command) (simgr.Result, error) {
	h, ok := cmd.Data.(*Handle)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "voice", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	if err := m.check(h); err != nil {
		return simgr.Continue, err
	}
	m.reading = false
	m.ready = nil
	m.rec.Reset()
	return simgr.Continue, nil
}

func (m *Manager) controlGain(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(gain)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "voice", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	if err := m.check(a.handle); err != nil {
		return simgr.Continue, err
	}
	if a.gain.Analog < 0 || a.gain.Analog > 1 || a.gain.Digital < 0 || a.gain.Digital > 0xff {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "voice", a.gain)
	}
	m.gain = a.gain
	return simgr.Continue, nil
}

func code(minor uint8) simgr.Code {
	return simgr.Code{Major: simgr.MajorVoice, Minor: minor}
}

// Open the voice recognition unit in the port.
func (m *Manager) Open(ctx context.Context, port int) (*Handle, error) {
	h := &Handle{Port: port}
	if err := m.dsp.Send(ctx, code(MinorOpen), h); err != nil {
		return nil, err
	}
	return h, nil
}

// ClearDictionary empties the dictionary and sets the number of words it can
// hold.
func (m *Manager) ClearDictionary(ctx context.Context, h *Handle, words int) error {
	return m.dsp.Send(ctx, code(MinorClearDictionary), dictionary{handle: h, words: words})
}

// SetWord adds a word to the dictionary. The index of the word is the number
// of words added before it.
func (m *Manager) SetWord(ctx context.Context, h *Handle, w string) error {
	return m.dsp.Send(ctx, code(MinorSetWord), word{handle: h, word: w})
}

// MaskDictionary excludes words from recognition. Bit n of the pattern
// (pattern[n/8], least significant bit first) excludes word n.
func (m *Manager) MaskDictionary(ctx context.Context, h *Handle, pattern []uint8) error {
	return m.dsp.Send(ctx, code(MinorMaskDictionary), mask{handle: h, pattern: pattern})
}

// StartReadData starts listening.
func (m *Manager) StartReadData(ctx context.Context, h *Handle) error {
	return m.dsp.Send(ctx, code(MinorStartReadData), h)
}

// GetReadData returns the result of recognition. Returns the Busy error if
// nothing has been heard yet. Listening ends when a result is returned.
func (m *Manager) GetReadData(ctx context.Context, h *Handle) (Data, error) {
	a := &readData{handle: h}
	err := m.dsp.Send(ctx, code(MinorGetReadData), a)
	return a.data, err
}

// StopReadData stops listening.
func (m *Manager) StopReadData(ctx context.Context, h *Handle) error {
	return m.dsp.Send(ctx, code(MinorStopReadData), h)
}

// ControlGain sets the analog (0 or 1) and digital (0 to 255) gain.
func (m *Manager) ControlGain(ctx context.Context, h *Handle, analog int, digital int) error {
	return m.dsp.Send(ctx, code(MinorControlGain), gain{handle: h, gain: Gain{Analog: analog, Digital: digital}})
}

// Gain returns the current gain settings.
func (m *Manager) Gain() Gain {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.gain
}

// Words returns a copy of the dictionary.
func (m *Manager) Words() []string {
	m.crit.Lock()
	defer m.crit.Unlock()
	return append([]string{}, m.words...)
}
