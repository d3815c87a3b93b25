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

package rumble

import (
	"context"
	"sync"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/logger"
	"github.com/jetsetilly/nugopher/peripherals"
	"github.com/jetsetilly/nugopher/simgr"
)

// Minor numbers of the rumble manager's commands.
const (
	MinorRetrace      = simgr.MinorRetrace
	MinorCheck        = uint8(0x01)
	MinorStart        = uint8(0x02)
	MinorStop         = uint8(0x03)
	MinorForceStop    = uint8(0x04)
	MinorForceStopEnd = uint8(0x05)
)

// Codes of the rumble manager's commands.
var (
	CheckCode        = simgr.Code{Major: simgr.MajorRumble, Minor: MinorCheck}
	StartCode        = simgr.Code{Major: simgr.MajorRumble, Minor: MinorStart}
	StopCode         = simgr.Code{Major: simgr.MajorRumble, Minor: MinorStop}
	ForceStopCode    = simgr.Code{Major: simgr.MajorRumble, Minor: MinorForceStop}
	ForceStopEndCode = simgr.Code{Major: simgr.MajorRumble, Minor: MinorForceStopEnd}
)

// Motor is implemented by the device that drives the rumble motors.
type Motor interface {
	Motor(port int, on bool) error
}

type start struct {
	port  int
	freq  uint16
	frame uint16
}

// Manager is the rumble pak manager.
type Manager struct {
	env   *environment.Environment
	dsp   *simgr.Dispatcher
	list  *simgr.CallbackList
	slots *peripherals.Slots
	motor Motor

	crit       sync.Mutex
	ctl        [peripherals.MaxControllers]Control
	searchTime uint32
}

// NewManager creates the rumble manager and registers it with the dispatcher.
// Every port starts in the Disable mode.
func NewManager(env *environment.Environment, dsp *simgr.Dispatcher, slots *peripherals.Slots, motor Motor) (*Manager, error) {
	m := &Manager{
		env:        env,
		dsp:        dsp,
		slots:      slots,
		motor:      motor,
		searchTime: DefaultSearchTime,
	}
	for i := range m.ctl {
		m.ctl[i].State = Stopped
	}
	m.list = &simgr.CallbackList{
		Major: simgr.MajorRumble,
		Handlers: []simgr.Handler{
			m.retrace,
			m.check,
			m.start,
			m.stop,
			m.forceStop,
			m.forceStopEnd,
		},
	}
	if err := dsp.Register(m.list); err != nil {
		return nil, err
	}
	return m, nil
}

// Remove the manager from the dispatcher. Every motor is switched off.
func (m *Manager) Remove() {
	m.dsp.Unregister(m.list)
	m.crit.Lock()
	defer m.crit.Unlock()
	for port := range m.ctl {
		m.motorOff(port)
	}
}

// drive the motor. must be called with the critical section locked.
func (m *Manager) drive(port int, on bool) error {
	m.ctl[port].MotorOn = on
	if m.motor == nil {
		return nil
	}
	return m.motor.Motor(port, on)
}

// motorOff switches the motor off and logs a failure. must be called with
// the critical section locked.
func (m *Manager) motorOff(port int) {
	if err := m.drive(port, false); err != nil {
		logger.Logf(m.env, "rumble", "port %d: motor not stopped: %v", port, err)
	}
}

func (m *Manager) present(port int) bool {
	return m.slots != nil && m.slots.Accessory(port) == peripherals.RumblePak
}

func (m *Manager) retrace(cmd *simgr.Command) (simgr.Result, error) {
	m.crit.Lock()
	defer m.crit.Unlock()

	if cmd.PreReset {
		for port := range m.ctl {
			m.ctl[port].State = ForceStop
			m.motorOff(port)
		}
		return simgr.Continue, nil
	}

	for port := range m.ctl {
		c := &m.ctl[port]

		if c.Mode == Disable || c.Mode&Pause == Pause {
			continue
		}

		if c.Mode == Autorun && !c.Found {
			if m.searchTime == 0 || cmd.Retrace%m.searchTime == 0 {
				c.Found = m.present(port)
				if c.Found {
					logger.Logf(m.env, "rumble", "found rumble pak in port %d", port)
				}
			}
			if !c.Found {
				continue
			}
		}

		var err error

		switch c.State {
		case Run:
			if c.Frame == 0 {
				c.State = Stopping
				err = m.drive(port, false)
				break
			}
			c.Frame--
			c.Counter += c.Freq
			if c.Counter >= 0x100 {
				c.Counter -= 0x100
				err = m.drive(port, true)
			} else {
				err = m.drive(port, false)
			}
		case Stop, Stopping:
			err = m.drive(port, false)
			c.State = Stopped
		case ForceStop:
			err = m.drive(port, false)
		}

		if err != nil {
			logger.Logf(m.env, "rumble", "port %d: %v", port, err)
			if c.Mode == Autorun {
				c.Found = false
			}
		}
	}

	return simgr.Continue, nil
}

func (m *Manager) check(cmd *simgr.Command) (simgr.Result, error) {
	port, _ := cmd.Data.(int)
	if err := peripherals.CheckPort("rumble", port); err != nil {
		return simgr.Continue, err
	}
	if !m.present(port) {
		return simgr.Continue, curated.Errorf(peripherals.NoDevice, "rumble", port)
	}
	return simgr.Continue, nil
}

func (m *Manager) start(cmd *simgr.Command) (simgr.Result, error) {
	s, ok := cmd.Data.(start)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "rumble", cmd.Data)
	}
	if err := peripherals.CheckPort("rumble", s.port); err != nil {
		return simgr.Continue, err
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	c := &m.ctl[s.port]
	if c.State == ForceStop {
		return simgr.Continue, nil
	}
	c.Freq = s.freq
	c.Frame = s.frame
	c.Counter = 0
	c.State = Run
	return simgr.Continue, nil
}

func (m *Manager) stop(cmd *simgr.Command) (simgr.Result, error) {
	port, _ := cmd.Data.(int)
	if err := peripherals.CheckPort("rumble", port); err != nil {
		return simgr.Continue, err
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	c := &m.ctl[port]
	if c.State == Run {
		c.State = Stopping
	}
	return simgr.Continue, nil
}

func (m *Manager) forceStop(_ *simgr.Command) (simgr.Result, error) {
	m.crit.Lock()
	defer m.crit.Unlock()
	for port := range m.ctl {
		m.ctl[port].State = ForceStop
	}
	return simgr.Continue, nil
}

func (m *Manager) forceStopEnd(_ *simgr.Command) (simgr.Result, error) {
	m.crit.Lock()
	defer m.crit.Unlock()
	for port := range m.ctl {
		if m.ctl[port].State == ForceStop {
			m.ctl[port].State = Stopped
		}
	}
	return simgr.Continue, nil
}

// Check returns an error if there is no rumble pak in the controller.
func (m *Manager) Check(ctx context.Context, port int) error {
	return m.dsp.Send(ctx, CheckCode, port)
}

// Start the motor in the controller at a frequency for a number of frames.
// The motor is not started if it has been forcibly stopped.
func (m *Manager) Start(port int, freq uint16, frame uint16) error {
	return m.dsp.SendNB(StartCode, start{port: port, freq: freq, frame: frame})
}

// Stop the motor in the controller.
func (m *Manager) Stop(port int) error {
	return m.dsp.SendNB(StopCode, port)
}

// ForceStop stops every motor. Start() has no effect until ForceStopEnd().
func (m *Manager) ForceStop(ctx context.Context) error {
	return m.dsp.Send(ctx, ForceStopCode, nil)
}

// ForceStopEnd ends a forced stop. The motors are left in the Stopped state.
func (m *Manager) ForceStopEnd(ctx context.Context) error {
	return m.dsp.Send(ctx, ForceStopEndCode, nil)
}

// SetMode sets the mode of the port. Changing the mode, other than by
// pausing or unpausing, resets the Autorun search.
func (m *Manager) SetMode(port int, mode Mode) error {
	if err := peripherals.CheckPort("rumble", port); err != nil {
		return err
	}
	m.crit.Lock()
	defer m.crit.Unlock()
	if mode&^Pause != m.ctl[port].Mode&^Pause {
		m.ctl[port].Found = false
	}
	m.ctl[port].Mode = mode
	if mode == Disable || mode&Pause == Pause {
		m.motorOff(port)
	}
	return nil
}

// SetSearchTime sets the number of frames between searches for a pak in the
// Autorun mode. A value of zero searches on every frame.
func (m *Manager) SetSearchTime(frames uint32) {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.searchTime = frames
}

// Control returns a copy of the motor control for the port.
func (m *Manager) Control(port int) Control {
	if port < 0 || port >= peripherals.MaxControllers {
		return Control{}
	}
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.ctl[port]
}
