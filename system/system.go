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

// Package system assembles the scheduler, the execution units, the command
// dispatcher and the peripheral managers into a running system. It is used by
// the RUN, DUMP and PERFORMANCE modes of the program and by tests that need
// the whole stack.
package system

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/nugopher/audiomgr"
	"github.com/jetsetilly/nugopher/cartridgeloader"
	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/debugcon"
	"github.com/jetsetilly/nugopher/digest"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/gfx"
	"github.com/jetsetilly/nugopher/hardware/rcp"
	"github.com/jetsetilly/nugopher/hardware/vi"
	"github.com/jetsetilly/nugopher/logger"
	"github.com/jetsetilly/nugopher/peripherals"
	"github.com/jetsetilly/nugopher/peripherals/controller"
	"github.com/jetsetilly/nugopher/peripherals/eeprom"
	"github.com/jetsetilly/nugopher/peripherals/gbpak"
	"github.com/jetsetilly/nugopher/peripherals/pak"
	"github.com/jetsetilly/nugopher/peripherals/rumble"
	"github.com/jetsetilly/nugopher/peripherals/voice"
	"github.com/jetsetilly/nugopher/pi"
	"github.com/jetsetilly/nugopher/scheduler"
	"github.com/jetsetilly/nugopher/simgr"
	"github.com/jetsetilly/nugopher/userinput"
	"github.com/jetsetilly/nugopher/wavwriter"
)

const logTag = "system"

// State indicates the state of the system.
//
// Values are ordered so that order comparisons are meaningful.
type State int32

// List of possible system states.
const (
	Initialising State = iota
	Running
	Draining
	Ending
)

func (s State) String() string {
	switch s {
	case Initialising:
		return "initialising"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Ending:
		return "ending"
	}
	return "unknown"
}

// Options for NewSystem().
type Options struct {
	// the accessory plugged into each controller. the pad in port zero is
	// always connected
	Accessories [peripherals.MaxControllers]peripherals.Accessory

	// directory of the controller pak images, relative to the resources path
	PakDir string

	// the cartridge EEPROM and the file it is persisted to
	Eeprom     eeprom.Type
	EepromFile string

	// Game Boy cartridge inserted in every Game Boy pak
	GameBoy string

	// cartridge ROM read through the PI and the file the SRAM is persisted to
	Rom      string
	SramFile string

	// audio output is written to the wav file
	Wav string

	// retraces are sent by calling Retrace() rather than in real time
	Manual bool
}

// System is the assembled system.
type System struct {
	env  *environment.Environment
	opts Options

	Scheduler  *scheduler.Scheduler
	Dispatcher *simgr.Dispatcher

	GraphicsUnit *rcp.Unit
	AudioUnit    *rcp.Unit

	ticker *vi.Ticker
	manual *vi.Manual
	source vi.Source

	Slots      *peripherals.Slots
	Pads       *controller.Pads
	Input      *userinput.Controllers
	Controller *controller.Manager
	Pak        *pak.Manager
	Rumble     *rumble.Manager
	Eeprom     *eeprom.Manager
	GbPak      *gbpak.Manager
	Voice      *voice.Manager
	Script     *voice.Script

	Gfx   *gfx.Manager
	Audio *audiomgr.Manager

	Console     *debugcon.Console
	VideoDigest *digest.Video
	AudioDigest *digest.Audio
	Wav         *wavwriter.WavWriter
	PI          *pi.PI

	state    atomic.Int32
	drained  chan struct{}
	drainOne sync.Once
}

// sinks forwards the audio unit output to more than one sink.
type sinks []rcp.AudioSink

func (s sinks) SetAudio(samples []int16) error {
	for _, k := range s {
		if err := k.SetAudio(samples); err != nil {
			return err
		}
	}
	return nil
}

// motor logs the rumble motor being switched on and off.
type motor struct {
	env *environment.Environment
	on  [peripherals.MaxControllers]atomic.Bool
}

func (m *motor) Motor(port int, on bool) error {
	if m.on[port].Swap(on) != on {
		logger.Logf(m.env, "rumble", "port %d: motor on: %v", port, on)
	}
	return nil
}

// NewSystem is the preferred method of initialisation for the System type.
func NewSystem(ctx context.Context, env *environment.Environment, opts Options) (*System, error) {
	s := &System{
		env:         env,
		opts:        opts,
		drained:     make(chan struct{}),
		Slots:       &peripherals.Slots{},
		Pads:        controller.NewPads(0),
		Console:     debugcon.NewConsole(),
		VideoDigest: digest.NewVideo(),
		AudioDigest: digest.NewAudio(),
	}
	s.state.Store(int32(Initialising))

	cfg, err := scheduler.NewConfig(env.Prefs)
	if err != nil {
		return nil, err
	}

	out := sinks{s.AudioDigest}
	if opts.Wav != "" {
		s.Wav, err = wavwriter.New(env, opts.Wav, env.Prefs.AudioSampleRate.Get().(int))
		if err != nil {
			return nil, err
		}
		out = append(out, s.Wav)
	}

	latency := func(us int) time.Duration {
		return time.Duration(us) * time.Microsecond
	}
	s.GraphicsUnit = rcp.NewGraphics(env, latency(env.Prefs.GfxLatency.Get().(int)))
	s.AudioUnit = rcp.NewAudio(env, latency(env.Prefs.AudioLatency.Get().(int)), out)

	s.Scheduler, err = scheduler.NewScheduler(env, cfg, scheduler.Units{
		Graphics: s.GraphicsUnit,
		Audio:    s.AudioUnit,
	})
	if err != nil {
		return nil, err
	}
	s.Scheduler.SetPreResetFunc(func() {
		s.drainOne.Do(func() {
			close(s.drained)
		})
	})

	if opts.Manual {
		s.manual = vi.NewManual(s.Scheduler.Events())
		s.source = s.manual
	} else {
		s.ticker = vi.NewTicker(cfg.Mode, cfg.NumFields, s.Scheduler.Events())
		s.source = s.ticker
	}

	s.Gfx = gfx.NewManager(env, s.Scheduler)
	s.Gfx.SetSwapFunc(s.VideoDigest.Swapped)
	s.Gfx.DisplayOn()
	s.Audio = audiomgr.NewManager(env, s.Scheduler)

	s.Input = userinput.NewControllers(s.Pads, 0, nil, 0)
	s.Gfx.SetGfxFunc(func(_ int) {
		s.Input.Tick()
	})

	if err := s.peripherals(ctx, opts); err != nil {
		return nil, err
	}

	if opts.Rom != "" {
		s.PI, err = pi.NewPI(ctx, env, cartridgeloader.NewLoader(opts.Rom, ""), opts.SramFile)
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *System) peripherals(ctx context.Context, opts Options) error {
	s.Dispatcher = simgr.NewDispatcher(s.env, s.Scheduler.Config().QueueCapacity)

	var err error

	s.Controller, err = controller.NewManager(s.env, s.Dispatcher, s.Pads)
	if err != nil {
		return err
	}
	s.Pak, err = pak.NewManager(s.env, s.Dispatcher, s.Slots, opts.PakDir)
	if err != nil {
		return err
	}
	s.Rumble, err = rumble.NewManager(s.env, s.Dispatcher, s.Slots, &motor{env: s.env})
	if err != nil {
		return err
	}
	s.Eeprom, err = eeprom.NewManager(s.env, s.Dispatcher, opts.Eeprom, opts.EepromFile)
	if err != nil {
		return err
	}
	s.GbPak, err = gbpak.NewManager(s.env, s.Dispatcher, s.Slots)
	if err != nil {
		return err
	}

	// the voice recognition unit is in the last port
	s.Script = voice.NewScript(0)
	s.Voice, err = voice.NewManager(s.env, s.Dispatcher, peripherals.MaxControllers-1, s.Script)
	if err != nil {
		return err
	}

	var cart *gbpak.Cartridge
	if opts.GameBoy != "" {
		ld := cartridgeloader.NewLoader(opts.GameBoy, "")
		if err := ld.Load(ctx); err != nil {
			return err
		}
		cart, err = gbpak.NewCartridge(ld)
		if err != nil {
			return err
		}
	}

	for port, a := range opts.Accessories {
		s.Slots.Insert(port, a)
		if a == peripherals.GameBoyPak && cart != nil {
			if err := s.GbPak.Insert(port, cart); err != nil {
				return err
			}
		}
	}

	return nil
}

// Start the system. The system runs until the context is done or until
// Shutdown() is called.
func (s *System) Start(ctx context.Context) error {
	if s.State() != Initialising {
		return curated.Errorf("system: already started")
	}

	s.GraphicsUnit.Start(ctx)
	s.AudioUnit.Start(ctx)

	if err := s.Scheduler.Start(ctx); err != nil {
		return err
	}
	if err := s.Dispatcher.Start(ctx, s.Scheduler); err != nil {
		return err
	}
	if err := s.Gfx.Start(ctx); err != nil {
		return err
	}

	if s.ticker != nil {
		s.ticker.Start(ctx)
	}

	s.state.Store(int32(Running))
	logger.Logf(s.env, logTag, "running: %d retraces per second", s.Scheduler.FrameRate())

	return nil
}

// State returns the current state of the system.
func (s *System) State() State {
	return State(s.state.Load())
}

// Env returns the environment of the system.
func (s *System) Env() *environment.Environment {
	return s.env
}

// Source returns the timing source.
func (s *System) Source() vi.Source {
	return s.source
}

// Retrace sends a retrace message. It only has an effect if the system was
// created with the Manual option.
func (s *System) Retrace() bool {
	if s.manual == nil {
		return false
	}
	return s.manual.Retrace()
}

// Shutdown sends the pre-reset notice and waits for the in-flight tasks to
// drain. Persisted peripheral data is then written to disk and the wav file
// is completed.
func (s *System) Shutdown(ctx context.Context) error {
	if s.State() != Running {
		return curated.Errorf("system: not running")
	}
	s.state.Store(int32(Draining))

	if err := s.source.PreReset(ctx); err != nil {
		return err
	}

	for done := false; !done; {
		select {
		case <-s.drained:
			done = true
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
			// the manual source does not send retraces by itself
			s.Retrace()
		}
	}

	logger.Log(s.env, logTag, "drained")

	s.Controller.Remove()
	s.Pak.Remove()
	s.Rumble.Remove()
	s.Eeprom.Remove()
	s.GbPak.Remove()
	s.Voice.Remove()

	var err error
	if s.PI != nil {
		err = s.PI.Flush()
	}
	if s.Wav != nil {
		if werr := s.Wav.EndMixing(); werr != nil && err == nil {
			err = werr
		}
	}

	s.AudioDigest.FlushAudio()
	s.state.Store(int32(Ending))

	return err
}
