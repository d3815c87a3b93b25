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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/nugopher/audiomgr"
	"github.com/jetsetilly/nugopher/bootconfig"
	"github.com/jetsetilly/nugopher/cartridgeloader"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/hardware/preferences"
	"github.com/jetsetilly/nugopher/logger"
	"github.com/jetsetilly/nugopher/modalflag"
	"github.com/jetsetilly/nugopher/performance"
	"github.com/jetsetilly/nugopher/peripherals"
	"github.com/jetsetilly/nugopher/peripherals/eeprom"
	"github.com/jetsetilly/nugopher/peripherals/gbpak"
	"github.com/jetsetilly/nugopher/pi"
	"github.com/jetsetilly/nugopher/prefs"
	"github.com/jetsetilly/nugopher/statsview"
	"github.com/jetsetilly/nugopher/system"
	"github.com/jetsetilly/nugopher/userinput"
	"github.com/jetsetilly/nugopher/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(launch(ctx, os.Args[1:], os.Stdout))
}

// launch the mode specified on the command line. returns the exit value.
func launch(ctx context.Context, args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "INFO", "DUMP", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md)

	case "INFO":
		err = info(ctx, md)

	case "DUMP":
		err = dump(ctx, md)

	case "PERFORMANCE":
		err = perform(ctx, md)

	case "VERSION":
		v, r, release := version.Version()
		if release {
			fmt.Fprintf(output, "%s %s\n", version.ApplicationName, v)
		} else {
			fmt.Fprintf(output, "%s %s (%s)\n", version.ApplicationName, v, r)
		}
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return 20
	}

	return 0
}

// systemFlags are the flags shared by the modes that create a system.
type systemFlags struct {
	boot     *string
	prefs    *string
	log      *bool
	pak      *string
	ports    *string
	eeprom   *modalflag.Choice
	gameboy  *string
	rom      *string
	wav      *string
	manual   bool
	noLogger bool
}

func addSystemFlags(md *modalflag.Modes) *systemFlags {
	return &systemFlags{
		boot:    md.AddString("boot", "", "boot configuration file (YAML)"),
		prefs:   md.AddString("prefs", "", "preferences to apply (key::value; key::value)"),
		log:     md.AddBool("log", false, "echo log to stdout"),
		pak:     md.AddString("pak", "paks", "directory of controller pak images"),
		ports:   md.AddString("ports", "PAD,PAK,RUMBLE,NONE", "accessories in the controller ports: NONE, PAK, RUMBLE, GB"),
		eeprom:  md.AddChoice("eeprom", "NONE", []string{"NONE", "4K", "16K"}, "cartridge eeprom"),
		gameboy: md.AddString("gameboy", "", "game boy cartridge inserted in the game boy paks"),
		rom:     md.AddString("rom", "", "cartridge ROM read through the PI"),
		wav:     md.AddString("wav", "", "record audio to wav file"),
	}
}

func parseAccessories(s string) ([peripherals.MaxControllers]peripherals.Accessory, error) {
	var acc [peripherals.MaxControllers]peripherals.Accessory
	for i, v := range strings.Split(s, ",") {
		if i >= peripherals.MaxControllers {
			return acc, fmt.Errorf("too many ports (%s)", s)
		}
		switch strings.ToUpper(strings.TrimSpace(v)) {
		case "", "NONE", "PAD":
			acc[i] = peripherals.NoAccessory
		case "PAK":
			acc[i] = peripherals.MemoryPak
		case "RUMBLE":
			acc[i] = peripherals.RumblePak
		case "GB":
			acc[i] = peripherals.GameBoyPak
		default:
			return acc, fmt.Errorf("unknown accessory (%s)", v)
		}
	}
	return acc, nil
}

func parseEeprom(s string) (eeprom.Type, error) {
	switch s {
	case "NONE":
		return eeprom.None, nil
	case "4K":
		return eeprom.Type4K, nil
	case "16K":
		return eeprom.Type16K, nil
	}
	return eeprom.None, fmt.Errorf("unknown eeprom type (%s)", s)
}

// newSystem creates the environment and the system from the flags.
func (f *systemFlags) newSystem(ctx context.Context, output io.Writer) (*system.System, error) {
	p, err := preferences.NewPreferences()
	if err != nil {
		return nil, err
	}

	if _, err := bootconfig.Load(p, *f.boot); err != nil {
		return nil, err
	}

	if *f.prefs != "" {
		prefs.PushCommandLineStack(*f.prefs)
		if err := p.ApplyCommandLine(); err != nil {
			return nil, err
		}
	}

	env, err := environment.NewEnvironment(environment.MainSystem, p)
	if err != nil {
		return nil, err
	}

	if *f.log {
		logger.SetEcho(output)
	}

	opts := system.Options{
		PakDir:     *f.pak,
		EepromFile: "eeprom.bin",
		GameBoy:    *f.gameboy,
		Rom:        *f.rom,
		SramFile:   "sram.bin",
		Wav:        *f.wav,
		Manual:     f.manual,
	}

	opts.Accessories, err = parseAccessories(*f.ports)
	if err != nil {
		return nil, err
	}
	opts.Eeprom, err = parseEeprom(f.eeprom.Value())
	if err != nil {
		return nil, err
	}

	return system.NewSystem(ctx, env, opts)
}

func run(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	sf := addSystemFlags(md)
	sound := md.AddString("sound", "", "wav or mp3 file to play through the audio unit")
	frames := md.AddInt("frames", 0, "number of frames to run (0 is unlimited)")
	interactive := md.AddBool("terminal", false, "control the first pad from the terminal")
	var stats *bool
	if statsview.Available() {
		stats = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.DefaultAddress))
	}

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := sf.newSystem(ctx, md.Output)
	if err != nil {
		return err
	}

	if stats != nil && *stats {
		statsview.Launch(ctx, s.Env(), "", md.Output)
	}

	if err := s.Start(ctx); err != nil {
		return err
	}

	if *interactive {
		term, err := userinput.OpenTerminal("/dev/tty")
		if err != nil {
			return err
		}
		defer term.Close()

		go func() {
			if err := userinput.Feed(ctx, term, s.Input); err != nil {
				logger.Log(s.Env(), "userinput", err)
			}
		}()
	}

	if *sound != "" {
		cl := cartridgeloader.NewLoader(*sound, "")
		if err := cl.Load(ctx); err != nil {
			return err
		}
		pcm, err := audiomgr.LoadPCM(s.Env(), cl)
		if err != nil {
			return err
		}
		go func() {
			if err := s.Audio.Play(ctx, pcm); err != nil {
				logger.Log(s.Env(), "audiomgr", err)
			}
		}()
	}

	err = s.Demo(ctx, *frames, md.Output)
	if err != nil && ctx.Err() == nil {
		return err
	}

	// the shutdown has its own context because the main context may have
	// been cancelled by the interrupt signal
	sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer scancel()

	if err := s.Shutdown(sctx); err != nil {
		return err
	}

	fmt.Fprintf(md.Output, "video digest: %s\n", s.VideoDigest.Hash())
	fmt.Fprintf(md.Output, "audio digest: %s\n", s.AudioDigest.Hash())

	return nil
}

func info(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("%s mode requires one cartridge file", md)
	}

	cl := cartridgeloader.NewLoader(md.GetArg(0), "")
	if err := cl.Load(ctx); err != nil {
		return err
	}

	fmt.Fprintf(md.Output, "file:   %s\n", cl.Filename)
	fmt.Fprintf(md.Output, "format: %s\n", cl.Format)
	fmt.Fprintf(md.Output, "hash:   %s\n", cl.Hash)

	switch {
	case cl.Format.IsROM():
		p, err := pi.NewPI(ctx, nil, cl, "")
		if err != nil {
			return err
		}
		fmt.Fprintf(md.Output, "title:  %s\n", p.Title())
		fmt.Fprintf(md.Output, "code:   %s\n", p.GameCode())
		fmt.Fprintf(md.Output, "size:   %d\n", p.RomSize())

	case cl.Format == cartridgeloader.FormatGB:
		c, err := gbpak.NewCartridge(cl)
		if err != nil {
			return err
		}
		id := c.ID()
		fmt.Fprintf(md.Output, "title:  %s\n", id.Title)
		fmt.Fprintf(md.Output, "type:   %#02x\n", id.CartType)

	case cl.IsSoundData:
		pcm, err := audiomgr.LoadPCM(nil, cl)
		if err != nil {
			return err
		}
		fmt.Fprintf(md.Output, "rate:   %dHz\n", pcm.SampleRate)
		fmt.Fprintf(md.Output, "length: %.2fs\n", pcm.Seconds())
	}

	return nil
}

func dump(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	sf := addSystemFlags(md)
	out := md.AddString("out", "", "output file for the graphviz dump (default stdout)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	sf.manual = true
	s, err := sf.newSystem(ctx, md.Output)
	if err != nil {
		return err
	}

	w := md.Output
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	memviz.Map(w, s.Scheduler.Config(), s.Env().Prefs, s.Console)
	return nil
}

func perform(ctx context.Context, md *modalflag.Modes) error {
	md.NewMode()

	sf := addSystemFlags(md)
	duration := md.AddString("duration", "5s", "run duration (note: there is a 2s overhead)")
	profile := md.AddString("profile", "NONE", "run performance check with profiling: CPU, MEM, TRACE, ALL (comma sep)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := sf.newSystem(ctx, md.Output)
	if err != nil {
		return err
	}
	if err := s.Start(ctx); err != nil {
		return err
	}

	go func() {
		_ = s.Demo(ctx, 0, nil)
	}()

	_, err = performance.Check(ctx, md.Output, prf, s.Scheduler, *duration)
	return err
}
