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

// Package pak is the controller pak manager. A controller pak holds up to
// MaxNotes notes in Pages pages of PageSize bytes. Each note belongs to the
// game identified by a company code and a game code, and is named with N64
// character codes.
//
// A File is opened on a controller port with Open(). A note is then opened
// (and optionally created) with FileOpen() and read or written in blocks of
// BlockSize bytes with ReadWrite().
//
// The content of each pak is persisted as CBOR in the resources directory.
package pak

import (
	"context"
	"fmt"
	"sync"

	"github.com/jetsetilly/nugopher/curated"
	"github.com/jetsetilly/nugopher/environment"
	"github.com/jetsetilly/nugopher/peripherals"
	"github.com/jetsetilly/nugopher/random"
	"github.com/jetsetilly/nugopher/simgr"
)

// Minor numbers of the controller pak manager's commands.
const (
	MinorRetrace   = simgr.MinorRetrace
	MinorOpen      = uint8(0x01)
	MinorFree      = uint8(0x02)
	MinorFileOpen  = uint8(0x03)
	MinorReadWrite = uint8(0x04)
	MinorDelete    = uint8(0x05)
	MinorState     = uint8(0x06)
	MinorFileNum   = uint8(0x07)
	MinorRepairID  = uint8(0x08)
)

// Sentinel error patterns returned by the controller pak manager.
const (
	NotFound   = "pak: note %q not found"
	NoSpace    = "pak: not enough free pages for %d bytes"
	DirFull    = "pak: no free notes"
	IDDamaged  = "pak: port %d: id area is damaged"
	NotOpen    = "pak: no note is open"
	BadName    = "pak: cannot use %q as a note name"
	BadCodes   = "pak: company and game codes must be 2 and 4 characters"
	OutOfRange = "pak: access of %d bytes at %d is outside the note"
)

// OpenMode of FileOpen().
type OpenMode int

// List of valid OpenMode values.
const (
	NoCreate OpenMode = iota
	Create
)

// Direction of ReadWrite().
type Direction int

// List of valid Direction values.
const (
	Read Direction = iota
	Write
)

func portFile(port int) string {
	return fmt.Sprintf("pak%d.cbor", port)
}

// File is a handle to a controller pak. Note is the index of the note opened
// with FileOpen() or -1.
type File struct {
	Port int
	Note int
}

// State is the description of a note.
type State struct {
	CompanyCode uint16
	GameCode    uint32
	Name        string
	Ext         string
	Size        int
}

func (s State) String() string {
	return fmt.Sprintf("%04x %08x %s.%s (%d bytes)", s.CompanyCode, s.GameCode, s.Name, s.Ext, s.Size)
}

type fileOpen struct {
	file *File
	name []uint8
	ext  []uint8
	mode OpenMode
	size int
}

type readWrite struct {
	file   *File
	offset int
	buf    []uint8
	dir    Direction
}

type fileNum struct {
	file *File
	max  int
	used int
}

type free struct {
	file  *File
	bytes int
}

type state struct {
	file  *File
	state State
}

// Manager is the controller pak manager.
type Manager struct {
	env   *environment.Environment
	dsp   *simgr.Dispatcher
	list  *simgr.CallbackList
	slots *peripherals.Slots
	store store
	rnd   *random.Random

	crit    sync.Mutex
	images  [peripherals.MaxControllers]*Image
	company uint16
	game    uint32
	retrace uint32
}

// NewManager creates the controller pak manager and registers it with the
// dispatcher. The images of the paks are persisted in the directory dir,
// relative to the resources directory. An empty dir disables persistence.
func NewManager(env *environment.Environment, dsp *simgr.Dispatcher, slots *peripherals.Slots, dir string) (*Manager, error) {
	m := &Manager{
		env:   env,
		dsp:   dsp,
		slots: slots,
		store: store{env: env, dir: dir},
	}
	m.rnd = random.NewRandom(m)
	m.list = &simgr.CallbackList{
		Major: simgr.MajorPak,
		Handlers: []simgr.Handler{
			m.retraceHandler,
			m.open,
			m.free,
			m.fileOpen,
			m.readWrite,
			m.delete,
			m.state,
			m.fileNum,
			m.repairID,
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

// Retraces implements the random.Counter interface.
func (m *Manager) Retraces() uint32 {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.retrace
}

// SetCodes sets the company and game codes used by FileOpen(), Delete() and
// FileNum().
func (m *Manager) SetCodes(company string, game string) error {
	if len(company) != 2 || len(game) != 4 {
		return curated.Errorf(BadCodes)
	}
	m.crit.Lock()
	defer m.crit.Unlock()
	m.company = uint16(company[0])<<8 | uint16(company[1])
	m.game = uint32(game[0])<<24 | uint32(game[1])<<16 | uint32(game[2])<<8 | uint32(game[3])
	return nil
}

func (m *Manager) retraceHandler(cmd *simgr.Command) (simgr.Result, error) {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.retrace = cmd.Retrace

	// forget the image of a pak that has been removed
	for port := range m.images {
		if m.images[port] != nil && m.slots.Accessory(port) != peripherals.MemoryPak {
			m.images[port] = nil
		}
	}
	return simgr.Continue, nil
}

// image returns the image for the file. must be called with the critical
// section locked.
func (m *Manager) image(f *File) (*Image, error) {
	if f == nil {
		return nil, curated.Errorf(peripherals.BadArgument, "pak", "nil file")
	}
	if err := peripherals.CheckPort("pak", f.Port); err != nil {
		return nil, err
	}
	img := m.images[f.Port]
	if img == nil || m.slots.Accessory(f.Port) != peripherals.MemoryPak {
		return nil, curated.Errorf(peripherals.NoDevice, "pak", f.Port)
	}
	if img.ID == 0 {
		return img, curated.Errorf(IDDamaged, f.Port)
	}
	return img, nil
}

func (m *Manager) open(cmd *simgr.Command) (simgr.Result, error) {
	f, ok := cmd.Data.(*File)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "pak", cmd.Data)
	}
	if err := peripherals.CheckPort("pak", f.Port); err != nil {
		return simgr.Continue, err
	}
	if m.slots.Accessory(f.Port) != peripherals.MemoryPak {
		return simgr.Continue, curated.Errorf(peripherals.NoDevice, "pak", f.Port)
	}

	f.Note = -1

	m.crit.Lock()
	img := m.images[f.Port]
	m.crit.Unlock()

	if img == nil {
		img = m.store.load(f.Port)
	}
	if img == nil {
		img = newImage(m.rnd.Uint32())
		m.store.save(f.Port, img)
	}

	m.crit.Lock()
	defer m.crit.Unlock()
	m.images[f.Port] = img

	if img.ID == 0 {
		return simgr.Continue, curated.Errorf(IDDamaged, f.Port)
	}
	return simgr.Continue, nil
}

func (m *Manager) free(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(*free)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "pak", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	img, err := m.image(a.file)
	if err != nil {
		return simgr.Continue, err
	}
	a.bytes = img.freePages() * PageSize
	return simgr.Continue, nil
}

func (m *Manager) fileOpen(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(fileOpen)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "pak", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	img, err := m.image(a.file)
	if err != nil {
		return simgr.Continue, err
	}

	idx := img.find(m.company, m.game, a.name, a.ext)
	if idx >= 0 {
		a.file.Note = idx
		return simgr.Continue, nil
	}

	if a.mode == NoCreate {
		return simgr.Continue, curated.Errorf(NotFound, FromN64(a.name))
	}

	pages := (a.size + PageSize - 1) / PageSize
	if pages == 0 || pages > img.freePages() {
		return simgr.Continue, curated.Errorf(NoSpace, a.size)
	}

	for i, n := range img.Notes {
		if n == nil {
			img.Notes[i] = &Note{
				CompanyCode: m.company,
				GameCode:    m.game,
				Name:        a.name,
				Ext:         a.ext,
				Data:        make([]uint8, pages*PageSize),
			}
			a.file.Note = i
			m.store.save(a.file.Port, img)
			return simgr.Continue, nil
		}
	}

	return simgr.Continue, curated.Errorf(DirFull)
}

func (m *Manager) readWrite(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(readWrite)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "pak", cmd.Data)
	}

	if a.offset%BlockSize != 0 || len(a.buf)%BlockSize != 0 {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "pak", "access is not a whole number of blocks")
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	img, err := m.image(a.file)
	if err != nil {
		return simgr.Continue, err
	}
	if a.file.Note < 0 || a.file.Note >= MaxNotes || img.Notes[a.file.Note] == nil {
		return simgr.Continue, curated.Errorf(NotOpen)
	}

	n := img.Notes[a.file.Note]
	if a.offset < 0 || a.offset+len(a.buf) > len(n.Data) {
		return simgr.Continue, curated.Errorf(OutOfRange, len(a.buf), a.offset)
	}

	switch a.dir {
	case Read:
		copy(a.buf, n.Data[a.offset:])
	case Write:
		copy(n.Data[a.offset:], a.buf)
		m.store.save(a.file.Port, img)
	}
	return simgr.Continue, nil
}

func (m *Manager) delete(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(fileOpen)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "pak", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	img, err := m.image(a.file)
	if err != nil {
		return simgr.Continue, err
	}

	idx := img.find(m.company, m.game, a.name, a.ext)
	if idx < 0 {
		return simgr.Continue, curated.Errorf(NotFound, FromN64(a.name))
	}
	img.Notes[idx] = nil
	if a.file.Note == idx {
		a.file.Note = -1
	}
	m.store.save(a.file.Port, img)
	return simgr.Continue, nil
}

func (m *Manager) state(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(*state)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "pak", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	img, err := m.image(a.file)
	if err != nil {
		return simgr.Continue, err
	}
	if a.file.Note < 0 || a.file.Note >= MaxNotes || img.Notes[a.file.Note] == nil {
		return simgr.Continue, curated.Errorf(NotOpen)
	}

	n := img.Notes[a.file.Note]
	a.state = State{
		CompanyCode: n.CompanyCode,
		GameCode:    n.GameCode,
		Name:        FromN64(n.Name),
		Ext:         FromN64(n.Ext),
		Size:        len(n.Data),
	}
	return simgr.Continue, nil
}

func (m *Manager) fileNum(cmd *simgr.Command) (simgr.Result, error) {
	a, ok := cmd.Data.(*fileNum)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "pak", cmd.Data)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	img, err := m.image(a.file)
	if err != nil {
		return simgr.Continue, err
	}
	a.max = MaxNotes
	a.used = img.used()
	return simgr.Continue, nil
}

func (m *Manager) repairID(cmd *simgr.Command) (simgr.Result, error) {
	f, ok := cmd.Data.(*File)
	if !ok {
		return simgr.Continue, curated.Errorf(peripherals.BadArgument, "pak", cmd.Data)
	}

	m.crit.Lock()
	img, err := m.image(f)
	m.crit.Unlock()

	if err == nil {
		return simgr.Continue, nil
	}
	if !curated.Is(err, IDDamaged) {
		return simgr.Continue, err
	}

	id := m.rnd.Uint32()

	m.crit.Lock()
	defer m.crit.Unlock()
	img.ID = id
	m.store.save(f.Port, img)
	return simgr.Continue, nil
}

// Open the controller pak in the port. If the ID area of the pak is damaged
// the file is returned with the IDDamaged error and can be used with
// RepairID().
func (m *Manager) Open(ctx context.Context, port int) (*File, error) {
	f := &File{Port: port, Note: -1}
	err := m.dsp.Send(ctx, simgr.Code{Major: simgr.MajorPak, Minor: MinorOpen}, f)
	if err != nil && !curated.Is(err, IDDamaged) {
		return nil, err
	}
	return f, err
}

// Free returns the number of free bytes in the pak.
func (m *Manager) Free(ctx context.Context, f *File) (int, error) {
	a := &free{file: f}
	err := m.dsp.Send(ctx, simgr.Code{Major: simgr.MajorPak, Minor: MinorFree}, a)
	return a.bytes, err
}

func names(name string, ext string) ([]uint8, []uint8, error) {
	n, err := ToN64(name, NameLen)
	if err != nil {
		return nil, nil, err
	}
	e, err := ToN64(ext, ExtLen)
	if err != nil {
		return nil, nil, err
	}
	return n, e, nil
}

// FileOpen opens the note with the name and extension. In the Create mode a
// note of at least size bytes is created if it does not exist.
func (m *Manager) FileOpen(ctx context.Context, f *File, name string, ext string, mode OpenMode, size int) error {
	n, e, err := names(name, ext)
	if err != nil {
		return err
	}
	a := fileOpen{file: f, name: n, ext: e, mode: mode, size: size}
	return m.dsp.Send(ctx, simgr.Code{Major: simgr.MajorPak, Minor: MinorFileOpen}, a)
}

// ReadWrite reads or writes the open note. The offset and the length of the
// buffer must be multiples of BlockSize.
func (m *Manager) ReadWrite(ctx context.Context, f *File, offset int, buf []uint8, dir Direction) error {
	a := readWrite{file: f, offset: offset, buf: buf, dir: dir}
	return m.dsp.Send(ctx, simgr.Code{Major: simgr.MajorPak, Minor: MinorReadWrite}, a)
}

// Delete the note with the name and extension.
func (m *Manager) Delete(ctx context.Context, f *File, name string, ext string) error {
	n, e, err := names(name, ext)
	if err != nil {
		return err
	}
	a := fileOpen{file: f, name: n, ext: e}
	return m.dsp.Send(ctx, simgr.Code{Major: simgr.MajorPak, Minor: MinorDelete}, a)
}

// State returns the description of the open note.
func (m *Manager) State(ctx context.Context, f *File) (State, error) {
	a := &state{file: f}
	err := m.dsp.Send(ctx, simgr.Code{Major: simgr.MajorPak, Minor: MinorState}, a)
	return a.state, err
}

// FileNum returns the maximum number of notes and the number of notes in use.
func (m *Manager) FileNum(ctx context.Context, f *File) (int, int, error) {
	a := &fileNum{file: f}
	err := m.dsp.Send(ctx, simgr.Code{Major: simgr.MajorPak, Minor: MinorFileNum}, a)
	return a.max, a.used, err
}

// RepairID gives a pak with a damaged ID area a new ID. The notes in the pak
// are kept.
func (m *Manager) RepairID(ctx context.Context, f *File) error {
	return m.dsp.Send(ctx, simgr.Code{Major: simgr.MajorPak, Minor: MinorRepairID}, f)
}
