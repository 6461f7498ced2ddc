// Package editor turns pointer clicks into grid edits.
//
// The editor keeps a current click mode. Start and End are one-shot: after a
// successful placement the mode falls back to whatever was active before.
// Wall toggles and stays active.
package editor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/scenario"
)

// Mode is what a click does.
type Mode int

const (
	ModeNone Mode = iota
	ModeStart
	ModeEnd
	ModeWall
)

var modeNames = [...]string{"none", "start", "end", "wall"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ParseMode accepts the names String produces; "" means ModeNone.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ModeNone, nil
	}
	for i, candidate := range modeNames {
		if candidate == name {
			return Mode(i), nil
		}
	}
	return ModeNone, fmt.Errorf("unknown click mode %q", name)
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Editor owns a grid and applies clicks to it. It is not safe for concurrent use.
type Editor struct {
	grid     *gridastar.Grid
	mode     Mode
	previous Mode
	logger   *slog.Logger
}

// New wraps grid. A nil logger discards.
func New(grid *gridastar.Grid, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Editor{grid: grid, logger: logger}
}

// Grid is the grid currently being edited. Resize and Load replace it.
func (e *Editor) Grid() *gridastar.Grid { return e.grid }

func (e *Editor) Mode() Mode { return e.mode }

// SetMode switches the click mode. Selecting Start or End remembers the
// current mode so the editor can return to it after one placement.
func (e *Editor) SetMode(mode Mode) {
	if mode == e.mode {
		return
	}
	if mode == ModeStart || mode == ModeEnd {
		if e.mode != ModeStart && e.mode != ModeEnd {
			e.previous = e.mode
		}
	} else {
		e.previous = mode
	}
	e.mode = mode
}

// Click applies the current mode at pos. A grid still holding a run is reset
// first so the edit starts from clean search state. A rejected click leaves
// the grid, including any run on it, untouched.
func (e *Editor) Click(pos gridastar.Coordinate) error {
	if e.mode == ModeNone {
		return nil
	}
	if err := e.check(pos); err != nil {
		return err
	}
	if e.grid.Seeded() {
		e.grid.Reset()
	}

	var err error
	switch e.mode {
	case ModeStart:
		err = e.grid.SetStart(pos)
	case ModeEnd:
		err = e.grid.SetGoal(pos)
	case ModeWall:
		err = e.grid.ToggleWall(pos)
	}
	if err != nil {
		return err
	}

	e.logger.Debug("cell edited", "mode", e.mode.String(), "cell", pos.String())
	if e.mode == ModeStart || e.mode == ModeEnd {
		e.mode = e.previous
	}
	return nil
}

// check reports the error the current mode would produce at pos without
// touching the grid.
func (e *Editor) check(pos gridastar.Coordinate) error {
	var op string
	switch e.mode {
	case ModeStart:
		op = "set start"
	case ModeEnd:
		op = "set goal"
	default:
		op = "toggle wall"
	}

	cell, err := e.grid.Cell(pos)
	if err != nil {
		return &gridastar.CoordinateError{Op: op, Pos: pos, Err: gridastar.ErrInvalidCoordinate}
	}
	if op != "toggle wall" && cell.Attribute() == gridastar.Wall {
		return &gridastar.CoordinateError{Op: op, Pos: pos, Err: gridastar.ErrBlockedEndpoint}
	}
	return nil
}

// Clear removes every wall and both endpoints.
func (e *Editor) Clear() {
	e.grid.Clear()
}

// Resize replaces the grid with a blank size x size one without endpoints.
func (e *Editor) Resize(size int) error {
	grid, err := gridastar.NewGrid(size, size)
	if err != nil {
		return err
	}
	e.grid = grid
	return nil
}

// Load replaces the grid with a named scenario.
func (e *Editor) Load(name string, size int) error {
	grid, err := scenario.ByName(name, size)
	if err != nil {
		return err
	}
	e.grid = grid
	return nil
}
