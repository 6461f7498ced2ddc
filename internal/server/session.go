package server

import (
	"context"
	"sync"

	"github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/editor"
)

// session is one edited grid plus the run being stepped on it. All access
// goes through mu.
type session struct {
	mu      sync.Mutex
	id      string
	editor  *editor.Editor
	options []gridastar.Option
	stepper *gridastar.Stepper
}

// snapshot of a session for JSON responses.
type sessionView struct {
	ID     string                `json:"id"`
	Rows   int                   `json:"rows"`
	Cols   int                   `json:"cols"`
	Mode   editor.Mode           `json:"mode"`
	Start  *gridastar.Coordinate `json:"start,omitempty"`
	Goal   *gridastar.Coordinate `json:"goal,omitempty"`
	Status gridastar.Status      `json:"status"`
	Cells  [][]gridastar.State   `json:"cells"`
}

func (s *session) view() sessionView {
	grid := s.editor.Grid()
	view := sessionView{
		ID:     s.id,
		Rows:   grid.Rows(),
		Cols:   grid.Cols(),
		Mode:   s.editor.Mode(),
		Status: gridastar.StatusIdle,
		Cells:  make([][]gridastar.State, grid.Rows()),
	}
	if start, ok := grid.Start(); ok {
		view.Start = &start
	}
	if goal, ok := grid.Goal(); ok {
		view.Goal = &goal
	}
	if s.stepper != nil {
		view.Status = s.stepper.Status()
	}

	cells := grid.Cells()
	for row := range view.Cells {
		view.Cells[row] = make([]gridastar.State, grid.Cols())
		for col := range view.Cells[row] {
			view.Cells[row][col] = cells[row*grid.Cols()+col].State()
		}
	}
	return view
}

// click applies an edit. The run in progress is dropped only when the edit
// lands.
func (s *session) click(pos gridastar.Coordinate) error {
	if s.editor.Mode() == editor.ModeNone {
		return nil
	}
	if err := s.editor.Click(pos); err != nil {
		return err
	}
	s.stepper = nil
	return nil
}

// resize swaps in a blank size x size grid.
func (s *session) resize(size int) error {
	if err := s.editor.Resize(size); err != nil {
		return err
	}
	s.stepper = nil
	return nil
}

// load swaps in a named scenario.
func (s *session) load(name string, size int) error {
	if err := s.editor.Load(name, size); err != nil {
		return err
	}
	s.stepper = nil
	return nil
}

func (s *session) reset() {
	s.stepper = nil
	s.editor.Grid().Reset()
}

// step advances the current run, starting one on first use.
func (s *session) step() (gridastar.StepSnapshot, error) {
	if s.stepper == nil {
		grid := s.editor.Grid()
		if grid.Seeded() {
			grid.Reset()
		}
		stepper, err := gridastar.NewStepper(grid, s.options...)
		if err != nil {
			return gridastar.StepSnapshot{}, err
		}
		s.stepper = stepper
	}
	return s.stepper.Step()
}

// solve runs a fresh search to completion.
func (s *session) solve(ctx context.Context) (gridastar.Result, error) {
	s.stepper = nil
	grid := s.editor.Grid()
	if grid.Seeded() {
		grid.Reset()
	}
	return gridastar.FindPath(ctx, grid, s.options...)
}
