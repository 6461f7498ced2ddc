package gridastar

import (
	"fmt"

	"github.com/pdrpinto/gridastar/internal"
)

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot struct {
	Current   Coordinate   `json:"current"`
	Open      []Coordinate `json:"open"`
	Closed    []Coordinate `json:"closed"`
	Status    Status       `json:"status"`
	Done      bool         `json:"done"`
	Found     bool         `json:"found"`
	Path      []Coordinate `json:"path,omitempty"`
	StepIndex int          `json:"step"`
}

// Stepper holds the state of one search run between calls, so an external
// timer can advance it one iteration at a time.
type Stepper struct {
	grid    *Grid
	options Options
	goal    int
	epoch   uint64

	openSet   openList
	closedSet []int
	current   int
	path      []Coordinate

	stepCount int
	status    Status
}

// NewStepper seeds a run on grid. The grid must carry a walkable start and goal
// and must not hold a previous run.
func NewStepper(grid *Grid, options ...Option) (*Stepper, error) {
	searchOptions := applyOptions(options)
	if grid.seeded {
		return nil, ErrStaleRun
	}
	if err := validateEndpoints(grid); err != nil {
		return nil, err
	}

	s := &Stepper{
		grid:    grid,
		options: searchOptions,
		goal:    grid.goal,
		current: grid.start,
		status:  StatusRunning,
	}

	// --- Initialize state ---
	grid.seeded = true
	startCell := &grid.cells[grid.start]
	startCell.g = 0
	startCell.h = searchOptions.Heuristic.Distance(startCell.pos, grid.cells[grid.goal].pos)
	startCell.f = startCell.g + startCell.h
	s.open(grid.start)
	s.epoch = grid.epoch

	searchOptions.Logger.Debug("search seeded",
		"start", startCell.pos.String(),
		"goal", grid.cells[grid.goal].pos.String(),
		"heuristic", searchOptions.Heuristic.String(),
		"weighted", searchOptions.Weighted,
		"connectivity", searchOptions.Connectivity.String())
	return s, nil
}

func validateEndpoints(grid *Grid) error {
	if grid.start == noParent || grid.goal == noParent {
		return fmt.Errorf("%w: start or goal unset", ErrInvalidEndpoints)
	}
	if grid.cells[grid.start].attribute == Wall {
		return fmt.Errorf("%w: start %s is a wall", ErrInvalidEndpoints, grid.coord(grid.start))
	}
	if grid.cells[grid.goal].attribute == Wall {
		return fmt.Errorf("%w: goal %s is a wall", ErrInvalidEndpoints, grid.coord(grid.goal))
	}
	return nil
}

// Status reports where the run is in its lifecycle.
func (s *Stepper) Status() Status { return s.status }

// Step advances the search by one iteration and returns a snapshot. Once the
// run is terminal further calls change nothing and return the final snapshot.
func (s *Stepper) Step() (StepSnapshot, error) {
	if s.status.Terminal() {
		return s.snapshot(), nil
	}
	if s.grid.epoch != s.epoch {
		s.finish(StatusFailed)
		return s.snapshot(), ErrStaleRun
	}
	if s.openSet.Len() == 0 {
		s.finish(StatusExhausted)
		return s.snapshot(), nil
	}

	s.stepCount++
	stepTotal.Inc()
	cells := s.grid.cells

	currentIndex := s.openSet.RemoveAt(s.openSet.SelectMin(cells, s.options.Weighted))
	s.close(currentIndex)
	current := &cells[currentIndex]
	s.options.Logger.Debug("cell selected",
		"step", s.stepCount,
		"cell", current.pos.String(),
		"g", current.g, "h", current.h, "f", current.f)

	// Goal check
	if currentIndex == s.goal {
		s.reconstruct()
		s.finish(StatusSucceeded)
		return s.snapshot(), nil
	}

	s.expand(currentIndex)
	return s.snapshot(), nil
}

func (s *Stepper) expand(currentIndex int) {
	cells := s.grid.cells
	current := &cells[currentIndex]
	goalPos := cells[s.goal].pos

	for _, pos := range Neighbors(s.grid, current.pos, s.options.Connectivity) {
		neighborIndex := s.grid.index(pos)
		neighbor := &cells[neighborIndex]
		if neighbor.member == inClosed || !s.grid.IsWalkable(pos) {
			continue
		}

		tentativeG := current.g + s.options.Heuristic.Distance(current.pos, pos)
		needsUpdate := false
		if neighbor.member != inOpen {
			neighbor.h = s.options.Heuristic.Distance(pos, goalPos)
			s.open(neighborIndex)
			needsUpdate = true
		} else if tentativeG < neighbor.g {
			needsUpdate = true
		}

		if needsUpdate {
			neighbor.parent = currentIndex
			neighbor.g = tentativeG
			neighbor.f = neighbor.g + neighbor.h
		}
	}
}

func (s *Stepper) open(cellIndex int) {
	s.openSet.Push(cellIndex)
	s.grid.cells[cellIndex].member = inOpen
	s.grid.cells[cellIndex].state = StateOpen
}

func (s *Stepper) close(cellIndex int) {
	s.closedSet = append(s.closedSet, cellIndex)
	s.current = cellIndex
	s.grid.cells[cellIndex].member = inClosed
	s.grid.cells[cellIndex].state = StateClosed
}

func (s *Stepper) reconstruct() {
	cells := s.grid.cells
	indices := internal.ReconstructPath(func(i int) int { return cells[i].parent }, s.goal)
	s.path = make([]Coordinate, len(indices))
	for i, cellIndex := range indices {
		s.path[i] = cells[cellIndex].pos
		cells[cellIndex].state = StateResult
	}
}

func (s *Stepper) finish(status Status) {
	s.status = status
	searchTotal.WithLabelValues(status.String(), s.options.Heuristic.String()).Inc()
	if status != StatusFailed {
		expandedNodes.Observe(float64(len(s.closedSet)))
	}
	s.options.Logger.Debug("search finished",
		"status", status.String(),
		"steps", s.stepCount,
		"expanded", len(s.closedSet),
		"path_length", len(s.path))
}

// Result summarises the run so far. Path and TotalCost are set only after success.
func (s *Stepper) Result() Result {
	result := Result{
		ExpandedNodes: len(s.closedSet),
		Found:         s.status == StatusSucceeded,
		Status:        s.status,
	}
	if result.Found {
		result.Path = append([]Coordinate(nil), s.path...)
		result.TotalCost = s.grid.cells[s.goal].g
	}
	return result
}

func (s *Stepper) snapshot() StepSnapshot {
	snapshot := StepSnapshot{
		Current:   s.grid.coord(s.current),
		Open:      s.coordinates(s.openSet.members),
		Closed:    s.coordinates(s.closedSet),
		Status:    s.status,
		Done:      s.status.Terminal(),
		Found:     s.status == StatusSucceeded,
		StepIndex: s.stepCount,
	}
	if snapshot.Found {
		snapshot.Path = append([]Coordinate(nil), s.path...)
	}
	return snapshot
}

func (s *Stepper) coordinates(indices []int) []Coordinate {
	out := make([]Coordinate, len(indices))
	for i, cellIndex := range indices {
		out[i] = s.grid.coord(cellIndex)
	}
	return out
}
