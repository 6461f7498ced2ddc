package gridastar

import "fmt"

// Grid is a dense rows x cols array of cells plus the designated start and goal.
//
// A Grid is owned by its caller. A search borrows it and rewrites the per-cell
// g/h/f/parent fields in place but never touches walls or dimensions.
type Grid struct {
	rows, cols int
	cells      []Cell
	start      int
	goal       int

	// epoch changes on every mutation so an in-flight Stepper can detect edits.
	epoch  uint64
	seeded bool
}

// NewGrid returns an all-normal grid with zeroed costs and no endpoints.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("new grid %dx%d: %w", rows, cols, ErrInvalidDimensions)
	}
	grid := &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
		start: noParent,
		goal:  noParent,
	}
	for i := range grid.cells {
		pos := grid.coord(i)
		grid.cells[i] = Cell{
			pos:    pos,
			value:  pos.Row + pos.Col*rows,
			parent: noParent,
		}
	}
	return grid, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether pos lies in [0,rows) x [0,cols).
func (g *Grid) InBounds(pos Coordinate) bool {
	return pos.Row >= 0 && pos.Row < g.rows && pos.Col >= 0 && pos.Col < g.cols
}

// IsWalkable is true iff pos is in bounds and not a wall.
func (g *Grid) IsWalkable(pos Coordinate) bool {
	return g.InBounds(pos) && g.cells[g.index(pos)].attribute == Normal
}

// Cell returns a copy of the cell at pos.
func (g *Grid) Cell(pos Coordinate) (Cell, error) {
	if !g.InBounds(pos) {
		return Cell{}, &CoordinateError{Op: "cell", Pos: pos, Err: ErrInvalidCoordinate}
	}
	return g.view(g.index(pos)), nil
}

// Cells returns a row-major copy of every cell.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	for i := range g.cells {
		out[i] = g.view(i)
	}
	return out
}

// Start returns the designated start, if set.
func (g *Grid) Start() (Coordinate, bool) {
	if g.start == noParent {
		return Coordinate{}, false
	}
	return g.coord(g.start), true
}

// Goal returns the designated goal, if set.
func (g *Grid) Goal() (Coordinate, bool) {
	if g.goal == noParent {
		return Coordinate{}, false
	}
	return g.coord(g.goal), true
}

// SetWall marks pos non-walkable and clears any stale search state on it.
func (g *Grid) SetWall(pos Coordinate) error {
	if !g.InBounds(pos) {
		return &CoordinateError{Op: "set wall", Pos: pos, Err: ErrInvalidCoordinate}
	}
	cell := &g.cells[g.index(pos)]
	cell.attribute = Wall
	cell.clearSearch()
	cell.state = StateWall
	g.epoch++
	return nil
}

// ClearWall makes pos walkable again.
func (g *Grid) ClearWall(pos Coordinate) error {
	if !g.InBounds(pos) {
		return &CoordinateError{Op: "clear wall", Pos: pos, Err: ErrInvalidCoordinate}
	}
	i := g.index(pos)
	g.cells[i].attribute = Normal
	g.cells[i].state = g.baseState(i)
	g.epoch++
	return nil
}

// ToggleWall flips the walkability of pos.
func (g *Grid) ToggleWall(pos Coordinate) error {
	if !g.InBounds(pos) {
		return &CoordinateError{Op: "toggle wall", Pos: pos, Err: ErrInvalidCoordinate}
	}
	if g.IsWalkable(pos) {
		return g.SetWall(pos)
	}
	return g.ClearWall(pos)
}

// SetStart designates pos as the search origin, replacing any previous start.
func (g *Grid) SetStart(pos Coordinate) error {
	i, err := g.endpointIndex("set start", pos)
	if err != nil {
		return err
	}
	previous := g.start
	g.start = i
	if previous != noParent {
		g.cells[previous].state = g.baseState(previous)
	}
	g.cells[i].state = g.baseState(i)
	g.epoch++
	return nil
}

// SetGoal designates pos as the search target, replacing any previous goal.
func (g *Grid) SetGoal(pos Coordinate) error {
	i, err := g.endpointIndex("set goal", pos)
	if err != nil {
		return err
	}
	previous := g.goal
	g.goal = i
	if previous != noParent {
		g.cells[previous].state = g.baseState(previous)
	}
	g.cells[i].state = g.baseState(i)
	g.epoch++
	return nil
}

// Seeded reports whether a run has been started on the grid since the last Reset.
func (g *Grid) Seeded() bool { return g.seeded }

// Reset clears every per-run field without altering walls or endpoints, so the
// same map can be searched again.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i].clearSearch()
		g.cells[i].state = g.baseState(i)
	}
	g.seeded = false
	g.epoch++
}

// Clear removes walls and endpoints and resets all search state.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i].attribute = Normal
	}
	g.start, g.goal = noParent, noParent
	g.Reset()
}

func (g *Grid) endpointIndex(op string, pos Coordinate) (int, error) {
	if !g.InBounds(pos) {
		return 0, &CoordinateError{Op: op, Pos: pos, Err: ErrInvalidCoordinate}
	}
	i := g.index(pos)
	if g.cells[i].attribute == Wall {
		return 0, &CoordinateError{Op: op, Pos: pos, Err: ErrBlockedEndpoint}
	}
	return i, nil
}

// baseState is the presentation tag a cell carries outside of a run.
func (g *Grid) baseState(i int) State {
	switch {
	case g.cells[i].attribute == Wall:
		return StateWall
	case i == g.start:
		return StateStart
	case i == g.goal:
		return StateEnd
	default:
		return StateNormal
	}
}

func (g *Grid) view(i int) Cell {
	cell := g.cells[i]
	if cell.parent != noParent {
		cell.parentPos = g.coord(cell.parent)
	}
	return cell
}

func (g *Grid) index(pos Coordinate) int { return pos.Row*g.cols + pos.Col }

func (g *Grid) coord(i int) Coordinate {
	return Coordinate{Row: i / g.cols, Col: i % g.cols}
}
