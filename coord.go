package gridastar

import "fmt"

// Coordinate addresses a cell by row and column.
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

func (c Coordinate) add(offset Coordinate) Coordinate {
	return Coordinate{Row: c.Row + offset.Row, Col: c.Col + offset.Col}
}

// Compass names follow the layout the engine was designed for: north and south
// step along columns, east and west along rows.
var (
	North = Coordinate{Row: 0, Col: -1}
	South = Coordinate{Row: 0, Col: 1}
	East  = Coordinate{Row: 1, Col: 0}
	West  = Coordinate{Row: -1, Col: 0}
)
