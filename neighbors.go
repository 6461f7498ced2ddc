package gridastar

import (
	"fmt"
	"strings"
)

// Connectivity selects which adjacent cells a search may move to.
type Connectivity int

const (
	// EightWay allows the four orthogonal moves plus diagonal moves that do not
	// cut a wall corner.
	EightWay Connectivity = iota
	// FourWay allows orthogonal moves only.
	FourWay
)

func (c Connectivity) String() string {
	if c == FourWay {
		return "orthogonal"
	}
	return "diagonal"
}

// ParseConnectivity accepts "diagonal" (or "8") and "orthogonal" (or "4").
func ParseConnectivity(name string) (Connectivity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "diagonal", "8":
		return EightWay, nil
	case "orthogonal", "4":
		return FourWay, nil
	}
	return EightWay, fmt.Errorf("unknown connectivity %q", name)
}

func (c Connectivity) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Connectivity) UnmarshalText(text []byte) error {
	parsed, err := ParseConnectivity(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Neighbors returns the walkable cells reachable from pos in one move.
//
// Order is fixed: North, South, East, West, then the corners East/North,
// West/North, East/South, West/South. A corner is reachable only when both
// orthogonal cells flanking it are walkable.
func Neighbors(grid *Grid, pos Coordinate, connectivity Connectivity) []Coordinate {
	neighbors := make([]Coordinate, 0, 8)

	north, south := pos.add(North), pos.add(South)
	east, west := pos.add(East), pos.add(West)
	openN := grid.IsWalkable(north)
	openS := grid.IsWalkable(south)
	openE := grid.IsWalkable(east)
	openW := grid.IsWalkable(west)

	if openN {
		neighbors = append(neighbors, north)
	}
	if openS {
		neighbors = append(neighbors, south)
	}
	if openE {
		neighbors = append(neighbors, east)
	}
	if openW {
		neighbors = append(neighbors, west)
	}
	if connectivity == FourWay {
		return neighbors
	}

	corner := func(vertical, horizontal Coordinate) {
		c := pos.add(vertical).add(horizontal)
		if grid.IsWalkable(c) {
			neighbors = append(neighbors, c)
		}
	}
	if openN {
		if openE {
			corner(North, East)
		}
		if openW {
			corner(North, West)
		}
	}
	if openS {
		if openE {
			corner(South, East)
		}
		if openW {
			corner(South, West)
		}
	}
	return neighbors
}
