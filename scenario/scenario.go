// Package scenario builds the stock maps used for demos, regression fixtures
// and batch runs.
package scenario

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pdrpinto/gridastar"
)

// ErrUnknownScenario is returned by ByName for names outside Names().
var ErrUnknownScenario = errors.New("unknown scenario")

// DefaultSize is the side length Empty uses when asked for a non-positive size.
const DefaultSize = 10

type builder func(size int) (*gridastar.Grid, error)

var builders = map[string]builder{
	"normal": func(int) (*gridastar.Grid, error) { return Normal() },
	"wiki":   func(int) (*gridastar.Grid, error) { return Wiki() },
	"empty":  Empty,
	"random": func(size int) (*gridastar.Grid, error) {
		if size <= 0 {
			size = DefaultSize
		}
		return Random(size, size, DefaultRandomOptions())
	},
}

// Names lists the registered scenarios in sorted order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName builds the named scenario. size only affects "empty" and "random".
func ByName(name string, size int) (*gridastar.Grid, error) {
	build, ok := builders[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownScenario, name, strings.Join(Names(), ", "))
	}
	return build(size)
}

// Normal is the 10x10 map with a three-cell wall between start (2,1) and goal (2,5).
func Normal() (*gridastar.Grid, error) {
	return build(10, 10, []span{{row: 1, fromCol: 3, toCol: 3}, {row: 2, fromCol: 3, toCol: 3}, {row: 3, fromCol: 3, toCol: 3}},
		gridastar.Coordinate{Row: 2, Col: 1}, gridastar.Coordinate{Row: 2, Col: 5})
}

// Wiki is the 22x22 map with an L-shaped obstacle between (19,2) and (3,18).
func Wiki() (*gridastar.Grid, error) {
	var walls []span
	for row := 6; row <= 13; row++ {
		from := 13
		if row <= 8 {
			from = 5
		}
		walls = append(walls, span{row: row, fromCol: from, toCol: 15})
	}
	return build(22, 22, walls, gridastar.Coordinate{Row: 19, Col: 2}, gridastar.Coordinate{Row: 3, Col: 18})
}

// Empty is a size x size map without walls, start in the top-left corner and
// goal in the bottom-right one.
func Empty(size int) (*gridastar.Grid, error) {
	if size <= 0 {
		size = DefaultSize
	}
	return build(size, size, nil,
		gridastar.Coordinate{Row: 0, Col: 0}, gridastar.Coordinate{Row: size - 1, Col: size - 1})
}

// span is a run of wall cells on one row, both ends inclusive.
type span struct {
	row, fromCol, toCol int
}

func build(rows, cols int, walls []span, start, goal gridastar.Coordinate) (*gridastar.Grid, error) {
	grid, err := gridastar.NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}
	for _, w := range walls {
		for col := w.fromCol; col <= w.toCol; col++ {
			if err := grid.SetWall(gridastar.Coordinate{Row: w.row, Col: col}); err != nil {
				return nil, err
			}
		}
	}
	if err := grid.SetStart(start); err != nil {
		return nil, err
	}
	if err := grid.SetGoal(goal); err != nil {
		return nil, err
	}
	return grid, nil
}
