package scenario

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pdrpinto/gridastar"
)

// RandomOptions shapes the walls Random lays down. Each cluster is a random
// walk of Steps moves; every visited cell becomes a wall with probability
// Density.
type RandomOptions struct {
	Clusters int
	Steps    int
	Density  float64
	Seed     int64
}

// DefaultRandomOptions is seeded from the clock.
func DefaultRandomOptions() RandomOptions {
	return RandomOptions{
		Clusters: 8,
		Steps:    200,
		Density:  0.25,
		Seed:     time.Now().UnixNano(),
	}
}

var walkMoves = []gridastar.Coordinate{gridastar.South, gridastar.North, gridastar.East, gridastar.West}

// Random builds a rows x cols map with clustered walls and distinct random
// endpoints. Endpoints are never walls; a path between them is not guaranteed.
func Random(rows, cols int, options RandomOptions) (*gridastar.Grid, error) {
	if rows*cols < 2 {
		return nil, fmt.Errorf("random %dx%d: %w", rows, cols, gridastar.ErrInvalidDimensions)
	}
	grid, err := gridastar.NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}

	r := rand.New(rand.NewSource(options.Seed))
	var start, goal gridastar.Coordinate
	for {
		start = gridastar.Coordinate{Row: r.Intn(rows), Col: r.Intn(cols)}
		goal = gridastar.Coordinate{Row: r.Intn(rows), Col: r.Intn(cols)}
		if start != goal {
			break
		}
	}

	for c := 0; c < options.Clusters; c++ {
		p := gridastar.Coordinate{Row: r.Intn(rows), Col: r.Intn(cols)}
		for s := 0; s < options.Steps; s++ {
			if r.Float64() < options.Density && p != start && p != goal {
				if err := grid.SetWall(p); err != nil {
					return nil, err
				}
			}
			move := walkMoves[r.Intn(len(walkMoves))]
			next := gridastar.Coordinate{Row: p.Row + move.Row, Col: p.Col + move.Col}
			if grid.InBounds(next) {
				p = next
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
