package gridastar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// at builds a coordinate list from (row, col) pairs.
func at(pairs ...[2]int) []Coordinate {
	out := make([]Coordinate, len(pairs))
	for i, p := range pairs {
		out[i] = Coordinate{Row: p[0], Col: p[1]}
	}
	return out
}

// buildGrid creates a grid with walls first, then endpoints.
func buildGrid(t *testing.T, rows, cols int, walls []Coordinate, start, goal Coordinate) *Grid {
	t.Helper()
	grid, err := NewGrid(rows, cols)
	require.NoError(t, err)
	for _, wall := range walls {
		require.NoError(t, grid.SetWall(wall))
	}
	require.NoError(t, grid.SetStart(start))
	require.NoError(t, grid.SetGoal(goal))
	return grid
}

// normalExample is the 10x10 map with a three-cell wall between start and goal.
func normalExample(t *testing.T) *Grid {
	t.Helper()
	return buildGrid(t, 10, 10,
		at([2]int{1, 3}, [2]int{2, 3}, [2]int{3, 3}),
		Coordinate{Row: 2, Col: 1}, Coordinate{Row: 2, Col: 5})
}

// wikiExample is the 22x22 map with an L-shaped wall block.
func wikiExample(t *testing.T) *Grid {
	t.Helper()
	var walls []Coordinate
	for row := 6; row <= 13; row++ {
		first := 13
		if row <= 8 {
			first = 5
		}
		for col := first; col <= 15; col++ {
			walls = append(walls, Coordinate{Row: row, Col: col})
		}
	}
	return buildGrid(t, 22, 22, walls, Coordinate{Row: 19, Col: 2}, Coordinate{Row: 3, Col: 18})
}

// requireLegalPath checks that consecutive cells are single legal moves.
func requireLegalPath(t *testing.T, grid *Grid, path []Coordinate, connectivity Connectivity) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		require.Contains(t, Neighbors(grid, path[i-1], connectivity), path[i],
			"move %s -> %s is not legal", path[i-1], path[i])
	}
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
