package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/scenario"
)

func pos(row, col int) gridastar.Coordinate { return gridastar.Coordinate{Row: row, Col: col} }

func newEditor(t *testing.T) *Editor {
	t.Helper()
	grid, err := gridastar.NewGrid(5, 5)
	require.NoError(t, err)
	return New(grid, nil)
}

func TestClick_NoneIsNoop(t *testing.T) {
	e := newEditor(t)
	require.NoError(t, e.Click(pos(1, 1)))

	_, ok := e.Grid().Start()
	assert.False(t, ok)
	cell, err := e.Grid().Cell(pos(1, 1))
	require.NoError(t, err)
	assert.Equal(t, gridastar.Normal, cell.Attribute())
}

func TestStartIsOneShot(t *testing.T) {
	e := newEditor(t)
	e.SetMode(ModeWall)
	e.SetMode(ModeStart)

	require.NoError(t, e.Click(pos(0, 0)))
	start, ok := e.Grid().Start()
	require.True(t, ok)
	assert.Equal(t, pos(0, 0), start)
	assert.Equal(t, ModeWall, e.Mode())

	// The next click builds a wall.
	require.NoError(t, e.Click(pos(2, 2)))
	assert.False(t, e.Grid().IsWalkable(pos(2, 2)))
}

func TestEndFallsBackPastStart(t *testing.T) {
	e := newEditor(t)
	e.SetMode(ModeStart)
	e.SetMode(ModeEnd)

	require.NoError(t, e.Click(pos(4, 4)))
	goal, ok := e.Grid().Goal()
	require.True(t, ok)
	assert.Equal(t, pos(4, 4), goal)
	assert.Equal(t, ModeNone, e.Mode())
}

func TestFailedPlacementKeepsMode(t *testing.T) {
	e := newEditor(t)
	e.SetMode(ModeWall)
	require.NoError(t, e.Click(pos(1, 1)))
	e.SetMode(ModeStart)

	err := e.Click(pos(1, 1))
	assert.ErrorIs(t, err, gridastar.ErrBlockedEndpoint)
	assert.Equal(t, ModeStart, e.Mode())

	err = e.Click(pos(9, 9))
	assert.ErrorIs(t, err, gridastar.ErrInvalidCoordinate)
}

func TestWallToggles(t *testing.T) {
	e := newEditor(t)
	e.SetMode(ModeWall)

	require.NoError(t, e.Click(pos(3, 3)))
	assert.False(t, e.Grid().IsWalkable(pos(3, 3)))
	require.NoError(t, e.Click(pos(3, 3)))
	assert.True(t, e.Grid().IsWalkable(pos(3, 3)))
}

func TestClickResetsFinishedRun(t *testing.T) {
	e := newEditor(t)
	e.SetMode(ModeStart)
	require.NoError(t, e.Click(pos(0, 0)))
	e.SetMode(ModeEnd)
	require.NoError(t, e.Click(pos(4, 4)))

	_, err := gridastar.FindPath(context.Background(), e.Grid())
	require.NoError(t, err)
	require.True(t, e.Grid().Seeded())

	e.SetMode(ModeWall)
	require.NoError(t, e.Click(pos(2, 2)))
	assert.False(t, e.Grid().Seeded())

	result, err := gridastar.FindPath(context.Background(), e.Grid())
	require.NoError(t, err)
	assert.NotContains(t, result.Path, pos(2, 2))
}

func TestClickInvalidatesStepper(t *testing.T) {
	e := newEditor(t)
	e.SetMode(ModeStart)
	require.NoError(t, e.Click(pos(0, 0)))
	e.SetMode(ModeEnd)
	require.NoError(t, e.Click(pos(4, 4)))

	stepper, err := gridastar.NewStepper(e.Grid())
	require.NoError(t, err)
	_, err = stepper.Step()
	require.NoError(t, err)

	e.SetMode(ModeWall)
	require.NoError(t, e.Click(pos(2, 2)))

	_, err = stepper.Step()
	assert.ErrorIs(t, err, gridastar.ErrStaleRun)
	assert.Equal(t, gridastar.StatusFailed, stepper.Status())
}

func TestResizeAndLoad(t *testing.T) {
	e := newEditor(t)

	require.NoError(t, e.Resize(8))
	assert.Equal(t, 8, e.Grid().Rows())
	_, ok := e.Grid().Start()
	assert.False(t, ok)

	assert.ErrorIs(t, e.Resize(0), gridastar.ErrInvalidDimensions)
	assert.Equal(t, 8, e.Grid().Rows())

	require.NoError(t, e.Load("normal", 0))
	assert.Equal(t, 10, e.Grid().Rows())

	e.Clear()
	_, ok = e.Grid().Goal()
	assert.False(t, ok)
}

func TestParseMode(t *testing.T) {
	for _, mode := range []Mode{ModeNone, ModeStart, ModeEnd, ModeWall} {
		parsed, err := ParseMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}
	_, err := ParseMode("erase")
	assert.Error(t, err)
}

func TestRejectedClickKeepsRun(t *testing.T) {
	grid, err := scenario.Normal()
	require.NoError(t, err)
	e := New(grid, nil)

	result, err := gridastar.FindPath(context.Background(), grid)
	require.NoError(t, err)
	onPath := result.Path[1]
	before, err := grid.Cell(onPath)
	require.NoError(t, err)

	testCases := []struct {
		name string
		mode Mode
		pos  gridastar.Coordinate
		want error
	}{
		{name: "wall outside", mode: ModeWall, pos: pos(99, 99), want: gridastar.ErrInvalidCoordinate},
		{name: "start outside", mode: ModeStart, pos: pos(-1, 0), want: gridastar.ErrInvalidCoordinate},
		{name: "end on wall", mode: ModeEnd, pos: pos(2, 3), want: gridastar.ErrBlockedEndpoint},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e.SetMode(tc.mode)
			err := e.Click(tc.pos)
			assert.ErrorIs(t, err, tc.want)

			var coordErr *gridastar.CoordinateError
			require.ErrorAs(t, err, &coordErr)
			assert.Equal(t, tc.pos, coordErr.Pos)

			assert.True(t, grid.Seeded())
			after, err := grid.Cell(onPath)
			require.NoError(t, err)
			assert.Equal(t, gridastar.StateResult, after.State())
			assert.Equal(t, before.G(), after.G())
		})
	}
}
