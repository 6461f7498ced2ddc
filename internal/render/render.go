// Package render draws grids and search results on a terminal.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdrpinto/gridastar"
)

// Cell palette, one colour per presentation state.
var (
	ColorOpen   = lipgloss.Color("2")
	ColorClosed = lipgloss.Color("5")
	ColorStart  = lipgloss.Color("1")
	ColorEnd    = lipgloss.Color("4")
	ColorResult = lipgloss.Color("3")
	ColorWall   = lipgloss.Color("0")
	ColorNormal = lipgloss.Color("7")
)

var glyphs = map[gridastar.State]string{
	gridastar.StateNormal: ".",
	gridastar.StateOpen:   "o",
	gridastar.StateClosed: "x",
	gridastar.StateStart:  "S",
	gridastar.StateEnd:    "E",
	gridastar.StateResult: "*",
	gridastar.StateWall:   "#",
}

// Renderer writes to one output. Colours are dropped when that output is not
// a terminal.
type Renderer struct {
	w      io.Writer
	styles map[gridastar.State]lipgloss.Style
	muted  lipgloss.Style
}

func New(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	colors := map[gridastar.State]lipgloss.Color{
		gridastar.StateNormal: ColorNormal,
		gridastar.StateOpen:   ColorOpen,
		gridastar.StateClosed: ColorClosed,
		gridastar.StateStart:  ColorStart,
		gridastar.StateEnd:    ColorEnd,
		gridastar.StateResult: ColorResult,
		gridastar.StateWall:   ColorWall,
	}

	styles := make(map[gridastar.State]lipgloss.Style, len(colors))
	for state, color := range colors {
		styles[state] = r.NewStyle().Foreground(color)
	}
	return &Renderer{
		w:      w,
		styles: styles,
		muted:  r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Grid returns one line per row, one glyph per cell.
func (r *Renderer) Grid(grid *gridastar.Grid) string {
	var b strings.Builder
	cells := grid.Cells()
	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			if col > 0 {
				b.WriteByte(' ')
			}
			state := cells[row*grid.Cols()+col].State()
			b.WriteString(r.styles[state].Render(glyphs[state]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Labels lists f, g and h for every cell the search has touched, in row-major
// order.
func (r *Renderer) Labels(grid *gridastar.Grid) string {
	var b strings.Builder
	for _, cell := range grid.Cells() {
		switch cell.State() {
		case gridastar.StateOpen, gridastar.StateClosed, gridastar.StateResult:
		default:
			continue
		}
		line := fmt.Sprintf("%-8s f=%s g=%s h=%s", cell.Pos(), FormatCost(cell.F()), FormatCost(cell.G()), FormatCost(cell.H()))
		if parent, ok := cell.Parent(); ok {
			line += " " + r.muted.Render("<- "+parent.String())
		}
		b.WriteString(r.styles[cell.State()].Render(line))
		b.WriteByte('\n')
	}
	return b.String()
}

// Summary is a one-line description of a finished run.
func (r *Renderer) Summary(result gridastar.Result) string {
	if !result.Found {
		return fmt.Sprintf("%s: no path, %d cells expanded", result.Status, result.ExpandedNodes)
	}
	return fmt.Sprintf("%s: %d steps, cost %s, %d cells expanded",
		result.Status, result.Steps(), FormatCost(result.TotalCost), result.ExpandedNodes)
}

// Draw writes the grid followed by the summary.
func (r *Renderer) Draw(grid *gridastar.Grid, result gridastar.Result) error {
	_, err := io.WriteString(r.w, r.Grid(grid)+r.Summary(result)+"\n")
	return err
}

// Print writes s unchanged.
func (r *Renderer) Print(s string) error {
	_, err := io.WriteString(r.w, s)
	return err
}

// FormatCost prints integral values without a fraction and everything else
// with one decimal.
func FormatCost(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
