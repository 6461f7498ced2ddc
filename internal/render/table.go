package render

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pdrpinto/gridastar"
)

// Table lays out batch results one job per row, in the order given.
func (r *Renderer) Table(results []gridastar.JobResult) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("JOB", "STATUS", "STEPS", "COST", "EXPANDED")

	for _, jobResult := range results {
		result := jobResult.Result
		steps, cost := "-", "-"
		if result.Found {
			steps = strconv.Itoa(result.Steps())
			cost = FormatCost(result.TotalCost)
		}
		t.Row(jobResult.Name, result.Status.String(), steps, cost, strconv.Itoa(result.ExpandedNodes))
	}
	return t.Render() + "\n"
}
