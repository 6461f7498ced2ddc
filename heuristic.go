package gridastar

import (
	"fmt"
	"math"
	"strings"
)

// Heuristic selects the distance estimator used both for goal estimates and
// for the cost of a single move between adjacent cells.
type Heuristic int

const (
	// Diagonal is the Chebyshev distance max(|dr|, |dc|).
	Diagonal Heuristic = iota
	// Euclidean is the straight-line distance sqrt(dr^2 + dc^2).
	Euclidean
)

// Distance estimates the cost from a to b. It is never negative and is zero
// only when a == b.
func (h Heuristic) Distance(a, b Coordinate) float64 {
	dr := abs(a.Row - b.Row)
	dc := abs(a.Col - b.Col)
	switch h {
	case Euclidean:
		// squares are summed as integers so the result is exact before the root
		return math.Sqrt(float64(dr*dr + dc*dc))
	default:
		return float64(max(dr, dc))
	}
}

func (h Heuristic) String() string {
	if h == Euclidean {
		return "euclidean"
	}
	return "diagonal"
}

// ParseHeuristic accepts "diagonal" (or "chebyshev") and "euclidean".
func ParseHeuristic(name string) (Heuristic, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "diagonal", "chebyshev":
		return Diagonal, nil
	case "euclidean":
		return Euclidean, nil
	}
	return Diagonal, fmt.Errorf("unknown heuristic %q", name)
}

func (h Heuristic) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Heuristic) UnmarshalText(text []byte) error {
	parsed, err := ParseHeuristic(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
