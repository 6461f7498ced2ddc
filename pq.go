package gridastar

// openList is the frontier. Members stay in insertion order and selection is a
// left-to-right scan, so among equal priorities the earliest inserted cell wins.
type openList struct {
	members []int
}

func (list *openList) Len() int { return len(list.members) }

func (list *openList) Push(cellIndex int) {
	list.members = append(list.members, cellIndex)
}

// RemoveAt deletes the member at position i, preserving the order of the rest.
func (list *openList) RemoveAt(i int) int {
	cellIndex := list.members[i]
	list.members = append(list.members[:i], list.members[i+1:]...)
	return cellIndex
}

// SelectMin returns the position of the member with the smallest f. When
// weighted is set, every member's f is first rewritten with the dynamic weight.
func (list *openList) SelectMin(cells []Cell, weighted bool) int {
	minIndex := 0
	for i, cellIndex := range list.members {
		cell := &cells[cellIndex]
		if weighted {
			_, cell.f = weightedPriority(cell.g, cell.h, cell.f)
		}
		if cell.f < cells[list.members[minIndex]].f {
			minIndex = i
		}
	}
	return minIndex
}

// weightedPriority computes alpha = max(0, 1 - g/f), applied only when g <= f,
// and the reweighted priority g + h*(1 + 4*alpha).
func weightedPriority(g, h, f float64) (alpha, weighted float64) {
	if f != 0 && g <= f {
		alpha = max(0, 1-g/f)
	}
	// the explicit conversion rounds the product before the add
	return alpha, g + float64(h*(1+4*alpha))
}
