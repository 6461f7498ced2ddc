// Package internal holds helpers shared by the engine that are not part of the public API.
package internal

// ReconstructPath follows parent links from current back to the origin and
// returns the indices in origin-to-current order. parentOf reports a negative
// value for a cell without a parent.
func ReconstructPath(parentOf func(int) int, current int) []int {
	path := []int{current}
	for {
		previous := parentOf(current)
		if previous < 0 {
			break
		}
		path = append(path, previous)
		current = previous
	}
	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}
