package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconstructPath(t *testing.T) {
	// 4 <- 2 <- 0, 3 has no parent
	parents := map[int]int{0: -1, 2: 0, 4: 2, 3: -1}
	parentOf := func(i int) int { return parents[i] }

	assert.Equal(t, []int{0, 2, 4}, ReconstructPath(parentOf, 4))
	assert.Equal(t, []int{3}, ReconstructPath(parentOf, 3))
}
