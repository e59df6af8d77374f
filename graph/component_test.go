package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponents(t *testing.T) {
	g := NewGraph(6)
	g.AddEdge(0, 1)
	g.AddEdge(2, 1)
	g.AddEdge(4, 3)
	g.AddEdge(3, 4)

	assert.Equal(t, 6, g.Len())
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4}, {5}}, g.Components())
	assert.Empty(t, NewGraph(0).Components())
}
