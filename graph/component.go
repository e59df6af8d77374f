// Package graph groups items that are linked by overlap.
package graph

import "sort"

// Graph is an undirected graph over nodes 0..n-1.
type Graph struct {
	adj [][]int
}

func NewGraph(n int) *Graph {
	return &Graph{make([][]int, n)}
}

func (g *Graph) Len() int {
	return len(g.adj)
}

func (g *Graph) AddEdge(u, v int) {
	g.adj[u] = append(g.adj[u], v)
	g.adj[v] = append(g.adj[v], u)
}

// Components returns the connected components, each sorted, ordered by their
// smallest node.
func (g *Graph) Components() [][]int {
	n := len(g.adj)
	visited := make([]bool, n)
	var components [][]int

	var dfs func(v int, component []int) []int
	dfs = func(v int, component []int) []int {
		visited[v] = true
		component = append(component, v)
		for _, w := range g.adj[v] {
			if !visited[w] {
				component = dfs(w, component)
			}
		}
		return component
	}

	for i := 0; i < n; i++ {
		if !visited[i] {
			c := dfs(i, nil)
			sort.Ints(c)
			components = append(components, c)
		}
	}
	return components
}
