package depgraph

import (
	"sort"
	"strings"
)

// DetectCycles finds groups of files participating in an import cycle
// using a single depth-first pass with an explicit stack (no recursion, so
// deep graphs cannot blow the call stack).
//
// Traversal starts from every unvisited node in sorted order, maintaining
// the ordered path of nodes currently being explored. When an edge reaches
// a node already on the active path, the contiguous slice from that node to
// the top of the path is one cycle; cycles are stored under their sorted
// member tuple so rotations of the same loop deduplicate.
//
// Known limitation: this single pass reports each connected cyclic
// vertex-set once but does not enumerate every distinct elementary cycle
// when a strongly-connected component contains more than one simple cycle;
// overlapping loops sharing a node may merge or go unreported depending on
// traversal order. DetectCyclesSCC is the precise alternative.
func DetectCycles(graph Graph) []Cycle {
	visited := make(map[string]bool)
	recorded := make(map[string]bool)
	var cycles []Cycle

	starts := make([]string, 0, len(graph))
	for node := range graph {
		starts = append(starts, node)
	}
	sort.Strings(starts)

	type frame struct {
		node string
		next int // index of the next neighbor to explore
	}

	for _, start := range starts {
		if visited[start] {
			continue
		}

		visited[start] = true
		stack := []frame{{node: start}}
		pathIndex := map[string]int{start: 0}
		path := []string{start}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			neighbors := graph[top.node]

			if top.next >= len(neighbors) {
				stack = stack[:len(stack)-1]
				delete(pathIndex, top.node)
				path = path[:len(path)-1]
				continue
			}

			neighbor := neighbors[top.next]
			top.next++

			if !visited[neighbor] {
				visited[neighbor] = true
				stack = append(stack, frame{node: neighbor})
				pathIndex[neighbor] = len(path)
				path = append(path, neighbor)
				continue
			}

			if idx, onPath := pathIndex[neighbor]; onPath {
				members := append([]string{}, path[idx:]...)
				sort.Strings(members)
				key := strings.Join(members, "\x00")
				if !recorded[key] {
					recorded[key] = true
					cycles = append(cycles, Cycle{Files: members})
				}
			}
		}
	}

	sortCycles(cycles)
	return cycles
}

// sortCycles orders cycles by their first member path for reproducible
// output across runs.
func sortCycles(cycles []Cycle) {
	sort.Slice(cycles, func(i, j int) bool {
		return strings.Join(cycles[i].Files, "\x00") < strings.Join(cycles[j].Files, "\x00")
	})
}
