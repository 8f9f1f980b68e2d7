package depgraph

import (
	"fmt"
	"sort"

	graphlib "github.com/dominikbraun/graph"
)

// DetectCyclesSCC finds import cycles via strongly-connected components
// (Tarjan). Unlike the single-pass DFS it reports every maximal cyclic
// component precisely: each component with more than one member is a
// cycle, and a file importing itself forms a one-member cycle.
func DetectCyclesSCC(g Graph) ([]Cycle, error) {
	dg := graphlib.New(graphlib.StringHash, graphlib.Directed())

	nodes := make(map[string]struct{})
	for source, targets := range g {
		nodes[source] = struct{}{}
		for _, target := range targets {
			nodes[target] = struct{}{}
		}
	}
	for node := range nodes {
		if err := dg.AddVertex(node); err != nil {
			return nil, fmt.Errorf("failed to add vertex %s: %w", node, err)
		}
	}

	selfLoops := make(map[string]bool)
	for source, targets := range g {
		for _, target := range targets {
			if source == target {
				selfLoops[source] = true
				continue
			}
			// Duplicate edges collapse to one; the component structure
			// does not depend on multiplicity.
			_ = dg.AddEdge(source, target)
		}
	}

	components, err := graphlib.StronglyConnectedComponents(dg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute components: %w", err)
	}

	var cycles []Cycle
	for _, component := range components {
		if len(component) > 1 {
			members := append([]string{}, component...)
			sort.Strings(members)
			cycles = append(cycles, Cycle{Files: members})
			continue
		}
		if len(component) == 1 && selfLoops[component[0]] {
			cycles = append(cycles, Cycle{Files: []string{component[0]}})
		}
	}

	sortCycles(cycles)
	return cycles, nil
}
