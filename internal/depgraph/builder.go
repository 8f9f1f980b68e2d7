package depgraph

import (
	"sort"

	"github.com/codeatlas/codeatlas/internal/parser"
)

// Graph is the directed dependency structure: each file maps to its
// resolved outgoing dependencies in source order. Absence of a key means no
// known outgoing edges. Duplicate edges are preserved (two imports of the
// same target both count) and self-edges are possible.
type Graph map[string][]string

// Build applies import resolution to every parsed file. Files are
// processed in sorted-path order so the result is reproducible; unresolved
// specifiers are dropped from the graph but stay visible in each file's
// Imports.
func Build(files map[string]*parser.ParsedFile) Graph {
	resolver := NewResolver(sortedPaths(files))
	graph := Graph{}

	for _, filePath := range sortedPaths(files) {
		for _, specifier := range files[filePath].Imports {
			if target, ok := resolver.Resolve(specifier, filePath); ok {
				graph[filePath] = append(graph[filePath], target)
			}
		}
	}
	return graph
}

// EdgeCount returns the total number of edges, duplicates included.
func (g Graph) EdgeCount() int {
	count := 0
	for _, targets := range g {
		count += len(targets)
	}
	return count
}

func sortedPaths(files map[string]*parser.ParsedFile) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
