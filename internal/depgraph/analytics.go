package depgraph

import "sort"

// topN is how many files each ranking keeps.
const topN = 10

// FileRank pairs a file with its import counts for the ranking surfaces.
type FileRank struct {
	Path            string `json:"path"`
	ImportsCount    int    `json:"imports_count"`
	ImportedByCount int    `json:"imported_by_count"`
}

// Cycle is one detected import cycle: the set of member paths, sorted.
type Cycle struct {
	Files []string `json:"files"`
}

// Analysis is the derived, read-only dependency summary.
type Analysis struct {
	MostImported  []FileRank `json:"most_imported"`
	MostImporting []FileRank `json:"most_importing"`
	IsolatedFiles []string   `json:"isolated_files"`
	Cycles        []Cycle    `json:"cycles"`
}

// Analyze computes import/imported-by counts, top-N rankings, and isolated
// files over the graph. knownFiles is the full analyzed set: a file with no
// edges in either direction is isolated even when it never appears in the
// graph at all.
//
// The ranking universe is every file that appears as a source or target of
// at least one edge. Ties in count break by ascending path, so repeated
// runs on identical input produce identical rankings.
func Analyze(graph Graph, knownFiles []string) *Analysis {
	importedBy := make(map[string]int)
	for _, targets := range graph {
		for _, target := range targets {
			importedBy[target]++
		}
	}

	inGraph := make(map[string]struct{})
	for source := range graph {
		inGraph[source] = struct{}{}
	}
	for target := range importedBy {
		inGraph[target] = struct{}{}
	}

	ranks := make([]FileRank, 0, len(inGraph))
	for filePath := range inGraph {
		ranks = append(ranks, FileRank{
			Path:            filePath,
			ImportsCount:    len(graph[filePath]),
			ImportedByCount: importedBy[filePath],
		})
	}

	isolated := []string{}
	for _, filePath := range knownFiles {
		if len(graph[filePath]) == 0 && importedBy[filePath] == 0 {
			isolated = append(isolated, filePath)
		}
	}
	sort.Strings(isolated)

	return &Analysis{
		MostImported:  rankBy(ranks, func(r FileRank) int { return r.ImportedByCount }),
		MostImporting: rankBy(ranks, func(r FileRank) int { return r.ImportsCount }),
		IsolatedFiles: isolated,
		Cycles:        []Cycle{},
	}
}

// rankBy sorts descending by count with ascending-path tie-break and
// truncates to topN.
func rankBy(ranks []FileRank, count func(FileRank) int) []FileRank {
	sorted := make([]FileRank, len(ranks))
	copy(sorted, ranks)

	sort.Slice(sorted, func(i, j int) bool {
		ci, cj := count(sorted[i]), count(sorted[j])
		if ci != cj {
			return ci > cj
		}
		return sorted[i].Path < sorted[j].Path
	})

	if len(sorted) > topN {
		sorted = sorted[:topN]
	}
	return sorted
}
