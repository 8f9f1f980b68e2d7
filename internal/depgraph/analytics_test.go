package depgraph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_FixtureCounts(t *testing.T) {
	t.Parallel()

	graph := Build(fixtureFiles())
	known := []string{"main.js", "services/a.js", "services/b.js", "utils/h.js"}

	analysis := Analyze(graph, known)

	byPath := make(map[string]FileRank)
	for _, rank := range analysis.MostImported {
		byPath[rank.Path] = rank
	}

	require.Contains(t, byPath, "services/b.js")
	assert.Equal(t, 2, byPath["services/b.js"].ImportedByCount)
	assert.Equal(t, 1, byPath["services/b.js"].ImportsCount)
	assert.Equal(t, 2, byPath["services/a.js"].ImportedByCount)
	assert.Equal(t, 1, byPath["utils/h.js"].ImportedByCount)
	assert.Equal(t, 0, byPath["main.js"].ImportedByCount)
	assert.Equal(t, 2, byPath["main.js"].ImportsCount)

	// Every file has at least one edge in some direction.
	assert.Empty(t, analysis.IsolatedFiles)
}

func TestAnalyze_TieBreakByAscendingPath(t *testing.T) {
	t.Parallel()

	// b.js and a.js both have one importer; a.js must rank first.
	graph := Graph{
		"x.js": {"b.js"},
		"y.js": {"a.js"},
	}

	analysis := Analyze(graph, []string{"a.js", "b.js", "x.js", "y.js"})

	require.Len(t, analysis.MostImported, 4)
	assert.Equal(t, "a.js", analysis.MostImported[0].Path)
	assert.Equal(t, "b.js", analysis.MostImported[1].Path)
}

func TestAnalyze_RankingsTruncateToTen(t *testing.T) {
	t.Parallel()

	graph := Graph{}
	known := []string{"hub.js"}
	for i := 0; i < 15; i++ {
		source := fmt.Sprintf("f%02d.js", i)
		graph[source] = []string{"hub.js"}
		known = append(known, source)
	}

	analysis := Analyze(graph, known)

	assert.Len(t, analysis.MostImported, 10)
	assert.Len(t, analysis.MostImporting, 10)
	assert.Equal(t, "hub.js", analysis.MostImported[0].Path)
	assert.Equal(t, 15, analysis.MostImported[0].ImportedByCount)
}

func TestAnalyze_IsolatedIncludesFilesOutsideTheGraph(t *testing.T) {
	t.Parallel()

	// lonely.py only imports external packages, so it never enters the
	// graph; it must still be reported as isolated.
	graph := Graph{
		"a.js": {"b.js"},
	}
	known := []string{"a.js", "b.js", "lonely.py", "zeta.py"}

	analysis := Analyze(graph, known)

	assert.Equal(t, []string{"lonely.py", "zeta.py"}, analysis.IsolatedFiles)
}

func TestAnalyze_EmptyGraph(t *testing.T) {
	t.Parallel()

	analysis := Analyze(Graph{}, []string{"only.py"})

	assert.Empty(t, analysis.MostImported)
	assert.Empty(t, analysis.MostImporting)
	assert.Equal(t, []string{"only.py"}, analysis.IsolatedFiles)
	assert.NotNil(t, analysis.Cycles)
}
