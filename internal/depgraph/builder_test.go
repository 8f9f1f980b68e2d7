package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeatlas/codeatlas/internal/parser"
)

// fixtureFiles builds the canonical test project:
//
//	main.js      -> ./services/a, ./services/b
//	services/a.js -> ../utils/h, ./b
//	services/b.js -> ./a
//	utils/h.js    (no imports)
func fixtureFiles() map[string]*parser.ParsedFile {
	file := func(path string, imports ...string) *parser.ParsedFile {
		return &parser.ParsedFile{
			RelativePath: path,
			Language:     parser.LangJavaScript,
			Imports:      imports,
		}
	}
	return map[string]*parser.ParsedFile{
		"main.js":       file("main.js", "./services/a", "./services/b"),
		"services/a.js": file("services/a.js", "../utils/h", "./b"),
		"services/b.js": file("services/b.js", "./a"),
		"utils/h.js":    file("utils/h.js"),
	}
}

func TestBuild_FixtureEdges(t *testing.T) {
	t.Parallel()

	graph := Build(fixtureFiles())

	assert.Equal(t, Graph{
		"main.js":       {"services/a.js", "services/b.js"},
		"services/a.js": {"utils/h.js", "services/b.js"},
		"services/b.js": {"services/a.js"},
	}, graph)
	assert.Equal(t, 5, graph.EdgeCount())
}

func TestBuild_UnresolvedImportsAreDropped(t *testing.T) {
	t.Parallel()

	files := map[string]*parser.ParsedFile{
		"app.py": {
			RelativePath: "app.py",
			Language:     parser.LangPython,
			Imports:      []string{"os", "requests", ".helpers"},
		},
		"helpers.py": {
			RelativePath: "helpers.py",
			Language:     parser.LangPython,
			Imports:      []string{},
		},
	}

	graph := Build(files)

	require.Contains(t, graph, "app.py")
	assert.Equal(t, []string{"helpers.py"}, graph["app.py"])
	assert.NotContains(t, graph, "helpers.py")
}

func TestBuild_DuplicateImportsYieldDuplicateEdges(t *testing.T) {
	t.Parallel()

	files := map[string]*parser.ParsedFile{
		"a.js": {RelativePath: "a.js", Imports: []string{"./b", "./b"}},
		"b.js": {RelativePath: "b.js"},
	}

	graph := Build(files)

	assert.Equal(t, []string{"b.js", "b.js"}, graph["a.js"])
	assert.Equal(t, 2, graph.EdgeCount())
}

func TestBuild_SelfEdgeIsPreserved(t *testing.T) {
	t.Parallel()

	files := map[string]*parser.ParsedFile{
		"loop.py": {RelativePath: "loop.py", Imports: []string{".loop"}},
	}

	graph := Build(files)

	assert.Equal(t, []string{"loop.py"}, graph["loop.py"])
}

func TestBuild_EmptyInput(t *testing.T) {
	t.Parallel()

	graph := Build(map[string]*parser.ParsedFile{})

	assert.Empty(t, graph)
	assert.Equal(t, 0, graph.EdgeCount())
}
