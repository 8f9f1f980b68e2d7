package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeatlas/codeatlas/internal/parser"
)

func treeInput() map[string]*parser.ParsedFile {
	paths := []string{
		"main.js",
		"services/a.js",
		"services/b.js",
		"utils/deep/h.js",
	}
	files := make(map[string]*parser.ParsedFile, len(paths))
	for _, p := range paths {
		files[p] = &parser.ParsedFile{RelativePath: p, Language: parser.LangJavaScript}
	}
	return files
}

func findChild(t *testing.T, node *TreeNode, path string) *TreeNode {
	t.Helper()
	for _, child := range node.Children {
		if child.Path == path {
			return child
		}
	}
	t.Fatalf("no child %q under %q", path, node.Path)
	return nil
}

func TestBuildTree_Structure(t *testing.T) {
	t.Parallel()

	root := BuildTree(treeInput())

	assert.Equal(t, NodeFolder, root.Type)
	assert.Equal(t, ".", root.Path)
	require.Len(t, root.Children, 3)

	mainNode := findChild(t, root, "main.js")
	assert.Equal(t, NodeFile, mainNode.Type)
	require.NotNil(t, mainNode.File)
	assert.Equal(t, "main.js", mainNode.File.RelativePath)

	services := findChild(t, root, "services")
	assert.Equal(t, NodeFolder, services.Type)
	assert.Nil(t, services.File)
	require.Len(t, services.Children, 2)

	utils := findChild(t, root, "utils")
	deep := findChild(t, utils, "utils/deep")
	assert.Equal(t, NodeFolder, deep.Type)
	findChild(t, deep, "utils/deep/h.js")
}

func TestBuildTree_Deterministic(t *testing.T) {
	t.Parallel()

	first := BuildTree(treeInput())
	second := BuildTree(treeInput())

	assert.Equal(t, first, second)
}

func TestBuildTree_Empty(t *testing.T) {
	t.Parallel()

	root := BuildTree(map[string]*parser.ParsedFile{})

	assert.Equal(t, NodeFolder, root.Type)
	assert.Empty(t, root.Children)
}
