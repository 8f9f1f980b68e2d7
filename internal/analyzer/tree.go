package analyzer

import (
	"path"
	"sort"

	"github.com/codeatlas/codeatlas/internal/parser"
)

// NodeType discriminates the two TreeNode variants.
type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeFolder NodeType = "folder"
)

// TreeNode is the tagged variant over files and folders: an explicit Type
// discriminant plus payload, not an inheritance hierarchy. File nodes wrap
// a ParsedFile; folder nodes carry ordered children (files and sub-folders
// interleaved in creation order).
type TreeNode struct {
	Type     NodeType           `json:"type"`
	Path     string             `json:"path"`
	File     *parser.ParsedFile `json:"file,omitempty"`
	Children []*TreeNode        `json:"children,omitempty"`
}

// BuildTree folds the flat file map into a hierarchical folder/file tree.
// The root is the "." folder. Files are processed in sorted-path order and
// intermediate folders are created on demand, reused by exact path, so the
// result is deterministic and structurally identical across runs on the
// same input.
func BuildTree(files map[string]*parser.ParsedFile) *TreeNode {
	root := &TreeNode{Type: NodeFolder, Path: "."}
	folders := map[string]*TreeNode{".": root}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, filePath := range paths {
		parent := folderFor(path.Dir(filePath), folders)
		parent.Children = append(parent.Children, &TreeNode{
			Type: NodeFile,
			Path: filePath,
			File: files[filePath],
		})
	}

	return root
}

// folderFor returns the folder node for dir, creating it and any missing
// ancestors on the way down.
func folderFor(dir string, folders map[string]*TreeNode) *TreeNode {
	if node, ok := folders[dir]; ok {
		return node
	}

	parent := folderFor(path.Dir(dir), folders)
	node := &TreeNode{Type: NodeFolder, Path: dir}
	folders[dir] = node
	parent.Children = append(parent.Children, node)
	return node
}
