// Package depgraph builds and analyzes the file-level dependency graph
// derived from import statements.
package depgraph

import (
	"path"
	"strings"
)

// extensionProbes is the fixed, ordered list of suffixes tried when a
// normalized import target does not match a known file directly: plain
// source extensions first, then per-language index conventions. The order
// is total, which makes resolution deterministic.
var extensionProbes = []string{
	"",
	".py",
	".js",
	".ts",
	".jsx",
	".tsx",
	"/__init__.py",
	"/index.js",
	"/index.ts",
}

// Resolver maps textual import specifiers to file paths within a fixed
// known-file set.
type Resolver struct {
	known map[string]struct{}
}

// NewResolver creates a Resolver over the given set of slash-normalized
// relative paths.
func NewResolver(knownFiles []string) *Resolver {
	known := make(map[string]struct{}, len(knownFiles))
	for _, f := range knownFiles {
		known[f] = struct{}{}
	}
	return &Resolver{known: known}
}

// Resolve maps a raw import specifier written in originFile to a concrete
// file path in the known set. Only lexically relative specifiers (leading
// dot) are attempted: bare package names and absolute module paths are
// external dependencies and deterministically resolve to nothing.
//
// Known gap: absolute intra-repository specifiers (package-root-relative
// imports) are treated as external too, which can under-count real internal
// edges. That mirrors the documented policy rather than a defect.
func (r *Resolver) Resolve(specifier, originFile string) (string, bool) {
	if !strings.HasPrefix(specifier, ".") {
		return "", false
	}

	target := path.Join(path.Dir(originFile), relativeFragment(specifier))
	for _, probe := range extensionProbes {
		candidate := target + probe
		if _, ok := r.known[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}

// relativeFragment converts a relative specifier into a slash path fragment
// relative to the origin's directory.
//
// Path-style specifiers (`./utils`, `../pkg/mod`) pass through unchanged.
// Python dotted specifiers (`.utils`, `..pkg.mod`) are translated: one
// leading dot anchors at the origin's directory, each further dot ascends
// one level, and the remaining dotted segments become path segments.
func relativeFragment(specifier string) string {
	if strings.ContainsRune(specifier, '/') {
		return specifier
	}

	depth := 0
	for depth < len(specifier) && specifier[depth] == '.' {
		depth++
	}

	rest := specifier[depth:]
	fragment := strings.Repeat("../", depth-1)
	if rest != "" {
		fragment += strings.ReplaceAll(rest, ".", "/")
	}
	return fragment
}
