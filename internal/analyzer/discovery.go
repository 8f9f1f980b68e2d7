// Package analyzer orchestrates the analysis pipeline: file discovery,
// concurrent parsing, tree assembly, and dependency analytics.
package analyzer

import (
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultIgnorePatterns are the directories skipped during discovery.
var DefaultIgnorePatterns = []string{
	".git/**",
	"__pycache__/**",
	"node_modules/**",
	".vscode/**",
	".idea/**",
	"venv/**",
	".env/**",
	"dist/**",
	"build/**",
}

// DefaultExtensions is the supported-extension allowlist.
var DefaultExtensions = []string{".py", ".js", ".jsx", ".ts", ".tsx"}

// DefaultMaxFileSizeBytes is the per-file size threshold.
const DefaultMaxFileSizeBytes int64 = 500000

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery finds candidate files under a root directory, filtered by
// ignore patterns, an extension allowlist, a maximum-size threshold, and
// exclusion of zero-byte files.
type Discovery struct {
	rootDir        string
	ignorePatterns []compiledPattern
	extensions     map[string]bool
	maxFileSize    int64
}

// NewDiscovery creates a Discovery for rootDir. Empty ignorePatterns or
// extensions fall back to the defaults; maxFileSize <= 0 falls back to
// DefaultMaxFileSizeBytes.
func NewDiscovery(rootDir string, ignorePatterns, extensions []string, maxFileSize int64) (*Discovery, error) {
	if len(ignorePatterns) == 0 {
		ignorePatterns = DefaultIgnorePatterns
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSizeBytes
	}

	d := &Discovery{
		rootDir:     rootDir,
		extensions:  make(map[string]bool, len(extensions)),
		maxFileSize: maxFileSize,
	}
	for _, ext := range extensions {
		d.extensions[ext] = true
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return d, nil
}

// Discover walks the root and returns slash-normalized relative paths of
// every file that passes the filters. Unreadable files are logged and
// skipped; they never abort the walk.
func (d *Discovery) Discover() ([]string, error) {
	files := []string{}

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}

		relPath, relErr := filepath.Rel(d.rootDir, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && d.shouldIgnoreDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.shouldIgnore(relPath) {
			return nil
		}
		if !d.extensions[filepath.Ext(path)] {
			return nil
		}
		if info.Size() > d.maxFileSize {
			log.Printf("Warning: skipping large file %s (%d bytes)", relPath, info.Size())
			return nil
		}
		if info.Size() == 0 {
			return nil
		}

		files = append(files, relPath)
		return nil
	})

	return files, err
}

// shouldIgnore checks a file's relative path against the ignore patterns.
func (d *Discovery) shouldIgnore(relPath string) bool {
	for _, cp := range d.ignorePatterns {
		if cp.glob.Match(relPath) {
			return true
		}
	}
	return false
}

// shouldIgnoreDir checks a directory against the ignore patterns. A
// pattern like "node_modules/**" prunes any directory with that name at
// any depth, so the contents of nested ignored directories are never
// walked.
func (d *Discovery) shouldIgnoreDir(relPath string) bool {
	base := path.Base(relPath)
	for _, cp := range d.ignorePatterns {
		if cp.glob.Match(relPath) {
			return true
		}
		if prefix, ok := strings.CutSuffix(cp.pattern, "/**"); ok {
			if prefix == relPath || prefix == base {
				return true
			}
		}
	}
	return false
}
