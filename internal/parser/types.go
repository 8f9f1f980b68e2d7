package parser

import "path/filepath"

// Language identifies the programming language of a source file.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangUnknown    Language = "unknown"
)

// ElementKind classifies a code element.
type ElementKind string

const (
	KindFunction ElementKind = "function"
	KindClass    ElementKind = "class"
	KindMethod   ElementKind = "method"
)

// CodeElement represents a single declared construct (function, class, or method).
// Methods are flattened into the same element sequence as their owning class,
// placed immediately after the class element in source order.
type CodeElement struct {
	Kind       ElementKind `json:"kind"`
	Name       string      `json:"name"`
	StartLine  int         `json:"start_line"` // 1-based, inclusive
	EndLine    int         `json:"end_line"`   // 1-based, inclusive; >= StartLine
	DocComment string      `json:"doc_comment,omitempty"`
	Parameters []string    `json:"parameters,omitempty"`  // functions and methods only
	ReturnType string      `json:"return_type,omitempty"` // functions and methods only
	BaseTypes  []string    `json:"base_types,omitempty"`  // classes only
}

// ParsedFile is the normalized parse result for one file: the structural
// model shared by every language backend. It is created once per file and
// never mutated afterwards.
type ParsedFile struct {
	RelativePath string        `json:"relative_path"` // slash-normalized, unique within the analysis
	Language     Language      `json:"language"`
	SizeBytes    int64         `json:"size_bytes"`
	Elements     []CodeElement `json:"elements"`
	// Imports holds raw import specifiers exactly as written in source,
	// in source order, duplicates preserved. Resolution happens later in
	// the dependency graph builder.
	Imports []string `json:"imports"`
}

// ClassifyExtension maps a file extension (with leading dot) to a Language.
// Unrecognized extensions map to LangUnknown.
func ClassifyExtension(ext string) Language {
	switch ext {
	case ".py":
		return LangPython
	case ".js", ".jsx":
		return LangJavaScript
	case ".ts", ".tsx":
		return LangTypeScript
	default:
		return LangUnknown
	}
}

// ClassifyPath maps a file path to a Language via its extension.
func ClassifyPath(path string) Language {
	return ClassifyExtension(filepath.Ext(path))
}
