package parser

import (
	"context"
	"errors"
	"log"
)

// ErrUnparseable is returned by a language backend when tree-sitter could
// not produce a syntax tree for the source at all.
var ErrUnparseable = errors.New("source could not be parsed")

// Adapter translates raw file content into the structural model. Dispatch
// is a closed switch over the known language set plus an unknown arm,
// resolved once per file at this boundary.
type Adapter struct {
	python     *pythonParser
	typescript *scriptParser
	javascript *scriptParser
	external   *ExternalBackend
	cache      *Cache
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithExternalBackend routes JavaScript and TypeScript files through an
// external parser process instead of the native grammar.
func WithExternalBackend(backend *ExternalBackend) AdapterOption {
	return func(a *Adapter) {
		a.external = backend
	}
}

// WithCache reuses parse results for unchanged file content.
func WithCache(cache *Cache) AdapterOption {
	return func(a *Adapter) {
		a.cache = cache
	}
}

// NewAdapter creates an Adapter with all native backends initialized.
func NewAdapter(opts ...AdapterOption) *Adapter {
	a := &Adapter{
		python:     NewPythonParser(),
		typescript: NewTypeScriptParser(),
		javascript: NewJavaScriptParser(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Parse extracts code elements and import specifiers from one file.
//
// path is the on-disk location (used by the external backend and for
// diagnostics); content is the file's bytes. An unknown language yields an
// empty result, not an error. A parse failure for a supported language is
// logged and likewise yields an empty result: a single malformed file must
// never abort the batch.
func (a *Adapter) Parse(ctx context.Context, path string, content []byte, lang Language) ([]CodeElement, []string) {
	if lang == LangUnknown {
		return []CodeElement{}, []string{}
	}

	if a.cache != nil {
		if result, ok := a.cache.Get(lang, content); ok {
			return result.Elements, result.Imports
		}
	}

	elements, imports, err := a.dispatch(ctx, path, content, lang)
	if err != nil {
		log.Printf("Warning: failed to parse %s: %v", path, err)
		return []CodeElement{}, []string{}
	}
	if elements == nil {
		elements = []CodeElement{}
	}
	if imports == nil {
		imports = []string{}
	}

	if a.cache != nil {
		a.cache.Put(lang, content, ParseResult{Elements: elements, Imports: imports})
	}
	return elements, imports
}

func (a *Adapter) dispatch(ctx context.Context, path string, content []byte, lang Language) ([]CodeElement, []string, error) {
	switch lang {
	case LangPython:
		return a.python.Parse(content)
	case LangJavaScript, LangTypeScript:
		if a.external != nil {
			return a.external.Parse(ctx, path)
		}
		if lang == LangTypeScript {
			return a.typescript.Parse(content)
		}
		return a.javascript.Parse(content)
	default:
		return []CodeElement{}, []string{}, nil
	}
}
