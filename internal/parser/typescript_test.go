package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the TypeScript/JavaScript parser:
// - Extract exported and plain function declarations with parameters
// - Capture arrow functions bound to const as functions
// - Extract classes with extends clause and flattened methods
// - JSDoc blocks become doc comments
// - One specifier per import statement, re-exports included

func TestScriptParser_Fixture(t *testing.T) {
	t.Parallel()

	source := loadFixture(t, "../../testdata/code/typescript/sample.ts")
	elements, imports, err := NewTypeScriptParser().Parse(source)
	require.NoError(t, err)

	assert.Equal(t, []string{"react", "./utils/helper", "../config", "./format"}, imports)

	var names []string
	var kinds []ElementKind
	for _, el := range elements {
		names = append(names, el.Name)
		kinds = append(kinds, el.Kind)
	}
	assert.Equal(t, []string{"greet", "add", "UserStore", "constructor", "add"}, names)
	assert.Equal(t, []ElementKind{KindFunction, KindFunction, KindClass, KindMethod, KindMethod}, kinds)

	greet := elements[0]
	assert.Equal(t, []string{"name", "excited"}, greet.Parameters)
	assert.Equal(t, "string", greet.ReturnType)
	assert.Equal(t, "Greets a user by name.", greet.DocComment)

	add := elements[1]
	assert.Equal(t, []string{"a", "b"}, add.Parameters)
	assert.Equal(t, "number", add.ReturnType)

	store := elements[2]
	assert.Equal(t, []string{"BaseStore"}, store.BaseTypes)
	assert.Equal(t, "In-memory user store.", store.DocComment)
}

func TestScriptParser_JavaScript(t *testing.T) {
	t.Parallel()

	source := []byte(`import { render } from './render';

function main(argv) {
  function helper() {}
  return render(argv);
}

class App extends Component {
  start() {}
}
`)
	elements, imports, err := NewJavaScriptParser().Parse(source)
	require.NoError(t, err)

	assert.Equal(t, []string{"./render"}, imports)

	var names []string
	for _, el := range elements {
		names = append(names, el.Name)
	}
	// helper() is nested and must not be extracted.
	assert.Equal(t, []string{"main", "App", "start"}, names)
	assert.Equal(t, []string{"Component"}, elements[1].BaseTypes)
}

func TestScriptParser_LineSpans(t *testing.T) {
	t.Parallel()

	source := []byte("function one() {\n  return 1;\n}\n")
	elements, _, err := NewJavaScriptParser().Parse(source)
	require.NoError(t, err)

	require.Len(t, elements, 1)
	assert.Equal(t, 1, elements[0].StartLine)
	assert.Equal(t, 3, elements[0].EndLine)
}
