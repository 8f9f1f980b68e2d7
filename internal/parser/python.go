package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// pythonParser extracts the structural model from Python files.
type pythonParser struct {
	*treeSitterBackend
}

// NewPythonParser creates a new Python parser.
func NewPythonParser() *pythonParser {
	lang := sitter.NewLanguage(python.Language())
	return &pythonParser{
		treeSitterBackend: newTreeSitterBackend(lang, LangPython),
	}
}

// Parse extracts code elements and raw import specifiers from Python source.
// Only module-level constructs are captured: top-level functions, classes,
// and the methods directly declared in a class body. Functions nested inside
// other functions are deliberately skipped.
func (p *pythonParser) Parse(source []byte) ([]CodeElement, []string, error) {
	tree := p.parse(source)
	if tree == nil {
		return nil, nil, ErrUnparseable
	}
	defer tree.Close()

	elements := []CodeElement{}
	imports := []string{}

	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(uint(i))
		p.extractStatement(child, source, &elements, &imports)
	}

	return elements, imports, nil
}

// extractStatement handles one module-level statement.
func (p *pythonParser) extractStatement(node *sitter.Node, source []byte, elements *[]CodeElement, imports *[]string) {
	switch node.Kind() {
	case "decorated_definition":
		// Unwrap the decorator; the span stays on the definition itself.
		if def := node.ChildByFieldName("definition"); def != nil {
			p.extractStatement(def, source, elements, imports)
		}
	case "function_definition":
		*elements = append(*elements, p.extractFunction(node, source, KindFunction))
	case "class_definition":
		p.extractClass(node, source, elements)
	case "import_statement":
		p.extractImport(node, source, imports)
	case "import_from_statement":
		p.extractImportFrom(node, source, imports)
	}
}

// extractFunction extracts a function or method definition.
func (p *pythonParser) extractFunction(node *sitter.Node, source []byte, kind ElementKind) CodeElement {
	startLine, endLine := nodeSpan(node)

	el := CodeElement{
		Kind:       kind,
		Name:       nodeText(node.ChildByFieldName("name"), source),
		StartLine:  startLine,
		EndLine:    endLine,
		Parameters: p.extractParameters(node.ChildByFieldName("parameters"), source),
		ReturnType: nodeText(node.ChildByFieldName("return_type"), source),
		DocComment: p.extractDocstring(node.ChildByFieldName("body"), source),
	}
	return el
}

// extractParameters collects parameter names in declaration order.
// Splat parameters (*args, **kwargs) and bare separators are skipped.
func (p *pythonParser) extractParameters(paramsNode *sitter.Node, source []byte) []string {
	params := []string{}
	if paramsNode == nil {
		return params
	}

	for i := 0; i < int(paramsNode.ChildCount()); i++ {
		child := paramsNode.Child(uint(i))
		switch child.Kind() {
		case "identifier":
			params = append(params, nodeText(child, source))
		case "default_parameter", "typed_default_parameter":
			if name := child.ChildByFieldName("name"); name != nil {
				params = append(params, nodeText(name, source))
			}
		case "typed_parameter":
			if name := firstChildOfKind(child, "identifier"); name != nil {
				params = append(params, nodeText(name, source))
			}
		}
	}
	return params
}

// extractDocstring returns the cleaned docstring of a function or class body,
// if its first statement is a string expression.
func (p *pythonParser) extractDocstring(bodyNode *sitter.Node, source []byte) string {
	if bodyNode == nil || bodyNode.ChildCount() == 0 {
		return ""
	}

	first := bodyNode.Child(0)
	if first.Kind() != "expression_statement" {
		return ""
	}
	str := firstChildOfKind(first, "string")
	if str == nil {
		return ""
	}
	return cleanDocComment(stripStringQuotes(nodeText(str, source)))
}

// extractClass extracts a class definition plus its directly declared
// methods, flattened immediately after the class element.
func (p *pythonParser) extractClass(node *sitter.Node, source []byte, elements *[]CodeElement) {
	startLine, endLine := nodeSpan(node)
	body := node.ChildByFieldName("body")

	*elements = append(*elements, CodeElement{
		Kind:       KindClass,
		Name:       nodeText(node.ChildByFieldName("name"), source),
		StartLine:  startLine,
		EndLine:    endLine,
		DocComment: p.extractDocstring(body, source),
		BaseTypes:  p.extractBaseTypes(node.ChildByFieldName("superclasses"), source),
	})

	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		switch child.Kind() {
		case "function_definition":
			*elements = append(*elements, p.extractFunction(child, source, KindMethod))
		case "decorated_definition":
			if def := child.ChildByFieldName("definition"); def != nil && def.Kind() == "function_definition" {
				*elements = append(*elements, p.extractFunction(def, source, KindMethod))
			}
		}
	}
}

// extractBaseTypes collects base class names from the superclass argument
// list. Complex base expressions keep their literal text; keyword arguments
// (metaclass=...) are not bases and are skipped.
func (p *pythonParser) extractBaseTypes(args *sitter.Node, source []byte) []string {
	bases := []string{}
	if args == nil {
		return bases
	}

	for i := 0; i < int(args.ChildCount()); i++ {
		child := args.Child(uint(i))
		switch child.Kind() {
		case "(", ")", ",", "comment", "keyword_argument":
			continue
		default:
			bases = append(bases, nodeText(child, source))
		}
	}
	return bases
}

// extractImport handles `import a, b` and `import a.b as c`: one specifier
// per imported module, alias dropped.
func (p *pythonParser) extractImport(node *sitter.Node, source []byte, imports *[]string) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		switch child.Kind() {
		case "dotted_name":
			*imports = append(*imports, nodeText(child, source))
		case "aliased_import":
			*imports = append(*imports, nodeText(child.ChildByFieldName("name"), source))
		}
	}
}

// extractImportFrom handles `from X import y`: one specifier equal to X,
// keeping the relative-import dot prefix as written. A relative from-import
// with no module name (`from . import y`) yields the dots plus the first
// imported name as a best-effort placeholder.
func (p *pythonParser) extractImportFrom(node *sitter.Node, source []byte, imports *[]string) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}

	module := nodeText(moduleNode, source)
	if strings.Trim(module, ".") != "" {
		*imports = append(*imports, module)
		return
	}

	// Bare relative import: module text is only dots. Append the first
	// imported name as a hint for the resolver.
	if name := p.firstImportedName(node, moduleNode, source); name != "" {
		*imports = append(*imports, module+name)
		return
	}
	*imports = append(*imports, module)
}

// firstImportedName returns the first name imported by a from-import,
// skipping the module specifier itself.
func (p *pythonParser) firstImportedName(node, moduleNode *sitter.Node, source []byte) string {
	sawImportKeyword := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == "import" {
			sawImportKeyword = true
			continue
		}
		if !sawImportKeyword {
			continue
		}
		switch child.Kind() {
		case "dotted_name", "identifier":
			return nodeText(child, source)
		case "aliased_import":
			return nodeText(child.ChildByFieldName("name"), source)
		}
	}
	return ""
}
