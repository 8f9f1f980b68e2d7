package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// scriptParser extracts the structural model from TypeScript and JavaScript
// files. JavaScript is parsed with the TSX grammar, which is a superset of
// both JS and JSX syntax.
type scriptParser struct {
	*treeSitterBackend
}

// NewTypeScriptParser creates a parser for .ts files.
func NewTypeScriptParser() *scriptParser {
	lang := sitter.NewLanguage(typescript.LanguageTypescript())
	return &scriptParser{
		treeSitterBackend: newTreeSitterBackend(lang, LangTypeScript),
	}
}

// NewJavaScriptParser creates a parser for .js, .jsx, and .tsx files.
func NewJavaScriptParser() *scriptParser {
	lang := sitter.NewLanguage(typescript.LanguageTSX())
	return &scriptParser{
		treeSitterBackend: newTreeSitterBackend(lang, LangJavaScript),
	}
}

// Parse extracts code elements and raw import specifiers from TS/JS source.
// Only top-level declarations are captured; functions nested inside other
// functions are skipped.
func (p *scriptParser) Parse(source []byte) ([]CodeElement, []string, error) {
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
		p.extractStatement(child, child, source, &elements, &imports)
	}

	return elements, imports, nil
}

// extractStatement handles one top-level statement. anchor is the outermost
// node for doc-comment lookup (the export statement when the declaration is
// exported).
func (p *scriptParser) extractStatement(node, anchor *sitter.Node, source []byte, elements *[]CodeElement, imports *[]string) {
	switch node.Kind() {
	case "export_statement":
		// Re-exports (`export { x } from './y'`) carry a source module.
		if src := node.ChildByFieldName("source"); src != nil {
			*imports = append(*imports, stripStringQuotes(nodeText(src, source)))
			return
		}
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			p.extractStatement(decl, anchor, source, elements, imports)
		}
	case "import_statement":
		if src := node.ChildByFieldName("source"); src != nil {
			*imports = append(*imports, stripStringQuotes(nodeText(src, source)))
		}
	case "function_declaration", "generator_function_declaration":
		*elements = append(*elements, p.extractFunction(node, anchor, source, KindFunction))
	case "class_declaration":
		p.extractClass(node, anchor, source, elements)
	case "lexical_declaration", "variable_declaration":
		p.extractFunctionVariables(node, anchor, source, elements)
	}
}

// extractFunction extracts a function, method, or arrow-function element.
func (p *scriptParser) extractFunction(node, anchor *sitter.Node, source []byte, kind ElementKind) CodeElement {
	startLine, endLine := nodeSpan(node)

	return CodeElement{
		Kind:       kind,
		Name:       nodeText(node.ChildByFieldName("name"), source),
		StartLine:  startLine,
		EndLine:    endLine,
		Parameters: p.extractParameters(node.ChildByFieldName("parameters"), source),
		ReturnType: p.extractReturnType(node, source),
		DocComment: p.extractDocComment(anchor, source),
	}
}

// extractFunctionVariables captures `const f = () => {}` style declarations
// as function elements.
func (p *scriptParser) extractFunctionVariables(node, anchor *sitter.Node, source []byte, elements *[]CodeElement) {
	for _, declarator := range childrenOfKind(node, "variable_declarator") {
		value := declarator.ChildByFieldName("value")
		if value == nil {
			continue
		}
		if value.Kind() != "arrow_function" && value.Kind() != "function_expression" && value.Kind() != "function" {
			continue
		}

		startLine, endLine := nodeSpan(declarator)
		*elements = append(*elements, CodeElement{
			Kind:       KindFunction,
			Name:       nodeText(declarator.ChildByFieldName("name"), source),
			StartLine:  startLine,
			EndLine:    endLine,
			Parameters: p.extractParameters(value.ChildByFieldName("parameters"), source),
			ReturnType: p.extractReturnType(value, source),
			DocComment: p.extractDocComment(anchor, source),
		})
	}
}

// extractClass extracts a class declaration plus its methods, flattened
// immediately after the class element.
func (p *scriptParser) extractClass(node, anchor *sitter.Node, source []byte, elements *[]CodeElement) {
	startLine, endLine := nodeSpan(node)

	*elements = append(*elements, CodeElement{
		Kind:       KindClass,
		Name:       nodeText(node.ChildByFieldName("name"), source),
		StartLine:  startLine,
		EndLine:    endLine,
		DocComment: p.extractDocComment(anchor, source),
		BaseTypes:  p.extractBaseTypes(node, source),
	})

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	for _, method := range childrenOfKind(body, "method_definition") {
		*elements = append(*elements, p.extractFunction(method, method, source, KindMethod))
	}
}

// extractBaseTypes collects the names from the extends clause. Complex
// superclass expressions keep their literal text.
func (p *scriptParser) extractBaseTypes(classNode *sitter.Node, source []byte) []string {
	bases := []string{}
	heritage := firstChildOfKind(classNode, "class_heritage")
	if heritage == nil {
		return bases
	}

	// TS grammar nests an extends_clause; the JS grammar puts the
	// expression directly under class_heritage.
	if extends := firstChildOfKind(heritage, "extends_clause"); extends != nil {
		for i := 0; i < int(extends.ChildCount()); i++ {
			child := extends.Child(uint(i))
			switch child.Kind() {
			case "extends", ",", "comment":
				continue
			default:
				bases = append(bases, nodeText(child, source))
			}
		}
		return bases
	}

	for i := 0; i < int(heritage.ChildCount()); i++ {
		child := heritage.Child(uint(i))
		switch child.Kind() {
		case "extends", "implements", ",", "comment":
			continue
		default:
			bases = append(bases, nodeText(child, source))
		}
	}
	return bases
}

// extractParameters collects parameter names in declaration order.
// Destructuring patterns keep their literal text; rest markers are dropped.
func (p *scriptParser) extractParameters(paramsNode *sitter.Node, source []byte) []string {
	params := []string{}
	if paramsNode == nil {
		return params
	}

	for i := 0; i < int(paramsNode.ChildCount()); i++ {
		child := paramsNode.Child(uint(i))
		switch child.Kind() {
		case "identifier":
			params = append(params, nodeText(child, source))
		case "required_parameter", "optional_parameter":
			if pattern := child.ChildByFieldName("pattern"); pattern != nil {
				params = append(params, strings.TrimPrefix(nodeText(pattern, source), "..."))
			}
		case "assignment_pattern":
			if left := child.ChildByFieldName("left"); left != nil {
				params = append(params, nodeText(left, source))
			}
		case "rest_pattern":
			params = append(params, strings.TrimPrefix(nodeText(child, source), "..."))
		case "object_pattern", "array_pattern":
			params = append(params, nodeText(child, source))
		}
	}
	return params
}

// extractReturnType returns the literal return-type annotation text, without
// the leading colon.
func (p *scriptParser) extractReturnType(node *sitter.Node, source []byte) string {
	annotation := node.ChildByFieldName("return_type")
	if annotation == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(nodeText(annotation, source), ":"))
}

// extractDocComment returns the JSDoc block immediately preceding a
// declaration, stripped of comment markers.
func (p *scriptParser) extractDocComment(node *sitter.Node, source []byte) string {
	prev := node.PrevSibling()
	if prev == nil || prev.Kind() != "comment" {
		return ""
	}

	text := nodeText(prev, source)
	if !strings.HasPrefix(text, "/**") {
		return ""
	}

	text = strings.TrimSuffix(strings.TrimPrefix(text, "/**"), "*/")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(strings.TrimSpace(line), "* ")
		lines[i] = strings.TrimPrefix(lines[i], "*")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n ")
}
