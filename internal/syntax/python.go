package syntax

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

var pythonLanguage = sitter.NewLanguage(python.Language())

// Accepts reports whether the input looks like Python source: a .py path or
// an extensionless script starting with a shebang. This is the cheap half of
// the capability query; Parse still rejects sources tree-sitter cannot
// handle.
func Accepts(path string, source []byte) bool {
	if filepath.Ext(path) == ".py" {
		return true
	}
	return bytes.HasPrefix(source, []byte("#!"))
}

// Parse produces the tagged tree for one Python source file, or fails with
// ErrParseUnavailable when no tree can be obtained. Parse holds no state
// across calls and is safe for concurrent use.
func Parse(path string, source []byte) (*Tree, error) {
	if !Accepts(path, source) {
		return nil, fmt.Errorf("%w: %s is not a Python file", ErrParseUnavailable, path)
	}
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrParseUnavailable, path)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(pythonLanguage)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: tree-sitter produced no tree for %s", ErrParseUnavailable, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: %s has syntax errors", ErrParseUnavailable, path)
	}

	return &Tree{
		Path:  path,
		Doc:   docstring(root, source),
		Nodes: convertBody(root, source),
	}, nil
}

// convertBody converts the statement children of a block-like node.
func convertBody(node *sitter.Node, source []byte) []*Node {
	var nodes []*Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if converted := convert(child, source); converted != nil {
			nodes = append(nodes, converted)
		}
	}
	return nodes
}

// convert maps one tree-sitter statement to the tagged node shape. Comments
// and other non-statements yield nil.
func convert(node *sitter.Node, source []byte) *Node {
	switch node.Kind() {
	case "comment":
		return nil

	case "decorated_definition":
		// Decorators wrap the real definition; unwrap it. The def line,
		// not the decorator line, is what gets reported.
		def := node.ChildByFieldName("definition")
		if def == nil {
			return nil
		}
		return convert(def, source)

	case "class_definition":
		out := &Node{
			Kind: KindClass,
			Name: fieldText(node, "name", source),
			Line: line(node),
		}
		if body := node.ChildByFieldName("body"); body != nil {
			out.Doc = docstring(body, source)
			out.Children = convertBody(body, source)
		}
		return out

	case "function_definition":
		out := &Node{
			Kind:   KindFunction,
			Name:   fieldText(node, "name", source),
			Params: paramNames(node.ChildByFieldName("parameters"), source),
			Line:   line(node),
		}
		if body := node.ChildByFieldName("body"); body != nil {
			out.Doc = docstring(body, source)
			out.Children = convertBody(body, source)
		}
		return out

	case "return_statement":
		out := &Node{Kind: KindReturn, Line: line(node)}
		// First child is the "return" keyword; anything after it is the
		// returned expression.
		if node.ChildCount() > 1 {
			first := node.Child(1)
			out.Text = strings.TrimSpace(string(source[first.StartByte():node.EndByte()]))
		}
		return out

	case "if_statement":
		cond := node.ChildByFieldName("condition")
		out := &Node{
			Kind:      KindConditional,
			Text:      nodeText(cond, source),
			MainGuard: isMainGuard(cond, source),
			Line:      line(node),
		}
		if consequence := node.ChildByFieldName("consequence"); consequence != nil {
			out.Children = convertBody(consequence, source)
		}
		// elif and else branches still belong to this conditional.
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			switch child.Kind() {
			case "elif_clause":
				if body := child.ChildByFieldName("consequence"); body != nil {
					out.Children = append(out.Children, convertBody(body, source)...)
				}
			case "else_clause":
				if body := child.ChildByFieldName("body"); body != nil {
					out.Children = append(out.Children, convertBody(body, source)...)
				}
			}
		}
		return out

	case "for_statement", "while_statement", "with_statement":
		out := &Node{Kind: KindOther, Line: line(node)}
		if body := node.ChildByFieldName("body"); body != nil {
			out.Children = convertBody(body, source)
		}
		// Loop else clauses are still part of the statement.
		if alt := node.ChildByFieldName("alternative"); alt != nil {
			if body := alt.ChildByFieldName("body"); body != nil {
				out.Children = append(out.Children, convertBody(body, source)...)
			}
		}
		return out

	case "match_statement":
		out := &Node{Kind: KindOther, Line: line(node)}
		body := node.ChildByFieldName("body")
		if body == nil {
			return out
		}
		for i := uint(0); i < body.NamedChildCount(); i++ {
			clause := body.NamedChild(i)
			if clause.Kind() != "case_clause" {
				continue
			}
			caseBody := clause.ChildByFieldName("consequence")
			if caseBody == nil {
				caseBody = findChildByKind(clause, "block")
			}
			if caseBody != nil {
				out.Children = append(out.Children, convertBody(caseBody, source)...)
			}
		}
		return out

	case "try_statement":
		out := &Node{Kind: KindOther, Line: line(node)}
		if body := node.ChildByFieldName("body"); body != nil {
			out.Children = convertBody(body, source)
		}
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			switch child.Kind() {
			case "except_clause", "finally_clause", "else_clause":
				if body := findChildByKind(child, "block"); body != nil {
					out.Children = append(out.Children, convertBody(body, source)...)
				}
			}
		}
		return out

	default:
		return &Node{Kind: KindOther, Line: line(node)}
	}
}

// docstring returns the string content of a block's first statement when
// that statement is a bare string literal, per the Python convention.
func docstring(body *sitter.Node, source []byte) string {
	var first *sitter.Node
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if child.Kind() == "comment" {
			continue
		}
		first = child
		break
	}
	if first == nil || first.Kind() != "expression_statement" || first.NamedChildCount() != 1 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Kind() != "string" {
		return ""
	}
	return stringContent(str, source)
}

// stringContent extracts the text between a string literal's quotes.
func stringContent(str *sitter.Node, source []byte) string {
	var sb strings.Builder
	for i := uint(0); i < str.NamedChildCount(); i++ {
		child := str.NamedChild(i)
		if child.Kind() == "string_content" {
			sb.WriteString(nodeText(child, source))
		}
	}
	return strings.TrimSpace(sb.String())
}

// isMainGuard matches the run-as-main-program guard on tree shape: a
// comparison of the identifier __name__ with == against the string literal
// "__main__". Text that merely mentions the guard elsewhere never matches.
func isMainGuard(cond *sitter.Node, source []byte) bool {
	if cond == nil {
		return false
	}
	// if (__name__ == "__main__"): still counts.
	for cond.Kind() == "parenthesized_expression" && cond.NamedChildCount() == 1 {
		cond = cond.NamedChild(0)
	}
	if cond.Kind() != "comparison_operator" || cond.NamedChildCount() != 2 {
		return false
	}
	if !hasOperator(cond, "==") {
		return false
	}
	left := cond.NamedChild(0)
	right := cond.NamedChild(1)
	if left.Kind() != "identifier" || nodeText(left, source) != "__name__" {
		return false
	}
	return right.Kind() == "string" && stringContent(right, source) == "__main__"
}

// hasOperator reports whether a comparison node carries the given operator
// token among its anonymous children.
func hasOperator(node *sitter.Node, op string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if !child.IsNamed() && child.Kind() == op {
			return true
		}
	}
	return false
}

// paramNames flattens a parameters node into display names. Typed and
// defaulted parameters reduce to their name; splats keep their prefix.
func paramNames(params *sitter.Node, source []byte) []string {
	if params == nil {
		return nil
	}
	var names []string
	for i := uint(0); i < params.NamedChildCount(); i++ {
		child := params.NamedChild(i)
		switch child.Kind() {
		case "identifier":
			names = append(names, nodeText(child, source))
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			if name := child.ChildByFieldName("name"); name != nil {
				names = append(names, nodeText(name, source))
			} else if id := findChildByKind(child, "identifier"); id != nil {
				names = append(names, nodeText(id, source))
			}
		case "list_splat_pattern", "dictionary_splat_pattern", "keyword_separator", "positional_separator":
			names = append(names, nodeText(child, source))
		default:
			names = append(names, nodeText(child, source))
		}
	}
	return names
}

// findChildByKind finds the first named child node with the given kind.
func findChildByKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// fieldText extracts the text of a node's named field child.
func fieldText(node *sitter.Node, field string, source []byte) string {
	return nodeText(node.ChildByFieldName(field), source)
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// line converts a node's start position to a 1-based line number.
func line(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}
