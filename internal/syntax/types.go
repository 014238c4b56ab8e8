// Package syntax parses Python source with tree-sitter and exposes it as a
// closed, tagged node tree. Everything downstream consumes this shape instead
// of raw tree-sitter nodes.
package syntax

import "errors"

// ErrParseUnavailable reports that no syntax tree could be produced for an
// input: wrong file type, empty source, or a syntax error. Callers check it
// with errors.Is and skip the file instead of aborting a multi-file run.
var ErrParseUnavailable = errors.New("parse unavailable")

// Kind tags a node with its structural role.
type Kind int

const (
	// KindOther covers statements that carry no structural meaning of their
	// own but may contain nested statements (loops, with, try).
	KindOther Kind = iota
	KindClass
	KindFunction
	KindReturn
	KindConditional
)

// String returns the kind name for logs and test failures.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	case KindReturn:
		return "return"
	case KindConditional:
		return "conditional"
	default:
		return "other"
	}
}

// Node is one statement-level node of the parsed tree.
type Node struct {
	Kind Kind

	// Name is set for classes and functions.
	Name string

	// Doc is the leading string-literal documentation of a class or
	// function body, resolved from tree shape (first body statement is a
	// bare string expression). Empty when absent.
	Doc string

	// Params holds parameter names for functions.
	Params []string

	// Text is the return expression for returns (may be empty) and the
	// condition text for conditionals.
	Text string

	// MainGuard is set on conditionals whose condition compares the
	// identifier __name__ against the string literal "__main__". The match
	// is made on tree shape, never on source text.
	MainGuard bool

	// Line is the 1-based source line of the statement.
	Line int

	// Children are the statement's nested statements in source order. For
	// conditionals this includes every branch body.
	Children []*Node
}

// Tree is the parsed form of one source file.
type Tree struct {
	// Path is the file path the source came from, display only.
	Path string

	// Doc is the module docstring, if the first statement is a bare string.
	Doc string

	// Nodes are the top-level statements in source order.
	Nodes []*Node
}
