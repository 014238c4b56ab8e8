package extract

import "pyglance/internal/syntax"

// Extract walks a parsed tree and builds the module's structural model. It
// holds no state across calls and never mutates the tree.
func Extract(tree *syntax.Tree) *Module {
	mod := &Module{
		Path: tree.Path,
		Doc:  tree.Doc,
	}

	seenMain := false
	for _, node := range tree.Nodes {
		switch node.Kind {
		case syntax.KindClass:
			mod.Decls = append(mod.Decls, extractClass(node))

		case syntax.KindFunction:
			fn := extractFunc(node, 0)
			if fn.Name == "main" && !seenMain {
				fn.EntryPoint = true
				seenMain = true
			}
			mod.Decls = append(mod.Decls, fn)

		case syntax.KindConditional:
			if node.MainGuard {
				mod.Executable = true
			}
		}
	}
	return mod
}

// extractClass collects a class and its direct function children as methods.
// Deeper function definitions (inside methods) stay out of the method list.
func extractClass(node *syntax.Node) *ClassDecl {
	cls := &ClassDecl{
		Name: node.Name,
		Doc:  node.Doc,
		Line: node.Line,
	}
	for _, child := range node.Children {
		if child.Kind == syntax.KindFunction {
			cls.Methods = append(cls.Methods, extractFunc(child, 1))
		}
	}
	return cls
}

// extractFunc builds a function declaration: docstring, parameters, returns
// at any depth within the function, and conditionals at its own top level.
func extractFunc(node *syntax.Node, depth int) *FuncDecl {
	fn := &FuncDecl{
		Name:   node.Name,
		Doc:    node.Doc,
		Line:   node.Line,
		Depth:  depth,
		Params: node.Params,
	}
	for _, child := range node.Children {
		if child.Kind == syntax.KindConditional {
			fn.Conds = append(fn.Conds, Cond{Expr: child.Text, Line: child.Line})
		}
	}
	collectReturns(node.Children, fn)
	return fn
}

// collectReturns gathers return statements recursively, stopping at nested
// function definitions so each return stays with the function that owns it.
func collectReturns(nodes []*syntax.Node, fn *FuncDecl) {
	for _, node := range nodes {
		switch node.Kind {
		case syntax.KindReturn:
			fn.Returns = append(fn.Returns, Return{Expr: node.Text, Line: node.Line})
		case syntax.KindFunction, syntax.KindClass:
			// A nested definition owns its own returns.
		default:
			collectReturns(node.Children, fn)
		}
	}
}
