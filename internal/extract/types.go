// Package extract builds the structural model of one Python module from a
// parsed syntax tree: classes with their methods, top-level functions, the
// main entry point, docstrings, returns, and conditionals.
package extract

// Module is the root of one inspected file. It is built in a single pass and
// read-only afterwards.
type Module struct {
	// Path is the inspected file's path, display only.
	Path string

	// Doc is the module docstring, empty when absent.
	Doc string

	// Decls holds the top-level declarations in source order. Order is
	// never re-sorted after extraction.
	Decls []Decl

	// Executable reports whether the top level contains the
	// __name__ == "__main__" guard.
	Executable bool
}

// Decl is a top-level declaration: a *ClassDecl or a *FuncDecl.
type Decl interface {
	decl()
}

// ClassDecl is a class and its directly-nested methods. Functions defined
// inside methods are not promoted into Methods.
type ClassDecl struct {
	Name    string
	Doc     string
	Line    int
	Depth   int
	Methods []*FuncDecl
}

func (*ClassDecl) decl() {}

// FuncDecl is a function or method declaration.
type FuncDecl struct {
	Name   string
	Doc    string
	Line   int
	Depth  int
	Params []string

	// Returns lists the function's return statements in source order,
	// excluding any inside a function defined within this one.
	Returns []Return

	// Conds lists the conditionals at the function's own top level. They
	// are always collected; rendering them is a verbosity decision made
	// later.
	Conds []Cond

	// EntryPoint marks the top-level function named main. When several
	// exist, only the first in source order carries the flag.
	EntryPoint bool
}

func (*FuncDecl) decl() {}

// Return is one return statement. Expr is empty for a bare return.
type Return struct {
	Expr string
	Line int
}

// Cond is one conditional statement with its condition text.
type Cond struct {
	Expr string
	Line int
}

// EntryPoint returns the module's flagged entry-point function, or nil.
func (m *Module) EntryPoint() *FuncDecl {
	for _, d := range m.Decls {
		if fn, ok := d.(*FuncDecl); ok && fn.EntryPoint {
			return fn
		}
	}
	return nil
}

// Classes returns the module's class declarations in source order.
func (m *Module) Classes() []*ClassDecl {
	var classes []*ClassDecl
	for _, d := range m.Decls {
		if cls, ok := d.(*ClassDecl); ok {
			classes = append(classes, cls)
		}
	}
	return classes
}

// Functions returns the top-level functions in source order, excluding the
// flagged entry point. A second function named main shows up here like any
// other function.
func (m *Module) Functions() []*FuncDecl {
	var funcs []*FuncDecl
	for _, d := range m.Decls {
		if fn, ok := d.(*FuncDecl); ok && !fn.EntryPoint {
			funcs = append(funcs, fn)
		}
	}
	return funcs
}
