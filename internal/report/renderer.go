// Package report renders the extracted module model as an ordered text
// report. Rendering is total: any valid module produces output and no error.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"pyglance/internal/extract"
)

// Options controls presentation only. The model is never filtered during
// extraction; verbosity decides here what gets printed.
type Options struct {
	// Verbose additionally renders each function's conditional statements.
	Verbose bool

	// Color enables ANSI styling.
	Color bool
}

// Renderer writes module reports in a fixed section order: file identity,
// executable status, module docstring, entry point, classes, top-level
// functions.
type Renderer struct {
	opts Options

	header *color.Color
	name   *color.Color
	good   *color.Color
	warn   *color.Color
	faint  *color.Color
}

// NewRenderer creates a renderer with the given presentation options.
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{
		opts:   opts,
		header: color.New(color.FgCyan, color.Bold),
		name:   color.New(color.Bold),
		good:   color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		faint:  color.New(color.Faint),
	}
	if !opts.Color {
		for _, c := range []*color.Color{r.header, r.name, r.good, r.warn, r.faint} {
			c.DisableColor()
		}
	}
	return r
}

// Write renders one module to w.
func (r *Renderer) Write(w io.Writer, mod *extract.Module) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s\n", r.header.Sprint("File:"), mod.Path))
	if mod.Executable {
		sb.WriteString(fmt.Sprintf("%s %s\n", r.header.Sprint("Status:"), r.good.Sprint("executable")))
	} else {
		sb.WriteString(fmt.Sprintf("%s %s\n", r.header.Sprint("Status:"), r.warn.Sprint("not executable")))
	}

	if mod.Doc != "" {
		sb.WriteString("\n" + r.header.Sprint("Module:") + "\n")
		for _, line := range strings.Split(mod.Doc, "\n") {
			sb.WriteString("  " + strings.TrimRight(line, " \t") + "\n")
		}
	}

	if entry := mod.EntryPoint(); entry != nil {
		sb.WriteString("\n" + r.header.Sprint("Entry point:") + "\n")
		r.writeFunc(&sb, entry, 1)
	}

	if classes := mod.Classes(); len(classes) > 0 {
		sb.WriteString("\n" + r.header.Sprint("Classes:") + "\n")
		for _, cls := range classes {
			sb.WriteString(fmt.Sprintf("  %s %s\n", r.name.Sprint(cls.Name), r.faint.Sprintf("(line %d)", cls.Line)))
			if cls.Doc != "" {
				sb.WriteString("    \"" + firstLine(cls.Doc) + "\"\n")
			} else {
				sb.WriteString("    " + r.faint.Sprint("(no docstring)") + "\n")
			}
			for _, method := range cls.Methods {
				r.writeFunc(&sb, method, 2)
			}
		}
	}

	if funcs := mod.Functions(); len(funcs) > 0 {
		sb.WriteString("\n" + r.header.Sprint("Functions:") + "\n")
		for _, fn := range funcs {
			r.writeFunc(&sb, fn, 1)
		}
	}

	io.WriteString(w, sb.String())
}

// writeFunc renders one function or method: signature line, docstring or its
// explicit absence marker, returns or the no-return marker, and conditionals
// when verbose.
func (r *Renderer) writeFunc(sb *strings.Builder, fn *extract.FuncDecl, indent int) {
	pad := strings.Repeat("  ", indent)
	sig := fmt.Sprintf("%s(%s)", r.name.Sprint(fn.Name), strings.Join(fn.Params, ", "))
	sb.WriteString(fmt.Sprintf("%s%s %s\n", pad, sig, r.faint.Sprintf("(line %d)", fn.Line)))

	if fn.Doc != "" {
		sb.WriteString(pad + "  \"" + firstLine(fn.Doc) + "\"\n")
	} else {
		sb.WriteString(pad + "  " + r.faint.Sprint("(no docstring)") + "\n")
	}

	if len(fn.Returns) == 0 {
		sb.WriteString(pad + "  " + r.faint.Sprint("(no return)") + "\n")
	} else {
		for _, ret := range fn.Returns {
			if ret.Expr == "" {
				sb.WriteString(pad + "  return\n")
			} else {
				sb.WriteString(pad + "  return " + ret.Expr + "\n")
			}
		}
	}

	if r.opts.Verbose {
		for _, cond := range fn.Conds {
			sb.WriteString(pad + "  " + r.warn.Sprint("if ") + cond.Expr + "\n")
		}
	}
}

// firstLine returns the first non-empty line of a docstring.
func firstLine(doc string) string {
	for _, line := range strings.Split(doc, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
