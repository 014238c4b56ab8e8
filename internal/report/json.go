package report

import (
	"encoding/json"
	"io"

	"pyglance/internal/extract"
)

// jsonModule mirrors the extracted model for machine consumption. Classes
// and functions keep their source order within their buckets.
type jsonModule struct {
	Path       string      `json:"path"`
	Doc        string      `json:"doc,omitempty"`
	Executable bool        `json:"executable"`
	EntryPoint *jsonFunc   `json:"entry_point,omitempty"`
	Classes    []jsonClass `json:"classes,omitempty"`
	Functions  []jsonFunc  `json:"functions,omitempty"`
}

type jsonClass struct {
	Name    string     `json:"name"`
	Doc     string     `json:"doc,omitempty"`
	Line    int        `json:"line"`
	Methods []jsonFunc `json:"methods,omitempty"`
}

type jsonFunc struct {
	Name    string     `json:"name"`
	Doc     string     `json:"doc,omitempty"`
	Line    int        `json:"line"`
	Params  []string   `json:"params,omitempty"`
	Returns []jsonStmt `json:"returns,omitempty"`
	Conds   []jsonStmt `json:"conditionals,omitempty"`
}

type jsonStmt struct {
	Expr string `json:"expr,omitempty"`
	Line int    `json:"line"`
}

// WriteJSON renders one module as indented JSON.
func WriteJSON(w io.Writer, mod *extract.Module) error {
	out := jsonModule{
		Path:       mod.Path,
		Doc:        mod.Doc,
		Executable: mod.Executable,
	}
	if entry := mod.EntryPoint(); entry != nil {
		fn := toJSONFunc(entry)
		out.EntryPoint = &fn
	}
	for _, cls := range mod.Classes() {
		jc := jsonClass{Name: cls.Name, Doc: cls.Doc, Line: cls.Line}
		for _, method := range cls.Methods {
			jc.Methods = append(jc.Methods, toJSONFunc(method))
		}
		out.Classes = append(out.Classes, jc)
	}
	for _, fn := range mod.Functions() {
		out.Functions = append(out.Functions, toJSONFunc(fn))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSONFunc(fn *extract.FuncDecl) jsonFunc {
	out := jsonFunc{
		Name:   fn.Name,
		Doc:    fn.Doc,
		Line:   fn.Line,
		Params: fn.Params,
	}
	for _, ret := range fn.Returns {
		out.Returns = append(out.Returns, jsonStmt{Expr: ret.Expr, Line: ret.Line})
	}
	for _, cond := range fn.Conds {
		out.Conds = append(out.Conds, jsonStmt{Expr: cond.Expr, Line: cond.Line})
	}
	return out
}
