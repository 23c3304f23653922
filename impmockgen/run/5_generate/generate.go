// Package generate renders the adapter source for a detected interface.
package generate

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"maps"
	"slices"
	"strings"

	"github.com/dave/dst"
	astutil "github.com/toejough/impmock/impmockgen/run/0_util"
	detect "github.com/toejough/impmock/impmockgen/run/3_detect"
)

// Options controls naming and placement of the generated adapter.
type Options struct {
	// MockName is the adapter type name.
	MockName string
	// Package is the package clause of the generated file.
	Package string
	// Qualifier is the import name of the interface's package, empty when the interface is
	// declared in Package itself.
	Qualifier string
	// ImportPath is the import path for Qualifier.
	ImportPath string
}

// Generate renders a gofmt-formatted adapter implementing iface.
func Generate(iface detect.Interface, opts Options) (string, error) {
	for _, method := range iface.Methods {
		if slices.Contains(adapterMethods, method.Name) {
			return "", fmt.Errorf("%w: %s.%s", ErrReservedMethod, iface.Name, method.Name)
		}
	}

	data := buildFile(iface, opts)

	var buf bytes.Buffer

	err := templates.ExecuteTemplate(&buf, "file", data)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", opts.MockName, err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("generated code for %s does not parse: %w", opts.MockName, err)
	}

	return string(formatted), nil
}

// Signature renders the operation signature for a method: "Get(ctx:key:)", "Len()",
// "Decode(_:)".
func Signature(method detect.Method) string {
	var labels strings.Builder

	for _, param := range method.Params {
		label := param.Name
		if label == "" {
			label = "_"
		}

		labels.WriteString(label + ":")
	}

	return method.Name + "(" + labels.String() + ")"
}

// ErrReservedMethod is returned for interfaces with a method the adapter itself defines.
var ErrReservedMethod = errors.New("method name is reserved by the generated adapter")

type fileData struct {
	Package   string
	Mock      string
	Interface string
	Imports   []importData
	Methods   []methodData
	UsesMatch bool
}

type importData struct {
	Name string
	Path string
}

type methodData struct {
	Mock       string
	Name       string
	OpVar      string
	Signature  string
	ResultType string
	Params     []paramData
	Results    []string
	Throwing   bool
	Multi      string
}

type paramData struct {
	Name     string
	Type     string
	Variadic bool
}

// ArgList is the parameter names as passed on to the engine, with a leading comma.
func (m methodData) ArgList() string {
	var args strings.Builder

	for _, param := range m.Params {
		args.WriteString(", " + param.Name)
	}

	return args.String()
}

// Body is the statement list forwarding the call to the engine.
func (m methodData) Body() string {
	engine := "Mocked"
	if m.Throwing {
		engine = "MockedThrowable"
	}

	call := fmt.Sprintf("impmock.%s[%s](impMock, %s%s)", engine, m.ResultType, m.OpVar, m.ArgList())

	switch {
	case m.Multi != "":
		fields := make([]string, len(m.Results))
		for i := range m.Results {
			fields[i] = fmt.Sprintf("result.R%d", i)
		}

		if m.Throwing {
			return "result, err := " + call + "\n\nreturn " + strings.Join(fields, ", ") + ", err"
		}

		return "result := " + call + "\n\nreturn " + strings.Join(fields, ", ")
	case len(m.Results) == 1:
		return "return " + call
	case m.Throwing:
		return "_, err := " + call + "\n\nreturn err"
	default:
		return call
	}
}

// ParamList is the method's parameter list.
func (m methodData) ParamList() string {
	params := make([]string, len(m.Params))

	for i, param := range m.Params {
		if param.Variadic {
			params[i] = param.Name + " ..." + param.Type
		} else {
			params[i] = param.Name + " " + param.Type
		}
	}

	return strings.Join(params, ", ")
}

// PredicateList is the parameter list of the typed Given/Then helpers.
func (m methodData) PredicateList() string {
	params := make([]string, len(m.Params))

	for i, param := range m.Params {
		paramType := param.Type
		if param.Variadic {
			paramType = "[]" + paramType
		}

		params[i] = fmt.Sprintf("%s match.Predicate[%s]", param.Name, paramType)
	}

	return strings.Join(params, ", ")
}

// ReturnList is the method's result list, including the trailing error when throwing.
func (m methodData) ReturnList() string {
	results := slices.Clone(m.Results)
	if m.Throwing {
		results = append(results, "error")
	}

	switch len(results) {
	case 0:
		return ""
	case 1:
		return " " + results[0]
	default:
		return " (" + strings.Join(results, ", ") + ")"
	}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // methods every generated adapter defines
	adapterMethods = []string{"Given", "ImpMock", "Then"}
	//nolint:gochecknoglobals // names the generated code uses itself
	reservedNames = map[string]bool{
		"err": true, "impMock": true, "impmock": true, "match": true, "result": true,
		"given": true, "then": true,
	}
)

func buildFile(iface detect.Interface, opts Options) fileData {
	qualify := astutil.ExportedQualifier(opts.Qualifier)
	render := func(expr dst.Expr) string { return astutil.StringifyQualified(expr, qualify) }

	refs := make(map[string]string)

	data := fileData{
		Package:   opts.Package,
		Mock:      opts.MockName,
		Interface: iface.Name,
	}

	if opts.Qualifier != "" {
		data.Interface = opts.Qualifier + "." + iface.Name
		refs[opts.Qualifier] = opts.ImportPath
	}

	for _, method := range iface.Methods {
		built := buildMethod(method, opts.MockName, render)
		data.Methods = append(data.Methods, built)
		data.UsesMatch = data.UsesMatch || len(built.Params) > 0

		for _, expr := range typeExprs(method) {
			for _, ref := range astutil.PackageRefs(expr) {
				if importPath, ok := iface.Imports[ref]; ok {
					refs[ref] = importPath
				}
			}
		}
	}

	for _, name := range slices.Sorted(maps.Keys(refs)) {
		data.Imports = append(data.Imports, importData{Name: name, Path: refs[name]})
	}

	return data
}

func buildMethod(method detect.Method, mock string, render func(dst.Expr) string) methodData {
	built := methodData{
		Mock:      mock,
		Name:      method.Name,
		OpVar:     mock + method.Name,
		Signature: Signature(method),
	}

	for i, param := range method.Params {
		built.Params = append(built.Params, paramData{
			Name:     paramName(param.Name, i),
			Type:     render(param.Type),
			Variadic: param.Variadic,
		})
	}

	results := method.Results
	if n := len(results); n > 0 && isError(results[n-1]) {
		built.Throwing = true
		results = results[:n-1]
	}

	for _, result := range results {
		built.Results = append(built.Results, render(result))
	}

	switch len(built.Results) {
	case 0:
		built.ResultType = "impmock.Void"
	case 1:
		built.ResultType = built.Results[0]
	default:
		built.Multi = mock + method.Name + "Results"
		built.ResultType = built.Multi
	}

	return built
}

func isError(expr dst.Expr) bool {
	ident, ok := expr.(*dst.Ident)

	return ok && ident.Name == "error"
}

func paramName(name string, index int) string {
	switch {
	case name == "" || name == "_":
		return fmt.Sprintf("arg%d", index+1)
	case reservedNames[name]:
		return name + "Arg"
	default:
		return name
	}
}

func typeExprs(method detect.Method) []dst.Expr {
	exprs := slices.Clone(method.Results)

	for _, param := range method.Params {
		exprs = append(exprs, param.Type)
	}

	return exprs
}
