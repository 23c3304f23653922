package generate

import "text/template"

// unexported variables.
var (
	//nolint:gochecknoglobals // templates are hardcoded constants, so parsing cannot fail at runtime
	templates = template.Must(template.New("impmockgen").Parse(fileTemplate + methodTemplate))
)

const fileTemplate = `{{define "file" -}}
// Code generated by impmockgen. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/toejough/impmock"
{{- if .UsesMatch}}
	"github.com/toejough/impmock/match"
{{- end}}
{{- range .Imports}}
	{{.Name}} "{{.Path}}"
{{- end}}
)

// {{.Mock}} is a test double for {{.Interface}}.
type {{.Mock}} struct {
	mock *impmock.Mock
}

// New{{.Mock}} creates a {{.Mock}} bound to t. Mocks created for the same test share a clock,
// so calls across them can be verified in order.
func New{{.Mock}}(t impmock.TestReporter, opts ...impmock.Option) *{{.Mock}} {
	t.Helper()

	return &{{.Mock}}{mock: impmock.NewTestMock(t, opts...)}
}

// ImpMock implements impmock.Adapter.
func (impMock *{{.Mock}}) ImpMock() *impmock.Mock {
	return impMock.mock
}

// Given returns typed helpers registering behaviours on the mock.
func (impMock *{{.Mock}}) Given() {{.Mock}}Given {
	return {{.Mock}}Given{mock: impMock}
}

// Then returns typed helpers verifying calls made to the mock.
func (impMock *{{.Mock}}) Then() {{.Mock}}Then {
	return {{.Mock}}Then{mock: impMock}
}

// {{.Mock}}Given registers behaviours on a {{.Mock}}.
type {{.Mock}}Given struct {
	mock *{{.Mock}}
}

// {{.Mock}}Then verifies calls made to a {{.Mock}}.
type {{.Mock}}Then struct {
	mock *{{.Mock}}
}

// Operation identifiers for {{.Mock}}.
var (
{{- range .Methods}}
	{{.OpVar}} = impmock.NewOperationID[{{.ResultType}}]("{{.Signature}}")
{{- end}}
)

var _ {{.Interface}} = (*{{.Mock}})(nil)
{{range .Methods}}
{{template "method" .}}
{{- end}}
{{end}}`

const methodTemplate = `{{define "method" -}}
// {{.Name}} records the call and answers with the behaviour registered for it.
func (impMock *{{.Mock}}) {{.Name}}({{.ParamList}}){{.ReturnList}} {
	{{.Body}}
}

// {{.Name}} registers a behaviour for {{.Name}} calls whose arguments satisfy the predicates.
func (given {{.Mock}}Given) {{.Name}}({{.PredicateList}}) *impmock.Stubbing[{{.ResultType}}] {
	return impmock.Given[{{.ResultType}}](given.mock, {{.OpVar}}{{.ArgList}})
}

// {{.Name}} starts a verification of {{.Name}} calls whose arguments satisfy the predicates.
func (then {{.Mock}}Then) {{.Name}}({{.PredicateList}}) *impmock.Verification {
	return impmock.Verify(then.mock, {{.OpVar}}{{.ArgList}})
}
{{- if .Multi}}

// {{.Multi}} holds the results of one {{.Name}} call.
type {{.Multi}} struct {
{{- range $i, $result := .Results}}
	R{{$i}} {{$result}}
{{- end}}
}
{{- end}}
{{end}}`
