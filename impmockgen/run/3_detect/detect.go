// Package detect finds a named interface in parsed source and flattens its method set.
package detect

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"

	"github.com/dave/dst"
)

// Interface is a mockable interface and everything needed to render its method signatures.
type Interface struct {
	Name    string
	Package string
	Methods []Method
	// Imports maps the names used in method signatures to import paths, taken from the files
	// the interface and its embedded interfaces are declared in.
	Imports map[string]string
}

// Method is one method of the interface, with parameter lists expanded one entry per name.
type Method struct {
	Name    string
	Params  []Param
	Results []dst.Expr
}

// Param is one parameter. Name is empty for unnamed parameters.
type Param struct {
	Name     string
	Type     dst.Expr
	Variadic bool
}

// FindInterface returns the interface called name declared in files. Embedded interfaces
// declared in the same files are flattened into the method set; the predeclared error
// interface contributes Error() string.
func FindInterface(files []*dst.File, name string) (Interface, error) {
	finder := &finder{files: files, imports: make(map[string]string), seen: make(map[string]bool)}

	found, err := finder.collect(name)
	if err != nil {
		return Interface{}, err
	}

	return Interface{
		Name:    name,
		Package: found.file.Name.Name,
		Methods: finder.methods,
		Imports: finder.imports,
	}, nil
}

// ImportPath returns the path a file in files imports under name.
func ImportPath(files []*dst.File, name string) (string, error) {
	for _, file := range files {
		if importPath, ok := fileImports(file)[name]; ok {
			return importPath, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrImportNotFound, name)
}

// Errors returned while detecting an interface.
var (
	ErrImportNotFound       = errors.New("no import found for package")
	ErrInterfaceNotFound    = errors.New("interface not found")
	ErrUnsupportedInterface = errors.New("unsupported interface")
)

type declaration struct {
	file  *dst.File
	iface *dst.InterfaceType
}

type finder struct {
	files   []*dst.File
	methods []Method
	imports map[string]string
	seen    map[string]bool
}

func (f *finder) collect(name string) (declaration, error) {
	found, err := f.lookup(name)
	if err != nil {
		return declaration{}, err
	}

	if f.seen[name] {
		return found, nil
	}

	f.seen[name] = true

	for importName, importPath := range fileImports(found.file) {
		f.imports[importName] = importPath
	}

	if found.iface.Methods == nil {
		return found, nil
	}

	for _, field := range found.iface.Methods.List {
		err := f.addField(name, field)
		if err != nil {
			return declaration{}, err
		}
	}

	return found, nil
}

func (f *finder) addField(owner string, field *dst.Field) error {
	switch fieldType := field.Type.(type) {
	case *dst.FuncType:
		for _, methodName := range field.Names {
			f.addMethod(Method{
				Name:    methodName.Name,
				Params:  params(fieldType),
				Results: results(fieldType),
			})
		}

		return nil
	case *dst.Ident:
		if fieldType.Name == "error" {
			f.addMethod(Method{Name: "Error", Results: []dst.Expr{&dst.Ident{Name: "string"}}})

			return nil
		}

		_, err := f.collect(fieldType.Name)

		return err
	default:
		return fmt.Errorf("%w: %s embeds %T, only interfaces declared in the same package can be embedded",
			ErrUnsupportedInterface, owner, field.Type)
	}
}

func (f *finder) addMethod(method Method) {
	for _, existing := range f.methods {
		if existing.Name == method.Name {
			return
		}
	}

	f.methods = append(f.methods, method)
}

func (f *finder) lookup(name string) (declaration, error) {
	for _, file := range f.files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*dst.GenDecl)
			if !ok {
				continue
			}

			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*dst.TypeSpec)
				if !ok || typeSpec.Name.Name != name {
					continue
				}

				iface, ok := typeSpec.Type.(*dst.InterfaceType)
				if !ok {
					return declaration{}, fmt.Errorf("%w: %s is not an interface", ErrUnsupportedInterface, name)
				}

				if typeSpec.TypeParams != nil && len(typeSpec.TypeParams.List) > 0 {
					return declaration{}, fmt.Errorf("%w: %s has type parameters", ErrUnsupportedInterface, name)
				}

				return declaration{file: file, iface: iface}, nil
			}
		}
	}

	return declaration{}, fmt.Errorf("%w: %s", ErrInterfaceNotFound, name)
}

// unexported variables.
var (
	majorVersion = regexp.MustCompile(`^v[0-9]+$`)
)

func fileImports(file *dst.File) map[string]string {
	imports := make(map[string]string, len(file.Imports))

	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		name := path.Base(importPath)
		if majorVersion.MatchString(name) {
			name = path.Base(path.Dir(importPath))
		}

		if spec.Name != nil {
			name = spec.Name.Name
		}

		if name == "_" || name == "." {
			continue
		}

		imports[name] = importPath
	}

	return imports
}

func params(funcType *dst.FuncType) []Param {
	if funcType.Params == nil {
		return nil
	}

	var expanded []Param

	for _, field := range funcType.Params.List {
		paramType := field.Type
		variadic := false

		if ellipsis, ok := field.Type.(*dst.Ellipsis); ok {
			paramType = ellipsis.Elt
			variadic = true
		}

		if len(field.Names) == 0 {
			expanded = append(expanded, Param{Type: paramType, Variadic: variadic})

			continue
		}

		for _, name := range field.Names {
			expanded = append(expanded, Param{Name: name.Name, Type: paramType, Variadic: variadic})
		}
	}

	return expanded
}

func results(funcType *dst.FuncType) []dst.Expr {
	if funcType.Results == nil {
		return nil
	}

	var expanded []dst.Expr

	for _, field := range funcType.Results.List {
		count := max(len(field.Names), 1)

		for range count {
			expanded = append(expanded, field.Type)
		}
	}

	return expanded
}
