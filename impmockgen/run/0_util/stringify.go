// Package astutil provides shared utilities for rendering DST type expressions as Go source.
package astutil

import (
	"fmt"
	"go/token"
	"slices"
	"strings"

	"github.com/dave/dst"
)

// Qualifier rewrites a bare identifier found in a type expression. It is used to prefix types
// declared in another package with that package's import name.
type Qualifier func(name string) string

// ExpandFieldListTypes expands a field list into individual type strings.
// For fields with multiple names (e.g., "a, b int"), outputs the type once per name.
// For unnamed fields, outputs the type once.
func ExpandFieldListTypes(fields []*dst.Field, typeFormatter func(dst.Expr) string) []string {
	var parts []string

	for _, f := range fields {
		typeStr := typeFormatter(f.Type)

		count := len(f.Names)
		if count == 0 {
			count = 1
		}

		for range count {
			parts = append(parts, typeStr)
		}
	}

	return parts
}

// ExportedQualifier prefixes exported identifiers with pkg, leaving predeclared and unexported
// names alone. An empty pkg qualifies nothing.
func ExportedQualifier(pkg string) Qualifier {
	return func(name string) string {
		if pkg == "" || !token.IsExported(name) {
			return name
		}

		return pkg + "." + name
	}
}

// PackageRefs lists the package names a type expression selects from, e.g. "time" for
// map[string]time.Duration, sorted and without duplicates.
func PackageRefs(expr dst.Expr) []string {
	var refs []string

	dst.Inspect(expr, func(node dst.Node) bool {
		selector, ok := node.(*dst.SelectorExpr)
		if !ok {
			return true
		}

		if ident, ok := selector.X.(*dst.Ident); ok {
			refs = append(refs, ident.Name)
		}

		return false
	})

	slices.Sort(refs)

	return slices.Compact(refs)
}

// StringifyExpr converts a DST expression to its string representation.
func StringifyExpr(expr dst.Expr) string {
	return StringifyQualified(expr, nil)
}

// StringifyQualified converts a DST expression to its string representation, passing every
// bare identifier through qualify.
//
//nolint:cyclop,funlen // Type-switch dispatcher handling all DST expression types; complexity is inherent
func StringifyQualified(expr dst.Expr, qualify Qualifier) string {
	if expr == nil {
		return ""
	}

	recurse := func(inner dst.Expr) string { return StringifyQualified(inner, qualify) }

	switch typedExpr := expr.(type) {
	case *dst.Ident:
		if qualify == nil || typedExpr.Path != "" {
			return typedExpr.Name
		}

		return qualify(typedExpr.Name)
	case *dst.BasicLit:
		return typedExpr.Value
	case *dst.SelectorExpr:
		return StringifyExpr(typedExpr.X) + "." + typedExpr.Sel.Name
	case *dst.StarExpr:
		return "*" + recurse(typedExpr.X)
	case *dst.ArrayType:
		if typedExpr.Len != nil {
			return "[" + StringifyExpr(typedExpr.Len) + "]" + recurse(typedExpr.Elt)
		}

		return "[]" + recurse(typedExpr.Elt)
	case *dst.MapType:
		return "map[" + recurse(typedExpr.Key) + "]" + recurse(typedExpr.Value)
	case *dst.ChanType:
		switch typedExpr.Dir {
		case dst.SEND:
			return "chan<- " + recurse(typedExpr.Value)
		case dst.RECV:
			return "<-chan " + recurse(typedExpr.Value)
		default:
			return "chan " + recurse(typedExpr.Value)
		}
	case *dst.InterfaceType:
		return stringifyInterfaceType(typedExpr, recurse)
	case *dst.StructType:
		return stringifyStructType(typedExpr, recurse)
	case *dst.FuncType:
		return stringifyFuncType(typedExpr, recurse)
	case *dst.Ellipsis:
		return "..." + recurse(typedExpr.Elt)
	case *dst.IndexExpr:
		return recurse(typedExpr.X) + "[" + recurse(typedExpr.Index) + "]"
	case *dst.IndexListExpr:
		indices := make([]string, len(typedExpr.Indices))
		for i, idx := range typedExpr.Indices {
			indices[i] = recurse(idx)
		}

		return recurse(typedExpr.X) + "[" + strings.Join(indices, ", ") + "]"
	case *dst.ParenExpr:
		return "(" + recurse(typedExpr.X) + ")"
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// stringifyFuncType converts a DST FuncType to its string representation.
func stringifyFuncType(funcType *dst.FuncType, recurse func(dst.Expr) string) string {
	var buf strings.Builder
	buf.WriteString("func")

	if funcType.Params != nil {
		buf.WriteString("(")
		buf.WriteString(strings.Join(ExpandFieldListTypes(funcType.Params.List, recurse), ", "))
		buf.WriteString(")")
	}

	if funcType.Results != nil && len(funcType.Results.List) > 0 {
		buf.WriteString(" ")

		resultParts := ExpandFieldListTypes(funcType.Results.List, recurse)
		if len(resultParts) > 1 {
			buf.WriteString("(" + strings.Join(resultParts, ", ") + ")")
		} else {
			buf.WriteString(resultParts[0])
		}
	}

	return buf.String()
}

// stringifyInterfaceType converts an interface literal to a single-line representation,
// preserving method signatures and embedded types.
func stringifyInterfaceType(interfaceType *dst.InterfaceType, recurse func(dst.Expr) string) string {
	if interfaceType.Methods == nil || len(interfaceType.Methods.List) == 0 {
		return "interface{}"
	}

	methods := make([]string, 0, len(interfaceType.Methods.List))

	for _, method := range interfaceType.Methods.List {
		funcType, ok := method.Type.(*dst.FuncType)
		if !ok || len(method.Names) == 0 {
			methods = append(methods, recurse(method.Type))

			continue
		}

		methods = append(methods,
			method.Names[0].Name+strings.TrimPrefix(stringifyFuncType(funcType, recurse), "func"))
	}

	return "interface{ " + strings.Join(methods, "; ") + " }"
}

// stringifyStructType converts a DST StructType to its string representation,
// preserving all field information including names, types, and tags.
func stringifyStructType(structType *dst.StructType, recurse func(dst.Expr) string) string {
	if structType.Fields == nil || len(structType.Fields.List) == 0 {
		return "struct{}"
	}

	fields := make([]string, 0, len(structType.Fields.List))

	for _, field := range structType.Fields.List {
		var fieldStr strings.Builder

		if len(field.Names) > 0 {
			nameStrs := make([]string, len(field.Names))
			for i, name := range field.Names {
				nameStrs[i] = name.Name
			}

			fieldStr.WriteString(strings.Join(nameStrs, ", "))
			fieldStr.WriteString(" ")
		}

		fieldStr.WriteString(recurse(field.Type))

		if field.Tag != nil {
			fieldStr.WriteString(" " + field.Tag.Value)
		}

		fields = append(fields, fieldStr.String())
	}

	return fmt.Sprintf("struct{ %s }", strings.Join(fields, "; "))
}
