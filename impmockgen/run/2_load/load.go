// Package load parses the Go package an interface is declared in.
package load

import (
	"errors"
	"fmt"
	"go/build"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"golang.org/x/mod/modfile"
)

// Source is one file to parse.
type Source struct {
	Name    string
	Content []byte
}

// PackageDST loads a package by import path and returns its DST files and FileSet.
// "." is the working directory and includes its test files, since interfaces mocked from a
// test file are often declared in one. Other packages are parsed without their tests.
// No type checking is done.
func PackageDST(importPath string) ([]*dst.File, *token.FileSet, error) {
	dir, err := resolveDir(importPath)
	if err != nil {
		return nil, nil, err
	}

	names, err := goFiles(dir, importPath == ".")
	if err != nil {
		return nil, nil, err
	}

	sources := make([]Source, 0, len(names))

	for _, name := range names {
		content, err := os.ReadFile(name)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		sources = append(sources, Source{Name: name, Content: content})
	}

	files, fset, err := ParseSources(sources)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", dir, err)
	}

	return files, fset, nil
}

// DirImportPath returns the import path of the package in dir, derived from the module path in
// the nearest enclosing go.mod.
func DirImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	for root := abs; ; root = filepath.Dir(root) {
		data, err := os.ReadFile(filepath.Join(root, "go.mod"))
		if err == nil {
			modulePath := modfile.ModulePath(data)
			if modulePath == "" {
				return "", fmt.Errorf("%w: %s", ErrNoModule, filepath.Join(root, "go.mod"))
			}

			rel, err := filepath.Rel(root, abs)
			if err != nil {
				return "", fmt.Errorf("failed to relate %s to %s: %w", abs, root, err)
			}

			return path.Join(modulePath, filepath.ToSlash(rel)), nil
		}

		if filepath.Dir(root) == root {
			return "", fmt.Errorf("%w: above %s", ErrNoModule, abs)
		}
	}
}

// ParseSources parses the given files into DST. Files that fail to parse are skipped; it is
// an error only if none parse.
func ParseSources(sources []Source) ([]*dst.File, *token.FileSet, error) {
	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)

	files := make([]*dst.File, 0, len(sources))

	for _, source := range sources {
		file, err := dec.ParseFile(source.Name, source.Content, 0)
		if err != nil {
			continue
		}

		files = append(files, file)
	}

	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: no parseable .go files", ErrNoPackagesFound)
	}

	return files, fset, nil
}

// ResolveLocalPackagePath checks if importPath refers to a local subdirectory package.
// For simple package names (no slashes), it checks if there's a local subdirectory
// with that name containing .go files. This handles cases where local packages
// shadow stdlib packages (e.g., a local "time" package shadowing stdlib "time").
//
// Returns the absolute path to the local package directory if found, or the
// original importPath if it should be resolved normally.
func ResolveLocalPackagePath(importPath string) string {
	if importPath == "." || strings.Contains(importPath, "/") {
		return importPath
	}

	srcDir, err := os.Getwd()
	if err != nil {
		return importPath
	}

	localDir := filepath.Join(srcDir, importPath)

	names, err := goFiles(localDir, false)
	if err != nil || len(names) == 0 {
		return importPath
	}

	return localDir
}

// Errors returned while loading.
var (
	ErrNoModule        = errors.New("no go.mod with a module path")
	ErrNoPackagesFound = errors.New("no packages found")
)

func goFiles(dir string, includeTests bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()

		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}

		if !includeTests && strings.HasSuffix(name, "_test.go") {
			continue
		}

		names = append(names, filepath.Join(dir, name))
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no .go files in %s", ErrNoPackagesFound, dir)
	}

	return names, nil
}

func resolveDir(importPath string) (string, error) {
	srcDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	if importPath == "." {
		return srcDir, nil
	}

	if local := ResolveLocalPackagePath(importPath); local != importPath {
		return local, nil
	}

	pkg, err := build.Import(importPath, srcDir, build.FindOnly)
	if err != nil {
		return "", fmt.Errorf("failed to find package %q: %w", importPath, err)
	}

	return pkg.Dir, nil
}
