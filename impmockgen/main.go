// impmockgen generates impmock adapters for Go interfaces.
// Install it with `go install github.com/toejough/impmock/impmockgen@latest` and add
// `//go:generate impmockgen <Interface>` next to the test that needs the double. The adapter is
// named <Interface>Mock unless --name is given, and is written to generated_<Mock>_test.go
// when generating from a test file.
package main

import (
	"fmt"
	"os"

	"github.com/dave/dst"
	"github.com/toejough/impmock/impmockgen/run"
	load "github.com/toejough/impmock/impmockgen/run/2_load"
)

func main() {
	err := run.Run(os.Args, os.Getenv, realFileSystem{}, realPackageLoader{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type realFileSystem struct{}

func (realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// realPackageLoader parses packages from disk without type checking.
type realPackageLoader struct{}

func (realPackageLoader) ImportPath(dir string) (string, error) {
	return load.DirImportPath(dir)
}

func (realPackageLoader) Load(importPath string) ([]*dst.File, error) {
	files, _, err := load.PackageDST(importPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load package %q: %w", importPath, err)
	}

	return files, nil
}
