// Package run implements the impmockgen command in a testable way.
package run

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dave/dst"
	"github.com/spf13/cobra"
	detect "github.com/toejough/impmock/impmockgen/run/3_detect"
	generate "github.com/toejough/impmock/impmockgen/run/5_generate"
	output "github.com/toejough/impmock/impmockgen/run/6_output"
)

// FileSystem writes the generated file.
type FileSystem interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// PackageLoader parses packages. "." is the package go:generate runs in.
type PackageLoader interface {
	Load(importPath string) ([]*dst.File, error)
	ImportPath(dir string) (string, error)
}

// Run executes impmockgen with os-style args (args[0] is the program name). GOPACKAGE and
// GOFILE are read through getEnv, as go:generate sets them.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, loader PackageLoader, out io.Writer) error {
	cmd := NewCommand(getEnv, fileSys, loader, out)

	if len(args) > 1 {
		cmd.SetArgs(args[1:])
	} else {
		cmd.SetArgs([]string{})
	}

	err := cmd.Execute()
	if err != nil {
		return fmt.Errorf("impmockgen: %w", err)
	}

	return nil
}

// NewCommand builds the impmockgen cobra command.
func NewCommand(getEnv func(string) string, fileSys FileSystem, loader PackageLoader, out io.Writer) *cobra.Command {
	var req request

	cmd := &cobra.Command{
		Use:   "impmockgen <Interface>",
		Short: "Generate an impmock adapter for a Go interface",
		Long: `Generates a test double for an interface, for use from a //go:generate comment.
The interface is Name (declared in the current package), pkg.Name (declared in an imported
package) or Name with --pkg <import path>. The adapter is written to generated_<Mock>.go, or
generated_<Mock>_test.go when generating from a test file or test package.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			req.target = args[0]
			req.pkgName = getEnv("GOPACKAGE")

			code, err := req.generate(loader)
			if err != nil {
				return err
			}

			_, err = output.WriteGeneratedCode(code, req.mockName(), req.pkgName, getEnv, fileSys, out)

			return err
		},
	}

	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.Flags().StringVar(&req.name, "name", "", "name of the generated adapter (default <Interface>Mock)")
	cmd.Flags().StringVar(&req.pkg, "pkg", "", "import path of the package declaring the interface")

	return cmd
}

// ErrNoPackage is returned when GOPACKAGE is unset, i.e. outside go:generate.
var ErrNoPackage = errors.New("GOPACKAGE is not set; run impmockgen from a //go:generate comment")

type request struct {
	target  string
	name    string
	pkg     string
	pkgName string
}

func (r request) generate(loader PackageLoader) (string, error) {
	if r.pkgName == "" {
		return "", ErrNoPackage
	}

	qualifier, local := r.split()

	iface, importPath, err := r.locate(loader, qualifier, local)
	if err != nil {
		return "", err
	}

	opts := generate.Options{MockName: r.mockName(), Package: r.pkgName}

	if qualifier != "" {
		opts.Qualifier = qualifier
		opts.ImportPath = importPath
	} else {
		opts.Qualifier, opts.ImportPath, err = r.qualifyLocal(loader, iface, importPath)
		if err != nil {
			return "", err
		}
	}

	code, err := generate.Generate(iface, opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", opts.MockName, err)
	}

	return code, nil
}

// locate finds the interface and, when it lives in another package, that package's path.
func (r request) locate(loader PackageLoader, qualifier, local string) (detect.Interface, string, error) {
	importPath := r.pkg

	if qualifier != "" && importPath == "" {
		files, err := loader.Load(".")
		if err != nil {
			return detect.Interface{}, "", fmt.Errorf("failed to load current package: %w", err)
		}

		importPath, err = detect.ImportPath(files, qualifier)
		if err != nil {
			return detect.Interface{}, "", fmt.Errorf("failed to resolve %s: %w", r.target, err)
		}
	}

	source := importPath
	if source == "" {
		source = "."
	}

	files, err := loader.Load(source)
	if err != nil {
		return detect.Interface{}, "", fmt.Errorf("failed to load package %q: %w", source, err)
	}

	iface, err := detect.FindInterface(files, local)
	if err != nil {
		return detect.Interface{}, "", fmt.Errorf("failed to find %s in %q: %w", local, source, err)
	}

	return iface, importPath, nil
}

// qualifyLocal handles interfaces found without a qualifier that still live outside the
// generated file's package: --pkg targets and black-box test packages mocking the package
// under test.
func (r request) qualifyLocal(
	loader PackageLoader, iface detect.Interface, importPath string,
) (string, string, error) {
	if importPath != "" {
		return iface.Package, importPath, nil
	}

	if iface.Package == r.pkgName {
		return "", "", nil
	}

	dirPath, err := loader.ImportPath(".")
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve import path of %s: %w", iface.Package, err)
	}

	return iface.Package, dirPath, nil
}

func (r request) mockName() string {
	if r.name != "" {
		return r.name
	}

	_, local := r.split()

	return local + "Mock"
}

func (r request) split() (string, string) {
	qualifier, local, found := strings.Cut(r.target, ".")
	if !found {
		return "", r.target
	}

	return qualifier, local
}
