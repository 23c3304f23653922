// Package output writes generated adapters to disk.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/toejough/go-reorder"
)

// Writer writes generated files.
type Writer interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// FileName returns the name of the file an adapter is written to: generated_<mock>.go, or
// generated_<mock>_test.go when generating into a test package or from a test file.
func FileName(mockName, pkgName, goFile string) string {
	base := "generated_" + strings.TrimSuffix(strings.TrimSuffix(mockName, ".go"), "_test")

	if strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(goFile, "_test.go") {
		return base + "_test.go"
	}

	return base + ".go"
}

// WriteGeneratedCode reorders code's declarations and writes it to FileName.
// A failed reorder is reported to out and the code is written as generated.
func WriteGeneratedCode(
	code, mockName, pkgName string, getEnv func(string) string, fileWriter Writer, out io.Writer,
) (string, error) {
	const generatedFilePermissions = 0o600

	filename := FileName(mockName, pkgName, getEnv("GOFILE"))

	reordered, err := reorder.Source(code)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		reordered = code
	}

	err = fileWriter.WriteFile(filename, []byte(reordered), generatedFilePermissions)
	if err != nil {
		return "", fmt.Errorf("error writing %s: %w", filename, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", filename)

	return filename, nil
}
