//nolint:paralleltest // Tests use t.Chdir which is incompatible with t.Parallel
package load_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
	load "github.com/toejough/impmock/impmockgen/run/2_load"
)

func TestPackageDST_CurrentDirIncludesTestFiles(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "store.go"), "package store\n\ntype Store interface{ Len() int }\n")
	writeFile(t, filepath.Join(dir, "store_test.go"), "package store\n\ntype Fake interface{ Get() string }\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not go")

	t.Chdir(dir)

	files, fset, err := load.PackageDST(".")

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(fset).NotTo(BeNil())
	g.Expect(files).To(HaveLen(2))
}

func TestPackageDST_ExcludesTestFilesForOtherPackages(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()
	sub := filepath.Join(dir, "extpkg")

	g.Expect(os.Mkdir(sub, 0o755)).To(Succeed())
	writeFile(t, filepath.Join(sub, "ext.go"), "package extpkg\n\nfunc ExtFunc() {}\n")
	writeFile(t, filepath.Join(sub, "ext_test.go"), "package extpkg\n\nimport \"testing\"\n\nfunc TestExtFunc(t *testing.T) {}\n")

	t.Chdir(dir)

	files, _, err := load.PackageDST("extpkg")

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(files).To(HaveLen(1))
	g.Expect(load.ResolveLocalPackagePath("extpkg")).To(HaveSuffix("extpkg"))
	g.Expect(load.ResolveLocalPackagePath("missing")).To(Equal("missing"))
}

func TestPackageDST_NoGoFiles(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "readme.md"), "# nothing")
	t.Chdir(dir)

	_, _, err := load.PackageDST(".")

	g.Expect(err).To(MatchError(load.ErrNoPackagesFound))
}

func TestDirImportPath(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := t.TempDir()
	nested := filepath.Join(root, "internal", "store")

	g.Expect(os.MkdirAll(nested, 0o755)).To(Succeed())
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/app\n\ngo 1.25\n")

	importPath, err := load.DirImportPath(nested)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(importPath).To(Equal("example.com/app/internal/store"))

	importPath, err = load.DirImportPath(root)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(importPath).To(Equal("example.com/app"))
}

func TestPackageDST_NonexistentPackage(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, _, err := load.PackageDST("nonexistent/package/xyz123")

	g.Expect(err).To(HaveOccurred())
}

func TestParseSources_SkipsUnparseableFiles(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	files, _, err := load.ParseSources([]load.Source{
		{Name: "good.go", Content: []byte("package p\n")},
		{Name: "bad.go", Content: []byte("package p\nfunc {")},
	})

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(files).To(HaveLen(1))

	_, _, err = load.ParseSources([]load.Source{{Name: "bad.go", Content: []byte("func {")}})
	g.Expect(err).To(MatchError(load.ErrNoPackagesFound))
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()

	err := os.WriteFile(name, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}
