package run_test

import (
	"bytes"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/dave/dst"
	. "github.com/onsi/gomega"
	"github.com/toejough/impmock/impmockgen/run"
	load "github.com/toejough/impmock/impmockgen/run/2_load"
	detect "github.com/toejough/impmock/impmockgen/run/3_detect"
)

const storeSource = `package store

import "context"

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Len() int
}
`

const blackBoxSource = `package store_test

import "example.com/app/store"

var _ store.Store
`

const consumerSource = `package consumer

import (
	kv "example.com/app/store"
)

var _ kv.Store
`

func TestRun_LocalInterface(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := newFakeFS()
	loader := fakeLoader{packages: map[string]string{".": storeSource}}
	out := &bytes.Buffer{}

	err := run.Run([]string{"impmockgen", "Store"}, env("store", "store.go"), fs, loader, out)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(fs.files).To(HaveKey("generated_StoreMock.go"))

	code := fs.files["generated_StoreMock.go"]
	g.Expect(code).To(ContainSubstring("package store\n"))
	g.Expect(code).To(ContainSubstring("var _ Store = (*StoreMock)(nil)"))
	g.Expect(out.String()).To(ContainSubstring("generated_StoreMock.go written successfully."))
}

func TestRun_CustomName(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := newFakeFS()
	loader := fakeLoader{packages: map[string]string{".": storeSource}}

	err := run.Run(
		[]string{"impmockgen", "Store", "--name", "FakeStore"}, env("store", "store_test.go"), fs, loader, &bytes.Buffer{},
	)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(fs.files).To(HaveKey("generated_FakeStore_test.go"))
	g.Expect(fs.files["generated_FakeStore_test.go"]).To(ContainSubstring("func NewFakeStore("))
}

func TestRun_BlackBoxTestPackage(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := newFakeFS()
	loader := fakeLoader{
		packages:   map[string]string{".": storeSource + "\n", "./black_box": blackBoxSource},
		importPath: "example.com/app/store",
		merged:     true,
	}

	err := run.Run([]string{"impmockgen", "Store"}, env("store_test", "store_test.go"), fs, loader, &bytes.Buffer{})

	g.Expect(err).NotTo(HaveOccurred())

	code := fs.files["generated_StoreMock_test.go"]
	g.Expect(code).To(ContainSubstring("package store_test\n"))
	g.Expect(code).To(ContainSubstring(`store "example.com/app/store"`))
	g.Expect(code).To(ContainSubstring("var _ store.Store = (*StoreMock)(nil)"))
}

func TestRun_QualifiedInterfaceUsesImportAlias(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := newFakeFS()
	loader := fakeLoader{packages: map[string]string{".": consumerSource, "example.com/app/store": storeSource}}

	err := run.Run([]string{"impmockgen", "kv.Store"}, env("consumer", "consumer.go"), fs, loader, &bytes.Buffer{})

	g.Expect(err).NotTo(HaveOccurred())

	code := fs.files["generated_StoreMock.go"]
	g.Expect(code).To(ContainSubstring(`kv "example.com/app/store"`))
	g.Expect(code).To(ContainSubstring("var _ kv.Store = (*StoreMock)(nil)"))
}

func TestRun_PkgFlag(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := newFakeFS()
	loader := fakeLoader{packages: map[string]string{"example.com/app/store": storeSource}}

	err := run.Run(
		[]string{"impmockgen", "Store", "--pkg", "example.com/app/store"},
		env("consumer", "consumer.go"), fs, loader, &bytes.Buffer{},
	)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(fs.files["generated_StoreMock.go"]).To(ContainSubstring("var _ store.Store = (*StoreMock)(nil)"))
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		pkgName string
		want    error
	}{
		{"missing interface argument", []string{"impmockgen"}, "store", nil},
		{"outside go:generate", []string{"impmockgen", "Store"}, "", run.ErrNoPackage},
		{"unknown interface", []string{"impmockgen", "Missing"}, "store", detect.ErrInterfaceNotFound},
		{"unknown qualifier", []string{"impmockgen", "nope.Store"}, "store", detect.ErrImportNotFound},
		{"unknown flag", []string{"impmockgen", "Store", "--bogus"}, "store", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			fs := newFakeFS()
			loader := fakeLoader{packages: map[string]string{".": storeSource}}

			err := run.Run(tt.args, env(tt.pkgName, "store.go"), fs, loader, &bytes.Buffer{})

			g.Expect(err).To(HaveOccurred())
			g.Expect(fs.files).To(BeEmpty())

			if tt.want != nil {
				g.Expect(err).To(MatchError(tt.want))
			}
		})
	}
}

func TestRun_WriteFailure(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	errDisk := errors.New("disk full")
	fs := newFakeFS()
	fs.err = errDisk
	loader := fakeLoader{packages: map[string]string{".": storeSource}}

	err := run.Run([]string{"impmockgen", "Store"}, env("store", "store.go"), fs, loader, &bytes.Buffer{})

	g.Expect(err).To(MatchError(errDisk))
}

type fakeFS struct {
	mu    sync.Mutex
	files map[string]string
	err   error
}

func (f *fakeFS) WriteFile(name string, data []byte, _ os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.files[name] = string(data)

	return nil
}

// fakeLoader serves in-memory packages. With merged set, "." also holds every other
// package's files, as a directory with a black-box test package does.
type fakeLoader struct {
	packages   map[string]string
	importPath string
	merged     bool
}

func (l fakeLoader) ImportPath(string) (string, error) {
	if l.importPath == "" {
		return "", load.ErrNoModule
	}

	return l.importPath, nil
}

func (l fakeLoader) Load(importPath string) ([]*dst.File, error) {
	source, ok := l.packages[importPath]
	if !ok {
		return nil, load.ErrNoPackagesFound
	}

	sources := []load.Source{{Name: "a.go", Content: []byte(source)}}

	if l.merged && importPath == "." {
		for path, other := range l.packages {
			if path != "." {
				sources = append(sources, load.Source{Name: path + ".go", Content: []byte(other)})
			}
		}
	}

	files, _, err := load.ParseSources(sources)

	return files, err
}

func env(pkgName, goFile string) func(string) string {
	return func(key string) string {
		switch key {
		case "GOPACKAGE":
			return pkgName
		case "GOFILE":
			return goFile
		default:
			return ""
		}
	}
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: make(map[string]string)}
}
