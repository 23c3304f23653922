//go:build targ

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
	"github.com/toejough/targ"
	"github.com/toejough/targ/file"
	"github.com/toejough/targ/sh"
)

// Build builds the local impmockgen binary.
func Build() error {
	fmt.Println("Building impmockgen...")

	if err := os.MkdirAll("bin", 0o755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	return sh.Run("go", "build", "-o", "bin/impmockgen", "./impmockgen")
}

// Check runs all checks & fixes on the code, in order of correctness.
func Check() error {
	fmt.Println("Checking...")

	return targ.Deps(
		Tidy,
		CheckCoverage,
		ReorderDecls,
		Lint,
	)
}

// CheckCoverage checks that every function meets the minimum coverage.
func CheckCoverage() error {
	const minimum = 80.0

	fmt.Println("Checking coverage...")

	if err := targ.Deps(Test); err != nil {
		return err
	}

	out, err := output("go", "tool", "cover", "-func=coverage.out")
	if err != nil {
		return err
	}

	percentPattern := regexp.MustCompile(`(\d+\.\d)%$`)
	covered := []functionCoverage{}

	for _, line := range strings.Split(out, "\n") {
		if skipCoverageLine(line) {
			continue
		}

		match := percentPattern.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}

		percent, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return fmt.Errorf("bad coverage line %q: %w", line, err)
		}

		covered = append(covered, functionCoverage{line, percent})
	}

	if len(covered) == 0 {
		return nil
	}

	slices.SortStableFunc(covered, func(a, b functionCoverage) int {
		switch {
		case a.percent < b.percent:
			return -1
		case a.percent > b.percent:
			return 1
		default:
			return 0
		}
	})

	for _, each := range covered {
		fmt.Println(each.line)
	}

	if worst := covered[0]; worst.percent < minimum {
		return fmt.Errorf("function coverage was less than the limit of %.1f:\n  %s", minimum, worst.line)
	}

	return nil
}

// CheckForFail runs all checks on the code for determining whether any fail.
func CheckForFail() error {
	fmt.Println("Checking...")

	return targ.Deps(
		ReorderDeclsCheck,
		LintForFail,
		TestForFail,
		CheckCoverage,
	)
}

// Clean cleans up the dev env.
func Clean() {
	fmt.Println("Cleaning...")

	_ = os.Remove("coverage.out")
	_ = os.RemoveAll("bin")
}

// Generate runs go generate on all packages using the locally-built impmockgen.
func Generate() error {
	fmt.Println("Generating...")

	if err := targ.Deps(Build); err != nil {
		return err
	}

	binDir, err := filepath.Abs("bin")
	if err != nil {
		return fmt.Errorf("failed to get absolute path for bin: %w", err)
	}

	cmd := exec.Command("go", "generate", "./...")
	cmd.Env = append(os.Environ(), "PATH="+binDir+string(filepath.ListSeparator)+os.Getenv("PATH"))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// Lint lints the codebase.
func Lint() error {
	fmt.Println("Linting...")
	return sh.Run("golangci-lint", "run", "./...")
}

// LintForFail lints the codebase purely to find out whether anything fails.
func LintForFail() error {
	fmt.Println("Linting to check for overall pass/fail...")

	return sh.Run(
		"golangci-lint", "run",
		"--fix=false",
		"--max-issues-per-linter=1",
		"--max-same-issues=1",
	)
}

// Mutate runs the mutation tests.
func Mutate() error {
	fmt.Println("Running mutation tests...")

	if err := targ.Deps(TestForFail); err != nil {
		return err
	}

	return sh.Run("go", "test", "-timeout=6000s", "-tags=mutation", "-ooze.v", "./dev", "-run=TestMutation")
}

// ReorderDecls reorders declarations in hand-written Go files.
func ReorderDecls() error {
	fmt.Println("Reordering declarations...")

	reorderedCount := 0

	err := eachSourceFile(func(name, content string) error {
		reordered, err := reorder.Source(content)
		if err != nil {
			fmt.Printf("Warning: failed to reorder %s: %v\n", name, err)

			return nil
		}

		if content == reordered {
			return nil
		}

		err = os.WriteFile(name, []byte(reordered), 0o600)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}

		fmt.Printf("  Reordered: %s\n", name)
		reorderedCount++

		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Reordered %d file(s).\n", reorderedCount)

	return nil
}

// ReorderDeclsCheck reports files whose declarations are out of order, with a diff.
func ReorderDeclsCheck() error {
	fmt.Println("Checking declaration order...")

	outOfOrder := 0
	processed := 0

	err := eachSourceFile(func(name, content string) error {
		sectionOrder, err := reorder.AnalyzeSectionOrder(content)
		if err != nil {
			fmt.Printf("Warning: failed to analyze %s: %v\n", name, err)

			return nil
		}

		reordered, err := reorder.Source(content)
		if err != nil {
			fmt.Printf("Warning: failed to reorder %s: %v\n", name, err)

			return nil
		}

		processed++

		if content == reordered {
			return nil
		}

		outOfOrder++

		fmt.Printf("\n%s:\n", name)

		for i, section := range sectionOrder.Sections {
			if section.Expected != i+1 {
				fmt.Printf("  %s is at #%d, should be #%d\n", section.Name, i+1, section.Expected)
			}
		}

		fmt.Printf("\n%s\n", textdiff.Unified(name+" (current)", name+" (reordered)", content, reordered))

		return nil
	})
	if err != nil {
		return err
	}

	if outOfOrder > 0 {
		return fmt.Errorf("%d of %d file(s) need reordering; run 'targ reorder-decls' to fix", outOfOrder, processed)
	}

	fmt.Printf("All files are correctly ordered (%d files processed).\n", processed)

	return nil
}

// Test runs the unit tests with race detection and coverage.
func Test() error {
	fmt.Println("Running unit tests...")

	if err := targ.Deps(Generate); err != nil {
		return err
	}

	return sh.Run(
		"go", "test",
		"-timeout=2m",
		"-race",
		"-count=1",
		"-coverprofile=coverage.out",
		"-coverpkg=./,./internal/...,./match/...,./impmockgen/...",
		"./...",
	)
}

// TestForFail runs the unit tests purely to find out whether any fail.
func TestForFail() error {
	fmt.Println("Running unit tests for overall pass/fail...")

	if err := targ.Deps(Generate); err != nil {
		return err
	}

	return sh.Run("go", "test", "-timeout=30s", "./...", "-failfast")
}

// Tidy tidies up go.mod.
func Tidy() error {
	fmt.Println("Tidying go.mod...")
	return sh.Run("go", "mod", "tidy")
}

// Watch re-runs Check whenever files change.
func Watch(ctx context.Context) error {
	fmt.Println("Watching...")

	return file.Watch(ctx, []string{"**/*.go", "**/*.toml", "**/*.yaml"}, file.WatchOptions{},
		func(changes file.ChangeSet) error {
			if !hasRelevantChanges(changes) {
				return nil
			}

			fmt.Println("Change detected...")

			targ.ResetDeps()

			if err := Check(); err != nil {
				fmt.Println("continuing to watch after check failure (see errors above)")
			} else {
				fmt.Println("continuing to watch after all checks passed!")
			}

			return nil
		})
}

type functionCoverage struct {
	line    string
	percent float64
}

// eachSourceFile calls visit with every hand-written Go file under the working directory.
func eachSourceFile(visit func(name, content string) error) error {
	return filepath.WalkDir(".", func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", path, err)
		}

		if entry.IsDir() {
			if path != "." && (strings.HasPrefix(entry.Name(), ".") || strings.HasPrefix(entry.Name(), "_") ||
				entry.Name() == "vendor") {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) != ".go" || strings.Contains(path, "generated_") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		if isGenerated(content) {
			return nil
		}

		return visit(path, string(content))
	})
}

func hasRelevantChanges(changes file.ChangeSet) bool {
	all := slices.Concat(changes.Added, changes.Removed, changes.Modified)

	return slices.ContainsFunc(all, func(name string) bool {
		return !strings.Contains(name, "generated_") && !strings.HasSuffix(name, "coverage.out")
	})
}

func isGenerated(content []byte) bool {
	header := string(content[:min(len(content), 200)])

	return strings.Contains(header, "Code generated") || strings.Contains(header, "DO NOT EDIT")
}

// output runs a command and captures stdout only.
func output(command string, args ...string) (string, error) {
	var buf strings.Builder

	cmd := exec.Command(command, args...)
	cmd.Stdout = &buf
	cmd.Stderr = os.Stderr
	err := cmd.Run()

	return strings.TrimSuffix(buf.String(), "\n"), err
}

func skipCoverageLine(line string) bool {
	return strings.Contains(line, "total:") || strings.Contains(line, "main.go") ||
		strings.Contains(line, "generated_")
}
