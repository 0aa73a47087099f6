package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// All selects every stage by running the whole tests directory.
const All = "all"

// ErrInvalidStage indicates a selector that is neither "all" nor an integer.
var ErrInvalidStage = errors.New("invalid stage")

var stageDirRegex = regexp.MustCompile(`^s([0-9]+)$`)

// NotFoundError reports a numeric stage without a matching directory.
type NotFoundError struct {
	Stage     int
	Path      string
	Available []int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("stage %d tests not found at %s", e.Stage, e.Path)
}

// Target is a resolved stage selector.
type Target struct {
	Selector string
	All      bool
	Stage    int
	Path     string
}

// Resolve maps selector to a directory below testsDir. "all" always resolves
// to testsDir itself, whether or not it exists.
func Resolve(testsDir, selector string) (Target, error) {
	if selector == All {
		return Target{Selector: selector, All: true, Path: testsDir}, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(selector))
	if err != nil {
		return Target{}, fmt.Errorf("%w %q", ErrInvalidStage, selector)
	}

	dirs, err := stageDirs(testsDir)
	if err != nil {
		return Target{}, err
	}
	name, ok := dirs[n]
	if !ok {
		return Target{}, &NotFoundError{Stage: n, Path: StagePath(testsDir, n), Available: sortedStages(dirs)}
	}

	return Target{Selector: selector, Stage: n, Path: filepath.Join(testsDir, name)}, nil
}

// Stages returns the stage numbers found in testsDir, sorted ascending without
// duplicates. A missing directory yields no stages.
func Stages(testsDir string) ([]int, error) {
	dirs, err := stageDirs(testsDir)
	if err != nil {
		return nil, err
	}
	return sortedStages(dirs), nil
}

// StageDir returns the directory holding stage n, which may be zero-padded
// (s02) when no s2 exists. ok is false when there is none.
func StageDir(testsDir string, n int) (path string, ok bool, err error) {
	dirs, err := stageDirs(testsDir)
	if err != nil {
		return "", false, err
	}
	name, ok := dirs[n]
	if !ok {
		return "", false, nil
	}
	return filepath.Join(testsDir, name), true, nil
}

// StagePath returns the canonical directory for stage n.
func StagePath(testsDir string, n int) string {
	return filepath.Join(testsDir, fmt.Sprintf("s%d", n))
}

// stageDirs maps stage numbers to directory names in testsDir. The canonical
// s<N> spelling wins over zero-padded ones, otherwise the lowest name wins.
func stageDirs(testsDir string) (map[int]string, error) {
	entries, err := os.ReadDir(testsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[int]string{}, nil
		}
		return nil, fmt.Errorf("read tests dir %q: %w", testsDir, err)
	}

	dirs := make(map[int]string, len(entries))
	for _, entry := range entries {
		match := stageDirRegex.FindStringSubmatch(entry.Name())
		if match == nil || !isDir(testsDir, entry) {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if prev, ok := dirs[n]; ok && prev == fmt.Sprintf("s%d", n) {
			continue
		}
		if prev, ok := dirs[n]; ok && entry.Name() != fmt.Sprintf("s%d", n) && prev < entry.Name() {
			continue
		}
		dirs[n] = entry.Name()
	}
	return dirs, nil
}

// isDir follows symlinks so a linked stage directory still counts.
func isDir(parent string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, entry.Name()))
	return err == nil && info.IsDir()
}

func sortedStages(dirs map[int]string) []int {
	stages := make([]int, 0, len(dirs))
	for n := range dirs {
		stages = append(stages, n)
	}
	sort.Ints(stages)
	return stages
}

// CountTestFiles counts files under dir matching pytest's default discovery
// patterns, test_*.py and *_test.py. A missing dir counts as empty.
func CountTestFiles(dir string) (int, error) {
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if isTestFile(d.Name()) {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %q: %w", dir, err)
	}
	return count, nil
}

func isTestFile(name string) bool {
	if !strings.HasSuffix(name, ".py") {
		return false
	}
	return strings.HasPrefix(name, "test_") || strings.HasSuffix(name, "_test.py")
}
