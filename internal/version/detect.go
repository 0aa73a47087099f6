package version

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// PinFile pins the Python version a project expects.
const PinFile = ".python-version"

// Info captures a language version installed on the system.
type Info struct {
	Name    string
	Version string
}

var pythonRegex = regexp.MustCompile(`(?i)python\s+(\d+\.\d+(?:\.\d+)?)`)

// pythonExecutables are tried in order.
var pythonExecutables = []string{"python3", "python"}

// DetectPython returns the system Python version by calling `python3 --version`,
// falling back to `python --version`.
func DetectPython() (Info, error) {
	var lastErr error
	for _, name := range pythonExecutables {
		out, err := runCommand(name, "--version")
		if err != nil {
			lastErr = err
			continue
		}
		return parsePython(out)
	}
	return Info{}, lastErr
}

func parsePython(out string) (Info, error) {
	match := pythonRegex.FindStringSubmatch(out)
	if len(match) < 2 {
		return Info{}, fmt.Errorf("unable to parse python version from %q", out)
	}
	return Info{Name: "python", Version: match[1]}, nil
}

func runCommand(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// PinnedPython reads the first version listed in root/.python-version. An
// absent or empty file yields "".
func PinnedPython(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, PinFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", PinFile, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}
	return "", nil
}

// Warning compares the pinned version against detected and returns a
// human-readable warning, or "" when they agree on major.minor or the pin is
// not a plain version number.
func Warning(required string, detected Info, detectErr error) string {
	// Pins like "system" or "pypy3.10-7.3.12" carry no CPython major.minor.
	if required == "" || required[0] < '0' || required[0] > '9' {
		return ""
	}
	if detectErr != nil {
		if Missing(detectErr) {
			return fmt.Sprintf("python executable not found; required %s", required)
		}
		return fmt.Sprintf("unable to detect python version: %v", detectErr)
	}
	if !CompareMajorMinor(required, detected.Version) {
		return fmt.Sprintf("python version mismatch: required %s (from %s) but found %s", required, PinFile, detected.Version)
	}
	return ""
}

// CompareMajorMinor compares major.minor portions of two semver-like versions.
func CompareMajorMinor(desired, actual string) bool {
	d := semverPrefix(desired)
	a := semverPrefix(actual)
	if d == "" || a == "" {
		return false
	}
	return strings.EqualFold(d, a)
}

func semverPrefix(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return ""
	}
	return fmt.Sprintf("%s.%s", parts[0], parts[1])
}

// Missing reports whether executing the command returns a not-found error.
func Missing(cmdErr error) bool {
	return errors.Is(cmdErr, exec.ErrNotFound)
}
