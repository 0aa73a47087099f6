package version

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestSemverPrefix(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"3.12.1", "3.12"},
		{"3.9", "3.9"},
		{"", ""},
		{"3", ""},
	}
	for _, c := range cases {
		if got := semverPrefix(c.in); got != c.want {
			t.Fatalf("semverPrefix(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCompareMajorMinor(t *testing.T) {
	tests := []struct {
		desired string
		actual  string
		match   bool
	}{
		{"3.12.1", "3.12.4", true},
		{"3.12", "3.12.4", true},
		{"3.11", "3.12.0", false},
		{"", "3.12.0", false},
		{"3.12", "", false},
	}
	for _, tt := range tests {
		if got := CompareMajorMinor(tt.desired, tt.actual); got != tt.match {
			t.Fatalf("CompareMajorMinor(%q,%q)=%v want %v", tt.desired, tt.actual, got, tt.match)
		}
	}
}

func TestParsePython(t *testing.T) {
	info, err := parsePython("Python 3.11.6")
	if err != nil {
		t.Fatalf("parsePython: %v", err)
	}
	if info.Version != "3.11.6" {
		t.Fatalf("unexpected version %q", info.Version)
	}
	if _, err := parsePython("command not found"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestPinnedPython(t *testing.T) {
	root := t.TempDir()
	if got, err := PinnedPython(root); err != nil || got != "" {
		t.Fatalf("missing pin file: got %q, %v", got, err)
	}

	if err := os.WriteFile(filepath.Join(root, PinFile), []byte("# pinned\n\n3.12.2\n3.11\n"), 0o644); err != nil {
		t.Fatalf("write pin file: %v", err)
	}
	got, err := PinnedPython(root)
	if err != nil {
		t.Fatalf("PinnedPython: %v", err)
	}
	if got != "3.12.2" {
		t.Fatalf("PinnedPython = %q, want 3.12.2", got)
	}
}

func TestWarning(t *testing.T) {
	if msg := Warning("3.12", Info{Version: "3.12.1"}, nil); msg != "" {
		t.Fatalf("expected no warning, got %q", msg)
	}
	if msg := Warning("3.11", Info{Version: "3.12.1"}, nil); !strings.Contains(msg, "mismatch") {
		t.Fatalf("expected mismatch warning, got %q", msg)
	}
	notFound := &exec.Error{Name: "python3", Err: exec.ErrNotFound}
	if msg := Warning("3.12", Info{}, notFound); !strings.Contains(msg, "not found") {
		t.Fatalf("expected missing warning, got %q", msg)
	}
	if msg := Warning("3.12", Info{}, errors.New("boom")); !strings.Contains(msg, "boom") {
		t.Fatalf("expected detection error, got %q", msg)
	}
}

func TestWarningSkipsNonNumericPins(t *testing.T) {
	for _, pin := range []string{"system", "pypy3.10-7.3.12", "miniconda3-latest"} {
		if msg := Warning(pin, Info{Version: "3.12.1"}, nil); msg != "" {
			t.Fatalf("Warning(%q) = %q, want none", pin, msg)
		}
		notFound := &exec.Error{Name: "python3", Err: exec.ErrNotFound}
		if msg := Warning(pin, Info{}, notFound); msg != "" {
			t.Fatalf("Warning(%q) with missing python = %q, want none", pin, msg)
		}
	}
}
