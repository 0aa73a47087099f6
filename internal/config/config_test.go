package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadMergesFile(t *testing.T) {
	root := t.TempDir()
	data := []byte(`command: python -m pytest
tests_dir: checks
args:
  - -x
warn:
  version_mismatch: false
`)
	if err := os.WriteFile(filepath.Join(root, FileName), data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Config{
		Command:  "python -m pytest",
		TestsDir: "checks",
		Args:     []string{"-x"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
	if got := cfg.CommandLine(); !cmp.Equal(got, []string{"python", "-m", "pytest"}) {
		t.Fatalf("CommandLine() = %q", got)
	}
}

func TestLoadKeepsDefaultsForBlankValues(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("command: \"  \"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Command != DefaultCommand || cfg.Warn.VersionMismatch {
		t.Fatalf("expected defaults to survive, got %+v", cfg)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("args: [unterminated"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(root); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := Default()
	cfg.JSON = true

	ApplyFlags(&cfg, FlagValues{
		Command:    StringFlag{Value: "sh fake.sh", Set: true},
		JSON:       BoolFlag{Value: false, Set: true},
		JSONReport: StringFlag{Value: "report.json", Set: true},
	})

	if cfg.Command != "sh fake.sh" {
		t.Fatalf("command not applied: %+v", cfg)
	}
	if cfg.TestsDir != DefaultTestsDir {
		t.Fatalf("unset flag overrode tests dir: %+v", cfg)
	}
	if cfg.JSON {
		t.Fatalf("explicit --json=false should win")
	}
	if !cfg.JSONMode() {
		t.Fatalf("json report path should enable JSON mode")
	}
}
