package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project configuration file read from the project root.
const FileName = ".stagetest.yml"

const (
	// DefaultCommand is the test runner invoked against a stage directory.
	DefaultCommand = "pytest"
	// DefaultTestsDir holds the s<N> stage directories.
	DefaultTestsDir = "tests"
)

// Config captures CLI options sourced from config files or flags.
type Config struct {
	Command  string   `yaml:"command"`
	TestsDir string   `yaml:"tests_dir"`
	Args     []string `yaml:"args"`

	JSON       bool   `yaml:"json"`
	JSONReport string `yaml:"json_report"`

	Warn WarnConfig `yaml:"warn"`
}

// WarnConfig controls additional warning behaviour.
type WarnConfig struct {
	VersionMismatch bool `yaml:"version_mismatch"`
}

// Default returns the baseline configuration used when no flags or config file specify values.
func Default() Config {
	return Config{
		Command:  DefaultCommand,
		TestsDir: DefaultTestsDir,
	}
}

// CommandLine splits Command on whitespace.
func (c Config) CommandLine() []string {
	return strings.Fields(c.Command)
}

// JSONMode reports whether the runner should be asked for a JSON report.
func (c Config) JSONMode() bool {
	return c.JSON || c.JSONReport != ""
}

// Load reads .stagetest.yml from the project root when present. Missing files are ignored.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	cfg = merge(cfg, fileCfg)
	return cfg, nil
}

// fileConfig mirrors Config for decoding, keeping track of keys left out of the file.
type fileConfig struct {
	Command    string   `yaml:"command"`
	TestsDir   string   `yaml:"tests_dir"`
	Args       []string `yaml:"args"`
	JSON       bool     `yaml:"json"`
	JSONReport string   `yaml:"json_report"`
	Warn       struct {
		VersionMismatch *bool `yaml:"version_mismatch"`
	} `yaml:"warn"`
}

func merge(base Config, override fileConfig) Config {
	out := base

	if strings.TrimSpace(override.Command) != "" {
		out.Command = override.Command
	}
	if strings.TrimSpace(override.TestsDir) != "" {
		out.TestsDir = override.TestsDir
	}
	if len(override.Args) > 0 {
		out.Args = append([]string{}, override.Args...)
	}
	if override.JSON {
		out.JSON = true
	}
	if override.JSONReport != "" {
		out.JSONReport = override.JSONReport
	}
	if override.Warn.VersionMismatch != nil {
		out.Warn.VersionMismatch = *override.Warn.VersionMismatch
	}

	return out
}

// ApplyFlags mutates cfg by applying values from CLI flags when they are present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if flags.Command.Set {
		cfg.Command = flags.Command.Value
	}
	if flags.TestsDir.Set {
		cfg.TestsDir = flags.TestsDir.Value
	}
	if flags.JSON.Set {
		cfg.JSON = flags.JSON.Value
	}
	if flags.JSONReport.Set {
		cfg.JSONReport = flags.JSONReport.Value
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag was set explicitly.
type FlagValues struct {
	Command    StringFlag
	TestsDir   StringFlag
	JSON       BoolFlag
	JSONReport StringFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}
