package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bgricker/stagetest/internal/config"
	"github.com/spf13/cobra"
)

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	if flags.Changed("command") {
		v, err := flags.GetString("command")
		if err != nil {
			return values, fmt.Errorf("parse --command: %w", err)
		}
		values.Command = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("tests-dir") {
		v, err := flags.GetString("tests-dir")
		if err != nil {
			return values, fmt.Errorf("parse --tests-dir: %w", err)
		}
		values.TestsDir = config.StringFlag{Value: v, Set: true}
	}

	if flags.Changed("json") {
		v, err := flags.GetBool("json")
		if err != nil {
			return values, fmt.Errorf("parse --json: %w", err)
		}
		values.JSON = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("json-report") {
		v, err := flags.GetString("json-report")
		if err != nil {
			return values, fmt.Errorf("parse --json-report: %w", err)
		}
		values.JSONReport = config.StringFlag{Value: v, Set: true}
	}

	return values, nil
}

// loadConfig resolves the project root, reads its config file and overlays flags.
func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return config.Config{}, "", fmt.Errorf("parse --root: %w", err)
	}
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return config.Config{}, "", fmt.Errorf("determine working directory: %w", err)
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("resolve root %q: %w", root, err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, "", err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, "", err
	}
	config.ApplyFlags(&cfg, flags)

	// The report is read back by this process, so a relative path must not
	// depend on the runner's working directory.
	if cfg.JSONReport != "" && !filepath.IsAbs(cfg.JSONReport) {
		abs, err := filepath.Abs(cfg.JSONReport)
		if err != nil {
			return config.Config{}, "", fmt.Errorf("resolve report path %q: %w", cfg.JSONReport, err)
		}
		cfg.JSONReport = abs
	}

	return cfg, root, nil
}

func testsDir(root string, cfg config.Config) string {
	if filepath.IsAbs(cfg.TestsDir) {
		return cfg.TestsDir
	}
	return filepath.Join(root, cfg.TestsDir)
}
