package main

import (
	"path/filepath"
	"strings"

	"github.com/bgricker/stagetest/internal/discovery"
	"github.com/bgricker/stagetest/internal/output"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available stages",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dir := testsDir(root, cfg)
	stages, err := discovery.Stages(dir)
	if err != nil {
		return err
	}

	if cfg.JSON {
		return output.NewJSON(cmd.OutOrStdout()).RenderStages(output.StageList{
			TestsDir:        relOrClean(root, dir),
			AvailableStages: stages,
		})
	}

	rows := make([]output.StageRow, 0, len(stages))
	for _, n := range stages {
		path, _, err := discovery.StageDir(dir, n)
		if err != nil {
			return err
		}
		count, err := discovery.CountTestFiles(path)
		if err != nil {
			return err
		}
		rows = append(rows, output.StageRow{Stage: n, Path: relOrClean(root, path), TestFiles: count})
	}
	return output.NewPretty(cmd.OutOrStdout()).RenderStages(relOrClean(root, dir), rows)
}

func relOrClean(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Clean(path)
	}
	if rel == "." || strings.HasPrefix(rel, "..") {
		return filepath.Clean(path)
	}
	return rel
}
