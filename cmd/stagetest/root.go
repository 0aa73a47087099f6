package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stagetest <stage_number|all>",
		Short: "Run stage-specific tests",
		Long: `stagetest runs the test runner against one stage of tests/ (tests/s0,
tests/s1, ...) or against all of tests/, and can print or save the
runner's JSON report.`,
		Example: `  stagetest 0
  stagetest 0 --json
  stagetest 0 --json-report report.json
  stagetest all --json
  stagetest list`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runStage,
	}

	persistent := cmd.PersistentFlags()
	persistent.String("root", "", "project root (default: current directory)")
	persistent.String("command", "", "test runner command (default: pytest)")
	persistent.String("tests-dir", "", "tests directory relative to the project root (default: tests)")
	persistent.Bool("json", false, "output results as JSON to stdout")

	cmd.Flags().String("json-report", "", "save the JSON test report to `FILE`")

	cmd.AddCommand(newListCmd())

	return cmd
}
