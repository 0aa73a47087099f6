package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bgricker/stagetest/internal/config"
	"github.com/bgricker/stagetest/internal/discovery"
	"github.com/bgricker/stagetest/internal/output"
	"github.com/bgricker/stagetest/internal/report"
	"github.com/bgricker/stagetest/internal/runner"
	"github.com/bgricker/stagetest/internal/version"
	"github.com/spf13/cobra"
)

func runStage(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	selector := args[0]
	target, err := discovery.Resolve(testsDir(root, cfg), selector)
	if err != nil {
		return renderStageError(cmd, cfg, selector, err)
	}

	jsonMode := cfg.JSONMode()
	if !jsonMode {
		if err := output.NewPretty(cmd.OutOrStdout()).RenderStart(target); err != nil {
			return err
		}
		for _, msg := range detectVersionWarnings(root, cfg) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
		}
	}

	var dest report.Destination
	if jsonMode {
		dest, err = report.NewDestination(cfg.JSONReport)
		if err != nil {
			return err
		}
		defer dest.Release()
	}

	execRunner := runner.New(runner.Options{
		Root:    root,
		Command: cfg.CommandLine(),
		Args:    cfg.Args,
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, runErr := execRunner.Run(ctx, runner.Invocation{Path: target.Path, ReportFile: dest.Path})
	if runErr != nil && !cfg.JSON {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", runErr)
	}

	if jsonMode {
		payload := report.Collect(dest.Path, report.Outcome{
			Stage:    target.Selector,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
			Passed:   result.Passed(),
		})
		if err := renderPayload(cmd, cfg, dest, payload); err != nil {
			return err
		}
	}

	return exitWith(result.ExitCode)
}

// renderPayload prints the payload with --json. A report saved only through
// --json-report gets a summary line on stderr so stdout stays empty.
func renderPayload(cmd *cobra.Command, cfg config.Config, dest report.Destination, payload report.Payload) error {
	if cfg.JSON {
		return output.NewJSON(cmd.OutOrStdout()).Render(payload)
	}
	rep, ok := payload.(report.Report)
	if !ok {
		return nil
	}
	return output.NewPretty(cmd.ErrOrStderr()).RenderReportSaved(dest.Path, rep)
}

func renderStageError(cmd *cobra.Command, cfg config.Config, selector string, err error) error {
	out := cmd.OutOrStdout()

	var notFound *discovery.NotFoundError
	switch {
	case errors.Is(err, discovery.ErrInvalidStage):
		msg := fmt.Sprintf("Error: Invalid stage number '%s'", selector)
		if cfg.JSON {
			err = output.NewJSON(out).RenderInvalidStage(msg)
		} else {
			err = output.NewPretty(out).RenderInvalidStage(msg)
		}
	case errors.As(err, &notFound):
		msg := fmt.Sprintf("Error: Stage %d tests not found at %s", notFound.Stage, notFound.Path)
		if cfg.JSON {
			err = output.NewJSON(out).RenderStageNotFound(msg, notFound.Available)
		} else {
			err = output.NewPretty(out).RenderStageNotFound(msg, notFound.Available)
		}
	default:
		return err
	}
	if err != nil {
		return err
	}
	return exitWith(1)
}

func detectVersionWarnings(root string, cfg config.Config) []string {
	if !cfg.Warn.VersionMismatch {
		return nil
	}

	required, err := version.PinnedPython(root)
	if err != nil {
		return []string{err.Error()}
	}
	if required == "" {
		return nil
	}

	info, detectErr := version.DetectPython()
	if warn := version.Warning(required, info, detectErr); warn != "" {
		return []string{warn}
	}
	return nil
}
