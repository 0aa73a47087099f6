package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/bgricker/stagetest/internal/discovery"
	"github.com/bgricker/stagetest/internal/report"
)

// Usage is printed after an invalid stage selector.
const Usage = "Usage: stagetest <stage_number|all> [--json] [--json-report FILE]"

// PrettyRenderer renders human-friendly messages.
type PrettyRenderer struct {
	out io.Writer
}

// StageRow is one line of the stage table.
type StageRow struct {
	Stage     int
	Path      string
	TestFiles int
}

// NewPretty creates a PrettyRenderer writing to the provided writer.
func NewPretty(out io.Writer) *PrettyRenderer {
	return &PrettyRenderer{out: out}
}

// RenderStart announces the run before the runner's own output.
func (p *PrettyRenderer) RenderStart(target discovery.Target) error {
	if target.All {
		_, err := fmt.Fprintln(p.out, "Running all tests...")
		return err
	}
	_, err := fmt.Fprintf(p.out, "Running Stage %d tests...\n", target.Stage)
	return err
}

// RenderInvalidStage explains a rejected selector.
func (p *PrettyRenderer) RenderInvalidStage(message string) error {
	_, err := fmt.Fprintf(p.out, "%s\n%s\n", message, Usage)
	return err
}

// RenderStageNotFound explains a missing stage and lists the ones that exist.
func (p *PrettyRenderer) RenderStageNotFound(message string, available []int) error {
	_, err := fmt.Fprintf(p.out, "%s\nAvailable stages: %s\n", message, FormatStages(available))
	return err
}

// RenderReportSaved prints a one-line summary of a saved report.
func (p *PrettyRenderer) RenderReportSaved(path string, rep report.Report) error {
	summary, ok := rep.Summary()
	if !ok {
		_, err := fmt.Fprintf(p.out, "Report saved to %s\n", path)
		return err
	}
	_, err := fmt.Fprintf(p.out, "Report saved to %s: %d passed, %d failed, %d skipped\n",
		path, summary.Passed, summary.Failed+summary.Errors, summary.Skipped)
	return err
}

// RenderStages renders the stage table.
func (p *PrettyRenderer) RenderStages(testsDir string, rows []StageRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintf(p.out, "No stages found under %s\n", testsDir)
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.AppendHeader(table.Row{"Stage", "Path", "Test Files"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Stage", Align: text.AlignRight},
		{Name: "Test Files", Align: text.AlignRight},
	})

	total := 0
	for _, row := range rows {
		t.AppendRow(table.Row{row.Stage, row.Path, row.TestFiles})
		total += row.TestFiles
	}
	t.AppendFooter(table.Row{"Total", "", total})
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

// FormatStages renders stage numbers as a bracketed, comma separated list.
func FormatStages(stages []int) string {
	parts := make([]string, len(stages))
	for i, s := range stages {
		parts[i] = strconv.Itoa(s)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
