package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bgricker/stagetest/internal/discovery"
	"github.com/bgricker/stagetest/internal/report"
)

func TestPrettyRenderStart(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewPretty(buf)
	if err := r.RenderStart(discovery.Target{Stage: 2}); err != nil {
		t.Fatalf("render start: %v", err)
	}
	if err := r.RenderStart(discovery.Target{All: true}); err != nil {
		t.Fatalf("render start: %v", err)
	}
	if got, want := buf.String(), "Running Stage 2 tests...\nRunning all tests...\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrettyRenderStageNotFound(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewPretty(buf).RenderStageNotFound("Error: Stage 99 tests not found at tests/s99", []int{0}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Available stages: [0]\n") {
		t.Fatalf("expected available stages, got %q", buf.String())
	}
}

func TestPrettyRenderInvalidStage(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewPretty(buf).RenderInvalidStage("Error: Invalid stage number 'abc'"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasSuffix(buf.String(), Usage+"\n") {
		t.Fatalf("expected usage line, got %q", buf.String())
	}
}

func TestPrettyRenderReportSaved(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewPretty(buf)
	rep := report.Report{Raw: []byte(`{"summary": {"passed": 2, "failed": 1, "error": 1}}`)}
	if err := r.RenderReportSaved("out.json", rep); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, want := buf.String(), "Report saved to out.json: 2 passed, 2 failed, 0 skipped\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrettyRenderStages(t *testing.T) {
	buf := &bytes.Buffer{}
	rows := []StageRow{
		{Stage: 0, Path: "tests/s0", TestFiles: 1},
		{Stage: 1, Path: "tests/s1", TestFiles: 2},
	}
	if err := NewPretty(buf).RenderStages("tests", rows); err != nil {
		t.Fatalf("render stages: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"STAGE", "TEST FILES", "tests/s0", "tests/s1", "TOTAL"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table, got:\n%s", want, out)
		}
	}
}

func TestPrettyRenderNoStages(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewPretty(buf).RenderStages("tests", nil); err != nil {
		t.Fatalf("render stages: %v", err)
	}
	if got := buf.String(); got != "No stages found under tests\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestFormatStages(t *testing.T) {
	cases := map[string][]int{
		"[]":        nil,
		"[0]":       {0},
		"[0, 1, 5]": {0, 1, 5},
	}
	for want, in := range cases {
		if got := FormatStages(in); got != want {
			t.Fatalf("FormatStages(%v) = %q, want %q", in, got, want)
		}
	}
}
