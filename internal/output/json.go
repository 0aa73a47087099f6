package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bgricker/stagetest/internal/report"
)

// JSONRenderer emits machine readable output.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

type invalidStage struct {
	Error string `json:"error"`
}

type stageNotFound struct {
	Error           string `json:"error"`
	AvailableStages []int  `json:"available_stages"`
}

// StageList captures `list --json` output.
type StageList struct {
	TestsDir        string `json:"tests_dir"`
	AvailableStages []int  `json:"available_stages"`
}

// Render pretty-prints a payload with two-space indentation.
func (j *JSONRenderer) Render(payload report.Payload) error {
	switch p := payload.(type) {
	case report.Report:
		var buf bytes.Buffer
		if err := json.Indent(&buf, p.Raw, "", "  "); err != nil {
			return fmt.Errorf("indent report: %w", err)
		}
		buf.WriteByte('\n')
		_, err := buf.WriteTo(j.out)
		return err
	case report.FallbackReport:
		return j.encode(p, "  ")
	default:
		return fmt.Errorf("unsupported payload %T", payload)
	}
}

// RenderInvalidStage writes {"error": message} on one line.
func (j *JSONRenderer) RenderInvalidStage(message string) error {
	return j.encode(invalidStage{Error: message}, "")
}

// RenderStageNotFound writes the error and the available stages on one line.
func (j *JSONRenderer) RenderStageNotFound(message string, available []int) error {
	if available == nil {
		available = []int{}
	}
	return j.encode(stageNotFound{Error: message, AvailableStages: available}, "")
}

// RenderStages writes the stage list.
func (j *JSONRenderer) RenderStages(list StageList) error {
	if list.AvailableStages == nil {
		list.AvailableStages = []int{}
	}
	return j.encode(list, "  ")
}

func (j *JSONRenderer) encode(v any, indent string) error {
	enc := json.NewEncoder(j.out)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(v)
}
