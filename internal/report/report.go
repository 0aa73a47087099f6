package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// Payload is the JSON document produced for a JSON-mode run: either the
// runner's own Report or a FallbackReport built when that report could not
// be read.
type Payload interface {
	payload()
}

// Report holds the runner's JSON report verbatim, key order included.
type Report struct {
	Raw json.RawMessage
}

func (Report) payload() {}

// FallbackReport stands in for a missing or malformed runner report.
type FallbackReport struct {
	Error    string `json:"error"`
	ExitCode int    `json:"exit_code"`
	Stage    string `json:"stage"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	Passed   bool   `json:"passed"`
}

func (FallbackReport) payload() {}

// Outcome is what the caller knows about the run when building a payload.
type Outcome struct {
	Stage    string
	ExitCode int
	Stdout   string
	Stderr   string
	Passed   bool
}

// Summary is the per-outcome test count block of a pytest-json-report document.
type Summary struct {
	Passed    int `json:"passed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"error"`
	Total     int `json:"total"`
	Collected int `json:"collected"`
}

// Load reads path and checks that it holds a single JSON value.
func Load(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Report{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return Report{Raw: raw}, nil
}

// Fallback builds the payload used when the runner's report is unusable.
func Fallback(cause error, out Outcome) FallbackReport {
	return FallbackReport{
		Error:    fmt.Sprintf("Failed to read JSON report: %v", cause),
		ExitCode: out.ExitCode,
		Stage:    out.Stage,
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		Passed:   out.Passed,
	}
}

// Collect loads the report at path, falling back to a FallbackReport when it
// is missing or not valid JSON. It never fails.
func Collect(path string, out Outcome) Payload {
	rep, err := Load(path)
	if err != nil {
		return Fallback(err, out)
	}
	return rep
}

// Summary decodes the "summary" object of a pytest-json-report document. ok
// is false when the report has no such object.
func (r Report) Summary() (Summary, bool) {
	var doc struct {
		Summary *Summary `json:"summary"`
	}
	if err := json.Unmarshal(r.Raw, &doc); err != nil || doc.Summary == nil {
		return Summary{}, false
	}
	return *doc.Summary, true
}
