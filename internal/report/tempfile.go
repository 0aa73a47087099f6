package report

import (
	"fmt"
	"os"
)

// Destination is where the runner writes its JSON report for one run.
type Destination struct {
	Path string
	temp bool
}

// Temporary reports whether the file was created for this run only.
func (d Destination) Temporary() bool {
	return d.temp
}

// NewDestination returns explicit when set. Otherwise it creates an empty,
// uniquely named temp file that Release removes.
func NewDestination(explicit string) (Destination, error) {
	if explicit != "" {
		return Destination{Path: explicit}, nil
	}
	f, err := os.CreateTemp("", "stagetest-report-*.json")
	if err != nil {
		return Destination{}, fmt.Errorf("create temp report: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return Destination{}, fmt.Errorf("close temp report: %w", err)
	}
	return Destination{Path: path, temp: true}, nil
}

// Release removes a temporary report file. Removal errors are ignored and
// explicit paths are left alone.
func (d Destination) Release() {
	if !d.Temporary() {
		return
	}
	_ = os.Remove(d.Path)
}
