package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Paths names the files one detection run produced.
type Paths struct {
	JSON string
	Text string
	PDF  string
}

// WriteFiles persists the report under dir as a timestamped JSON and text
// pair, and optionally a PDF. The timestamp comes from the report itself so
// filenames and content agree.
func WriteFiles(r Report, dir string, withPDF bool) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create reports directory: %w", err)
	}

	ts := r.GeneratedAt.UTC().Format("20060102_150405")
	paths := Paths{
		JSON: filepath.Join(dir, fmt.Sprintf("detection_report_%s.json", ts)),
		Text: filepath.Join(dir, fmt.Sprintf("detection_report_%s.txt", ts)),
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return Paths{}, fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(paths.JSON, data, 0o644); err != nil {
		return Paths{}, fmt.Errorf("write json report: %w", err)
	}

	text := Text(r)
	text += "\nReport files:\n"
	text += fmt.Sprintf("- %s\n", paths.Text)
	text += fmt.Sprintf("- %s\n", paths.JSON)
	if err := os.WriteFile(paths.Text, []byte(text), 0o644); err != nil {
		return Paths{}, fmt.Errorf("write text report: %w", err)
	}

	if withPDF {
		paths.PDF = filepath.Join(dir, fmt.Sprintf("detection_report_%s.pdf", ts))
		if err := WritePDF(r, paths.PDF); err != nil {
			return Paths{}, fmt.Errorf("write pdf report: %w", err)
		}
	}

	return paths, nil
}
