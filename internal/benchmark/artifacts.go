package benchmark

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/pose-overlay/internal/fsutil"
)

// Artifact file names written by WriteArtifacts.
const (
	ReportMarkdownFile = "report.md"
	ReportJSONFile     = "benchmark-comparison.json"
	ErrorPlotFile      = "reprojection_error.png"
	ChartHTMLFile      = "benchmark.html"
)

// WriteArtifacts writes the markdown report, JSON comparison, error plot and
// HTML chart page for r into dir.
func WriteArtifacts(fsys fsutil.FileSystem, dir string, r *Report) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := fsys.WriteFile(filepath.Join(dir, ReportMarkdownFile), []byte(r.Markdown()), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown report: %w", err)
	}

	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{ReportJSONFile, r.WriteJSON},
		{ErrorPlotFile, func(w io.Writer) error { return RenderErrorPlot(w, r.Sweep) }},
		{ChartHTMLFile, func(w io.Writer) error { return WriteLatencyChart(w, r) }},
	}
	for _, a := range writers {
		if err := writeArtifact(fsys, filepath.Join(dir, a.name), a.write); err != nil {
			return err
		}
	}

	logf("artifacts for run %s written to %s", r.RunID, dir)
	return nil
}

func writeArtifact(fsys fsutil.FileSystem, path string, write func(io.Writer) error) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	return nil
}
