package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"kbreport/internal/errkind"
)

const step = "write"

// Writer persists a rendered report. Implemented by FileWriter;
// faked in pipeline tests.
type Writer interface {
	// Write stores the report text and returns the path it was
	// written to.
	Write(text string, generatedAt time.Time) (string, error)
}

// FileWriter writes the report under the configured output path.
// When the path names a directory (an existing one, or a path without
// a file extension) the report goes to a timestamped file inside it;
// otherwise the path is used as the exact destination, overwritten on
// each run.
type FileWriter struct {
	Path string
	log  *slog.Logger
}

// NewFileWriter creates a FileWriter for the configured output path.
func NewFileWriter(path string, logger *slog.Logger) *FileWriter {
	return &FileWriter{Path: path, log: logger}
}

// Write stores the report. The write is atomic: the report is staged
// to a temp file and renamed into place, so a crash mid-write never
// leaves a partial report at the destination.
func (w *FileWriter) Write(text string, generatedAt time.Time) (string, error) {
	dest, err := w.destination(generatedAt)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errkind.Newf(step, errkind.Write, "create report directory: %v", err)
		}
	}

	if err := atomic.WriteFile(dest, strings.NewReader(text)); err != nil {
		return "", errkind.Newf(step, errkind.Write, "write %s: %v", dest, err)
	}

	w.log.Info("report written", "path", dest, "bytes", len(text))
	return dest, nil
}

// destination resolves the output file path for this run.
func (w *FileWriter) destination(generatedAt time.Time) (string, error) {
	if w.Path == "" {
		return "", errkind.Newf(step, errkind.Write, "output path is empty")
	}

	isDir := strings.HasSuffix(w.Path, string(os.PathSeparator))
	if !isDir {
		if info, err := os.Stat(w.Path); err == nil {
			isDir = info.IsDir()
		} else {
			isDir = filepath.Ext(w.Path) == ""
		}
	}
	if !isDir {
		return w.Path, nil
	}

	name := fmt.Sprintf("kanboard_report_%s.txt", generatedAt.Format("20060102_150405"))
	return filepath.Join(w.Path, name), nil
}
