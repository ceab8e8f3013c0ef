// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"kbreport/internal/classify"
	"kbreport/internal/service"
)

const (
	// SectionSeparator is the separator line for bucket sections.
	SectionSeparator = "------------"
)

// FormatBuckets prints the classified buckets as sections.
func FormatBuckets(w io.Writer, b classify.Buckets) {
	FormatSection(w, "Work In Progress", b.InProgress)
	FormatSection(w, "Blocked / On Hold", b.Blocked)
	FormatSection(w, "Other", b.Other)
}

// FormatSection prints one bucket section with its task count.
func FormatSection(w io.Writer, title string, tasks []service.Task) {
	fmt.Fprintln(w, SectionSeparator)
	fmt.Fprintf(w, "%s (%d)\n", title, len(tasks))
	fmt.Fprintln(w, SectionSeparator)
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	for i, task := range tasks {
		FormatTask(w, i+1, task)
	}
}

// FormatTask formats a task line.
// Format: "{N:>4}  {TITLE}  [id:{ID}]\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s  [id:%d]\n", num, normalizeTitle(task.Title), task.ID)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
