// Package report renders the task report and persists it to disk.
package report

import (
	"fmt"
	"strings"
	"time"

	"kbreport/internal/classify"
	"kbreport/internal/service"
)

// Report is everything one run produces before delivery.
type Report struct {
	ProjectID   int
	RunID       string
	GeneratedAt time.Time
	Buckets     classify.Buckets

	// Summary is nil until the model call has succeeded.
	Summary *service.Summary
}

// promptHeader is the instruction block sent to the model ahead of the
// rendered task lists.
const promptHeader = `You are a project management assistant.

Summarize the following Kanboard report in:
1. 3 key risk points
2. 3 recommended actions
3. 2 productivity improvement tips

Report:
`

// Prompt builds the model prompt embedding both task lists.
// The Other bucket is counted but its tasks are not sent to the model.
func (r Report) Prompt() string {
	return promptHeader + r.renderTasks(false)
}

// Render produces the final plain-text report: the summary section
// when present, then the raw task report.
func (r Report) Render() string {
	var b strings.Builder
	if r.Summary != nil {
		fmt.Fprintf(&b, "===== Summary (%s) =====\n", r.Summary.Model)
		b.WriteString(r.Summary.Text)
		b.WriteString("\n\n")
	}
	b.WriteString("===== Task Report =====\n")
	b.WriteString(r.renderTasks(true))
	return b.String()
}

// renderTasks renders the header, counts, and bucket sections.
// includeOther controls whether the Other bucket section is listed.
func (r Report) renderTasks(includeOther bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Kanboard Report - Project %d\n", r.ProjectID)
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	if r.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n", r.RunID)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Summary counts: InProgress=%d, Blocked=%d, Other=%d\n\n",
		len(r.Buckets.InProgress), len(r.Buckets.Blocked), len(r.Buckets.Other))

	section(&b, "Work In Progress", r.Buckets.InProgress)
	section(&b, "Blocked / On Hold", r.Buckets.Blocked)
	if includeOther {
		section(&b, "Other", r.Buckets.Other)
	}

	return b.String()
}

func section(b *strings.Builder, title string, tasks []service.Task) {
	fmt.Fprintf(b, "%s:\n", title)
	if len(tasks) == 0 {
		b.WriteString("  None\n\n")
		return
	}
	for _, t := range tasks {
		due := "No due"
		if d, ok := t.Due(); ok {
			due = d.Format("2006-01-02")
		}
		fmt.Fprintf(b, "  - %s (id:%d | due:%s | status:%s)\n", t.Title, t.ID, due, t.Status)
	}
	b.WriteString("\n")
}
