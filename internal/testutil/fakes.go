// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"
	"time"

	"kbreport/internal/service"
)

// FakeTaskSource is an in-memory service.TaskSource.
type FakeTaskSource struct {
	mu    sync.RWMutex
	tasks []service.Task

	// Err is returned from ListTasks when set.
	Err error

	// Calls counts ListTasks invocations.
	Calls int
}

// NewFakeTaskSource creates a FakeTaskSource with the given tasks.
func NewFakeTaskSource(tasks ...service.Task) *FakeTaskSource {
	return &FakeTaskSource{tasks: tasks}
}

// AddTask appends a task.
func (f *FakeTaskSource) AddTask(t service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t)
}

// ListTasks implements service.TaskSource.
func (f *FakeTaskSource) ListTasks(ctx context.Context, projectID int) ([]service.Task, error) {
	f.mu.Lock()
	f.Calls++
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// FakeSummarizer is a canned service.Summarizer.
type FakeSummarizer struct {
	// Text is the summary returned on success.
	Text string

	// Err is returned from Summarize when set.
	Err error

	// LastPrompt records the prompt from the most recent call.
	LastPrompt string

	// Calls counts Summarize invocations.
	Calls int
}

// Summarize implements service.Summarizer.
func (f *FakeSummarizer) Summarize(ctx context.Context, prompt string) (service.Summary, error) {
	f.Calls++
	f.LastPrompt = prompt
	if f.Err != nil {
		return service.Summary{}, f.Err
	}
	return service.Summary{
		Text:        f.Text,
		Model:       "fake-model",
		GeneratedAt: time.Now(),
	}, nil
}

// FakeNotifier records notifications.
type FakeNotifier struct {
	// Err is returned from Notify when set.
	Err error

	// Calls counts Notify invocations.
	Calls int

	// LastSubject and LastBody record the most recent notification.
	LastSubject string
	LastBody    string
}

// Notify implements service.Notifier.
func (f *FakeNotifier) Notify(ctx context.Context, subject, body string) error {
	f.Calls++
	f.LastSubject = subject
	f.LastBody = body
	return f.Err
}

// FakeWriter records the report text instead of touching the filesystem.
type FakeWriter struct {
	// Err is returned from Write when set.
	Err error

	// Calls counts Write invocations.
	Calls int

	// LastText records the most recent report.
	LastText string

	// Path is returned as the written path on success.
	Path string
}

// Write implements report.Writer.
func (f *FakeWriter) Write(text string, generatedAt time.Time) (string, error) {
	f.Calls++
	f.LastText = text
	if f.Err != nil {
		return "", f.Err
	}
	if f.Path == "" {
		return "fake-report.txt", nil
	}
	return f.Path, nil
}
