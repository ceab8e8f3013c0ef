package service

import "context"

// TaskSource fetches the task list for a project. Implemented by the
// Kanboard backend. Commands never import the backend directly.
type TaskSource interface {
	// ListTasks returns all tasks for the project in API order.
	// A single attempt; no retries.
	ListTasks(ctx context.Context, projectID int) ([]Task, error)
}

// Summarizer turns a prompt into generated text. Implemented by the
// Hugging Face backend.
type Summarizer interface {
	// Summarize submits the prompt and returns the generated summary.
	Summarize(ctx context.Context, prompt string) (Summary, error)
}

// Notifier delivers the finished report. Implemented by the SMTP
// mailer; absent entirely when email is disabled.
type Notifier interface {
	// Notify sends the report body with the given subject.
	Notify(ctx context.Context, subject, body string) error
}
