// Package service defines the backend-agnostic interfaces and data
// model for the report pipeline.
package service

import "time"

// Task represents a single tracked work item as fetched from the
// project tool. Read-only to this system.
type Task struct {
	ID          int
	Title       string
	Status      string
	Description string

	// DueDate is the due date in unix seconds, 0 if none.
	DueDate int64
}

// Due returns the due date, and false if the task has none.
func (t Task) Due() (time.Time, bool) {
	if t.DueDate == 0 {
		return time.Time{}, false
	}
	return time.Unix(t.DueDate, 0), true
}

// Summary is the model-generated digest of a classified task list.
type Summary struct {
	Text        string
	Model       string
	GeneratedAt time.Time
}
