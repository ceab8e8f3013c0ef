// Package classify partitions fetched tasks into status buckets.
package classify

import "kbreport/internal/service"

// Buckets holds the classified task lists. Every input task lands in
// exactly one bucket; relative input order is preserved within each.
type Buckets struct {
	InProgress []service.Task
	Blocked    []service.Task

	// Other holds tasks matching neither configured label. They are
	// kept rather than dropped so report counts add up to the fetch
	// count; they are listed in the report but not sent to the model.
	Other []service.Task
}

// Total returns the number of classified tasks across all buckets.
func (b Buckets) Total() int {
	return len(b.InProgress) + len(b.Blocked) + len(b.Other)
}

// Split classifies tasks by exact, case-sensitive match of the status
// field against the two configured labels. Pure and deterministic:
// the same input always yields the same buckets in the same order.
func Split(tasks []service.Task, inProgressLabel, blockedLabel string) Buckets {
	var b Buckets
	for _, t := range tasks {
		switch t.Status {
		case inProgressLabel:
			b.InProgress = append(b.InProgress, t)
		case blockedLabel:
			b.Blocked = append(b.Blocked, t)
		default:
			b.Other = append(b.Other, t)
		}
	}
	return b
}
