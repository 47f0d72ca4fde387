package core

import (
	"fmt"
	"time"
)

// TaskStatus is the lifecycle state of a task.
// There are no transition restrictions: any status is reachable
// from any other via an explicit command.
type TaskStatus string

const (
	TaskOpen TaskStatus = "open"
	TaskPrio TaskStatus = "prio"
	TaskDone TaskStatus = "done"
)

// ParseTaskStatus converts user input into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskOpen, TaskPrio, TaskDone:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("unknown task status %q (want open, prio or done)", s)
}

// Task is a unit of work linked to a note.
type Task struct {
	// ID is unique and monotonically assigned; IDs are never reused.
	ID uint64 `json:"id"`
	// NoteKey is a soft reference to an existing note. It is checked
	// at creation time, not enforced by the store afterwards.
	NoteKey     string     `json:"note_key"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}
