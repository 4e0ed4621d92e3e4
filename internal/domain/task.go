package domain

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Priority is the urgency class a task is filed under.
type Priority string

// Possible priority values
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DueDateLayout is the accepted textual form of a due date.
const DueDateLayout = "2006-01-02"

// ParsePriority normalizes user input into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// ParseDueDate parses a YYYY-MM-DD date as midnight UTC. Blank input means
// the task has no due date and yields nil.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(DueDateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDueDate, s)
	}
	return &d, nil
}

// Task is a unit of work assigned to a user. The durable store owns it; the
// urgency cache only ever holds JSON snapshots of it.
type Task struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"     json:"id"`
	Title          string             `bson:"title"             json:"title"`
	Description    string             `bson:"description"       json:"description"`
	Priority       Priority           `bson:"priority"          json:"priority"`
	DueDate        *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	AssignedUserID primitive.ObjectID `bson:"assignedUserId"    json:"assignedUserId"`
	Completed      bool               `bson:"completed"         json:"completed"`
	CreatedAt      time.Time          `bson:"createdAt"         json:"createdAt"`
}

// TaskDraft is the structured input for creating a task. AssignedUserID is
// kept as text because it comes straight from the collaborator; ParseID
// rejects it when empty or malformed.
type TaskDraft struct {
	Title          string     `validate:"required"`
	Description    string     `validate:"max=4096"`
	Priority       Priority   `validate:"required,oneof=high medium low"`
	DueDate        *time.Time
	AssignedUserID string
}

// NewTask builds the record to persist from a validated draft. The task
// starts incomplete and stamped with now; the ID is left for the store.
func NewTask(draft TaskDraft, assignee primitive.ObjectID, now time.Time) *Task {
	return &Task{
		Title:          draft.Title,
		Description:    draft.Description,
		Priority:       draft.Priority,
		DueDate:        draft.DueDate,
		AssignedUserID: assignee,
		Completed:      false,
		CreatedAt:      now.UTC(),
	}
}

// IsUrgent applies the urgency policy to the task at the given instant.
func (t *Task) IsUrgent(now time.Time) bool {
	return IsUrgent(t.Priority, t.DueDate, now)
}
