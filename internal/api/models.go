package api

import (
	"time"

	"github.com/phrazzld/taskcache/internal/domain"
)

// TaskResponse is the wire form of a task returned by the endpoint.
type TaskResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Priority       string     `json:"priority"`
	DueDate        string     `json:"dueDate,omitempty"`
	AssignedUserID string     `json:"assignedUserId"`
	Completed      bool       `json:"completed"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

// taskToResponse converts a cached task snapshot. Due dates are rendered in
// the same YYYY-MM-DD form they are entered in.
func taskToResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:             task.ID.Hex(),
		Title:          task.Title,
		Description:    task.Description,
		Priority:       string(task.Priority),
		AssignedUserID: task.AssignedUserID.Hex(),
		Completed:      task.Completed,
	}
	if task.DueDate != nil {
		resp.DueDate = task.DueDate.UTC().Format(domain.DueDateLayout)
	}
	if !task.CreatedAt.IsZero() {
		createdAt := task.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		if task == nil {
			continue
		}
		out = append(out, taskToResponse(task))
	}
	return out
}
