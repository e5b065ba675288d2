// Package api provides a client for the Todoist API v1.
package api

// Task represents a Todoist task.
type Task struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Content     string    `json:"content"`
	Description string    `json:"description"`
	Checked     bool      `json:"checked"`
	Priority    int       `json:"priority"`
	Due         *Due      `json:"due"`
	Duration    *Duration `json:"duration"`
	ChildOrder  int       `json:"child_order"`
}

// Due represents a task's due date information.
type Due struct {
	String      string  `json:"string"`
	Date        string  `json:"date"`
	IsRecurring bool    `json:"is_recurring"`
	Datetime    *string `json:"datetime"`
	Timezone    *string `json:"timezone"`
}

// Duration represents a task's duration.
type Duration struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"` // "minute" or "day"
}

// Project represents a Todoist project.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	ChildOrder   int    `json:"child_order"`
	InboxProject bool   `json:"inbox_project"`
	IsArchived   bool   `json:"is_archived"`
}

// PaginatedResponse is one page of a list endpoint.
type PaginatedResponse[T any] struct {
	Results    []T     `json:"results"`
	NextCursor *string `json:"next_cursor"`
}

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Content      string `json:"content"`
	Description  string `json:"description,omitempty"`
	ProjectID    string `json:"project_id,omitempty"`
	Priority     int    `json:"priority,omitempty"`
	DueString    string `json:"due_string,omitempty"`
	DueDate      string `json:"due_date,omitempty"`
	DueDatetime  string `json:"due_datetime,omitempty"`
	Duration     int    `json:"duration,omitempty"`
	DurationUnit string `json:"duration_unit,omitempty"`
}

// UpdateTaskRequest represents the request body for updating a task.
type UpdateTaskRequest struct {
	Content      *string `json:"content,omitempty"`
	Priority     *int    `json:"priority,omitempty"`
	DueString    *string `json:"due_string,omitempty"`
	DueDate      *string `json:"due_date,omitempty"`
	DueDatetime  *string `json:"due_datetime,omitempty"`
	Duration     *int    `json:"duration,omitempty"`
	DurationUnit *string `json:"duration_unit,omitempty"`
}

// CreateProjectRequest represents the request body for creating a project.
type CreateProjectRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TaskFilter contains optional filters for listing tasks.
type TaskFilter struct {
	ProjectID string
	IDs       []string
}

// String returns a pointer to s, for optional request fields.
func String(s string) *string { return &s }

// Int returns a pointer to n, for optional request fields.
func Int(n int) *int { return &n }
