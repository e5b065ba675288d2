package api

import (
	"context"
	"fmt"
)

// GetTasks returns all active tasks, optionally filtered by project or ids.
// Handles pagination automatically, fetching all pages.
func (c *Client) GetTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	tasks, err := getAll[Task](ctx, c, "/tasks", buildFilterQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a single task by ID.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := c.Get(ctx, "/tasks/"+id, &task); err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", id, err)
	}
	return &task, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	var task Task
	if err := c.Post(ctx, "/tasks", req, &task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

// UpdateTask updates an existing task.
func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*Task, error) {
	var task Task
	if err := c.Post(ctx, "/tasks/"+id, req, &task); err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", id, err)
	}
	return &task, nil
}

// CloseTask marks a task as completed. Recurring tasks move to their next
// due date instead.
func (c *Client) CloseTask(ctx context.Context, id string) error {
	if err := c.Post(ctx, "/tasks/"+id+"/close", nil, nil); err != nil {
		return fmt.Errorf("failed to close task %s: %w", id, err)
	}
	return nil
}
