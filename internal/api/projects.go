package api

import (
	"context"
	"fmt"
)

// GetProjects returns all projects.
// Handles pagination automatically, fetching all pages.
func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	projects, err := getAll[Project](ctx, c, "/projects", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}
	return projects, nil
}

// CreateProject creates a new project.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var project Project
	if err := c.Post(ctx, "/projects", req, &project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}
