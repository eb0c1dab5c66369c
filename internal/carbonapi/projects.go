package carbonapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/carbonview/dashboard/internal/domain"
	"github.com/carbonview/dashboard/internal/session"
)

// listOf decodes either a bare JSON array or an object wrapping the array
// under one of keys.
type listOf[T any] struct {
	items []T
	keys  []string
}

func (l *listOf[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '[' {
		return json.Unmarshal(b, &l.items)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	for _, k := range l.keys {
		if raw, ok := obj[k]; ok {
			return json.Unmarshal(raw, &l.items)
		}
	}
	return nil
}

func (l *listOf[T]) result() []T {
	if l.items == nil {
		return []T{}
	}
	return l.items
}

// ListProjects returns the projects visible to id.
func (c *Client) ListProjects(ctx context.Context, id session.Identity) ([]domain.Project, error) {
	out := listOf[domain.Project]{keys: []string{"projects", "items"}}
	if err := c.getJSON(ctx, id, "ListProjects", "/projects", nil, &out); err != nil {
		return nil, err
	}
	return out.result(), nil
}

func (c *Client) GetProject(ctx context.Context, id session.Identity, projectID string) (*domain.Project, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GetProject: project id is required")
	}
	var p domain.Project
	if err := c.getJSON(ctx, id, "GetProject", projectPath(projectID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProject(ctx context.Context, id session.Identity, in domain.ProjectInput) (*domain.Project, error) {
	var p domain.Project
	if err := c.sendJSON(ctx, id, "CreateProject", http.MethodPost, "/projects", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProject(ctx context.Context, id session.Identity, projectID string, in domain.ProjectInput) (*domain.Project, error) {
	var p domain.Project
	if err := c.sendJSON(ctx, id, "UpdateProject", http.MethodPut, projectPath(projectID), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProject(ctx context.Context, id session.Identity, projectID string) error {
	return c.sendJSON(ctx, id, "DeleteProject", http.MethodDelete, projectPath(projectID), nil, nil)
}

// GetHistory returns the project's upload versions as reported by the
// backend's history endpoint.
func (c *Client) GetHistory(ctx context.Context, id session.Identity, projectID string) ([]domain.UploadVersion, error) {
	out := listOf[domain.UploadVersion]{keys: []string{"history", "versions"}}
	if err := c.getJSON(ctx, id, "GetHistory", projectPath(projectID, "history"), nil, &out); err != nil {
		return nil, err
	}
	return out.result(), nil
}
