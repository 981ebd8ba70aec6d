package project

import (
	"context"

	"github.com/xraph/crafting/id"
)

// Store persists projects one row per project. UpsertProject merges by
// (owner, project ID) so writes never replace sibling projects.
type Store interface {
	ListProjects(ctx context.Context, ownerID string) ([]*Project, error)
	GetProject(ctx context.Context, ownerID string, projectID id.ProjectID) (*Project, error)
	UpsertProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, ownerID string, projectID id.ProjectID) error
}
