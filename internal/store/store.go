// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/mmopane/sitechat/internal/domain"
)

// Repository defines the interface for the site's content collections.
type Repository interface {
	// ListServices retrieves service items, optionally filtered by
	// category, ordered by sort order then title. activeOnly limits the
	// result to published items.
	ListServices(ctx context.Context, category string, activeOnly bool) ([]*domain.ServiceItem, error)

	// GetService retrieves one service item by ID, nil when absent.
	GetService(ctx context.Context, id string) (*domain.ServiceItem, error)

	// CreateService inserts a new service item.
	CreateService(ctx context.Context, item *domain.ServiceItem) error

	// UpdateService replaces an existing service item by ID.
	UpdateService(ctx context.Context, item *domain.ServiceItem) error

	// DeleteService removes a service item by ID.
	DeleteService(ctx context.Context, id string) error

	// ListProjects retrieves gallery projects, newest first, optionally
	// filtered by category.
	ListProjects(ctx context.Context, category string) ([]*domain.Project, error)

	// GetProject retrieves one project by ID, nil when absent.
	GetProject(ctx context.Context, id string) (*domain.Project, error)

	// CreateProject inserts a new project.
	CreateProject(ctx context.Context, p *domain.Project) error

	// UpdateProject replaces an existing project by ID.
	UpdateProject(ctx context.Context, p *domain.Project) error

	// DeleteProject removes a project by ID.
	DeleteProject(ctx context.Context, id string) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
