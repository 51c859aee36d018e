package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mmopane/sitechat/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS services (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		summary TEXT,
		bullets_json TEXT,
		image_url TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_services_category ON services(category, sort_order);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		category TEXT,
		description TEXT,
		image_url TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_projects_created ON projects(created_at DESC);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListServices retrieves service items ordered by sort order then title.
func (s *SQLiteStore) ListServices(ctx context.Context, category string, activeOnly bool) ([]*domain.ServiceItem, error) {
	query := `
		SELECT id, title, category, summary, bullets_json, image_url, active, sort_order, created_at, updated_at
		FROM services WHERE 1=1`
	args := []any{}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	if activeOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY sort_order, title`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var items []*domain.ServiceItem
	for rows.Next() {
		item, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetService retrieves one service item by ID.
func (s *SQLiteStore) GetService(ctx context.Context, id string) (*domain.ServiceItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, category, summary, bullets_json, image_url, active, sort_order, created_at, updated_at
		FROM services WHERE id = ?`, id)

	item, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return item, err
}

// CreateService inserts a new service item.
func (s *SQLiteStore) CreateService(ctx context.Context, item *domain.ServiceItem) error {
	bullets, err := json.Marshal(item.Bullets)
	if err != nil {
		return fmt.Errorf("encode bullets: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO services (id, title, category, summary, bullets_json, image_url, active, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.Category, item.Summary, string(bullets),
		item.ImageURL, boolToInt(item.Active), item.SortOrder,
		item.CreatedAt.Unix(), item.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

// UpdateService replaces an existing service item by ID.
func (s *SQLiteStore) UpdateService(ctx context.Context, item *domain.ServiceItem) error {
	bullets, err := json.Marshal(item.Bullets)
	if err != nil {
		return fmt.Errorf("encode bullets: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE services
		SET title = ?, category = ?, summary = ?, bullets_json = ?, image_url = ?, active = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		item.Title, item.Category, item.Summary, string(bullets),
		item.ImageURL, boolToInt(item.Active), item.SortOrder,
		time.Now().Unix(), item.ID,
	)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return requireRow(result, "service", item.ID)
}

// DeleteService removes a service item by ID.
func (s *SQLiteStore) DeleteService(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return requireRow(result, "service", id)
}

// ListProjects retrieves gallery projects, newest first.
func (s *SQLiteStore) ListProjects(ctx context.Context, category string) ([]*domain.Project, error) {
	query := `
		SELECT id, title, category, description, image_url, created_at, updated_at
		FROM projects`
	args := []any{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject retrieves one project by ID.
func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, category, description, image_url, created_at, updated_at
		FROM projects WHERE id = ?`, id)

	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// CreateProject inserts a new project.
func (s *SQLiteStore) CreateProject(ctx context.Context, p *domain.Project) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, title, category, description, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Category, p.Description, p.ImageURL,
		p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// UpdateProject replaces an existing project by ID.
func (s *SQLiteStore) UpdateProject(ctx context.Context, p *domain.Project) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE projects
		SET title = ?, category = ?, description = ?, image_url = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Category, p.Description, p.ImageURL, time.Now().Unix(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return requireRow(result, "project", p.ID)
}

// DeleteProject removes a project by ID.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireRow(result, "project", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanService(row rowScanner) (*domain.ServiceItem, error) {
	var item domain.ServiceItem
	var summary, bullets, imageURL sql.NullString
	var active int
	var createdAt, updatedAt int64

	err := row.Scan(
		&item.ID, &item.Title, &item.Category, &summary, &bullets,
		&imageURL, &active, &item.SortOrder, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan service row: %w", err)
	}

	item.Summary = summary.String
	item.ImageURL = imageURL.String
	item.Active = active != 0
	item.CreatedAt = time.Unix(createdAt, 0)
	item.UpdatedAt = time.Unix(updatedAt, 0)
	if bullets.String != "" {
		// Older rows may hold malformed bullet JSON; treat as no bullets.
		_ = json.Unmarshal([]byte(bullets.String), &item.Bullets)
	}
	return &item, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var category, description, imageURL sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(&p.ID, &p.Title, &category, &description, &imageURL, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan project row: %w", err)
	}

	p.Category = category.String
	p.Description = description.String
	p.ImageURL = imageURL.String
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}

// ErrNotFound is returned when an update or delete matched no row.
var ErrNotFound = errors.New("record not found")

func requireRow(result sql.Result, kind, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
