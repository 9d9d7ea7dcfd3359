package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"fileconvert-backend/internal/models"
)

type Client struct {
	db *sql.DB
}

func NewClient(connectionString string) (*Client, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

// CreateFile registers one artifact. Callers must not invoke this until the
// underlying bytes are durably on disk at file.Path.
func (c *Client) CreateFile(file *models.File) (*models.File, error) {
	err := c.db.QueryRow(`
		INSERT INTO files (filename, originalname, mimetype, uri, path, size, encoding, project_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, file.Filename, file.OriginalName, file.MimeType, file.URI, file.Path,
		file.Size, file.Encoding, file.ProjectID).Scan(
		&file.ID, &file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return file, nil
}

func (c *Client) GetFileByFilename(filename string) (*models.File, error) {
	var file models.File
	err := c.db.QueryRow(`
		SELECT id, filename, originalname, mimetype, uri, path, size, encoding, project_id, created_at, updated_at
		FROM files
		WHERE filename = $1
	`, filename).Scan(
		&file.ID, &file.Filename, &file.OriginalName, &file.MimeType, &file.URI,
		&file.Path, &file.Size, &file.Encoding, &file.ProjectID,
		&file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return &file, nil
}

// DeleteFileByFilename removes a single artifact row. Used only by the
// pipeline when rolling back a partially registered conversion chain.
func (c *Client) DeleteFileByFilename(filename string) error {
	_, err := c.db.Exec(`
		DELETE FROM files
		WHERE filename = $1
	`, filename)
	return err
}

func (c *Client) GetProjectBySecret(secret string) (*models.Project, error) {
	var project models.Project
	err := c.db.QueryRow(`
		SELECT id, key, secret, auth_ip, created_at, updated_at
		FROM project
		WHERE secret = $1
	`, secret).Scan(
		&project.ID, &project.Key, &project.Secret, &project.AuthIP,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

func (c *Client) GetProjectByKey(key string) (*models.Project, error) {
	var project models.Project
	err := c.db.QueryRow(`
		SELECT id, key, secret, auth_ip, created_at, updated_at
		FROM project
		WHERE key = $1
	`, key).Scan(
		&project.ID, &project.Key, &project.Secret, &project.AuthIP,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

func (c *Client) CreateProject(project *models.Project) (*models.Project, error) {
	err := c.db.QueryRow(`
		INSERT INTO project (key, secret, auth_ip)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, project.Key, project.Secret, project.AuthIP).Scan(
		&project.ID, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and every artifact it owns in one
// transaction. The cascade is explicit rather than schema-implicit so the
// catalog contract is visible at the call site.
func (c *Client) DeleteProject(key string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM files
		WHERE project_id = (SELECT id FROM project WHERE key = $1)
	`, key); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete project files: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM project
		WHERE key = $1
	`, key); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return tx.Commit()
}

func (c *Client) Close() error {
	return c.db.Close()
}
