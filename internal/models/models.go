package models

import (
	"database/sql"
	"time"
)

// Project is the tenant that owns uploaded artifacts. Rows are provisioned
// out-of-band (cmd/provision) and read-only from the request path.
type Project struct {
	ID        int64
	Key       string
	Secret    string
	AuthIP    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// File is one registered artifact: an original upload or a derived PDF or
// image. A row exists only after the bytes are durably on disk at Path.
type File struct {
	ID           int64
	Filename     string
	OriginalName sql.NullString
	MimeType     string
	URI          string
	Path         string
	Size         int64
	Encoding     string
	ProjectID    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
