// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/filebot/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		id TEXT PRIMARY KEY,
		file_id TEXT NOT NULL,
		file_unique_id TEXT,
		file_name TEXT NOT NULL,
		file_size INTEGER NOT NULL DEFAULT 0,
		file_type TEXT,
		mime_type TEXT,
		caption TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_files_created_at ON files(created_at);
	CREATE INDEX IF NOT EXISTS idx_files_type_created ON files(file_type, created_at);
	`
	_, err := db.Exec(schema)
	return err
}

const fileColumns = `id, file_id, file_unique_id, file_name, file_size, file_type, mime_type, caption, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*models.FileRecord, error) {
	var f models.FileRecord
	var uniqueID, fileType, mimeType, caption sql.NullString
	if err := row.Scan(&f.ID, &f.FileID, &uniqueID, &f.FileName, &f.FileSize,
		&fileType, &mimeType, &caption, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.FileUniqueID = uniqueID.String
	f.FileType = fileType.String
	f.MimeType = mimeType.String
	f.Caption = caption.String
	return &f, nil
}

// SaveFile inserts or replaces a file record. CreatedAt is preserved on replace.
func (s *SQLiteStorage) SaveFile(ctx context.Context, f *models.FileRecord) error {
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO files (`+fileColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			file_id = excluded.file_id,
			file_unique_id = excluded.file_unique_id,
			file_name = excluded.file_name,
			file_size = excluded.file_size,
			file_type = excluded.file_type,
			mime_type = excluded.mime_type,
			caption = excluded.caption,
			updated_at = excluded.updated_at`,
		f.ID, f.FileID, f.FileUniqueID, f.FileName, f.FileSize,
		f.FileType, f.MimeType, f.Caption, f.CreatedAt, f.UpdatedAt,
	)
	return err
}

// GetFile returns a file record by ID.
func (s *SQLiteStorage) GetFile(ctx context.Context, id string) (*models.FileRecord, error) {
	f, err := scanFile(s.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// GetFiles returns records for ids in the order given. Missing IDs are skipped.
func (s *SQLiteStorage) GetFiles(ctx context.Context, ids []string) ([]*models.FileRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*models.FileRecord, len(ids))
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		byID[f.ID] = f
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]*models.FileRecord, 0, len(byID))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// DeleteFile removes a file record by ID.
func (s *SQLiteStorage) DeleteFile(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ListFiles returns files newest first with offset and limit. An empty fileType lists all types.
func (s *SQLiteStorage) ListFiles(ctx context.Context, fileType string, offset, limit int) ([]*models.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM files`
	var args []any
	if fileType != "" {
		query += ` WHERE file_type = ?`
		args = append(args, fileType)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*models.FileRecord
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// CountFiles returns the number of stored files, optionally of one type.
func (s *SQLiteStorage) CountFiles(ctx context.Context, fileType string) (int64, error) {
	var count int64
	var err error
	if fileType == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files WHERE file_type = ?`, fileType).Scan(&count)
	}
	return count, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
