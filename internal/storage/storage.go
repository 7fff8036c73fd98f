// Package storage defines the persistence interface for indexed files.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/filebot/internal/models"
)

// ErrNotFound is returned when a file record does not exist.
var ErrNotFound = errors.New("file not found")

// Storage defines file record persistence operations.
type Storage interface {
	// SaveFile inserts f, or replaces the record with the same ID keeping its CreatedAt.
	SaveFile(ctx context.Context, f *models.FileRecord) error
	GetFile(ctx context.Context, id string) (*models.FileRecord, error)
	// GetFiles returns the records for ids in the same order, skipping missing ones.
	GetFiles(ctx context.Context, ids []string) ([]*models.FileRecord, error)
	DeleteFile(ctx context.Context, id string) error
	// ListFiles returns files newest first, optionally restricted to one file type.
	ListFiles(ctx context.Context, fileType string, offset, limit int) ([]*models.FileRecord, error)

	// Stats
	CountFiles(ctx context.Context, fileType string) (int64, error)

	Close() error
}
