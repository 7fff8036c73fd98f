// Package indexer stores incoming Telegram files and adds them to the keyword index.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hyperjump/filebot/internal/fileid"
	"github.com/hyperjump/filebot/internal/keyword"
	"github.com/hyperjump/filebot/internal/models"
	"github.com/hyperjump/filebot/internal/storage"
	"github.com/hyperjump/filebot/pkg/utils"
	"go.uber.org/zap"
)

// ErrMissingFileID is returned when a file has no Telegram file ID to re-send it by.
var ErrMissingFileID = errors.New("file_id is required")

// maxDerivedNameLen bounds names taken from captions.
const maxDerivedNameLen = 64

// reindexBatch is the number of records read per page when rebuilding the index.
const reindexBatch = 500

// Indexer indexes files into storage and the keyword index.
type Indexer struct {
	storage      storage.Storage
	keywordIndex keyword.KeywordIndex
	logger       *zap.Logger // optional; when set, logs debug events
	onChange     func()
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output (file indexed, file deleted, etc.).
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// WithOnChange registers a callback run after every successful index or delete,
// e.g. to purge cached search pages.
func WithOnChange(fn func()) IndexerOption {
	return func(idx *Indexer) { idx.onChange = fn }
}

// NewIndexer creates an indexer with the given dependencies.
func NewIndexer(storage storage.Storage, keywordIndex keyword.KeywordIndex, opts ...IndexerOption) *Indexer {
	idx := &Indexer{
		storage:      storage,
		keywordIndex: keywordIndex,
	}
	for _, opt := range opts {
		opt(idx)
	}
	idx.logger = utils.OrNop(idx.logger)
	return idx
}

// IndexFile stores input and indexes it. Files with a file_unique_id get a stable ID,
// so the same file posted again updates the existing record instead of duplicating it.
func (idx *Indexer) IndexFile(ctx context.Context, input *models.FileInput) (*models.FileRecord, error) {
	if strings.TrimSpace(input.FileID) == "" {
		return nil, ErrMissingFileID
	}
	rec := &models.FileRecord{
		FileID:       strings.TrimSpace(input.FileID),
		FileUniqueID: strings.TrimSpace(input.FileUniqueID),
		FileSize:     input.FileSize,
		FileType:     strings.ToLower(strings.TrimSpace(input.FileType)),
		MimeType:     input.MimeType,
		Caption:      Preprocess(input.Caption),
	}
	if rec.FileSize < 0 {
		rec.FileSize = 0
	}
	if rec.FileUniqueID != "" {
		rec.ID = fileid.DocID(rec.FileUniqueID)
	} else {
		rec.ID = uuid.New().String()
	}
	rec.FileName = displayName(input, rec)

	if existing, err := idx.storage.GetFile(ctx, rec.ID); err == nil {
		rec.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up file: %w", err)
	}
	if err := idx.storage.SaveFile(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}
	if err := idx.keywordIndex.Index(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to index keywords: %w", err)
	}
	idx.changed()
	idx.logger.Debug("file indexed",
		zap.String("id", rec.ID),
		zap.String("name", rec.FileName),
		zap.String("type", rec.FileType),
		zap.Int64("size", rec.FileSize),
	)
	return rec, nil
}

// DeleteFile removes a file from storage and the keyword index.
func (idx *Indexer) DeleteFile(ctx context.Context, id string) error {
	if err := idx.storage.DeleteFile(ctx, id); err != nil {
		return err
	}
	if err := idx.keywordIndex.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete from keyword index: %w", err)
	}
	idx.changed()
	idx.logger.Debug("file deleted", zap.String("id", id))
	return nil
}

// Reindex adds every stored file to the keyword index again. Use it after the index
// directory was removed or the mapping changed. Returns the number of files indexed.
func (idx *Indexer) Reindex(ctx context.Context) (n int, err error) {
	for offset := 0; ; offset += reindexBatch {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		files, err := idx.storage.ListFiles(ctx, "", offset, reindexBatch)
		if err != nil {
			return n, fmt.Errorf("failed to list files: %w", err)
		}
		for _, f := range files {
			if err := idx.keywordIndex.Index(ctx, f); err != nil {
				return n, fmt.Errorf("failed to index %s: %w", f.ID, err)
			}
			n++
		}
		if len(files) < reindexBatch {
			break
		}
	}
	idx.changed()
	idx.logger.Info("reindex complete", zap.Int("files", n))
	return n, nil
}

func (idx *Indexer) changed() {
	if idx.onChange != nil {
		idx.onChange()
	}
}

// displayName picks the name shown in results: the file name, else the first caption
// line, else the type and a short ID.
func displayName(input *models.FileInput, rec *models.FileRecord) string {
	if name := Preprocess(input.FileName); name != "" {
		return name
	}
	if line, _, _ := strings.Cut(strings.TrimSpace(input.Caption), "\n"); strings.TrimSpace(line) != "" {
		return utils.Truncate(Preprocess(line), maxDerivedNameLen)
	}
	kind := rec.FileType
	if kind == "" {
		kind = "file"
	}
	short := strings.TrimPrefix(rec.ID, "tg:")
	if len(short) > 8 {
		short = short[:8]
	}
	return kind + "_" + short
}
