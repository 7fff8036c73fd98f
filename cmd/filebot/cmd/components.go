package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/hyperjump/filebot/internal/config"
	"github.com/hyperjump/filebot/internal/indexer"
	"github.com/hyperjump/filebot/internal/keyword"
	"github.com/hyperjump/filebot/internal/search"
	"github.com/hyperjump/filebot/internal/storage"
	"go.uber.org/zap"
)

// errLocked means another process owns the data directory.
var errLocked = errors.New("data directory is in use by another filebot process (is 'filebot serve' running? use --server)")

// Components are the storage, index, and search services shared by all commands.
type Components struct {
	Storage      *storage.SQLiteStorage
	KeywordIndex *keyword.BleveIndex
	Engine       *search.Engine
	Indexer      *indexer.Indexer
	lock         *flock.Flock
}

// Close releases the index, the database, and the instance lock.
func (c *Components) Close() {
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.lock != nil {
		_ = c.lock.Unlock()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	lock, err := acquireLock(cfg.Storage.LockPath)
	if err != nil {
		return nil, err
	}
	c := &Components{lock: lock}

	c.Storage, err = storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.KeywordIndex, err = keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	c.Engine = search.NewEngine(c.Storage, c.KeywordIndex, &cfg.Search)
	idxOpts := []indexer.IndexerOption{indexer.WithOnChange(c.Engine.Purge)}
	if debug {
		idxOpts = append(idxOpts, indexer.WithLogger(logger))
	}
	c.Indexer = indexer.NewIndexer(c.Storage, c.KeywordIndex, idxOpts...)
	return c, nil
}

// acquireLock takes the instance lock without blocking. Bleve's store would
// otherwise wait forever on a second opener.
func acquireLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", errLocked, path)
	}
	return lock, nil
}
