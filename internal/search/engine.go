// Package search provides the paginated file search used by inline queries and the API.
package search

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/hyperjump/filebot/internal/config"
	"github.com/hyperjump/filebot/internal/keyword"
	"github.com/hyperjump/filebot/internal/models"
	"github.com/hyperjump/filebot/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "filebot_search_duration_seconds",
		Help:    "Duration of file searches, including page cache hits.",
		Buckets: prometheus.DefBuckets,
	})
	pageCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filebot_search_page_cache_hits_total",
		Help: "Search pages served from the page cache.",
	})
)

type pageKey struct {
	phrase   string
	fileType string
	limit    int
	offset   int
}

type cachedPage struct {
	files []*models.FileRecord
	next  string
}

// Engine searches indexed files. An empty phrase lists the newest files.
// Pages are cached briefly so that a client paging through results sees a stable list.
type Engine struct {
	storage      storage.Storage
	keywordIndex keyword.KeywordIndex
	pages        *expirable.LRU[pageKey, cachedPage]
	fuzzy        bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFuzzyFallback retries searches that find nothing with typo-tolerant matching.
func WithFuzzyFallback(enabled bool) EngineOption {
	return func(e *Engine) { e.fuzzy = enabled }
}

// NewEngine creates a search engine with the given dependencies.
// A zero PageCacheSize disables the page cache.
func NewEngine(
	storage storage.Storage,
	keywordIndex keyword.KeywordIndex,
	cfg *config.SearchConfig,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		storage:      storage,
		keywordIndex: keywordIndex,
		fuzzy:        true,
	}
	if cfg != nil && cfg.PageCacheSize > 0 {
		e.pages = expirable.NewLRU[pageKey, cachedPage](cfg.PageCacheSize, nil, cfg.PageCacheTTL)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search returns up to maxResults files matching phrase (and fileType when set), starting
// at offset, and the offset of the next page as a string, or "" when this is the last page.
func (e *Engine) Search(ctx context.Context, phrase, fileType string, maxResults, offset int) ([]*models.FileRecord, string, error) {
	start := time.Now()
	defer func() { searchDuration.Observe(time.Since(start).Seconds()) }()

	if maxResults <= 0 {
		return nil, "", fmt.Errorf("maxResults must be positive, got %d", maxResults)
	}
	if offset < 0 {
		offset = 0
	}
	key := pageKey{phrase: phrase, fileType: fileType, limit: maxResults, offset: offset}
	if e.pages != nil {
		if p, ok := e.pages.Get(key); ok {
			pageCacheHits.Inc()
			return p.files, p.next, nil
		}
	}

	var (
		files []*models.FileRecord
		next  string
		err   error
	)
	if phrase == "" {
		files, next, err = e.recent(ctx, fileType, maxResults, offset)
	} else {
		files, next, err = e.match(ctx, phrase, fileType, maxResults, offset)
	}
	if err != nil {
		return nil, "", err
	}
	if e.pages != nil {
		e.pages.Add(key, cachedPage{files: files, next: next})
	}
	return files, next, nil
}

// Purge drops all cached pages. Call after the index changes.
func (e *Engine) Purge() {
	if e.pages != nil {
		e.pages.Purge()
	}
}

func (e *Engine) recent(ctx context.Context, fileType string, limit, offset int) ([]*models.FileRecord, string, error) {
	// One extra row tells whether another page exists.
	files, err := e.storage.ListFiles(ctx, fileType, offset, limit+1)
	if err != nil {
		return nil, "", fmt.Errorf("list files: %w", err)
	}
	next := ""
	if len(files) > limit {
		files = files[:limit]
		next = strconv.Itoa(offset + limit)
	}
	return files, next, nil
}

func (e *Engine) match(ctx context.Context, phrase, fileType string, limit, offset int) ([]*models.FileRecord, string, error) {
	res, err := e.keywordIndex.Search(ctx, phrase, fileType, limit, offset, &keyword.SearchOptions{FuzzyFallback: e.fuzzy})
	if err != nil {
		return nil, "", fmt.Errorf("keyword search failed: %w", err)
	}
	ids := make([]string, len(res.Hits))
	for i, hit := range res.Hits {
		ids[i] = hit.ID
	}
	files, err := e.storage.GetFiles(ctx, ids)
	if err != nil {
		return nil, "", fmt.Errorf("load files: %w", err)
	}
	next := ""
	if consumed := offset + len(res.Hits); len(res.Hits) > 0 && uint64(consumed) < res.Total {
		next = strconv.Itoa(consumed)
	}
	return files, next, nil
}

// Status counts stored and indexed files. When paths is set, the on-disk footprint
// is measured too; a failed measurement leaves the sizes at zero.
func (e *Engine) Status(ctx context.Context, paths *config.StorageConfig) (*models.IndexStatus, error) {
	total, err := e.storage.CountFiles(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}
	st := &models.IndexStatus{Files: total, ByType: make(map[string]int64, len(models.FileTypes))}
	for _, t := range models.FileTypes {
		n, err := e.storage.CountFiles(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("count %s files: %w", t, err)
		}
		st.ByType[t] = n
	}
	if st.IndexedDocs, err = e.keywordIndex.DocCount(); err != nil {
		return nil, fmt.Errorf("count indexed docs: %w", err)
	}
	if paths != nil {
		st.DatabasePath = paths.DatabasePath
		st.BleveIndexPath = paths.BleveIndexPath
		if fp, err := storage.MeasureFootprint(paths.DatabasePath, paths.BleveIndexPath); err == nil {
			st.DatabaseBytes = fp.DatabaseBytes
			st.IndexBytes = fp.IndexBytes
		}
	}
	return st, nil
}
