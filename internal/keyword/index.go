// Package keyword provides full-text indexing and search over file names.
package keyword

import (
	"context"

	"github.com/hyperjump/filebot/internal/models"
)

// SearchOptions optional parameters for keyword search. Nil means use defaults.
type SearchOptions struct {
	// FuzzyFallback re-runs a search that found nothing with fuzzy term matching.
	FuzzyFallback bool
	// Fuzziness is the maximum Levenshtein edit distance for fuzzy matching (1 or 2).
	// Default is 1.
	Fuzziness int
}

// KeywordIndex defines keyword search operations.
type KeywordIndex interface {
	Index(ctx context.Context, f *models.FileRecord) error
	// Search returns hits ranked by relevance, starting at offset, plus the total hit count.
	// An empty fileType matches every type.
	Search(ctx context.Context, phrase, fileType string, limit, offset int, opts *SearchOptions) (*SearchResult, error)
	Delete(ctx context.Context, id string) error
	// DocCount returns the total number of files in the index.
	DocCount() (uint64, error)
	Close() error
}

// KeywordResult is a single keyword search hit.
type KeywordResult struct {
	ID    string
	Score float64
}

// SearchResult is one page of hits.
type SearchResult struct {
	Hits  []*KeywordResult
	Total uint64
	// Fuzzy is true when the hits come from the fuzzy fallback.
	Fuzzy bool
}
