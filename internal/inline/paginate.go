package inline

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hyperjump/filebot/internal/models"
)

// DefaultPageSize is the number of results requested per inline answer.
const DefaultPageSize = 10

// Searcher is the file search backend. It returns at most maxResults files starting at
// offset, and the offset of the next page ("" when there are no more).
type Searcher interface {
	Search(ctx context.Context, phrase, fileType string, maxResults, offset int) ([]*models.FileRecord, string, error)
}

// ParseOffset converts a continuation token to an offset. Missing, malformed, or
// negative tokens start from the first page.
func ParseOffset(token string) int {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FetchPage runs one search for q at the offset encoded in token.
// Search errors are returned as-is; there are no retries.
func FetchPage(ctx context.Context, s Searcher, q Query, pageSize int, token string) (*models.SearchPage, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	start := time.Now()
	files, next, err := s.Search(ctx, q.Phrase, q.FileType, pageSize, ParseOffset(token))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", q.Phrase, err)
	}
	return &models.SearchPage{
		Files:      files,
		NextOffset: normalizeNextOffset(next),
		Query:      q.Phrase,
		FileType:   q.FileType,
		QueryTime:  time.Since(start).Milliseconds(),
	}, nil
}

// normalizeNextOffset maps every "no more pages" token to "" so Telegram stops paginating.
func normalizeNextOffset(token string) string {
	token = strings.TrimSpace(token)
	if token == "0" {
		return ""
	}
	return token
}
