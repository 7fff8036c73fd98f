// Package models defines core data structures for indexed files, inline queries, and answers.
package models

import "time"

// File types recorded for media ingested from Telegram.
const (
	FileTypeDocument = "document"
	FileTypeVideo    = "video"
	FileTypeAudio    = "audio"
)

// FileTypes lists the file types in display order.
var FileTypes = []string{FileTypeDocument, FileTypeVideo, FileTypeAudio}

// FileRecord is a Telegram file that has been indexed and can be re-sent by its file ID.
type FileRecord struct {
	ID           string    `json:"id" db:"id"`
	FileID       string    `json:"file_id" db:"file_id"`
	FileUniqueID string    `json:"file_unique_id" db:"file_unique_id"`
	FileName     string    `json:"file_name" db:"file_name"`
	FileSize     int64     `json:"file_size" db:"file_size"`
	FileType     string    `json:"file_type,omitempty" db:"file_type"`
	MimeType     string    `json:"mime_type,omitempty" db:"mime_type"`
	Caption      string    `json:"caption,omitempty" db:"caption"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// FileInput is the input for indexing a file.
type FileInput struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id,omitempty"`
	FileName     string `json:"file_name,omitempty"`
	FileSize     int64  `json:"file_size"`
	FileType     string `json:"file_type,omitempty"`
	MimeType     string `json:"mime_type,omitempty"`
	Caption      string `json:"caption,omitempty"`
}

// SearchPage is one page of search results plus the token for the next page.
// An empty NextOffset means there are no further pages.
type SearchPage struct {
	Files      []*FileRecord `json:"files"`
	NextOffset string        `json:"next_offset"`
	Query      string        `json:"query"`
	FileType   string        `json:"file_type,omitempty"`
	QueryTime  int64         `json:"query_time_ms"`
}

// IndexStatus summarizes what is indexed and how much disk it uses.
type IndexStatus struct {
	Files          int64            `json:"files"`
	ByType         map[string]int64 `json:"by_type"`
	IndexedDocs    uint64           `json:"indexed_docs"`
	DatabaseBytes  int64            `json:"database_bytes"`
	IndexBytes     int64            `json:"index_bytes"`
	DatabasePath   string           `json:"database_path,omitempty"`
	BleveIndexPath string           `json:"bleve_index_path,omitempty"`
}
