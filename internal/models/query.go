package models

import "fmt"

// SearchRequest is a search over the HTTP API. Query uses the inline syntax ("phrase | type").
type SearchRequest struct {
	Query  string `json:"query"`
	Offset string `json:"offset,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// Validate normalizes the limit and rejects oversized queries.
// Inline queries are capped at 256 characters by Telegram; the API applies the same cap.
func (r *SearchRequest) Validate() error {
	if len([]rune(r.Query)) > 256 {
		return fmt.Errorf("query too long")
	}
	if r.Limit <= 0 {
		r.Limit = 10
	}
	if r.Limit > 50 {
		r.Limit = 50
	}
	return nil
}
