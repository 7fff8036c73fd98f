// Package cli provides output helpers for the filebot command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/filebot/internal/models"
	"github.com/hyperjump/filebot/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteSearchPage writes one page of search results to w in the given format.
func WriteSearchPage(w io.Writer, page *models.SearchPage, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, page)
	}
	writeSearchPageText(w, page)
	return nil
}

func writeSearchPageText(w io.Writer, page *models.SearchPage) {
	query := page.Query
	if page.FileType != "" {
		query += " | " + page.FileType
	}
	fmt.Fprintf(w, "\nFound %d files for %q in %dms\n\n", len(page.Files), query, page.QueryTime)
	for i, f := range page.Files {
		writeOneFile(w, i+1, f)
	}
	if page.NextOffset != "" {
		fmt.Fprintf(w, "More results: --offset %s\n", page.NextOffset)
	}
}

func writeOneFile(w io.Writer, rank int, f *models.FileRecord) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "%d. %s\n", rank, f.FileName)
	fmt.Fprintf(w, "   ID: %s | Type: %s | Size: %s\n", f.ID, f.FileType, utils.HumanSize(f.FileSize))
	if f.Caption != "" {
		fmt.Fprintf(w, "   %s\n", Truncate(TruncateWords(f.Caption, 30), 200))
	}
	fmt.Fprintln(w)
}

// WriteFile writes a single file record.
func WriteFile(w io.Writer, f *models.FileRecord, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, f)
	}
	fmt.Fprintf(w, "ID:        %s\n", f.ID)
	fmt.Fprintf(w, "Name:      %s\n", f.FileName)
	fmt.Fprintf(w, "Type:      %s\n", f.FileType)
	fmt.Fprintf(w, "Size:      %s\n", utils.HumanSize(f.FileSize))
	fmt.Fprintf(w, "File ID:   %s\n", f.FileID)
	return nil
}

// WriteStatus writes index statistics.
func WriteStatus(w io.Writer, s *models.IndexStatus, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, s)
	}
	fmt.Fprintf(w, "Files:          %d\n", s.Files)
	for _, t := range models.FileTypes {
		fmt.Fprintf(w, "  %-12s  %d\n", t, s.ByType[t])
	}
	fmt.Fprintf(w, "Indexed docs:   %d\n", s.IndexedDocs)
	fmt.Fprintf(w, "Database:       %s (%s)\n", s.DatabasePath, utils.HumanSize(s.DatabaseBytes))
	fmt.Fprintf(w, "Keyword index:  %s (%s)\n", s.BleveIndexPath, utils.HumanSize(s.IndexBytes))
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Truncate truncates s to maxLen runes and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || utils.RuneLen(s) <= maxLen {
		return s
	}
	return utils.Truncate(s, maxLen) + "..."
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
