package inline

import "strings"

// TypeDelimiter separates the search phrase from the file type filter: "matrix | mkv".
const TypeDelimiter = "|"

// Query is a parsed inline query.
type Query struct {
	Phrase string
	// FileType is lower-cased; it is only meaningful when HasFileType is true.
	FileType    string
	HasFileType bool
}

// ParseQuery splits raw inline query text into a phrase and an optional file type.
// Only the first delimiter splits; any later ones stay in the file type.
// An empty phrase is valid and means "most recent files".
func ParseQuery(raw string) Query {
	raw = strings.TrimSpace(raw)
	phrase, fileType, found := strings.Cut(raw, TypeDelimiter)
	if !found {
		return Query{Phrase: raw}
	}
	return Query{
		Phrase:      strings.TrimSpace(phrase),
		FileType:    strings.ToLower(strings.TrimSpace(fileType)),
		HasFileType: true,
	}
}
