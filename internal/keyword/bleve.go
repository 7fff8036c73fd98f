// Package keyword provides Bleve implementation of KeywordIndex.
package keyword

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	unicodetokenizer "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/filebot/internal/models"
)

const (
	fieldName    = "name"
	fieldCaption = "caption"
	fieldType    = "type"

	nameBoost = 3.0

	// fileNameAnalyzer lowercases and tokenizes without stop words or stemming,
	// so every query term must be present in the name as typed.
	fileNameAnalyzer = "filename"
)

// BleveIndex implements KeywordIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path.
// If the path already exists, the existing index is opened and reused.
// If you change the index mapping in code, remove the index directory to force a full re-index.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	im, err := newMapping()
	if err != nil {
		return nil, err
	}
	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// NewMemoryBleveIndex creates an in-memory index. Used by tests and one-off CLI runs.
func NewMemoryBleveIndex() (*BleveIndex, error) {
	im, err := newMapping()
	if err != nil {
		return nil, err
	}
	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

func newMapping() (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()
	err := im.AddCustomAnalyzer(fileNameAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicodetokenizer.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register analyzer: %w", err)
	}

	docMapping := bleve.NewDocumentMapping()
	// File names are pre-split on separators by NormalizeName.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = fileNameAnalyzer
	textFieldMapping.Store = false
	docMapping.AddFieldMappingsAt(fieldName, textFieldMapping)
	docMapping.AddFieldMappingsAt(fieldCaption, textFieldMapping)

	// Keyword mapping: the type filter is an exact, lower-cased term.
	typeFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt(fieldType, typeFieldMapping)

	im.AddDocumentMapping("file", docMapping)
	im.DefaultType = "file"
	im.DefaultMapping = docMapping
	im.DefaultAnalyzer = fileNameAnalyzer
	return im, nil
}

// Index adds or replaces the file under its ID.
func (b *BleveIndex) Index(ctx context.Context, f *models.FileRecord) error {
	doc := map[string]interface{}{
		fieldName:    NormalizeName(f.FileName),
		fieldCaption: f.Caption,
		fieldType:    strings.ToLower(f.FileType),
	}
	return b.index.Index(f.ID, doc)
}

// Search matches every term of phrase against file names (boosted) or captions,
// optionally restricted to one file type. Ties are broken by ID so pages are stable.
func (b *BleveIndex) Search(ctx context.Context, phrase, fileType string, limit, offset int, opts *SearchOptions) (*SearchResult, error) {
	fuzzyFallback := false
	fuzziness := 1
	if opts != nil {
		fuzzyFallback = opts.FuzzyFallback
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
	}

	res, err := b.run(ctx, b.buildQuery(phrase, fileType, 0), limit, offset)
	if err != nil {
		return nil, err
	}
	if res.Total > 0 || !fuzzyFallback || len(tokenizeQuery(phrase)) == 0 {
		return res, nil
	}
	res, err = b.run(ctx, b.buildQuery(phrase, fileType, fuzziness), limit, offset)
	if err != nil {
		return nil, err
	}
	res.Fuzzy = true
	return res, nil
}

func (b *BleveIndex) run(ctx context.Context, q blevequery.Query, limit, offset int) (*SearchResult, error) {
	req := bleve.NewSearchRequestOptions(q, limit, offset, false)
	req.SortBy([]string{"-_score", "_id"})
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := &SearchResult{Hits: make([]*KeywordResult, len(results.Hits)), Total: results.Total}
	for i, hit := range results.Hits {
		out.Hits[i] = &KeywordResult{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// buildQuery builds (name:terms^boost OR caption:terms) AND type:fileType.
// With fuzziness > 0 every term is matched fuzzily.
func (b *BleveIndex) buildQuery(phrase, fileType string, fuzziness int) blevequery.Query {
	var text blevequery.Query
	if terms := tokenizeQuery(phrase); len(terms) == 0 {
		text = bleve.NewMatchAllQuery()
	} else {
		name := fieldQuery(terms, fieldName, fuzziness)
		name.SetBoost(nameBoost)
		text = bleve.NewDisjunctionQuery(name, fieldQuery(terms, fieldCaption, fuzziness))
	}
	if fileType == "" {
		return text
	}
	tq := bleve.NewTermQuery(strings.ToLower(fileType))
	tq.SetField(fieldType)
	return bleve.NewConjunctionQuery(text, tq)
}

// fieldQuery requires every term to match field.
func fieldQuery(terms []string, field string, fuzziness int) *blevequery.ConjunctionQuery {
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		if fuzziness > 0 {
			fq := bleve.NewFuzzyQuery(term)
			fq.SetFuzziness(fuzziness)
			fq.SetField(field)
			queries = append(queries, fq)
			continue
		}
		mq := bleve.NewMatchQuery(term)
		mq.SetField(field)
		queries = append(queries, mq)
	}
	return bleve.NewConjunctionQuery(queries...)
}

// tokenizeQuery splits a normalized query into lowercase terms. Terms without a letter
// or digit ("&", "|") would analyze to nothing and are dropped.
func tokenizeQuery(query string) []string {
	words := strings.Fields(strings.ToLower(NormalizeName(query)))
	terms := words[:0]
	for _, w := range words {
		if strings.IndexFunc(w, isWordRune) >= 0 {
			terms = append(terms, w)
		}
	}
	return terms
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// NormalizeName replaces the separators common in release-style file names with spaces
// so "The.Matrix.1999.1080p.mkv" is searchable as "matrix 1999". The standard analyzer
// does not split on dots between letters or on underscores.
func NormalizeName(name string) string {
	return nameSeparators.Replace(name)
}

var nameSeparators = strings.NewReplacer(
	".", " ", "_", " ", "-", " ", "+", " ",
	"[", " ", "]", " ", "(", " ", ")", " ", "{", " ", "}", " ",
)

// Delete removes a file from the index.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of files in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}
