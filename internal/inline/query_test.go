package inline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Query
	}{
		{"plain phrase", "  inception  ", Query{Phrase: "inception"}},
		{"empty", "", Query{}},
		{"whitespace only", "   ", Query{}},
		{"phrase and type", "matrix | mkv", Query{Phrase: "matrix", FileType: "mkv", HasFileType: true}},
		{"type is lower-cased", "Matrix|MKV ", Query{Phrase: "Matrix", FileType: "mkv", HasFileType: true}},
		{"type only", "| Video", Query{Phrase: "", FileType: "video", HasFileType: true}},
		{"empty type", "matrix |", Query{Phrase: "matrix", FileType: "", HasFileType: true}},
		{"only first delimiter splits", "a | B | C", Query{Phrase: "a", FileType: "b | c", HasFileType: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.raw))
		})
	}
}
