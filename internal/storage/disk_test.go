package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMeasureFootprint(t *testing.T) {
	dir := t.TempDir()

	db := filepath.Join(dir, "files.db")
	if err := os.WriteFile(db, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(db+"-wal", []byte("wal"), 0644); err != nil {
		t.Fatal(err)
	}

	idx := filepath.Join(dir, "bleve")
	if err := os.MkdirAll(filepath.Join(idx, "store"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(idx, "index_meta.json"), []byte("ab"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(idx, "store", "seg"), []byte("c"), 0644); err != nil {
		t.Fatal(err)
	}

	fp, err := MeasureFootprint(db, idx)
	if err != nil {
		t.Fatal(err)
	}
	if fp.DatabaseBytes != 8 {
		t.Errorf("database bytes = %d, want 8", fp.DatabaseBytes)
	}
	if fp.IndexBytes != 3 {
		t.Errorf("index bytes = %d, want 3", fp.IndexBytes)
	}
	if fp.Total() != 11 {
		t.Errorf("total = %d, want 11", fp.Total())
	}
}

func TestMeasureFootprint_missingPaths(t *testing.T) {
	dir := t.TempDir()
	fp, err := MeasureFootprint(filepath.Join(dir, "nope.db"), filepath.Join(dir, "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if fp.Total() != 0 {
		t.Errorf("missing paths should count as zero, got %+v", fp)
	}
}
