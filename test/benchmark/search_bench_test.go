package benchmark

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/hyperjump/filebot/internal/config"
	"github.com/hyperjump/filebot/internal/indexer"
	"github.com/hyperjump/filebot/internal/inline"
	"github.com/hyperjump/filebot/internal/keyword"
	"github.com/hyperjump/filebot/internal/models"
	"github.com/hyperjump/filebot/internal/search"
	"github.com/hyperjump/filebot/internal/storage"
)

func newBenchEngine(b *testing.B, cacheSize int) *search.Engine {
	b.Helper()
	dir := b.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "db.sqlite"))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { store.Close() })
	kw, err := keyword.NewMemoryBleveIndex()
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { kw.Close() })

	engine := search.NewEngine(store, kw, &config.SearchConfig{PageCacheSize: cacheSize})
	idx := indexer.NewIndexer(store, kw)
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		_, err := idx.IndexFile(ctx, &models.FileInput{
			FileID:       fmt.Sprintf("BQAD%d", i),
			FileUniqueID: fmt.Sprintf("AgAD%d", i),
			FileName:     fmt.Sprintf("Episode.%03d.Season.%d.1080p.mkv", i, i%10),
			FileSize:     int64(i * 1024 * 1024),
			FileType:     models.FileTypes[i%3],
		})
		if err != nil {
			b.Fatal(err)
		}
	}
	return engine
}

func BenchmarkEngineSearch(b *testing.B) {
	engine := newBenchEngine(b, 0)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = engine.Search(ctx, "episode season", "", 10, (i%10)*10)
	}
}

func BenchmarkEngineSearchCached(b *testing.B) {
	engine := newBenchEngine(b, 1024)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = engine.Search(ctx, "episode season", "", 10, (i%10)*10)
	}
}

func BenchmarkRender(b *testing.B) {
	r, err := inline.NewRenderer(inline.RenderOptions{BotUsername: "filefinderbot", BrandName: "File Bot"})
	if err != nil {
		b.Fatal(err)
	}
	f := &models.FileRecord{ID: "tg:1", FileID: "BQAD1", FileName: "The <Matrix> & Friends.1999.1080p.BluRay.x264.mkv", FileSize: 1 << 31, FileType: "video"}
	kb := r.Keyboard("matrix")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Render(f, kb)
	}
}
