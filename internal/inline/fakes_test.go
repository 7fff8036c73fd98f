package inline

import (
	"context"
	"fmt"
	"sync"

	"github.com/hyperjump/filebot/internal/models"
)

type searchCall struct {
	phrase     string
	fileType   string
	maxResults int
	offset     int
}

type fakeSearcher struct {
	mu    sync.Mutex
	files []*models.FileRecord
	next  string
	err   error
	calls []searchCall
}

func (f *fakeSearcher) Search(_ context.Context, phrase, fileType string, maxResults, offset int) ([]*models.FileRecord, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, searchCall{phrase, fileType, maxResults, offset})
	if f.err != nil {
		return nil, "", f.err
	}
	return f.files, f.next, nil
}

type fakeMembers struct {
	status models.MemberStatus
	err    error
	calls  int
}

func (f *fakeMembers) MemberStatus(_ context.Context, _, _ int64) (models.MemberStatus, error) {
	f.calls++
	return f.status, f.err
}

type answerCall struct {
	queryID string
	answer  *models.Answer
}

type fakeAnswerer struct {
	mu    sync.Mutex
	calls []answerCall
	err   error
}

func (f *fakeAnswerer) AnswerInlineQuery(_ context.Context, queryID string, answer *models.Answer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, answerCall{queryID, answer})
	return f.err
}

func testFiles(n int) []*models.FileRecord {
	files := make([]*models.FileRecord, n)
	for i := range files {
		files[i] = &models.FileRecord{
			ID:       fmt.Sprintf("tg:%d", i),
			FileID:   fmt.Sprintf("BQACAgUAAx%d", i),
			FileName: fmt.Sprintf("Inception.2010.part%d.mkv", i),
			FileSize: int64(1024 * (i + 1)),
			FileType: "video",
		}
	}
	return files
}

func testRenderer() *Renderer {
	r, err := NewRenderer(RenderOptions{
		BotUsername:  "filefinderbot",
		ShareText:    "Find any file with @{username} & share it",
		DeveloperURL: "https://t.me/hyperjump",
		BrandName:    "Kuttu Bot",
	})
	if err != nil {
		panic(err)
	}
	return r
}
