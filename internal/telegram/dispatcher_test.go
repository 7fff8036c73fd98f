package telegram

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hyperjump/filebot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu      sync.Mutex
	queries []models.InlineQuery
	err     error
}

func (h *recordingHandler) Handle(_ context.Context, q models.InlineQuery) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queries = append(h.queries, q)
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queries)
}

type recordingIndexer struct {
	mu     sync.Mutex
	inputs []*models.FileInput
}

func (i *recordingIndexer) IndexFile(_ context.Context, in *models.FileInput) (*models.FileRecord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.inputs = append(i.inputs, in)
	return &models.FileRecord{ID: in.FileUniqueID, FileName: in.FileName, FileType: in.FileType}, nil
}

func inlineUpdate(id string, userID int64, query string) tgbotapi.Update {
	return tgbotapi.Update{InlineQuery: &tgbotapi.InlineQuery{ID: id, From: &tgbotapi.User{ID: userID}, Query: query}}
}

func channelPost(chatID int64, doc *tgbotapi.Document) tgbotapi.Update {
	return tgbotapi.Update{ChannelPost: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}, Document: doc}}
}

func TestDispatch_inlineQuery(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(h)
	d.Dispatch(context.Background(), inlineUpdate("q1", 42, "matrix"))

	require.Equal(t, 1, h.count())
	assert.Equal(t, models.InlineQuery{ID: "q1", UserID: 42, Query: "matrix"}, h.queries[0])
}

func TestDispatch_allowList(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(h, WithAllowedUsers([]int64{42}))

	d.Dispatch(context.Background(), inlineUpdate("q1", 7, "matrix"))
	assert.Equal(t, 0, h.count(), "users outside the allow-list get no answer")

	d.Dispatch(context.Background(), inlineUpdate("q2", 42, "matrix"))
	assert.Equal(t, 1, h.count())
}

func TestDispatch_handlerErrorIsContained(t *testing.T) {
	h := &recordingHandler{err: errors.New("search down")}
	d := NewDispatcher(h)
	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), inlineUpdate("q1", 42, "matrix"))
	})
	assert.Equal(t, 1, h.count())
}

func TestDispatch_channelPost(t *testing.T) {
	idx := &recordingIndexer{}
	d := NewDispatcher(&recordingHandler{}, WithIndexChannels(idx, []int64{-100111}))
	doc := &tgbotapi.Document{FileID: "BQAD1", FileUniqueID: "AgAD1", FileName: "The.Matrix.mkv", FileSize: 10}

	d.Dispatch(context.Background(), channelPost(-100111, doc))
	d.Dispatch(context.Background(), channelPost(-100999, doc))
	d.Dispatch(context.Background(), tgbotapi.Update{ChannelPost: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: -100111}, Text: "hello"}})

	require.Len(t, idx.inputs, 1, "only media from configured channels is indexed")
	assert.Equal(t, "The.Matrix.mkv", idx.inputs[0].FileName)
	assert.Equal(t, models.FileTypeDocument, idx.inputs[0].FileType)
}

func TestDispatch_channelPostWithoutIndexer(t *testing.T) {
	d := NewDispatcher(&recordingHandler{})
	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), channelPost(-100111, &tgbotapi.Document{FileID: "x"}))
	})
}

func TestServe_drainsUntilClosed(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(h)
	updates := make(chan tgbotapi.Update, 20)
	for i := 0; i < 20; i++ {
		updates <- inlineUpdate("q", int64(i), "matrix")
	}
	close(updates)

	require.NoError(t, d.Serve(context.Background(), updates, 4))
	assert.Equal(t, 20, h.count())
}

func TestServe_stopsOnCancel(t *testing.T) {
	d := NewDispatcher(&recordingHandler{})
	updates := make(chan tgbotapi.Update)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- d.Serve(ctx, updates, 2) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestWebhookHandler(t *testing.T) {
	h := &recordingHandler{}
	srv := httptest.NewServer(NewDispatcher(h).WebhookHandler())
	defer srv.Close()

	body := `{"update_id":1,"inline_query":{"id":"q1","from":{"id":42,"is_bot":false,"first_name":"A"},"query":"matrix|video","offset":"10"}}`
	resp, err := http.Post(srv.URL, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, h.count())
	assert.Equal(t, models.InlineQuery{ID: "q1", UserID: 42, Query: "matrix|video", Offset: "10"}, h.queries[0])

	resp, err = http.Post(srv.URL, "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
