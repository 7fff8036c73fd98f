package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hyperjump/filebot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileInput(t *testing.T) {
	tests := []struct {
		name string
		msg  *tgbotapi.Message
		want *models.FileInput
	}{
		{
			name: "document",
			msg: &tgbotapi.Message{
				Caption: "The Matrix (1999)",
				Document: &tgbotapi.Document{
					FileID: "BQAD1", FileUniqueID: "AgAD1", FileName: "The.Matrix.1999.mkv",
					MimeType: "video/x-matroska", FileSize: 1536,
				},
			},
			want: &models.FileInput{
				FileID: "BQAD1", FileUniqueID: "AgAD1", FileName: "The.Matrix.1999.mkv", FileSize: 1536,
				FileType: models.FileTypeDocument, MimeType: "video/x-matroska", Caption: "The Matrix (1999)",
			},
		},
		{
			name: "video",
			msg: &tgbotapi.Message{
				Video: &tgbotapi.Video{FileID: "BAAD2", FileUniqueID: "AgAD2", FileName: "clip.mp4", MimeType: "video/mp4", FileSize: 2048},
			},
			want: &models.FileInput{
				FileID: "BAAD2", FileUniqueID: "AgAD2", FileName: "clip.mp4", FileSize: 2048,
				FileType: models.FileTypeVideo, MimeType: "video/mp4",
			},
		},
		{
			name: "audio without file name uses performer and title",
			msg: &tgbotapi.Message{
				Audio: &tgbotapi.Audio{FileID: "CQAD3", FileUniqueID: "AgAD3", Performer: "Daft Punk", Title: "Veridis Quo", FileSize: 4096},
			},
			want: &models.FileInput{
				FileID: "CQAD3", FileUniqueID: "AgAD3", FileName: "Daft Punk - Veridis Quo", FileSize: 4096,
				FileType: models.FileTypeAudio,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fileInput(tt.msg)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileInput_noMedia(t *testing.T) {
	_, ok := fileInput(&tgbotapi.Message{Text: "hello"})
	assert.False(t, ok)
}

func TestToInlineQuery(t *testing.T) {
	q := toInlineQuery(&tgbotapi.InlineQuery{ID: "q1", From: &tgbotapi.User{ID: 42}, Query: "matrix|video", Offset: "10"})
	assert.Equal(t, models.InlineQuery{ID: "q1", UserID: 42, Query: "matrix|video", Offset: "10"}, q)

	q = toInlineQuery(&tgbotapi.InlineQuery{ID: "q2"})
	assert.Zero(t, q.UserID)
}

func TestToInlineResults_sharesMarkup(t *testing.T) {
	kb := &models.Keyboard{Rows: [][]models.Button{{{Text: "😎 Developer", URL: "https://t.me/hyperjump"}}}}
	out := toInlineResults([]*models.InlineResult{
		{ID: "a", DocumentID: "A", Title: "a", Keyboard: kb},
		{ID: "b", DocumentID: "B", Title: "b", Keyboard: kb},
		{ID: "c", DocumentID: "C", Title: "c"},
	})
	require.Len(t, out, 3)
	a := out[0].(tgbotapi.InlineQueryResultCachedDocument)
	b := out[1].(tgbotapi.InlineQueryResultCachedDocument)
	c := out[2].(tgbotapi.InlineQueryResultCachedDocument)
	assert.Equal(t, "document", a.Type)
	assert.Same(t, a.ReplyMarkup, b.ReplyMarkup)
	assert.Nil(t, c.ReplyMarkup)
	require.NotNil(t, a.ReplyMarkup.InlineKeyboard[0][0].URL)
	assert.Equal(t, "https://t.me/hyperjump", *a.ReplyMarkup.InlineKeyboard[0][0].URL)
	assert.Nil(t, a.ReplyMarkup.InlineKeyboard[0][0].SwitchInlineQueryCurrentChat)
}

func TestToInlineResults_empty(t *testing.T) {
	out := toInlineResults(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
