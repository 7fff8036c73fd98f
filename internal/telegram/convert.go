package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hyperjump/filebot/internal/models"
)

func toInlineResults(results []*models.InlineResult) []interface{} {
	// Keyboards are shared between results; convert each one once.
	keyboards := make(map[*models.Keyboard]*tgbotapi.InlineKeyboardMarkup)
	out := make([]interface{}, 0, len(results))
	for _, r := range results {
		doc := tgbotapi.NewInlineQueryResultCachedDocument(r.ID, r.DocumentID, r.Title)
		doc.Caption = r.Caption
		doc.ParseMode = r.ParseMode
		doc.Description = r.Description
		if r.Keyboard != nil {
			markup, ok := keyboards[r.Keyboard]
			if !ok {
				markup = toMarkup(r.Keyboard)
				keyboards[r.Keyboard] = markup
			}
			doc.ReplyMarkup = markup
		}
		out = append(out, doc)
	}
	return out
}

func toMarkup(kb *models.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			btn := tgbotapi.InlineKeyboardButton{Text: b.Text}
			if b.URL != "" {
				u := b.URL
				btn.URL = &u
			}
			if b.SwitchInlineQueryCurrentChat != nil {
				q := *b.SwitchInlineQueryCurrentChat
				btn.SwitchInlineQueryCurrentChat = &q
			}
			buttons = append(buttons, btn)
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func toInlineQuery(q *tgbotapi.InlineQuery) models.InlineQuery {
	out := models.InlineQuery{ID: q.ID, Query: q.Query, Offset: q.Offset}
	if q.From != nil {
		out.UserID = q.From.ID
	}
	return out
}

// fileInput extracts the indexable media of a channel post. ok is false when the
// post carries no document, video, or audio.
func fileInput(msg *tgbotapi.Message) (in *models.FileInput, ok bool) {
	switch {
	case msg.Document != nil:
		d := msg.Document
		in = &models.FileInput{
			FileID: d.FileID, FileUniqueID: d.FileUniqueID, FileName: d.FileName,
			FileSize: int64(d.FileSize), MimeType: d.MimeType, FileType: models.FileTypeDocument,
		}
	case msg.Video != nil:
		v := msg.Video
		in = &models.FileInput{
			FileID: v.FileID, FileUniqueID: v.FileUniqueID, FileName: v.FileName,
			FileSize: int64(v.FileSize), MimeType: v.MimeType, FileType: models.FileTypeVideo,
		}
	case msg.Audio != nil:
		a := msg.Audio
		name := a.FileName
		if name == "" && a.Title != "" {
			name = a.Title
			if a.Performer != "" {
				name = a.Performer + " - " + a.Title
			}
		}
		in = &models.FileInput{
			FileID: a.FileID, FileUniqueID: a.FileUniqueID, FileName: name,
			FileSize: int64(a.FileSize), MimeType: a.MimeType, FileType: models.FileTypeAudio,
		}
	default:
		return nil, false
	}
	in.Caption = msg.Caption
	return in, true
}
