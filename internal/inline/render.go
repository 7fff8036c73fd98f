package inline

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/hyperjump/filebot/internal/models"
	"github.com/hyperjump/filebot/pkg/utils"
	"golang.org/x/net/html"
)

// Telegram limits for cached document results.
const (
	MaxTitleLen       = 64
	MaxTypeLen        = 50
	MaxCaptionLen     = 1024 // UTF-16 units of the raw HTML caption
	MaxDescriptionLen = 512
	MaxResultIDLen    = 64
)

// ParseModeHTML is the rich-text mode used for captions.
const ParseModeHTML = "HTML"

const shareURLPrefix = "https://t.me/share/url?url="

// RenderOptions configures a Renderer.
type RenderOptions struct {
	// BotUsername is the bot's username without "@".
	BotUsername string
	// ShareText is the share message; "{username}" is replaced with BotUsername.
	ShareText string
	// DeveloperURL is the target of the second keyboard row. Defaults to the bot's t.me link.
	DeveloperURL string
	BrandName    string
	// CaptionFooter is trusted HTML appended to every caption. Defaults to a link to the bot.
	CaptionFooter string
}

// Renderer turns file records into inline results.
type Renderer struct {
	opts   RenderOptions
	header string
	footer string
}

// NewRenderer validates opts and prepares the fixed caption parts.
// It fails when the fixed parts alone cannot fit within MaxCaptionLen.
func NewRenderer(opts RenderOptions) (*Renderer, error) {
	if opts.DeveloperURL == "" {
		opts.DeveloperURL = "https://t.me/" + opts.BotUsername
	}
	r := &Renderer{
		opts:   opts,
		header: fmt.Sprintf("<b>| %s |</b>\n", html.EscapeString(opts.BrandName)),
		footer: opts.CaptionFooter,
	}
	if r.footer == "" {
		r.footer = "Shared via @" + html.EscapeString(opts.BotUsername)
	}
	widest := html.EscapeString(utils.HumanSize(1023))
	if r.fixedCaptionLen(widest) >= MaxCaptionLen {
		return nil, fmt.Errorf("caption header and footer exceed %d characters", MaxCaptionLen)
	}
	return r, nil
}

// Keyboard builds the button layout shared by every result for phrase.
func (r *Renderer) Keyboard(phrase string) *models.Keyboard {
	query := phrase
	return &models.Keyboard{
		Rows: [][]models.Button{
			{
				{Text: "🔎 Search again", SwitchInlineQueryCurrentChat: &query},
				{Text: "💕 Share bot", URL: r.ShareURL()},
			},
			{
				{Text: "😎 Developer", URL: r.opts.DeveloperURL},
			},
		},
	}
}

// ShareURL returns the t.me share link carrying the share message.
func (r *Renderer) ShareURL() string {
	text := strings.ReplaceAll(r.opts.ShareText, "{username}", r.opts.BotUsername)
	return shareURLPrefix + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// Render converts one file into a cached document result with the given keyboard.
func (r *Renderer) Render(file *models.FileRecord, kb *models.Keyboard) *models.InlineResult {
	size := utils.HumanSize(file.FileSize)
	return &models.InlineResult{
		ID:          resultID(file),
		Title:       utils.Truncate(file.FileName, MaxTitleLen),
		DocumentID:  file.FileID,
		Caption:     r.Caption(file.FileName, size),
		ParseMode:   ParseModeHTML,
		Description: r.Description(size, file.FileType),
		Keyboard:    kb,
	}
}

// Caption assembles the HTML caption. Only the file name is shortened when the caption
// would exceed MaxCaptionLen; it is cut on a character boundary before escaping, so no
// entity is ever split.
func (r *Renderer) Caption(name, size string) string {
	escSize := html.EscapeString(size)
	budget := MaxCaptionLen - r.fixedCaptionLen(escSize)
	return r.assembleCaption(escapeWithin(name, budget), escSize)
}

// Description is the plain-text summary shown under the result title.
func (r *Renderer) Description(size, fileType string) string {
	desc := fmt.Sprintf("Size: %s\nType: %s\n© %s", size, utils.Truncate(fileType, MaxTypeLen), r.opts.BrandName)
	return utils.Truncate(desc, MaxDescriptionLen)
}

func (r *Renderer) assembleCaption(escName, escSize string) string {
	var b strings.Builder
	b.WriteString(r.header)
	b.WriteString("📁 <b>File Name:</b> ")
	b.WriteString(escName)
	b.WriteString("\n📦 <b>File Size:</b> ")
	b.WriteString(escSize)
	b.WriteString("\n\n")
	b.WriteString(r.footer)
	return b.String()
}

func (r *Renderer) fixedCaptionLen(escSize string) int {
	return utils.UTF16Len(r.assembleCaption("", escSize))
}

// escapeWithin HTML-escapes s character by character and stops before the escaped
// text would exceed budget UTF-16 units.
func escapeWithin(s string, budget int) string {
	var b strings.Builder
	used := 0
	for _, c := range s {
		esc := html.EscapeString(string(c))
		n := utils.UTF16Len(esc)
		if used+n > budget {
			break
		}
		b.WriteString(esc)
		used += n
	}
	return b.String()
}

// resultID returns the record ID when Telegram accepts it, otherwise a stable UUID
// derived from the file ID.
func resultID(file *models.FileRecord) string {
	if file.ID != "" && len(file.ID) <= MaxResultIDLen {
		return file.ID
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("tg:"+file.FileID)).String()
}
