package models

// InlineQuery is a single inline query event as seen by the handler.
type InlineQuery struct {
	ID     string
	UserID int64
	Query  string
	Offset string
}

// MemberStatus is a chat membership status as reported by Telegram.
type MemberStatus string

const (
	MemberStatusCreator       MemberStatus = "creator"
	MemberStatusAdministrator MemberStatus = "administrator"
	MemberStatusMember        MemberStatus = "member"
	MemberStatusRestricted    MemberStatus = "restricted"
	MemberStatusLeft          MemberStatus = "left"
	MemberStatusKicked        MemberStatus = "kicked"
)

// Button is an inline keyboard button. Exactly one of URL or
// SwitchInlineQueryCurrentChat is meaningful for the buttons this bot builds.
type Button struct {
	Text                         string  `json:"text"`
	URL                          string  `json:"url,omitempty"`
	SwitchInlineQueryCurrentChat *string `json:"switch_inline_query_current_chat,omitempty"`
}

// Keyboard is an inline keyboard layout, row by row.
type Keyboard struct {
	Rows [][]Button `json:"rows"`
}

// InlineResult is a cached document result ready to be sent back to Telegram.
type InlineResult struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	DocumentID  string    `json:"document_file_id"`
	Caption     string    `json:"caption"`
	ParseMode   string    `json:"parse_mode"`
	Description string    `json:"description"`
	Keyboard    *Keyboard `json:"reply_markup,omitempty"`
}

// Answer is the complete reply to one inline query.
type Answer struct {
	Results           []*InlineResult `json:"results"`
	CacheTime         int             `json:"cache_time"`
	IsPersonal        bool            `json:"is_personal"`
	SwitchPMText      string          `json:"switch_pm_text"`
	SwitchPMParameter string          `json:"switch_pm_parameter"`
	NextOffset        string          `json:"next_offset"`
}
