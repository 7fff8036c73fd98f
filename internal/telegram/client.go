// Package telegram connects the bot to the Telegram Bot API: it answers inline queries,
// checks channel membership, and feeds updates to the inline handler and the indexer.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hyperjump/filebot/internal/config"
	"github.com/hyperjump/filebot/internal/inline"
	"github.com/hyperjump/filebot/internal/models"
	"github.com/hyperjump/filebot/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client wraps the Bot API. Outgoing answers are rate limited.
type Client struct {
	bot     *tgbotapi.BotAPI
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient connects to the Bot API and verifies the token with getMe.
func NewClient(cfg *config.TelegramConfig, logger *zap.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram token is not set (telegram.token or %s)", config.TokenEnv)
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(cfg.Token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	return newClient(bot, cfg.RateLimit, logger), nil
}

func newClient(bot *tgbotapi.BotAPI, perSecond float64, logger *zap.Logger) *Client {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = max(1, int(perSecond))
	}
	return &Client{
		bot:     bot,
		limiter: rate.NewLimiter(limit, burst),
		logger:  utils.OrNop(logger),
	}
}

// Username returns the bot's username without "@".
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// AnswerInlineQuery sends answer for queryID.
func (c *Client) AnswerInlineQuery(ctx context.Context, queryID string, answer *models.Answer) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	params, err := answerParams(queryID, answer)
	if err != nil {
		return err
	}
	if _, err := c.bot.MakeRequest("answerInlineQuery", params); err != nil {
		return fmt.Errorf("answerInlineQuery: %w", err)
	}
	return nil
}

// answerParams builds answerInlineQuery parameters. cache_time is always sent:
// Telegram caches for 300 seconds when it is missing, and 0 must stay 0.
func answerParams(queryID string, answer *models.Answer) (tgbotapi.Params, error) {
	params := tgbotapi.Params{
		"inline_query_id": queryID,
		"cache_time":      strconv.Itoa(answer.CacheTime),
	}
	params.AddBool("is_personal", answer.IsPersonal)
	params.AddNonEmpty("next_offset", answer.NextOffset)
	params.AddNonEmpty("switch_pm_text", answer.SwitchPMText)
	params.AddNonEmpty("switch_pm_parameter", answer.SwitchPMParameter)
	if err := params.AddInterface("results", toInlineResults(answer.Results)); err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	return params, nil
}

// MemberStatus returns userID's status in chatID. Users who left or never joined
// yield inline.ErrNotMember.
func (c *Client) MemberStatus(ctx context.Context, chatID, userID int64) (models.MemberStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	member, err := c.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
	})
	if err != nil {
		if isNotMemberError(err) {
			return "", fmt.Errorf("%w: %v", inline.ErrNotMember, err)
		}
		return "", fmt.Errorf("getChatMember: %w", err)
	}
	status := models.MemberStatus(member.Status)
	if status == models.MemberStatusLeft {
		return status, inline.ErrNotMember
	}
	return status, nil
}

// isNotMemberError reports whether a Bot API error means the user is not in the chat.
func isNotMemberError(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "user not found") ||
		strings.Contains(msg, "member not found") ||
		strings.Contains(msg, "participant_id_invalid") ||
		strings.Contains(msg, "user_not_participant")
}

// Updates starts long polling and returns the update channel.
func (c *Client) Updates(timeout int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	u.AllowedUpdates = []string{"inline_query", "channel_post"}
	return c.bot.GetUpdatesChan(u)
}

// StopUpdates stops long polling and closes the update channel.
func (c *Client) StopUpdates() {
	c.bot.StopReceivingUpdates()
}

// UseLongPolling removes any webhook so getUpdates works.
func (c *Client) UseLongPolling() error {
	if _, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("deleteWebhook: %w", err)
	}
	return nil
}

// UseWebhook registers url as the webhook for inline queries and channel posts.
func (c *Client) UseWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	wh.AllowedUpdates = []string{"inline_query", "channel_post"}
	if _, err := c.bot.Request(wh); err != nil {
		return fmt.Errorf("setWebhook: %w", err)
	}
	return nil
}
